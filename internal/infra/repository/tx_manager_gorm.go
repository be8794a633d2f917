package repository

import (
	"context"

	repo "invitation/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	templates repo.TemplateRepository
	orders    repo.OrderRepository
	payments  repo.PaymentRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Templates() repo.TemplateRepository { return r.templates }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }
func (r *txReposGorm) Payments() repo.PaymentRepository   { return r.payments }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			templates: NewTemplateGormRepository(tx),
			orders:    NewOrderGormRepository(tx),
			payments:  NewPaymentGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
