package usecase_test

import (
	"context"
	"time"

	"invitation/internal/domain/model"
	"invitation/internal/payment"
	repo "invitation/internal/repository"
	"invitation/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos

	// fnが返したエラー（nilならコミット扱い）
	LastErr error
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	m.LastErr = fn(m.Repos)
	return m.LastErr
}

type TxReposMock struct {
	templates repo.TemplateRepository
	orders    repo.OrderRepository
	payments  repo.PaymentRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Templates() repo.TemplateRepository { return r.templates }
func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) Payments() repo.PaymentRepository   { return r.payments }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type TemplateRepoMock struct{ mock.Mock }

func (m *TemplateRepoMock) List(ctx context.Context, q repo.TemplateListQuery) ([]model.Template, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Template)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *TemplateRepoMock) Count(ctx context.Context, q repo.TemplateListQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TemplateRepoMock) FindByID(ctx context.Context, id int64) (model.Template, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Template)
	return t, args.Error(1)
}

func (m *TemplateRepoMock) ListRelated(ctx context.Context, t model.Template, limit int) ([]model.Template, error) {
	args := m.Called(ctx, t, limit)
	items, _ := args.Get(0).([]model.Template)
	return items, args.Error(1)
}

func (m *TemplateRepoMock) Create(ctx context.Context, t *model.Template) error {
	panic("not used")
}

func (m *TemplateRepoMock) Update(ctx context.Context, t model.Template) error {
	panic("not used")
}

func (m *TemplateRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used")
}

func (m *TemplateRepoMock) IncrementOrderCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Count(ctx context.Context, f repo.OrderListFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SumTotalPrice(ctx context.Context, f repo.OrderListFilter) (model.Money, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(model.Money), args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	if id, ok := args.Get(0).(int64); ok && id > 0 {
		order.ID = id
	}
	return args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Ports mocks
// =====================

type OrderValidatorMock struct{ mock.Mock }

func (m *OrderValidatorMock) ValidateCreateOrder(ctx context.Context, in usecase.CreateOrderInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type NumberGeneratorMock struct{ mock.Mock }

func (m *NumberGeneratorMock) Next(now time.Time) (string, error) {
	args := m.Called(now)
	return args.String(0), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(payment.ChargeResult)
	return res, args.Error(1)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
