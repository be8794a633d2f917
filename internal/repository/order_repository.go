package repository

import (
	"context"

	"invitation/internal/domain/model"
)

// 注文一覧・集計の絞り込み
type OrderListFilter struct {
	Page  int
	Limit int

	// 購入者で絞る
	UserID *int64
	// テンプレートのownerで絞る（admin_user用）
	TemplateOwnerID *int64
	TemplateID      *int64

	Status        model.OrderStatus
	PaymentStatus model.PaymentStatus
}

type OrderRepository interface {
	// user / template(category, owner) / payments をpreloadして返す
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Count(ctx context.Context, f OrderListFilter) (int64, error)
	SumTotalPrice(ctx context.Context, f OrderListFilter) (model.Money, error)

	// order_numberが重複したらErrDuplicate
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// payment_status=paid と status=process を1回のUPDATEで書く。
	// すでにpaidなら何もせずfalse。
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
}
