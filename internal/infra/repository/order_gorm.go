package repository

import (
	"context"

	"invitation/internal/domain/model"
	repo "invitation/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Template").
		Preload("Template.Category").
		Preload("Template.Owner").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.id ASC")
		}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) filtered(ctx context.Context, f repo.OrderListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.TemplateID != nil {
		q = q.Where("template_id = ?", *f.TemplateID)
	}
	// JOINするとstatus列が曖昧になるのでサブクエリで絞る
	if f.TemplateOwnerID != nil {
		q = q.Where("template_id IN (?)",
			r.db.Model(&model.Template{}).Select("id").Where("owner_id = ?", *f.TemplateOwnerID))
	}

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	return q
}

// 新しい順
func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit, 10)

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.filtered(ctx, f).
		Preload("User").
		Preload("Template").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.id ASC")
		}).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Count(ctx context.Context, f repo.OrderListFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// 0件のときはSUMがNULLになるので0にする
func (r *OrderGormRepository) SumTotalPrice(ctx context.Context, f repo.OrderListFilter) (model.Money, error) {
	var sum decimal.NullDecimal
	row := r.filtered(ctx, f).Select("SUM(total_price)").Row()
	if err := row.Scan(&sum); err != nil {
		return model.Money{}, err
	}
	if !sum.Valid {
		return model.NewMoney(decimal.Zero), nil
	}
	return model.NewMoney(sum.Decimal), nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translateErr(r.db.WithContext(ctx).Omit("User", "Template", "Payments").Create(order).Error)
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付きUPDATE1本で pending→paid / process に進める。
// 同じ注文への同時成功は片方だけtrueになる。
func (r *OrderGormRepository) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"status":         model.OrderStatusProcess,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
