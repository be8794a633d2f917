package repository

import (
	"context"

	"invitation/internal/domain/model"
)

const (
	TemplateSortPopular = "popular" // order_count desc, created_at desc
	TemplateSortNewest  = "newest"  // created_at desc
)

// テンプレート一覧の検索条件。すべてAND。
type TemplateListQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	MinPrice   *model.Money
	MaxPrice   *model.Money
	Search     string
	OwnerID    *int64
	OnlyActive bool
	Sort       string
}

type TemplateRepository interface {
	List(ctx context.Context, q TemplateListQuery) ([]model.Template, int64, error)
	Count(ctx context.Context, q TemplateListQuery) (int64, error)

	// category / owner をpreloadして返す
	FindByID(ctx context.Context, id int64) (model.Template, error)

	// 同じカテゴリのactiveなテンプレート（自分以外）を人気順で
	ListRelated(ctx context.Context, t model.Template, limit int) ([]model.Template, error)

	Create(ctx context.Context, t *model.Template) error
	Update(ctx context.Context, t model.Template) error
	Delete(ctx context.Context, id int64) error

	// order_countをDB側で+1する（読み出して足さない）
	IncrementOrderCount(ctx context.Context, id int64) error
}
