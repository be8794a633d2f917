package repository

import (
	"context"

	"invitation/internal/domain/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id int64) (model.Category, error)
	// 公開中のカテゴリを名前順で
	ListActive(ctx context.Context) ([]model.Category, error)
}
