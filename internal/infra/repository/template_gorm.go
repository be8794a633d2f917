package repository

import (
	"context"
	"strings"

	"invitation/internal/domain/model"
	repo "invitation/internal/repository"

	"gorm.io/gorm"
)

type TemplateGormRepository struct {
	db *gorm.DB
}

// DI
func NewTemplateGormRepository(db *gorm.DB) *TemplateGormRepository {
	return &TemplateGormRepository{db: db}
}

// 検索条件をWHEREに積む（すべてAND）
func (r *TemplateGormRepository) filtered(ctx context.Context, q repo.TemplateListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Template{})

	if q.OnlyActive {
		tx = tx.Where("status = ?", model.TemplateStatusActive)
	}
	if q.OwnerID != nil {
		tx = tx.Where("owner_id = ?", *q.OwnerID)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	// titleの部分一致。ILIKEはpostgres専用なのでLOWERで揃える
	if s := strings.TrimSpace(q.Search); s != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return tx
}

func (r *TemplateGormRepository) List(ctx context.Context, q repo.TemplateListQuery) ([]model.Template, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit, 12)

	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return []model.Template{}, 0, err
	}

	tx := r.filtered(ctx, q).Preload("Category")

	//sort
	switch q.Sort {
	case repo.TemplateSortPopular:
		tx = tx.Order("order_count desc").Order("created_at desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	var items []model.Template
	offset := (page - 1) * limit
	if err := tx.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return []model.Template{}, 0, err
	}
	return items, total, nil
}

func (r *TemplateGormRepository) Count(ctx context.Context, q repo.TemplateListQuery) (int64, error) {
	var n int64
	if err := r.filtered(ctx, q).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// IDでテンプレートを取得
func (r *TemplateGormRepository) FindByID(ctx context.Context, id int64) (model.Template, error) {
	var t model.Template
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Owner").
		First(&t, id).Error
	if err != nil {
		return model.Template{}, translateErr(err)
	}
	return t, nil
}

func (r *TemplateGormRepository) ListRelated(ctx context.Context, t model.Template, limit int) ([]model.Template, error) {
	var items []model.Template
	err := r.db.WithContext(ctx).
		Where("status = ? AND category_id = ? AND id <> ?", model.TemplateStatusActive, t.CategoryID, t.ID).
		Order("order_count desc").
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.Template{}, err
	}
	return items, nil
}

func (r *TemplateGormRepository) Create(ctx context.Context, t *model.Template) error {
	return translateErr(r.db.WithContext(ctx).Omit("Category", "Owner").Create(t).Error)
}

// 編集できる項目だけ更新する。order_count/owner_idは触らない。
func (r *TemplateGormRepository) Update(ctx context.Context, t model.Template) error {
	res := r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"title":          t.Title,
			"description":    t.Description,
			"price":          t.Price,
			"category_id":    t.CategoryID,
			"thumbnail":      t.Thumbnail,
			"preview_images": t.PreviewImages,
			"status":         t.Status,
		})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// orders/paymentsはFKのCASCADEで消える
func (r *TemplateGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Template{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DB側で+1する（同時注文でも数がずれない）
func (r *TemplateGormRepository) IncrementOrderCount(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", id).
		UpdateColumn("order_count", gorm.Expr("order_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}

	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
