package db

import (
	"context"
	"fmt"

	"invitation/internal/domain/model"

	"gorm.io/gorm"
)

// 初期カテゴリ（slug, name, description）
var defaultCategories = [][3]string{
	{"classic-elegant", "Classic & Elegant", "Timeless and sophisticated wedding invitation designs"},
	{"modern-minimalist", "Modern & Minimalist", "Clean, contemporary designs with simple elegance"},
	{"rustic-natural", "Rustic & Natural", "Earthy, organic designs perfect for outdoor weddings"},
	{"vintage-romantic", "Vintage & Romantic", "Nostalgic designs with romantic vintage touches"},
	{"floral-garden", "Floral & Garden", "Beautiful botanical designs with floral elements"},
	{"beach-destination", "Beach & Destination", "Perfect for beach weddings and destination ceremonies"},
	{"luxury-glamour", "Luxury & Glamour", "Opulent designs for glamorous celebrations"},
	{"traditional-cultural", "Traditional & Cultural", "Cultural and traditional wedding invitation designs"},
}

type SeedOptions struct {
	AdminName         string
	AdminEmail        string
	AdminPasswordHash string
}

// Seed はカテゴリとsuper_adminを入れる。何度実行しても増えない。
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range defaultCategories {
			cat := model.Category{Slug: c[0]}
			err := tx.Where(model.Category{Slug: c[0]}).
				Attrs(model.Category{Name: c[1], Description: c[2], IsActive: true}).
				FirstOrCreate(&cat).Error
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c[0], err)
			}
		}

		if opts.AdminEmail == "" {
			return nil
		}
		name := opts.AdminName
		if name == "" {
			name = "Super Admin"
		}
		admin := model.User{}
		err := tx.Where(model.User{Email: opts.AdminEmail}).
			Attrs(model.User{
				Name:         name,
				PasswordHash: opts.AdminPasswordHash,
				Role:         model.RoleSuperAdmin,
				IsActive:     true,
			}).
			FirstOrCreate(&admin).Error
		if err != nil {
			return fmt.Errorf("seed super admin: %w", err)
		}
		return nil
	})
}
