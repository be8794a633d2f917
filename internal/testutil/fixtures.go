package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"invitation/internal/domain/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// テスト用のユーザーを作る（パスワードハッシュはダミー）
func SeedUser(t testing.TB, db *gorm.DB, role model.Role) model.User {
	t.Helper()
	n := seq.Add(1)
	u := model.User{
		Name:         fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func SeedCategory(t testing.TB, db *gorm.DB) model.Category {
	t.Helper()
	n := seq.Add(1)
	c := model.Category{
		Name:     fmt.Sprintf("Category %d", n),
		Slug:     fmt.Sprintf("category-%d", n),
		IsActive: true,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// activeなテンプレートを作る
func SeedTemplate(t testing.TB, db *gorm.DB, ownerID, categoryID int64, price string) model.Template {
	t.Helper()
	n := seq.Add(1)
	tpl := model.Template{
		Title:         fmt.Sprintf("Template %d", n),
		Price:         model.MustMoney(price),
		CategoryID:    categoryID,
		OwnerID:       ownerID,
		PreviewImages: []string{},
		Status:        model.TemplateStatusActive,
	}
	require.NoError(t, db.Create(&tpl).Error)
	return tpl
}
