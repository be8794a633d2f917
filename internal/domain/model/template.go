package model

import (
	"time"

	"gorm.io/datatypes"
)

type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusInactive TemplateStatus = "inactive"
	TemplateStatusPending  TemplateStatus = "pending"
)

func (s TemplateStatus) Valid() bool {
	switch s {
	case TemplateStatusActive, TemplateStatusInactive, TemplateStatusPending:
		return true
	}
	return false
}

// 招待状テンプレート（商品）
// OrderCountは注文作成のたびに+1され、減らない。
type Template struct {
	ID            int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string                      `gorm:"type:varchar(255);not null;index" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Price         Money                       `gorm:"type:decimal(10,2);not null;index" json:"price"`
	CategoryID    int64                       `gorm:"not null;index" json:"category_id"`
	Category      *Category                   `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	OwnerID       int64                       `gorm:"not null;index" json:"owner_id"`
	Owner         *User                       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Thumbnail     string                      `gorm:"type:varchar(500)" json:"thumbnail,omitempty"`
	PreviewImages datatypes.JSONSlice[string] `json:"preview_images"`
	Status        TemplateStatus              `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	OrderCount    int64                       `gorm:"not null;default:0" json:"order_count"`
	CreatedAt     time.Time                   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (t Template) IsActive() bool {
	return t.Status == TemplateStatusActive
}
