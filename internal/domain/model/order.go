package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusProcess   OrderStatus = "process"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcess, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// 結婚式の情報（ordersにJSONで保存）
type WeddingDetails struct {
	BrideName      string `json:"bride_name"`
	GroomName      string `json:"groom_name"`
	WeddingDate    string `json:"wedding_date"` // YYYY-MM-DD
	Venue          string `json:"venue"`
	CeremonyTime   string `json:"ceremony_time"`
	ReceptionTime  string `json:"reception_time,omitempty"`
	GuestCount     *int   `json:"guest_count,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// TotalPriceは作成時のテンプレート価格のスナップショット。以後変更しない。
type Order struct {
	ID             int64                              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64                              `gorm:"not null;index" json:"user_id"`
	User           *User                              `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TemplateID     int64                              `gorm:"not null;index" json:"template_id"`
	Template       *Template                          `gorm:"constraint:OnDelete:CASCADE" json:"template,omitempty"`
	OrderNumber    string                             `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	OrderDate      time.Time                          `gorm:"not null;index" json:"order_date"`
	Status         OrderStatus                        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus  PaymentStatus                      `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	TotalPrice     Money                              `gorm:"type:decimal(10,2);not null" json:"total_price"`
	WeddingDetails datatypes.JSONType[WeddingDetails] `json:"wedding_details"`
	Notes          string                             `gorm:"type:text" json:"notes,omitempty"`
	Payments       []Payment                          `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt      time.Time                          `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                          `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}
