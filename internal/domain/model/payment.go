package model

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodEWallet, PaymentMethodCash:
		return true
	}
	return false
}

// 利用者が画面から選べる支払い方法か（cashは管理側の記録用）
func (m PaymentMethod) Selectable() bool {
	return m.Valid() && m != PaymentMethodCash
}

// 支払い1回分の結果
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusSuccess  TransactionStatus = "success"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// 支払い試行。1つの注文に複数できる。
// PaymentDateは成功時のみ入る。
type Payment struct {
	ID             int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        int64             `gorm:"not null;index" json:"order_id"`
	Order          *Order            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PaymentMethod  PaymentMethod     `gorm:"type:varchar(30);not null" json:"payment_method"`
	Amount         Money             `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate    *time.Time        `gorm:"index" json:"payment_date"`
	Status         TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionID  string            `gorm:"type:varchar(64);index" json:"transaction_id"`
	PaymentDetails datatypes.JSONMap `json:"payment_details"`
	CreatedAt      time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
