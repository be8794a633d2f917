package payment

import (
	"context"
	"errors"
	"time"

	"invitation/internal/domain/model"
)

// 決済ゲートウェイ自体が使えない（断られたのとは別）
var ErrUnavailable = errors.New("payment gateway unavailable")

type ChargeRequest struct {
	OrderID     int64
	OrderNumber string
	Amount      model.Money
	Method      model.PaymentMethod
}

// 決済1回の結果。断られた場合もerrorではなくStatus=failedで返す。
type ChargeResult struct {
	Status        model.TransactionStatus
	TransactionID string
	PaymentDate   *time.Time // 成功時のみ
	Details       map[string]interface{}
}

func (r ChargeResult) Succeeded() bool {
	return r.Status == model.TransactionStatusSuccess
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
