package usecase

import (
	"context"
	"time"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文番号（WED-YYYYMMDD-XXXXXX）を作る約束
type OrderNumberGenerator interface {
	Next(now time.Time) (string, error)
}

// 公開テンプレート詳細のキャッシュ。Getのエラーはすべてmiss扱い。
type TemplateDetailCache interface {
	Get(ctx context.Context, templateID int64) ([]byte, error)
	Set(ctx context.Context, templateID int64, payload []byte) error
	Delete(ctx context.Context, templateID int64) error
}

// usecaseがValidatorInterfaceに依存する約束
type OrderValidator interface {
	ValidateCreateOrder(ctx context.Context, in CreateOrderInput) error
}

type TemplateValidator interface {
	ValidateTemplate(ctx context.Context, in TemplateInput) error
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
