package repository

import (
	"context"

	"invitation/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
}
