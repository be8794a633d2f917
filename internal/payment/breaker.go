package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	// 連続失敗がこの回数でopen
	ConsecutiveFailures uint32
	// openからhalf-openに戻るまで
	OpenTimeout time.Duration
}

// ゲートウェイ障害が続いたら呼び出しを止める。
// 「断られた」決済は失敗に数えない。
type BreakerGateway struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[ChargeResult]
}

func NewBreakerGateway(next Gateway, s BreakerSettings, logger *slog.Logger) *BreakerGateway {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[ChargeResult](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// 呼び出し側のキャンセルはゲートウェイ障害ではない
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerGateway{next: next, cb: cb}
}

func (g *BreakerGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	res, err := g.cb.Execute(func() (ChargeResult, error) {
		return g.next.Charge(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ChargeResult{}, errors.Join(ErrUnavailable, err)
	}
	return res, err
}
