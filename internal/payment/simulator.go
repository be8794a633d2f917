package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"invitation/internal/domain/model"

	"github.com/google/uuid"
)

const SimulatorName = "wedding_pay_simulator"

// 本物の決済の代わりに、一定の確率で成功を返す。
// 試行ごとに独立して抽選する。
type Simulator struct {
	successRate float64
	now         func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// srcがnilなら毎回違う乱数列になる
func NewSimulator(successRate float64, src rand.Source, now func() time.Time) *Simulator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if now == nil {
		now = time.Now
	}
	return &Simulator{
		successRate: successRate,
		now:         now,
		rng:         rand.New(src),
	}
}

func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, err
	}

	s.mu.Lock()
	ok := s.rng.Float64() < s.successRate
	n := s.rng.IntN(9999) + 1
	s.mu.Unlock()

	now := s.now()
	res := ChargeResult{
		Status:        model.TransactionStatusFailed,
		TransactionID: transactionID(now, n),
		Details: map[string]interface{}{
			"gateway":    SimulatorName,
			"method":     string(req.Method),
			"simulation": true,
		},
	}
	if ok {
		res.Status = model.TransactionStatusSuccess
		res.PaymentDate = &now
	}
	return res, nil
}

// TXN-YYYYMMDD-NNNN-xxxxxxxx（末尾で一意にする）
func transactionID(now time.Time, n int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN-%s-%04d-%s", now.Format("20060102"), n, suffix)
}
