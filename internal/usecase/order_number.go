package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 日付 + 英大文字/数字6桁。衝突はunique indexで検出してリトライする。
type RandomOrderNumber struct{}

func (RandomOrderNumber) Next(now time.Time) (string, error) {
	b := make([]byte, 6)
	size := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("order number: %w", err)
		}
		b[i] = orderNumberAlphabet[n.Int64()]
	}
	return "WED-" + now.Format("20060102") + "-" + string(b), nil
}
