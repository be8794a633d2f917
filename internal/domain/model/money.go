package model

import (
	"github.com/shopspring/decimal"
)

// 金額（小数2桁の固定小数点）
// DBはdecimal(10,2)、JSONは "50.00" の文字列で出す。
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// "50.00" のような文字列から作る（テスト・seed用）
func MustMoney(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// 同額か（0.5 と 0.50 を同じとみなす）
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) Add(o Money) Money {
	return NewMoney(m.Decimal.Add(o.Decimal))
}
