// Package types provides shared value types for the engine.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point decimal amount.
// All monetary arithmetic goes through decimal to avoid float drift in totals.
type Money = decimal.Decimal

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return decimal.Zero
}

// MoneyFromFloat converts a float64 into Money.
// Use only at API boundaries; internal math stays in decimal.
func MoneyFromFloat(f float64) Money {
	return decimal.NewFromFloat(f)
}

// MoneyFromString parses Money from its string form.
func MoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// LineTotal multiplies a unit price by an integer quantity.
func LineTotal(unitPrice Money, quantity int) Money {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
