// Package money centralizes fixed-point currency arithmetic. Unit prices are
// carried as float64 in the models for wire compatibility; every computation
// goes through decimals so totals come out exact and rounded half-up to two
// decimal places.
package money

import "github.com/shopspring/decimal"

// Line returns unitPrice * quantity as an exact decimal.
func Line(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Fixed renders a decimal as a fixed two-decimal string, e.g. "10.00".
func Fixed(d decimal.Decimal) string {
	return Round2(d).StringFixed(2)
}

// Float converts back to float64 for response payloads.
func Float(d decimal.Decimal) float64 {
	f, _ := Round2(d).Float64()
	return f
}
