package model

import "github.com/shopspring/decimal"

// Amounts are persisted as integer minor units (hundredths) so the storage
// layer can apply balance deltas with exact integer arithmetic.
const minorUnitExponent = 2

// ToMinorUnits converts a decimal amount to integer minor units, rounding
// half away from zero beyond two decimal places.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Round(minorUnitExponent).Shift(minorUnitExponent).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -minorUnitExponent)
}
