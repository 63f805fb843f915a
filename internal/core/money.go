// Package core provides money parsing and handling utilities.
//
// Amounts travel through the domain as decimal.Decimal and are persisted as
// exact integer minor units (hundredths), so no binary float ever holds money.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fractional digits kept in storage.
const MinorUnitExponent = 2

func init() {
	// Advisory consumers read amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount converts a decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up to two fractional digits. Negative and zero amounts are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(MinorUnitExponent)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ToMinorUnits returns the amount in hundredths, rounding half away from zero.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Round(MinorUnitExponent).Shift(MinorUnitExponent).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -MinorUnitExponent)
}
