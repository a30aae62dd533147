// Package money converts between decimal display amounts and the
// integer minor units used everywhere inside the engine. This is the
// only place a non-integer money representation may appear; balance
// math never leaves int64.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for unparseable, non-positive or
// out-of-range display amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// ToMinorUnits parses a decimal display amount ("12.34") into minor
// units (1234). Digits beyond the second decimal place are rounded
// half-even, the same rule the API documents for all boundary
// conversions. Zero and negative amounts are rejected.
func ToMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	units := d.Shift(2).RoundBank(0)
	big := units.BigInt()
	if !big.IsInt64() {
		return 0, ErrInvalidAmount
	}

	v := big.Int64()
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FromMinorUnits formats minor units as a display string with two
// decimal places ("-3.50").
func FromMinorUnits(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}
