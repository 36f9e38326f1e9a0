package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in piasters, the smallest currency unit (1/100 EGP).
// Everything stored or transmitted by this system is in piasters; EGP values
// exist only at the display/input boundary.
type Money int64

// PiastersPerEGP is the conversion rate
const PiastersPerEGP = 100

var ErrInvalidAmount = errors.New("invalid amount")

var piastersPerEGP = decimal.NewFromInt(PiastersPerEGP)

// ToPiasters converts an EGP amount to piasters, rounding half away from zero.
func ToPiasters(egp decimal.Decimal) Money {
	return Money(egp.Mul(piastersPerEGP).Round(0).IntPart())
}

// FromEGPString parses a user-entered EGP amount (e.g. "12.50") into piasters.
func FromEGPString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, s)
	}
	return ToPiasters(d), nil
}

// ToEGP converts piasters back to an exact EGP decimal.
func ToEGP(m Money) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(piastersPerEGP)
}

// FormatEGP converts piasters to a human-readable EGP string (e.g., "12.50")
func FormatEGP(m Money) string {
	return ToEGP(m).StringFixed(2)
}

// CostForMinutes computes the charge for a duration billed at an hourly rate.
// The division happens once, at the end, so no rounding error compounds:
// round(minutes/60 * ratePerHour), half away from zero.
func CostForMinutes(minutes int, ratePerHour Money) Money {
	if minutes <= 0 {
		return 0
	}
	cost := decimal.NewFromInt(int64(minutes)).
		Mul(decimal.NewFromInt(int64(ratePerHour))).
		DivRound(decimal.NewFromInt(60), 0)
	return Money(cost.IntPart())
}

// Sum adds a list of piaster amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
