// Package types provides common value types shared across the domain.
package types

import (
	"github.com/shopspring/decimal"
)

// Cents is a monetary value in minor currency units.
//
// All arithmetic inside the engine happens on int64 cents so repeated
// average-cost recomputation never accumulates floating-point drift.
// Conversion to decimal happens only at presentation boundaries.
type Cents int64

// CentsFromDecimal converts a major-unit decimal (e.g. "12.99") to cents,
// rounding half-up to 2 places first.
func CentsFromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// CentsFromFloat converts a float price to cents.
// Prefer CentsFromDecimal for values parsed from user input.
func CentsFromFloat(f float64) Cents {
	return CentsFromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns the major-unit decimal representation (2 places).
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the major-unit float representation for display.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Cents) IsZero() bool     { return c == 0 }
func (c Cents) IsPositive() bool { return c > 0 }
func (c Cents) IsNegative() bool { return c < 0 }

// String returns the major-unit decimal string, e.g. "12.99".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Round2 rounds a decimal to 2 places using half-up rounding.
// This is the single rounding rule for every displayed monetary metric.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
