package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits for stored monetary amounts (10 digits, 2 of them after the point).
const (
	MaxDigits        = 10
	MaxDecimalPlaces = 2
)

// Domain errors
var (
	ErrNotANumber       = errors.New("Enter a number.")
	ErrTooManyDigits    = errors.New("Ensure that there are no more than 10 digits in total.")
	ErrTooManyDecimals  = errors.New("Ensure that there are no more than 2 decimal places.")
	ErrTooManyWholePart = errors.New("Ensure that there are no more than 8 digits before the decimal point.")
)

// Parse converts user input such as "49.99" into a decimal amount.
// PRE: s is the raw submitted value
// POST: Returns the amount or ErrNotANumber; precision is not checked here
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrNotANumber
	}
	return d, nil
}

// Validate checks that d fits a DECIMAL(10,2) column.
// INVARIANT: d is not mutated
func Validate(d decimal.Decimal) error {
	coef := d.Coefficient()
	coef.Abs(coef)
	length := len(coef.String())
	exp := int(d.Exponent())

	var digits, places int
	switch {
	case exp >= 0:
		if coef.Sign() != 0 {
			digits = length + exp
		}
	case -exp > length:
		digits, places = -exp, -exp
	default:
		digits, places = length, -exp
	}

	if digits > MaxDigits {
		return ErrTooManyDigits
	}
	if places > MaxDecimalPlaces {
		return ErrTooManyDecimals
	}
	if digits-places > MaxDigits-MaxDecimalPlaces {
		return ErrTooManyWholePart
	}
	return nil
}

// Format renders d with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(MaxDecimalPlaces)
}
