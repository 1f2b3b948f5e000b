// Package money provides exact currency arithmetic for reconciling a
// budgeting ledger against purchase records.
//
// Two representations interconvert losslessly:
//   - Milliunits: signed integer, 1000 units = 1.00 currency unit
//     (the budgeting service's wire format)
//   - decimal dollars via shopspring/decimal (the purchase side)
//
// Amount equality is the matching key, so floating point is never used.
package money

import "github.com/shopspring/decimal"

// Milliunits is a signed amount where 1000 units equal one currency unit.
// Negative values are money leaving the account.
type Milliunits int64

// FromDecimal converts decimal dollars to milliunits.
// Amounts carry at most three decimal places, so the conversion is exact.
func FromDecimal(d decimal.Decimal) Milliunits {
	return Milliunits(d.Shift(3).IntPart())
}

// Decimal converts milliunits to decimal dollars.
func (m Milliunits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

// Neg returns the amount with its sign inverted.
func (m Milliunits) Neg() Milliunits {
	return -m
}

// Dollars renders the amount to two decimal places, e.g. "12.34".
func (m Milliunits) Dollars() string {
	return m.Decimal().StringFixed(2)
}

// Equal reports exact equality between a decimal amount and milliunits.
// 19.990 equals 19990 milliunits; 19.991 does not equal 19990.
func Equal(d decimal.Decimal, m Milliunits) bool {
	return d.Equal(m.Decimal())
}
