// Package money turns ledger totals into currency amounts for display. Totals
// stay exact decimals in the ledger; here they are rounded to minor units.
package money

import (
	"errors"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// EUR is the currency payroll journals are kept in.
const EUR = "EUR"

// ErrUnknownCurrency is returned for a code go-money has no definition for.
var ErrUnknownCurrency = errors.New("unknown currency")

// Money is an amount in minor units with its ISO-4217 currency.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units (cents).
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal rounds amount half away from zero to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) (*Money, error) {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		return nil, ErrUnknownCurrency
	}
	cents := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return New(cents, currencyCode), nil
}

// Sum adds decimal amounts and returns the total in the given currency. The
// amounts are summed exactly before rounding.
func Sum(amounts []decimal.Decimal, currencyCode string) (*Money, error) {
	return NewFromDecimal(decimal.Sum(decimal.Zero, amounts...), currencyCode)
}

// IsNegative reports whether the amount is below zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Display returns the amount with its currency symbol (e.g., "€1,234.56")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.m.Display()
}

// String returns the amount as a plain decimal string (e.g., "1234.56")
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	fraction := int32(m.m.Currency().Fraction)
	return decimal.New(m.m.Amount(), -fraction).StringFixed(fraction)
}
