package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount plus ISO currency code. The Storefront API ships
// amounts as decimal strings; decimal.Decimal round-trips them losslessly.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// ParseMoney builds a Money from an upstream decimal string.
func ParseMoney(amount, currency string) (Money, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return Money{Amount: dec, CurrencyCode: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, CurrencyCode: currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Add sums two amounts. Currencies are expected to match; the left
// currency wins when the right side is empty.
func (m Money) Add(other Money) Money {
	currency := m.CurrencyCode
	if currency == "" {
		currency = other.CurrencyCode
	}
	return Money{Amount: m.Amount.Add(other.Amount), CurrencyCode: currency}
}

// Mul scales the amount by the given factor, rounded to cents.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor).Round(2), CurrencyCode: m.CurrencyCode}
}

// Cmp compares amounts: -1 if m < other, 0 if equal, 1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.Amount.Cmp(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.CurrencyCode)
}
