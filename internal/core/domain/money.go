package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyMismatch = errors.New("money currencies do not match")
	ErrAmountOverflow   = errors.New("money amount overflows int64 minor units")
	ErrInvalidAmount    = errors.New("money amount has more precision than the currency allows")
)

// Money is an amount in integer minor units of a currency (e.g. cents).
// It is never represented as a float; all comparisons are exact.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney builds a Money from minor units. The currency code is upper-cased.
func NewMoney(minor int64, currency string) Money {
	return Money{Amount: minor, Currency: strings.ToUpper(currency)}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return NewMoney(0, currency)
}

// MoneyFromDecimal converts a major-unit decimal (e.g. 500.25) into minor units.
// Amounts with more fractional digits than the currency's exponent are rejected, not rounded.
func MoneyFromDecimal(d decimal.Decimal, currency string) (Money, error) {
	exp := CurrencyExponent(currency)
	scaled := d.Shift(int32(exp))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), exp)
	}
	// MinInt64 has no negation, so the accepted range is symmetric.
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(-math.MaxInt64)) {
		return Money{}, fmt.Errorf("%w: %s", ErrAmountOverflow, d.String())
	}
	return NewMoney(scaled.IntPart(), currency), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -int32(CurrencyExponent(m.Currency)))
}

// String renders the amount with the currency's precision, e.g. "500.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(int32(CurrencyExponent(m.Currency))), m.Currency)
}

// Add returns m+o. Both operands must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	sum := m.Amount + o.Amount
	if (o.Amount > 0 && sum < m.Amount) || (o.Amount < 0 && sum > m.Amount) {
		return Money{}, fmt.Errorf("%w: %d + %d", ErrAmountOverflow, m.Amount, o.Amount)
	}
	return Money{Amount: sum, Currency: m.Currency}, nil
}

// Sub returns m-o. Both operands must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	diff := m.Amount - o.Amount
	if (o.Amount < 0 && diff < m.Amount) || (o.Amount > 0 && diff > m.Amount) {
		return Money{}, fmt.Errorf("%w: %d - %d", ErrAmountOverflow, m.Amount, o.Amount)
	}
	return Money{Amount: diff, Currency: m.Currency}, nil
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Abs returns |m|. The most negative amount has no absolute value and fails with ErrAmountOverflow.
func (m Money) Abs() (Money, error) {
	if m.Amount == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: |%d|", ErrAmountOverflow, m.Amount)
	}
	if m.Amount < 0 {
		return m.Neg(), nil
	}
	return m, nil
}

func (m Money) IsZero() bool { return m.Amount == 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal reports exact equality of amount and currency.
func (m Money) Equal(o Money) bool {
	return m.Amount == o.Amount && m.Currency == o.Currency
}

// Cmp compares two amounts of the same currency: -1, 0 or +1.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.Amount < o.Amount:
		return -1, nil
	case m.Amount > o.Amount:
		return 1, nil
	default:
		return 0, nil
	}
}

func (m Money) sameCurrency(o Money) error {
	if m.Currency != o.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return nil
}

// SumMoney adds up amounts that all carry the given currency.
func SumMoney(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
