package models

import (
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iiferr"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"github.com/shopspring/decimal"
)

// Amount is a signed money value: positive amounts are debits, negative
// amounts are credits. The stored value is never rounded; rounding happens
// only when rendering or when comparing with iifutil.CompareMoney.
type Amount struct {
	value decimal.Decimal
	set   bool
}

// NewAmount wraps a decimal.
func NewAmount(value decimal.Decimal) Amount {
	return Amount{value: value, set: true}
}

// AmountFromFloat wraps a float64.
func AmountFromFloat(value float64) Amount {
	return NewAmount(decimal.NewFromFloat(value))
}

// ParseAmount parses text such as "-34.68" or "1,250.00". Grouping commas
// and surrounding whitespace are ignored.
func ParseAmount(text string) (Amount, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return Amount{}, iiferr.InvalidValue("Amount", text, "value cannot be empty")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Amount{}, iiferr.InvalidValue("Amount", text, "not a decimal number")
	}
	return NewAmount(d), nil
}

// Value returns the underlying decimal. An unset Amount is zero.
func (a Amount) Value() decimal.Decimal { return a.value }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount { return Amount{value: a.value.Neg(), set: a.set} }

// Sign returns -1 for credits, +1 for debits and 0 for zero.
func (a Amount) Sign() int { return a.value.Sign() }

// IsDebit reports whether the amount is positive.
func (a Amount) IsDebit() bool { return a.value.Sign() > 0 }

// IsCredit reports whether the amount is negative.
func (a Amount) IsCredit() bool { return a.value.Sign() < 0 }

func (a Amount) IIF() string { return iifutil.FormatMoney(a.value) }

func (a Amount) IsSet() bool { return a.set }

func (a Amount) String() string { return a.IIF() }
