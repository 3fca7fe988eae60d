// Package money holds the decimal amount type used for order totals and line
// prices, plus the storefront presentation rules: "$12.500" on output and the
// lenient "$", "." and "," handling on input.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an input cannot be read as a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an exact decimal amount. The zero value is 0.
type Money struct {
	amount decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{}

// Parse reads storefront-formatted input: "$" and "." (thousands separator)
// are stripped, "," becomes the decimal separator.
func Parse(raw string) (Money, error) {
	cleaned := strings.NewReplacer("$", "", ".", "", ",", ".").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return Money{amount: d}, nil
}

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }

func (m Money) Mul(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty)))}
}

// Round rounds half away from zero to places decimal digits.
func (m Money) Round(places int32) Money { return Money{amount: m.amount.Round(places)} }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

func (m Money) String() string { return m.amount.String() }

// Format renders the amount rounded to an integer and grouped with ".":
// 12500 -> "$12.500".
func (m Money) Format() string {
	rounded := m.amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return "$" + sign + groupThousands(rounded.StringFixed(0))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Value stores the amount as a decimal string so numeric columns keep exact precision.
func (m Money) Value() (driver.Value, error) {
	return m.amount.Value()
}

// Scan reads numeric, text, integer, or float columns.
func (m *Money) Scan(value any) error {
	return m.amount.Scan(value)
}

// MarshalJSON emits a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}
