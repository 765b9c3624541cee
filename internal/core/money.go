// Package core provides the ledger domain types.
//
// Money wraps an arbitrary-precision decimal so that sums over many
// transactions stay exact while the store keeps amounts in a REAL column.
package core

import (
	"bytes"
	"errors"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a monetary amount in rupiah.
type Money struct {
	d decimal.Decimal
}

// NewMoney returns a whole-rupiah amount.
func NewMoney(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// MoneyFromFloat converts a value read from the store. NaN and infinities
// have no decimal form and come back as zero.
func MoneyFromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}
	}
	return Money{d: decimal.NewFromFloat(f)}
}

// newFinite rejects values the REAL column would store as an infinity.
func newFinite(d decimal.Decimal) (Money, error) {
	if f, _ := d.Float64(); math.IsInf(f, 0) {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// ParseMoney parses a decimal string. Both "12.5" and "12,5" are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return newFinite(d)
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Float64 returns the value for storage in a REAL column.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

func (m Money) String() string { return m.d.String() }

// FormatIDR renders the amount the way id-ID currency formatting does,
// rounded to whole rupiah: "Rp 1.250.000".
func (m Money) FormatIDR() string {
	r := m.d.Round(0)
	f, _ := r.Abs().Float64()
	out := "Rp " + humanize.FormatFloat("#.###,", f)
	if r.IsNegative() {
		return "-" + out
	}
	return out
}

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null (zero).
// Anything else is ErrInvalidAmount.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte(`""`)), bytes.Equal(b, []byte("false")):
		*m = Money{}
		return nil
	case len(b) > 1 && b[0] == '"':
		v, err := ParseMoney(string(b[1 : len(b)-1]))
		if err != nil {
			return err
		}
		*m = v
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return ErrInvalidAmount
	}
	v, err := newFinite(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
