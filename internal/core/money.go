// Package core holds the domain model and the pure billing rules of the
// boarding house: payment status derivation, missing-payment generation and
// the monthly financial summary.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in whole Indonesian rupiah. The currency has no
// fractional unit in use, so no cents field is carried.
type Money struct {
	Rupiah int64
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount converts a whole-rupiah string to Money. Dots used as digit
// grouping ("1.250.000") are accepted and stripped. Negative and zero
// amounts are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ".", "")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if v <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Rupiah: v}, nil
}

// String formats the amount with Indonesian digit grouping, e.g. Rp1.250.000.
func (m Money) String() string {
	neg := m.Rupiah < 0
	v := m.Rupiah
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

// MarshalJSON emits the bare integer amount.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rupiah)
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var v *int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		m.Rupiah = 0
		return nil
	}
	m.Rupiah = *v
	return nil
}
