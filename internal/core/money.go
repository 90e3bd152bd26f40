// Package core holds the transaction domain: money and date types, the
// field validators that gatekeep entry into the store, and the aggregation
// logic that derives dashboard statistics.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a non-negative amount held as cents. Amounts carry at most two
// fractional digits, so the cents representation is lossless and sums never
// accumulate floating-point error.
type Money struct {
	Cents int64
}

// ParseAmount converts a raw amount string to Money. The accepted grammar is
// a non-negative integer or a decimal with 1-2 fractional digits. Signs,
// scientific notation and more than two decimals are rejected, never coerced.
func ParseAmount(s string) (Money, error) {
	if !ValidAmount(s) {
		return Money{}, NewFieldError("amount", "must be a non-negative number with at most 2 decimals")
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, NewFieldError("amount", "value out of range")
	}
	// Prevent overflow when scaling to cents.
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, NewFieldError("amount", "value out of range")
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
	}

	return Money{Cents: iv*100 + fracCents}, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// String renders the amount with exactly two decimals, e.g. "15.00".
func (m Money) String() string {
	neg := ""
	cents := m.Cents
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}

// MarshalJSON writes the amount as a plain JSON number with the minimal
// decimal representation (10 stays 10, 12.50 becomes 12.5). Two-decimal
// amounts round-trip exactly through float64.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m.Cents)/100, 'f', -1, 64)), nil
}

// UnmarshalJSON reads a JSON number into cents, rounding half-up on any
// fractional cent. Persisted values are written by MarshalJSON and are
// always exact; the rounding only guards against hand-edited blobs.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	if f < 0 {
		return fmt.Errorf("parse amount %q: negative amounts not allowed", s)
	}
	m.Cents = int64(f*100 + 0.5)
	return nil
}
