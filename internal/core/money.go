// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings and
// converting between cents and the plain decimal numbers stored in documents.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type Money struct {
	Cents int64
}

// MaxCents bounds a single amount: 10 trillion in major units. Anything at or
// above it is rejected with ErrInvalidAmount.
const MaxCents int64 = 1_000_000_000_000_000

// ParseAmount converts a decimal string to cents with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; negative values and malformed input return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("500")    -> 50000, nil
//	ParseAmount("12,34")  -> 1234, nil
//	ParseAmount("12.345") -> 1235, nil (rounds up)
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if iv >= MaxCents/100 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents >= MaxCents {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatAmount renders cents as a plain decimal without trailing zeros,
// e.g. 50000 -> "500", 1250 -> "12.5", -30000 -> "-300".
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10)
	if rem := cents % 100; rem != 0 {
		frac := fmt.Sprintf("%02d", rem)
		s += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		return "-" + s
	}
	return s
}

func (m Money) String() string {
	return FormatAmount(m.Cents)
}

// MarshalJSON stores money as a plain JSON number so documents keep a numeric
// amount field.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(FormatAmount(m.Cents)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if n == "" {
		m.Cents = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return ErrInvalidAmount
	}
	cents := math.Round(f * 100)
	if math.Abs(cents) >= float64(MaxCents) {
		return ErrInvalidAmount
	}
	m.Cents = int64(cents)
	return nil
}

// Add and Sub saturate at the int64 limits instead of wrapping, so a total
// never changes sign through overflow.
func (m Money) Add(o Money) Money { return Money{Cents: addCents(m.Cents, o.Cents)} }
func (m Money) Sub(o Money) Money { return Money{Cents: subCents(m.Cents, o.Cents)} }

func addCents(a, b int64) int64 {
	s := a + b
	if (s > a) != (b > 0) {
		if b > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

func subCents(a, b int64) int64 {
	s := a - b
	if (s < a) != (b > 0) {
		if b > 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return s
}
