// Package money converts between decimal amount strings and cents.
// All monetary values in the system are int64 cents so that summation is
// exact; floats only ever appear at the parsing boundary, never in storage
// or arithmetic.
package money

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a decimal amount.
var ErrInvalidAmount = errors.New("invalid amount")

const maxIntPart = (1<<63 - 1) / 100

// ParseCents converts a decimal string to cents.
//
// It accepts dot (12.34) and comma (12,34) decimal separators and an optional
// leading sign, and performs half-up rounding on the third decimal place.
//
//	ParseCents("12.34")  -> 1234
//	ParseCents("-7")     -> -700
//	ParseCents("12.346") -> 1235
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
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
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv > maxIntPart {
		return 0, ErrInvalidAmount
	}

	cents := iv * 100
	if len(fracPart) > 0 {
		cents += int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			cents += int64(fracPart[1] - '0')
			// Half-up rounding on the third decimal.
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				cents++
			}
		}
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders cents as a plain decimal string with two fractional
// digits, e.g. 1234 -> "12.34" and -50 -> "-0.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
