// Package format renders money and quantities the way the papeleria UI
// displays them: dot thousands separators and a comma decimal mark.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pesos formats a monetary value with two decimals as "$1.234,56".
// Negative values render as "$-1.234,56".
func Pesos(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return "$" + sign + group(intPart) + "," + fracPart
}

// Thousands regroups a digit string with dot separators, dropping anything
// that is not a digit: "1234567" -> "1.234.567". Used to reformat price
// fields as the user types, so previously inserted separators pass through
// unchanged.
func Thousands(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return group(b.String())
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
