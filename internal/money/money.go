// Package money handles currency formatting and parsing for payment
// amounts. Amounts are whole currency units (VND has no minor unit), so
// everything works on int64 and there is no fractional arithmetic.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders grouped digits the way the vi-VN locale does.
var printer = message.NewPrinter(language.Vietnamese)

// FormatNumber normalizes a free-form amount input: it strips everything
// that is not a digit and re-inserts a comma every three digits from the
// right. It is idempotent, so it can be reapplied on every keystroke.
func FormatNumber(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseNumber extracts the numeric value from a formatted amount string.
// Empty or non-numeric input parses to 0; this function never fails.
func ParseNumber(s string) int64 {
	digits := stripNonDigits(s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatCurrency renders an amount as locale currency, e.g. "2.000.000 ₫".
func FormatCurrency(amount int64) string {
	return printer.Sprintf("%v ₫", number.Decimal(amount))
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
