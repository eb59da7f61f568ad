package utils

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	thousandsSeparator = "."
	decimalSeparator   = ","
)

// FormatCurrencyInput renders an editable amount with "." between every
// group of three integer digits, e.g. 2700000 -> "2.700.000".
// An unset value renders as "".
func FormatCurrencyInput(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	amount := v.Decimal
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	intPart := amount.Truncate(0)
	out := sign + groupDigits(intPart.String())

	frac := amount.Sub(intPart)
	if !frac.IsZero() {
		// "0.25" -> "25"
		out += decimalSeparator + strings.TrimPrefix(frac.String(), "0.")
	}
	return out
}

// ParseCurrencyInput reverses FormatCurrencyInput. Anything that does not
// parse yields zero.
func ParseCurrencyInput(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, thousandsSeparator, ""))
	cleaned = strings.Replace(cleaned, decimalSeparator, ".", 1)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatCurrency renders a read-only VND amount with Vietnamese locale
// grouping. For whole amounts the output is identical to FormatCurrencyInput.
func FormatCurrency(amount int64) string {
	return message.NewPrinter(language.Vietnamese).Sprintf("%d", amount)
}

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(thousandsSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
