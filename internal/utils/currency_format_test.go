package utils_test

import (
	"testing"

	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nullDecimal(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestFormatCurrencyInput(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.NullDecimal
		want string
	}{
		{name: "unset", in: decimal.NullDecimal{}, want: ""},
		{name: "zero", in: nullDecimal(0), want: "0"},
		{name: "three digits", in: nullDecimal(999), want: "999"},
		{name: "four digits", in: nullDecimal(1000), want: "1.000"},
		{name: "sample", in: nullDecimal(2_700_000), want: "2.700.000"},
		{name: "large", in: nullDecimal(1_234_567_890), want: "1.234.567.890"},
		{name: "negative", in: nullDecimal(-45_000), want: "-45.000"},
		{name: "fraction", in: decimal.NewNullDecimal(decimal.RequireFromString("1234.5")), want: "1.234,5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.FormatCurrencyInput(tt.in))
		})
	}
}

func TestParseCurrencyInput(t *testing.T) {
	assert.True(t, utils.ParseCurrencyInput("").IsZero())
	assert.True(t, utils.ParseCurrencyInput("abc").IsZero())
	assert.True(t, utils.ParseCurrencyInput("   ").IsZero())
	assert.True(t, decimal.NewFromInt(2_700_000).Equal(utils.ParseCurrencyInput("2.700.000")))
	assert.True(t, decimal.NewFromInt(2_700_000).Equal(utils.ParseCurrencyInput(" 2700000 ")))
	assert.True(t, decimal.RequireFromString("1234.5").Equal(utils.ParseCurrencyInput("1.234,5")))
}

func TestCurrencyInput_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 12, 999, 1000, 10_001, 123_456, 2_700_000, 3_000_000, 999_999_999, 12_345_678_901}
	for _, v := range values {
		formatted := utils.FormatCurrencyInput(nullDecimal(v))
		assert.True(t, decimal.NewFromInt(v).Equal(utils.ParseCurrencyInput(formatted)), "round trip of %d via %q", v, formatted)
	}
}

func TestFormatCurrency_AgreesWithInputFormatter(t *testing.T) {
	for _, v := range []int64{0, 7, 999, 1000, 65_432, 2_700_000, 3_000_000, 1_000_000_000} {
		assert.Equal(t, utils.FormatCurrencyInput(nullDecimal(v)), utils.FormatCurrency(v), "amount %d", v)
	}
}
