package dto_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
		want  int64
	}{
		{name: "number", in: `2700000`, valid: true, want: 2_700_000},
		{name: "grouped string", in: `"2.700.000"`, valid: true, want: 2_700_000},
		{name: "plain string", in: `"3000000"`, valid: true, want: 3_000_000},
		{name: "empty string", in: `""`, valid: false},
		{name: "null", in: `null`, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a dto.AmountInput
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.valid, a.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, a.Decimal.IntPart())
			}
		})
	}

	var a dto.AmountInput
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestSampleRoundTripsThroughFields(t *testing.T) {
	fields := dto.FromLoanDisbursement(domain.SampleLoanDisbursement())

	raw, err := json.Marshal(fields)
	require.NoError(t, err)

	var req dto.JSONDisbursementRequest
	require.NoError(t, json.Unmarshal(raw, &req))

	rec, err := req.ToLoanDisbursement(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SampleLoanDisbursement(), *rec)
}

func TestToLoanDisbursement_Errors(t *testing.T) {
	base := func() dto.DisbursementFields {
		return dto.FromLoanDisbursement(domain.SampleLoanDisbursement())
	}

	t.Run("missing amount", func(t *testing.T) {
		f := base()
		f.TotalLoanAmount = dto.AmountInput{}
		_, err := f.ToLoanDisbursement(nil)
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
		assert.EqualError(t, err, "total_loan_amount: missing required field: total_loan_amount")
	})

	t.Run("fractional amount", func(t *testing.T) {
		f := base()
		f.DisbursementAmount = dto.AmountInput{NullDecimal: decimal.NewNullDecimal(decimal.RequireFromString("100.5"))}
		_, err := f.ToLoanDisbursement(nil)
		assert.Equal(t, apperrors.CodeInvalidField, apperrors.Code(err))
	})

	t.Run("amount beyond int64", func(t *testing.T) {
		var req dto.JSONDisbursementRequest
		raw := sampleWithAmounts(t, `"18446744073709551619"`, `"18446744073709551621"`)
		require.NoError(t, json.Unmarshal(raw, &req))

		rec, err := req.ToLoanDisbursement(nil)

		assert.Nil(t, rec)
		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "disbursement_amount", ve.Field)
		assert.Equal(t, apperrors.CodeInvalidField, ve.Code)
	})

	t.Run("negative amount beyond int64", func(t *testing.T) {
		f := base()
		f.TotalLoanAmount = dto.AmountInput{NullDecimal: decimal.NewNullDecimal(decimal.RequireFromString("-18446744073709551621"))}
		_, err := f.ToLoanDisbursement(nil)
		assert.Equal(t, apperrors.CodeInvalidField, apperrors.Code(err))
	})

	t.Run("malformed date", func(t *testing.T) {
		f := base()
		f.LoanStartDate = "26/10/2025"
		_, err := f.ToLoanDisbursement(nil)
		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "loan_start_date", ve.Field)
		assert.Equal(t, apperrors.CodeInvalidField, ve.Code)
	})

	t.Run("amount above total", func(t *testing.T) {
		f := base()
		f.DisbursementAmount = dto.AmountInput{NullDecimal: decimal.NewNullDecimal(decimal.NewFromInt(3_000_001))}
		_, err := f.ToLoanDisbursement(nil)
		assert.ErrorIs(t, err, apperrors.ErrAmountExceedsTotal)
	})
}

func sampleWithAmounts(t *testing.T, disbursed, total string) []byte {
	t.Helper()
	raw, err := json.Marshal(dto.FromLoanDisbursement(domain.SampleLoanDisbursement()))
	require.NoError(t, err)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	body["disbursement_amount"] = json.RawMessage(disbursed)
	body["total_loan_amount"] = json.RawMessage(total)
	out, err := json.Marshal(body)
	require.NoError(t, err)
	return out
}

func TestAmountFits(t *testing.T) {
	assert.True(t, dto.AmountFits(decimal.NewFromInt(9_223_372_036_854_775_807)))
	assert.True(t, dto.AmountFits(decimal.NewFromInt(-9_223_372_036_854_775_807)))
	assert.False(t, dto.AmountFits(decimal.RequireFromString("9223372036854775808")))
	assert.False(t, dto.AmountFits(decimal.RequireFromString("18446744073709551619")))
}

func TestToSendEmailResponse(t *testing.T) {
	resp := dto.ToSendEmailResponse(&domain.SendResult{MessageID: "id-1", Provider: "log", To: "np95085@gmail.com", Subject: "s"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, dto.SendSuccessMessage, body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "id-1", data["id"])
	assert.NotContains(t, data, "cc")
	assert.NotContains(t, data, "attachments")
	assert.Contains(t, data, "sentAt")
}
