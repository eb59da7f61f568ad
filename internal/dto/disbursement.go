package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// AmountFits reports whether d can be held as an int64 number of đồng.
func AmountFits(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(maxAmount)
}

// AmountInput accepts an amount either as a JSON number or as the
// dot-grouped text the form produces ("2.700.000").
type AmountInput struct {
	decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AmountInput) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		return a.UnmarshalParam(text)
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("amount must be a number or a dot-grouped string: %w", err)
	}
	a.NullDecimal = decimal.NullDecimal{Decimal: d, Valid: true}
	return nil
}

// UnmarshalParam lets gin bind form values into AmountInput.
func (a *AmountInput) UnmarshalParam(param string) error {
	if strings.TrimSpace(param) == "" {
		a.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	a.NullDecimal = decimal.NullDecimal{Decimal: utils.ParseCurrencyInput(param), Valid: true}
	return nil
}

// DisbursementFields is the transport-independent shape of a submission.
// Both inbound variants resolve to it before anything else runs.
type DisbursementFields struct {
	CustomerName  string `json:"customer_name" form:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" form:"customer_email" binding:"required,loanemail"`
	CCEmails      string `json:"cc_emails" form:"cc_emails"`
	ContractCode  string `json:"contract_code" form:"contract_code" binding:"required"`

	DisbursementAmount AmountInput `json:"disbursement_amount" form:"disbursement_amount"`
	DisbursementDate   string      `json:"disbursement_date" form:"disbursement_date" binding:"required"`

	TotalLoanAmount AmountInput `json:"total_loan_amount" form:"total_loan_amount"`
	LoanTermMonths  int         `json:"loan_term_months" form:"loan_term_months" binding:"required"`
	LoanStartDate   string      `json:"loan_start_date" form:"loan_start_date" binding:"required"`
	LoanEndDate     string      `json:"loan_end_date" form:"loan_end_date" binding:"required"`
	DueDayEachMonth int         `json:"due_day_each_month" form:"due_day_each_month" binding:"required"`

	BankName          string `json:"bank_name" form:"bank_name" binding:"required"`
	BankAccountNumber string `json:"bank_account_number" form:"bank_account_number" binding:"required"`
	BeneficiaryName   string `json:"beneficiary_name" form:"beneficiary_name" binding:"required"`
}

// JSONDisbursementRequest is the application/json variant. It carries no files.
type JSONDisbursementRequest struct {
	DisbursementFields
}

// MultipartDisbursementRequest is the multipart/form-data variant.
type MultipartDisbursementRequest struct {
	DisbursementFields
	Attachments []*multipart.FileHeader `form:"attachments"`
}

// ToLoanDisbursement resolves the fields and attachments into a validated record.
func (f DisbursementFields) ToLoanDisbursement(attachments []domain.Attachment) (*domain.LoanDisbursement, error) {
	rec := domain.LoanDisbursement{
		CustomerName:      strings.TrimSpace(f.CustomerName),
		CustomerEmail:     strings.TrimSpace(f.CustomerEmail),
		CCEmails:          f.CCEmails,
		ContractCode:      strings.TrimSpace(f.ContractCode),
		LoanTermMonths:    f.LoanTermMonths,
		DueDayEachMonth:   f.DueDayEachMonth,
		BankName:          strings.TrimSpace(f.BankName),
		BankAccountNumber: strings.TrimSpace(f.BankAccountNumber),
		BeneficiaryName:   strings.TrimSpace(f.BeneficiaryName),
		Attachments:       attachments,
	}

	var err error
	if rec.DisbursementAmount, err = wholeAmount("disbursement_amount", f.DisbursementAmount); err != nil {
		return nil, err
	}
	if rec.TotalLoanAmount, err = wholeAmount("total_loan_amount", f.TotalLoanAmount); err != nil {
		return nil, err
	}
	if rec.DisbursementDate, err = calendarDate("disbursement_date", f.DisbursementDate); err != nil {
		return nil, err
	}
	if rec.LoanStartDate, err = calendarDate("loan_start_date", f.LoanStartDate); err != nil {
		return nil, err
	}
	if rec.LoanEndDate, err = calendarDate("loan_end_date", f.LoanEndDate); err != nil {
		return nil, err
	}

	return domain.NewLoanDisbursement(rec)
}

func wholeAmount(field string, in AmountInput) (int64, error) {
	if !in.Valid {
		return 0, apperrors.NewValidationError(field, apperrors.CodeMissingField, apperrors.ErrMissingField,
			"missing required field: %s", field)
	}
	if !in.Decimal.Equal(in.Decimal.Truncate(0)) {
		return 0, apperrors.NewValidationError(field, apperrors.CodeInvalidField, nil,
			"must be a whole number of đồng, got %s", in.Decimal.String())
	}
	if !AmountFits(in.Decimal) {
		return 0, apperrors.NewValidationError(field, apperrors.CodeInvalidField, nil,
			"%s is too large", in.Decimal.String())
	}
	return in.Decimal.IntPart(), nil
}

func calendarDate(field, value string) (domain.CalendarDate, error) {
	if strings.TrimSpace(value) == "" {
		return domain.CalendarDate{}, apperrors.NewValidationError(field, apperrors.CodeMissingField, apperrors.ErrMissingField,
			"missing required field: %s", field)
	}
	d, err := domain.ParseCalendarDate(strings.TrimSpace(value))
	if err != nil {
		return domain.CalendarDate{}, apperrors.NewValidationError(field, apperrors.CodeInvalidField, err,
			"%s", err.Error())
	}
	return d, nil
}

// FromLoanDisbursement converts a record back into request fields, used to
// pre-fill the form with the sample record.
func FromLoanDisbursement(rec domain.LoanDisbursement) DisbursementFields {
	return DisbursementFields{
		CustomerName:       rec.CustomerName,
		CustomerEmail:      rec.CustomerEmail,
		CCEmails:           rec.CCEmails,
		ContractCode:       rec.ContractCode,
		DisbursementAmount: AmountInput{decimal.NewNullDecimal(decimal.NewFromInt(rec.DisbursementAmount))},
		DisbursementDate:   rec.DisbursementDate.String(),
		TotalLoanAmount:    AmountInput{decimal.NewNullDecimal(decimal.NewFromInt(rec.TotalLoanAmount))},
		LoanTermMonths:     rec.LoanTermMonths,
		LoanStartDate:      rec.LoanStartDate.String(),
		LoanEndDate:        rec.LoanEndDate.String(),
		DueDayEachMonth:    rec.DueDayEachMonth,
		BankName:           rec.BankName,
		BankAccountNumber:  rec.BankAccountNumber,
		BeneficiaryName:    rec.BeneficiaryName,
	}
}
