package domain

import (
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/utils/mailaddr"
)

// MaxAttachmentBytes is the per-file attachment limit (10 MiB).
const MaxAttachmentBytes int64 = 10 << 20

// Attachment is a file sent along with the notification email.
type Attachment struct {
	Filename    string `json:"name"`
	ContentType string `json:"type"`
	Content     []byte `json:"-"`
}

// Size is the attachment length in bytes.
func (a Attachment) Size() int64 {
	return int64(len(a.Content))
}

// LoanDisbursement is the record the notification pipeline operates on.
// It is built once per submission by NewLoanDisbursement and only read after that.
type LoanDisbursement struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CCEmails      string `json:"cc_emails,omitempty"` // raw comma-separated input

	ContractCode string `json:"contract_code"`

	DisbursementAmount int64        `json:"disbursement_amount"`
	DisbursementDate   CalendarDate `json:"disbursement_date"`

	TotalLoanAmount int64        `json:"total_loan_amount"`
	LoanTermMonths  int          `json:"loan_term_months"`
	LoanStartDate   CalendarDate `json:"loan_start_date"`
	LoanEndDate     CalendarDate `json:"loan_end_date"`
	DueDayEachMonth int          `json:"due_day_each_month"`

	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BeneficiaryName   string `json:"beneficiary_name"`

	Attachments []Attachment `json:"-"`
}

// NewLoanDisbursement validates rec and returns it, or the first validation error.
func NewLoanDisbursement(rec LoanDisbursement) (*LoanDisbursement, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate checks every field rule, including the cross-field rule that the
// disbursed amount never exceeds the total loan amount.
func (r *LoanDisbursement) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"customer_name", r.CustomerName},
		{"customer_email", r.CustomerEmail},
		{"contract_code", r.ContractCode},
		{"bank_name", r.BankName},
		{"bank_account_number", r.BankAccountNumber},
		{"beneficiary_name", r.BeneficiaryName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return missingField(f.field)
		}
	}

	dates := []struct {
		field string
		value CalendarDate
	}{
		{"disbursement_date", r.DisbursementDate},
		{"loan_start_date", r.LoanStartDate},
		{"loan_end_date", r.LoanEndDate},
	}
	for _, d := range dates {
		if d.value.IsZero() {
			return missingField(d.field)
		}
	}

	if !mailaddr.IsValid(r.CustomerEmail) {
		return apperrors.NewValidationError("customer_email", apperrors.CodeInvalidEmail, apperrors.ErrInvalidEmail,
			"%q is not a valid email address", r.CustomerEmail)
	}
	if _, err := mailaddr.ResolveCCList(r.CCEmails); err != nil {
		return err
	}

	if r.DisbursementAmount <= 0 {
		return invalidField("disbursement_amount", "must be greater than 0")
	}
	if r.TotalLoanAmount <= 0 {
		return invalidField("total_loan_amount", "must be greater than 0")
	}
	if r.DisbursementAmount > r.TotalLoanAmount {
		return apperrors.NewValidationError("disbursement_amount", apperrors.CodeAmountExceedsTotal, apperrors.ErrAmountExceedsTotal,
			"%d exceeds total loan amount %d", r.DisbursementAmount, r.TotalLoanAmount)
	}
	if r.LoanTermMonths <= 0 {
		return invalidField("loan_term_months", "must be greater than 0")
	}
	if r.DueDayEachMonth < 1 || r.DueDayEachMonth > 31 {
		return invalidField("due_day_each_month", "must be between 1 and 31")
	}
	if r.LoanEndDate.Before(r.LoanStartDate) {
		return invalidField("loan_end_date", "must not be before loan_start_date")
	}

	for _, a := range r.Attachments {
		if a.Size() > MaxAttachmentBytes {
			return apperrors.NewValidationError("attachments", apperrors.CodeAttachmentTooLarge, apperrors.ErrAttachmentTooLarge,
				"%s is %d bytes, limit is %d", a.Filename, a.Size(), MaxAttachmentBytes)
		}
	}
	return nil
}

func missingField(field string) error {
	return apperrors.NewValidationError(field, apperrors.CodeMissingField, apperrors.ErrMissingField,
		"missing required field: %s", field)
}

func invalidField(field, msg string) error {
	return apperrors.NewValidationError(field, apperrors.CodeInvalidField, nil, "%s", msg)
}

// SampleLoanDisbursement returns the record used to pre-fill the form.
func SampleLoanDisbursement() LoanDisbursement {
	return LoanDisbursement{
		CustomerName:       "Nguyễn Thành Phong",
		CustomerEmail:      "np95085@gmail.com",
		ContractCode:       "AP261025021",
		DisbursementAmount: 2_700_000,
		DisbursementDate:   CalendarDate{Year: 2025, Month: 10, Day: 26},
		TotalLoanAmount:    3_000_000,
		LoanTermMonths:     6,
		LoanStartDate:      CalendarDate{Year: 2025, Month: 10, Day: 26},
		LoanEndDate:        CalendarDate{Year: 2026, Month: 4, Day: 26},
		DueDayEachMonth:    26,
		BankName:           "Ngân hàng Ngoại thương Việt Nam (Vietcombank)",
		BankAccountNumber:  "1058649754",
		BeneficiaryName:    "NGUYEN THANH PHONG",
	}
}
