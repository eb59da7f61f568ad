package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrMissingField indicates that a required field was absent or blank.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidEmail indicates that an address failed the syntax check.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrAllCCInvalid indicates that CC addresses were supplied but none of them is usable.
var ErrAllCCInvalid = errors.New("all CC addresses are invalid")

// ErrAmountExceedsTotal indicates that the disbursed amount is larger than the loan itself.
var ErrAmountExceedsTotal = errors.New("disbursement amount exceeds total loan amount")

// ErrAttachmentTooLarge indicates that an attachment is over the per-file size limit.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// ErrDispatch indicates that the email provider did not accept the message.
var ErrDispatch = errors.New("email dispatch failed")

// ErrDispatchTimeout indicates that the email provider did not answer in time.
var ErrDispatchTimeout = errors.New("email dispatch timed out")

// Machine-checkable error codes surfaced to API clients.
const (
	CodeMissingField       = "missing_field"
	CodeInvalidField       = "invalid_field"
	CodeInvalidEmail       = "invalid_email"
	CodeAllCCInvalid       = "all_cc_invalid"
	CodeAmountExceedsTotal = "amount_exceeds_total"
	CodeAttachmentTooLarge = "attachment_too_large"

	CodeProviderRejected = "provider_rejected"
	CodeNetwork          = "network"
	CodeTimeout          = "timeout"
)

// ValidationError describes a record that must not be sent. It is always
// detected before any provider call.
type ValidationError struct {
	Field   string
	Code    string
	Message string
	Err     error
}

// NewValidationError builds a ValidationError for field, wrapping cause.
func NewValidationError(field, code string, cause error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports every ValidationError as ErrValidation so callers can branch on kind alone.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DispatchError is the single failure shape of the dispatch boundary. Payload
// holds the raw provider response body when one was received.
type DispatchError struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Payload    []byte
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s dispatch failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s dispatch failed: %s", e.Provider, e.Message)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool {
	switch target {
	case ErrDispatch:
		return true
	case ErrDispatchTimeout:
		return e.Code == CodeTimeout
	}
	return false
}

// Code extracts the machine-checkable code from err, or "" for unknown errors.
func Code(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
