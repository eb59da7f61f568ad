package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/utils/mailaddr"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EmailTag is the validator tag that applies the shared address rule.
const EmailTag = "loanemail"

// RegisterValidators installs the custom tags on gin's validator and makes
// field errors report JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
		return mailaddr.IsValid(strings.TrimSpace(fl.Field().String()))
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// BindingError converts a gin binding failure into a ValidationError for the
// first offending field. Errors that are not field errors, such as malformed
// JSON, become an invalid_field error with no field.
func BindingError(err error) *apperrors.ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return apperrors.NewValidationError(field, apperrors.CodeMissingField, apperrors.ErrMissingField,
				"missing required field: %s", field)
		case EmailTag:
			return apperrors.NewValidationError(field, apperrors.CodeInvalidEmail, apperrors.ErrInvalidEmail,
				"%q is not a valid email address", fe.Value())
		default:
			return apperrors.NewValidationError(field, apperrors.CodeInvalidField, nil,
				"failed on the %q rule", fe.Tag())
		}
	}
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return apperrors.NewValidationError("", apperrors.CodeInvalidField, err, "Invalid request format: %s", err.Error())
}
