// Package mailaddr holds the single address syntax rule used by the HTTP
// binding layer and the send path, plus CC list parsing.
package mailaddr

import (
	"regexp"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
)

// pattern is intentionally permissive: something@something.something with no
// whitespace. It is not RFC 5322.
var pattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValid reports whether addr passes the address syntax rule.
func IsValid(addr string) bool {
	return pattern.MatchString(addr)
}

// ParseRawCCList splits a comma-separated list and trims each entry, keeping
// invalid addresses. Only for repopulating editable form state.
func ParseRawCCList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseValidCCList is ParseRawCCList with syntactically invalid addresses
// silently dropped.
func ParseValidCCList(raw string) []string {
	candidates := ParseRawCCList(raw)
	out := candidates[:0]
	for _, addr := range candidates {
		if IsValid(addr) {
			out = append(out, addr)
		}
	}
	return out
}

// ResolveCCList returns the CC recipients to dispatch to. A blank input means
// no CC; a non-blank input without a single valid address is an error.
func ResolveCCList(raw string) ([]string, error) {
	valid := ParseValidCCList(raw)
	if len(valid) == 0 && strings.TrimSpace(raw) != "" {
		return nil, apperrors.NewValidationError("cc_emails", apperrors.CodeAllCCInvalid, apperrors.ErrAllCCInvalid,
			"none of the CC addresses %q is valid", raw)
	}
	return valid, nil
}
