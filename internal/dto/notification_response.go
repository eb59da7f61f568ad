package dto

import (
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
)

// SendSuccessMessage is the user-facing message of a successful send.
const SendSuccessMessage = "Email đã được gửi thành công"

// SendEmailResponse is the success envelope of the send endpoint.
type SendEmailResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    SendEmailData `json:"data"`
}

// SendEmailData describes the message that was handed to the provider.
type SendEmailData struct {
	ID          string                  `json:"id"`
	Provider    string                  `json:"provider"`
	To          string                  `json:"to"`
	CC          []string                `json:"cc,omitempty"`
	Subject     string                  `json:"subject"`
	Attachments []domain.AttachmentMeta `json:"attachments,omitempty"`
	SentAt      time.Time               `json:"sentAt"`
}

// ToSendEmailResponse converts a domain.SendResult to the API envelope.
func ToSendEmailResponse(res *domain.SendResult) SendEmailResponse {
	return SendEmailResponse{
		Success: true,
		Message: SendSuccessMessage,
		Data: SendEmailData{
			ID:          res.MessageID,
			Provider:    res.Provider,
			To:          res.To,
			CC:          res.CC,
			Subject:     res.Subject,
			Attachments: res.Attachments,
			SentAt:      res.SentAt,
		},
	}
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// PreviewResponse carries the rendered email without sending it.
type PreviewResponse struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// ToPreviewResponse converts a domain.RenderedEmail.
func ToPreviewResponse(r domain.RenderedEmail) PreviewResponse {
	return PreviewResponse{Subject: r.Subject, HTML: r.HTML}
}

// AmountWordsResponse is returned by the amount helper used while typing in the form.
type AmountWordsResponse struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
	Words     string `json:"words"`
}

// CCPreviewRequest holds the raw CC field as typed.
type CCPreviewRequest struct {
	CCEmails string `json:"cc_emails" form:"cc_emails"`
}

// CCPreviewResponse shows which CC entries would be kept.
type CCPreviewResponse struct {
	Raw   []string `json:"raw"`
	Valid []string `json:"valid"`
}
