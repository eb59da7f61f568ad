package domain

import "time"

// OutboundEmail is a fully rendered, validated envelope ready for a provider.
// An empty CC list is left out of the provider payload entirely.
type OutboundEmail struct {
	From        string
	To          string
	CC          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// DispatchReceipt is what a provider returns for an accepted message.
type DispatchReceipt struct {
	ID       string
	Provider string
}

// RenderedEmail is the output of the content renderer.
type RenderedEmail struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// AttachmentMeta describes an attachment without its content.
type AttachmentMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// SendResult summarises a completed send for the API response.
type SendResult struct {
	MessageID   string
	Provider    string
	To          string
	CC          []string
	Subject     string
	Attachments []AttachmentMeta
	SentAt      time.Time
}
