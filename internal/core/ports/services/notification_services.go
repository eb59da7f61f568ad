package services

import (
	"context"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
)

// EmailDispatcher submits a rendered email to a transactional email provider.
// Implementations make exactly one provider call per Send and never retry.
// Failures are returned as *apperrors.DispatchError.
type EmailDispatcher interface {
	// Name identifies the provider, e.g. "resend".
	Name() string

	// Send submits msg and returns the provider-assigned message id.
	Send(ctx context.Context, msg domain.OutboundEmail) (domain.DispatchReceipt, error)
}

// DisbursementPreviewSvc renders notifications without sending them.
type DisbursementPreviewSvc interface {
	// PreviewDisbursementNotice validates rec and returns the subject and HTML body.
	PreviewDisbursementNotice(ctx context.Context, rec *domain.LoanDisbursement) (domain.RenderedEmail, error)
}

// DisbursementSenderSvc sends disbursement notifications.
type DisbursementSenderSvc interface {
	// SendDisbursementNotice validates, renders and dispatches one notification.
	SendDisbursementNotice(ctx context.Context, rec *domain.LoanDisbursement) (*domain.SendResult, error)
}

// DisbursementSvcFacade combines all disbursement notification service interfaces
type DisbursementSvcFacade interface {
	DisbursementPreviewSvc
	DisbursementSenderSvc
}
