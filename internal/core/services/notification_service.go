package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/SscSPs/disbursement_notifier/internal/utils/mailaddr"
)

type notificationService struct {
	BaseService
	renderer   *EmailRenderer
	dispatcher portssvc.EmailDispatcher
	fromEmail  string
	now        func() time.Time
}

// NotificationServiceOption is a function that configures a notificationService
type NotificationServiceOption func(*notificationService)

// WithClock overrides the time source used for SentAt.
func WithClock(now func() time.Time) NotificationServiceOption {
	return func(s *notificationService) {
		s.now = now
	}
}

// NewNotificationService wires the renderer and a dispatcher into the send pipeline.
func NewNotificationService(renderer *EmailRenderer, dispatcher portssvc.EmailDispatcher, fromEmail string, options ...NotificationServiceOption) portssvc.DisbursementSvcFacade {
	svc := &notificationService{
		renderer:   renderer,
		dispatcher: dispatcher,
		fromEmail:  fromEmail,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

var _ portssvc.DisbursementSvcFacade = (*notificationService)(nil)

func (s *notificationService) PreviewDisbursementNotice(ctx context.Context, rec *domain.LoanDisbursement) (domain.RenderedEmail, error) {
	if err := rec.Validate(); err != nil {
		return domain.RenderedEmail{}, err
	}
	return s.renderer.Render(rec, "")
}

// SendDisbursementNotice runs validate -> render -> dispatch. Validation
// failures return before the dispatcher is touched.
func (s *notificationService) SendDisbursementNotice(ctx context.Context, rec *domain.LoanDisbursement) (*domain.SendResult, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("contract_code", rec.ContractCode),
		slog.String("provider", s.dispatcher.Name()),
	)

	if err := rec.Validate(); err != nil {
		logger.Warn("Disbursement record rejected", slog.String("error", err.Error()))
		return nil, err
	}
	cc, err := mailaddr.ResolveCCList(rec.CCEmails)
	if err != nil {
		logger.Warn("CC list rejected", slog.String("error", err.Error()))
		return nil, err
	}

	rendered, err := s.renderer.Render(rec, "")
	if err != nil {
		s.LogError(ctx, err, "Failed to render disbursement email", slog.String("contract_code", rec.ContractCode))
		return nil, err
	}

	msg := domain.OutboundEmail{
		From:        s.fromEmail,
		To:          rec.CustomerEmail,
		CC:          cc,
		Subject:     rendered.Subject,
		HTML:        rendered.HTML,
		Attachments: rec.Attachments,
	}

	receipt, err := s.dispatcher.Send(middleware.WithLogger(ctx, logger), msg)
	if err != nil {
		logger.Error("Failed to dispatch disbursement email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to send disbursement notice for contract %s: %w", rec.ContractCode, err)
	}

	logger.Info("Disbursement email sent",
		slog.String("message_id", receipt.ID),
		slog.Int("cc_count", len(cc)),
		slog.Int("attachment_count", len(rec.Attachments)),
		slog.Int("html_length", len(rendered.HTML)),
	)

	result := &domain.SendResult{
		MessageID:   receipt.ID,
		Provider:    receipt.Provider,
		To:          rec.CustomerEmail,
		CC:          cc,
		Subject:     rendered.Subject,
		Attachments: make([]domain.AttachmentMeta, 0, len(rec.Attachments)),
		SentAt:      s.now().UTC(),
	}
	for _, a := range rec.Attachments {
		result.Attachments = append(result.Attachments, domain.AttachmentMeta{Name: a.Filename, Size: a.Size(), Type: a.ContentType})
	}
	return result, nil
}
