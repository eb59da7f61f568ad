package email

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/google/uuid"
)

const ProviderLog = "log"

// LogDispatcher only logs the envelope. It stands in for a real provider in
// local development.
type LogDispatcher struct{}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Name returns the provider name.
func (d *LogDispatcher) Name() string {
	return ProviderLog
}

// Send logs msg and returns a generated id.
func (d *LogDispatcher) Send(ctx context.Context, msg domain.OutboundEmail) (domain.DispatchReceipt, error) {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	id := uuid.NewString()
	middleware.GetLoggerFromCtx(ctx).Info("Email send simulated",
		slog.String("email_id", id),
		slog.String("from", msg.From),
		slog.String("to", msg.To),
		slog.String("cc", strings.Join(msg.CC, ", ")),
		slog.String("subject", msg.Subject),
		slog.String("attachments", strings.Join(names, ", ")),
		slog.Int("html_length", len(msg.HTML)),
	)
	return domain.DispatchReceipt{ID: id, Provider: ProviderLog}, nil
}
