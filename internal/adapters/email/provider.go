package email

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
)

// NewDispatcher builds the dispatcher selected by cfg.EmailProvider.
func NewDispatcher(ctx context.Context, cfg *config.Config) (portssvc.EmailDispatcher, error) {
	switch cfg.EmailProvider {
	case config.ProviderResend:
		return NewResendDispatcher(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.SendTimeout)
	case config.ProviderSES:
		return NewSESDispatcher(ctx, cfg.AWSRegion, cfg.SendTimeout)
	case config.ProviderLog:
		return NewLogDispatcher(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

var (
	_ portssvc.EmailDispatcher = (*ResendDispatcher)(nil)
	_ portssvc.EmailDispatcher = (*SESDispatcher)(nil)
	_ portssvc.EmailDispatcher = (*LogDispatcher)(nil)
)
