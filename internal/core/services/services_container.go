package services

import (
	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, dispatcher portssvc.EmailDispatcher) *portssvc.ServiceContainer {
	renderer := NewEmailRenderer(NewLogoResolver(cfg))
	return &portssvc.ServiceContainer{
		Disbursement: NewNotificationService(renderer, dispatcher, cfg.FromEmail),
	}
}
