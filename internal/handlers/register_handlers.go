package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/dto"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// limiterInstance and posthogClient may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	if err := dto.RegisterValidators(); err != nil {
		slog.Error("Failed to register request validators", slog.String("error", err.Error()))
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	apiMiddleware := []gin.HandlerFunc{}
	if limiterInstance != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiterInstance))
	}
	if cfg.JWTSecret != "" {
		apiMiddleware = append(apiMiddleware, middleware.AuthMiddleware(cfg.JWTSecret))
	}
	apiMiddleware = append(apiMiddleware, middleware.PosthogMiddleware(posthogClient))

	disbursement := newDisbursementHandler(services.Disbursement, cfg.MaxAttachmentLen, posthogClient)

	// Path used by the original form.
	legacy := r.Group("/api", apiMiddleware...)
	legacy.POST("/send-email", disbursement.sendDisbursement)

	v1 := r.Group("/api/v1", apiMiddleware...)
	registerDisbursementRoutes(v1, disbursement)
	registerFormUtilRoutes(v1)
}
