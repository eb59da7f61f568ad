package config

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/utils/mailaddr"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values of EMAIL_PROVIDER.
const (
	ProviderResend = "resend"
	ProviderSES    = "ses"
	ProviderLog    = "log"
)

const (
	DefaultFromEmail    = "onboarding@resend.dev"
	DefaultResendURL    = "https://api.resend.com/"
	DefaultSendTimeout  = 10 * time.Second
	DefaultFallbackSite = "https://y99.vn"
)

// Config holds application configuration. It is built once at startup and
// passed by pointer into constructors; nothing mutates it afterwards.
type Config struct {
	Port         string
	IsProduction bool

	// Email dispatch
	EmailProvider    string
	ResendAPIKey     string
	ResendBaseURL    string
	FromEmail        string
	SendTimeout      time.Duration
	AWSRegion        string
	MaxAttachmentLen int64

	// Logo resolution for the email body
	PublicBaseURL      string
	DeploymentHostname string

	// HTTP surface
	JWTSecret          string
	RateLimit          string
	RedisURL           string
	CORSAllowedOrigins []string
	PosthogAPIKey      string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("EMAIL_PROVIDER", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("RESEND_BASE_URL", DefaultResendURL)
	v.SetDefault("FROM_EMAIL", DefaultFromEmail)
	v.SetDefault("EMAIL_SEND_TIMEOUT", DefaultSendTimeout.String())
	v.SetDefault("AWS_REGION", "ap-southeast-1")
	v.SetDefault("MAX_ATTACHMENT_BYTES", domain.MaxAttachmentBytes)
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("DEPLOYMENT_HOSTNAME", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT", "30-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		ResendAPIKey:       v.GetString("RESEND_API_KEY"),
		ResendBaseURL:      v.GetString("RESEND_BASE_URL"),
		FromEmail:          strings.TrimSpace(v.GetString("FROM_EMAIL")),
		AWSRegion:          v.GetString("AWS_REGION"),
		MaxAttachmentLen:   v.GetInt64("MAX_ATTACHMENT_BYTES"),
		PublicBaseURL:      strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")),
		DeploymentHostname: strings.TrimSpace(v.GetString("DEPLOYMENT_HOSTNAME")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RedisURL:           v.GetString("REDIS_URL"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = DefaultFromEmail
	}

	// The per-file limit can be lowered but never raised above the domain cap.
	if cfg.MaxAttachmentLen > domain.MaxAttachmentBytes {
		log.Printf("Warning: MAX_ATTACHMENT_BYTES (%d) exceeds the %d byte cap. Clamping.\n", cfg.MaxAttachmentLen, domain.MaxAttachmentBytes)
		cfg.MaxAttachmentLen = domain.MaxAttachmentBytes
	}

	timeoutStr := v.GetString("EMAIL_SEND_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = DefaultSendTimeout
		log.Printf("Warning: Invalid value for EMAIL_SEND_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.SendTimeout = timeout

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.EmailProvider = strings.ToLower(strings.TrimSpace(v.GetString("EMAIL_PROVIDER")))
	if cfg.EmailProvider == "" {
		cfg.EmailProvider = ProviderResend
		if cfg.ResendAPIKey == "" && !cfg.IsProduction {
			log.Println("Warning: RESEND_API_KEY not set. Emails will only be logged (EMAIL_PROVIDER=log).")
			cfg.EmailProvider = ProviderLog
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that would make every send fail.
func (c *Config) Validate() error {
	switch c.EmailProvider {
	case ProviderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=%s", ProviderResend)
		}
	case ProviderSES:
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required when EMAIL_PROVIDER=%s", ProviderSES)
		}
	case ProviderLog:
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}
	if from, err := mail.ParseAddress(c.FromEmail); err != nil || !mailaddr.IsValid(from.Address) {
		return fmt.Errorf("FROM_EMAIL %q is not a valid email address", c.FromEmail)
	}
	if c.MaxAttachmentLen <= 0 || c.MaxAttachmentLen > domain.MaxAttachmentBytes {
		return fmt.Errorf("MAX_ATTACHMENT_BYTES must be between 1 and %d, got %d", domain.MaxAttachmentBytes, c.MaxAttachmentLen)
	}
	return nil
}
