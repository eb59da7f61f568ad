package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "IS_PRODUCTION", "EMAIL_PROVIDER", "RESEND_API_KEY", "RESEND_BASE_URL", "FROM_EMAIL",
	"EMAIL_SEND_TIMEOUT", "PUBLIC_BASE_URL", "DEPLOYMENT_HOSTNAME", "AWS_REGION", "JWT_SECRET",
	"RATE_LIMIT", "REDIS_URL", "CORS_ALLOWED_ORIGINS", "POSTHOG_API_KEY", "MAX_ATTACHMENT_BYTES",
}

// clearEnv blanks every key; empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, config.ProviderLog, cfg.EmailProvider)
	assert.Equal(t, config.DefaultFromEmail, cfg.FromEmail)
	assert.Equal(t, config.DefaultResendURL, cfg.ResendBaseURL)
	assert.Equal(t, config.DefaultSendTimeout, cfg.SendTimeout)
	assert.Equal(t, "30-M", cfg.RateLimit)
	assert.Equal(t, int64(10<<20), cfg.MaxAttachmentLen)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_ResendWhenKeyPresent(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("FROM_EMAIL", "Y99 <no-reply@y99.vn>")
	t.Setenv("EMAIL_SEND_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.vn, https://b.vn ,")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.ProviderResend, cfg.EmailProvider)
	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
	assert.Equal(t, []string{"https://a.vn", "https://b.vn"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_ProductionRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("IS_PRODUCTION", "true")

	_, err := config.LoadConfig()

	assert.ErrorContains(t, err, "RESEND_API_KEY")
}

func TestLoadConfig_InvalidTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_SEND_TIMEOUT", "soon")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.DefaultSendTimeout, cfg.SendTimeout)
}

func TestLoadConfig_AttachmentLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_ATTACHMENT_BYTES", "1048576")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), cfg.MaxAttachmentLen)

	t.Setenv("MAX_ATTACHMENT_BYTES", "20971520")

	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.MaxAttachmentBytes, cfg.MaxAttachmentLen)
}

func TestLoadConfig_SES(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.ProviderSES, cfg.EmailProvider)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestConfig_Validate(t *testing.T) {
	valid := config.Config{EmailProvider: config.ProviderLog, FromEmail: "a@x.com", MaxAttachmentLen: 1}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{name: "unknown provider", mutate: func(c *config.Config) { c.EmailProvider = "smtp" }, want: "unknown EMAIL_PROVIDER"},
		{name: "resend without key", mutate: func(c *config.Config) { c.EmailProvider = config.ProviderResend }, want: "RESEND_API_KEY"},
		{name: "ses without region", mutate: func(c *config.Config) { c.EmailProvider = config.ProviderSES }, want: "AWS_REGION"},
		{name: "bad from", mutate: func(c *config.Config) { c.FromEmail = "nobody" }, want: "FROM_EMAIL"},
		{name: "bad attachment limit", mutate: func(c *config.Config) { c.MaxAttachmentLen = 0 }, want: "MAX_ATTACHMENT_BYTES"},
		{name: "attachment limit above cap", mutate: func(c *config.Config) { c.MaxAttachmentLen = domain.MaxAttachmentBytes + 1 }, want: "MAX_ATTACHMENT_BYTES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}
