// Package email provides the transactional email providers behind
// services.EmailDispatcher.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/resend/resend-go/v2"
)

const (
	ProviderResend = "resend"

	// maxErrorPayload bounds how much of a provider error body is kept.
	maxErrorPayload = 64 << 10
)

// ResendDispatcher sends email through the Resend HTTP API.
type ResendDispatcher struct {
	client  *resend.Client
	timeout time.Duration
}

// NewResendDispatcher creates a Resend client authenticated with apiKey.
// baseURL overrides the API endpoint when non-empty; every send is bounded by timeout.
func NewResendDispatcher(apiKey, baseURL string, timeout time.Duration) (*ResendDispatcher, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &errorBodyCapture{next: http.DefaultTransport},
	}
	client := resend.NewCustomClient(httpClient, apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base URL %q: %w", baseURL, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}
	return &ResendDispatcher{client: client, timeout: timeout}, nil
}

// Name returns the provider name.
func (d *ResendDispatcher) Name() string {
	return ProviderResend
}

// Send submits msg in a single API call.
func (d *ResendDispatcher) Send(ctx context.Context, msg domain.OutboundEmail) (domain.DispatchReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	capture := &responseCapture{}
	ctx = context.WithValue(ctx, captureKey{}, capture)

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if len(msg.CC) > 0 {
		params.Cc = msg.CC
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	sent, err := d.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		dispatchErr := classifyResendError(ctx, err, capture)
		logger.Error("Resend send failed",
			slog.String("code", dispatchErr.Code),
			slog.Int("status", dispatchErr.StatusCode),
			slog.String("error", dispatchErr.Message),
		)
		return domain.DispatchReceipt{}, dispatchErr
	}
	if sent == nil || sent.Id == "" {
		return domain.DispatchReceipt{}, &apperrors.DispatchError{
			Provider: ProviderResend,
			Code:     apperrors.CodeProviderRejected,
			Message:  "provider response carried no message id",
		}
	}

	logger.Info("Email sent via Resend", slog.String("email_id", sent.Id))
	return domain.DispatchReceipt{ID: sent.Id, Provider: ProviderResend}, nil
}

func classifyResendError(ctx context.Context, err error, capture *responseCapture) *apperrors.DispatchError {
	if capture.StatusCode != 0 {
		return &apperrors.DispatchError{
			Provider:   ProviderResend,
			Code:       apperrors.CodeProviderRejected,
			Message:    providerMessage(capture.Body, err),
			StatusCode: capture.StatusCode,
			Payload:    capture.Body,
			Err:        err,
		}
	}
	if isTimeout(ctx, err) {
		return &apperrors.DispatchError{
			Provider: ProviderResend,
			Code:     apperrors.CodeTimeout,
			Message:  "provider did not respond in time",
			Err:      err,
		}
	}
	return &apperrors.DispatchError{
		Provider: ProviderResend,
		Code:     apperrors.CodeNetwork,
		Message:  err.Error(),
		Err:      err,
	}
}

// providerMessage pulls "message" out of a provider error body, falling back
// to the client library's error text.
func providerMessage(body []byte, fallback error) string {
	var payload struct {
		Message string `json:"message"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		if payload.Name != "" {
			return payload.Name + ": " + payload.Message
		}
		return payload.Message
	}
	return fallback.Error()
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type captureKey struct{}

// responseCapture receives the status and body of a non-2xx provider response.
type responseCapture struct {
	StatusCode int
	Body       []byte
}

// errorBodyCapture tees non-2xx response bodies into the responseCapture
// carried by the request context, leaving the body readable for the client library.
type errorBodyCapture struct {
	next http.RoundTripper
}

func (t *errorBodyCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	capture, ok := req.Context().Value(captureKey{}).(*responseCapture)
	if !ok || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	capture.StatusCode = resp.StatusCode
	capture.Body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
