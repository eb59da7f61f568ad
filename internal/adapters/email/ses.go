package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
)

const ProviderSES = "ses"

// sesAPI is the part of *sesv2.Client the dispatcher uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESDispatcher sends email through AWS SES v2.
type SESDispatcher struct {
	client  sesAPI
	timeout time.Duration
	now     func() time.Time
}

// NewSESDispatcher loads the default AWS credential chain for region.
func NewSESDispatcher(ctx context.Context, region string, timeout time.Duration) (*SESDispatcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newSESDispatcher(sesv2.NewFromConfig(cfg), timeout), nil
}

func newSESDispatcher(client sesAPI, timeout time.Duration) *SESDispatcher {
	return &SESDispatcher{client: client, timeout: timeout, now: time.Now}
}

// Name returns the provider name.
func (d *SESDispatcher) Name() string {
	return ProviderSES
}

// Send submits msg as a simple message, or as raw MIME when it has attachments.
func (d *SESDispatcher) Send(ctx context.Context, msg domain.OutboundEmail) (domain.DispatchReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
	}
	if len(msg.CC) > 0 {
		input.Destination.CcAddresses = msg.CC
	}

	if len(msg.Attachments) == 0 {
		input.Content = &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
				},
			},
		}
	} else {
		raw, err := buildRawMessage(msg, d.now())
		if err != nil {
			return domain.DispatchReceipt{}, &apperrors.DispatchError{
				Provider: ProviderSES,
				Code:     apperrors.CodeProviderRejected,
				Message:  err.Error(),
				Err:      err,
			}
		}
		input.Content = &types.EmailContent{Raw: &types.RawMessage{Data: raw}}
	}

	out, err := d.client.SendEmail(ctx, input)
	if err != nil {
		dispatchErr := classifySESError(ctx, err)
		logger.Error("SES send failed",
			slog.String("code", dispatchErr.Code),
			slog.String("error", dispatchErr.Message),
		)
		return domain.DispatchReceipt{}, dispatchErr
	}

	id := aws.ToString(out.MessageId)
	logger.Info("Email sent via SES", slog.String("message_id", id))
	return domain.DispatchReceipt{ID: id, Provider: ProviderSES}, nil
}

func classifySESError(ctx context.Context, err error) *apperrors.DispatchError {
	if isTimeout(ctx, err) {
		return &apperrors.DispatchError{
			Provider: ProviderSES,
			Code:     apperrors.CodeTimeout,
			Message:  "provider did not respond in time",
			Err:      err,
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		de := &apperrors.DispatchError{
			Provider: ProviderSES,
			Code:     apperrors.CodeProviderRejected,
			Message:  apiErr.ErrorCode() + ": " + apiErr.ErrorMessage(),
			Payload:  []byte(apiErr.Error()),
			Err:      err,
		}
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			de.StatusCode = respErr.HTTPStatusCode()
		}
		return de
	}

	return &apperrors.DispatchError{
		Provider: ProviderSES,
		Code:     apperrors.CodeNetwork,
		Message:  err.Error(),
		Err:      err,
	}
}
