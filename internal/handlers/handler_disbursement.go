package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/dto"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// disbursementHandler handles HTTP requests for disbursement notifications.
type disbursementHandler struct {
	disbursementService portssvc.DisbursementSvcFacade
	maxAttachmentBytes  int64
	posthogClient       *utils.PosthogClientWrapper
}

func newDisbursementHandler(ds portssvc.DisbursementSvcFacade, maxAttachmentBytes int64, posthogClient *utils.PosthogClientWrapper) *disbursementHandler {
	return &disbursementHandler{
		disbursementService: ds,
		maxAttachmentBytes:  maxAttachmentBytes,
		posthogClient:       posthogClient,
	}
}

// registerDisbursementRoutes registers the notification routes under rg.
func registerDisbursementRoutes(rg *gin.RouterGroup, h *disbursementHandler) {
	disbursements := rg.Group("/disbursements")
	{
		disbursements.POST("/send", h.sendDisbursement)
		disbursements.POST("/preview", h.previewDisbursement)
		disbursements.GET("/sample", h.getSample)
	}
}

// sendDisbursement godoc
// @Summary Send a disbursement notification
// @Description Validates the record, renders the email and sends it through the configured provider.
// @Description Accepts application/json or multipart/form-data with an "attachments" file list.
// @Tags disbursements
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 502 {object} dto.ErrorResponse "Provider rejected or unreachable"
// @Failure 504 {object} dto.ErrorResponse "Provider timed out"
// @Router /disbursements/send [post]
func (h *disbursementHandler) sendDisbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rec, err := h.bindRecord(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("contract_code", rec.ContractCode))
	logger.Info("Received request to send disbursement notice", slog.Int("attachment_count", len(rec.Attachments)))

	res, err := h.disbursementService.SendDisbursementNotice(c.Request.Context(), rec)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "disbursement_email_sent", map[string]any{
		"provider":         res.Provider,
		"cc_count":         len(res.CC),
		"attachment_count": len(res.Attachments),
	})
	c.JSON(http.StatusOK, dto.ToSendEmailResponse(res))
}

// previewDisbursement godoc
// @Summary Preview a disbursement notification
// @Description Validates and renders the email without sending it.
// @Tags disbursements
// @Accept json
// @Produce json
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /disbursements/preview [post]
func (h *disbursementHandler) previewDisbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rec, err := h.bindRecord(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	rendered, err := h.disbursementService.PreviewDisbursementNotice(c.Request.Context(), rec)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPreviewResponse(rendered))
}

// getSample godoc
// @Summary Sample disbursement record
// @Description Returns a filled-in record used to pre-fill the form.
// @Tags disbursements
// @Produce json
// @Success 200 {object} dto.DisbursementFields
// @Router /disbursements/sample [get]
func (h *disbursementHandler) getSample(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromLoanDisbursement(domain.SampleLoanDisbursement()))
}

// bindRecord resolves either inbound variant into a validated record.
func (h *disbursementHandler) bindRecord(c *gin.Context) (*domain.LoanDisbursement, error) {
	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		var req dto.MultipartDisbursementRequest
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			return nil, dto.BindingError(err)
		}
		attachments, err := h.readAttachments(req.Attachments)
		if err != nil {
			return nil, err
		}
		return req.ToLoanDisbursement(attachments)
	}

	var req dto.JSONDisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, dto.BindingError(err)
	}
	return req.ToLoanDisbursement(nil)
}

// readAttachments loads uploaded files, skipping empty ones.
func (h *disbursementHandler) readAttachments(files []*multipart.FileHeader) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(files))
	for _, fh := range files {
		if fh == nil || fh.Size == 0 {
			continue
		}
		if fh.Size > h.maxAttachmentBytes {
			return nil, apperrors.NewValidationError("attachments", apperrors.CodeAttachmentTooLarge, apperrors.ErrAttachmentTooLarge,
				"%s is %d bytes, limit is %d", fh.Filename, fh.Size, h.maxAttachmentBytes)
		}
		content, err := readFile(fh)
		if err != nil {
			return nil, apperrors.NewValidationError("attachments", apperrors.CodeInvalidField, err,
				"could not read %s", fh.Filename)
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(content)
		}
		attachments = append(attachments, domain.Attachment{
			Filename:    fh.Filename,
			ContentType: contentType,
			Content:     content,
		})
	}
	return attachments, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeError maps service errors to HTTP statuses.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var ve *apperrors.ValidationError
	var de *apperrors.DispatchError
	switch {
	case errors.As(err, &ve):
		logger.Warn("Validation error", slog.String("field", ve.Field), slog.String("error", ve.Message))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message, Code: ve.Code, Field: ve.Field})
	case errors.Is(err, apperrors.ErrDispatchTimeout):
		logger.Error("Email provider timed out", slog.String("error", err.Error()))
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "Email provider did not respond in time", Code: apperrors.CodeTimeout})
	case errors.As(err, &de):
		logger.Error("Email provider rejected the message", slog.String("error", err.Error()), slog.String("payload", string(de.Payload)))
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: de.Message, Code: de.Code})
	default:
		logger.Error("Unexpected error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
