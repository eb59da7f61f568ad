package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/dto"
	"github.com/SscSPs/disbursement_notifier/internal/middleware"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/SscSPs/disbursement_notifier/internal/utils/mailaddr"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// registerFormUtilRoutes registers the helpers the form calls while typing.
func registerFormUtilRoutes(rg *gin.RouterGroup) {
	u := rg.Group("/utils")
	{
		u.GET("/amount-words", amountWords)
		u.POST("/cc-preview", ccPreview)
	}
}

// amountWords godoc
// @Summary Format an amount and spell it in Vietnamese
// @Tags utils
// @Produce json
// @Param amount query string true "Amount, optionally dot-grouped (2.700.000)"
// @Success 200 {object} dto.AmountWordsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /utils/amount-words [get]
func amountWords(c *gin.Context) {
	raw, ok := c.GetQuery("amount")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing required field: amount", Field: "amount"})
		return
	}

	parsed := utils.ParseCurrencyInput(raw)
	if !dto.AmountFits(parsed) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "amount is too large", Code: apperrors.CodeInvalidField, Field: "amount"})
		return
	}
	amount := parsed.IntPart()
	c.JSON(http.StatusOK, dto.AmountWordsResponse{
		Amount:    amount,
		Formatted: utils.FormatCurrencyInput(decimal.NewNullDecimal(decimal.NewFromInt(amount))),
		Words:     utils.CapitalizeFirst(utils.ToVietnameseWords(amount)),
	})
}

// ccPreview godoc
// @Summary Show which CC addresses would be used
// @Tags utils
// @Accept json
// @Produce json
// @Param body body dto.CCPreviewRequest true "Raw CC field"
// @Success 200 {object} dto.CCPreviewResponse
// @Router /utils/cc-preview [post]
func ccPreview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CCPreviewRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind CC preview request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CCPreviewResponse{
		Raw:   mailaddr.ParseRawCCList(req.CCEmails),
		Valid: mailaddr.ParseValidCCList(req.CCEmails),
	})
}
