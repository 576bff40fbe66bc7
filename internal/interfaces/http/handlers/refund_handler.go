package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/interfaces/http/response"
	"paysentry.backend/internal/usecases"
)

// RefundService stages refunds against succeeded payments.
type RefundService interface {
	CreateRefund(ctx context.Context, input usecases.CreateRefundInput) (*entities.RefundRecord, error)
}

// RefundHandler handles refund staging
type RefundHandler struct {
	refundUsecase RefundService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundUsecase RefundService) *RefundHandler {
	return &RefundHandler{refundUsecase: refundUsecase}
}

// HandleCreateRefund stages a refund for a succeeded payment
// POST /refunds
func (h *RefundHandler) HandleCreateRefund(c *gin.Context) {
	var input usecases.CreateRefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.refundUsecase.CreateRefund(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"refund_id": record.RefundID.String,
		"status":    record.Status,
	})
}
