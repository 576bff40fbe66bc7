package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/interfaces/http/response"
	"paysentry.backend/internal/usecases"
)

// CheckoutService stages records and creates hosted checkout sessions.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, input usecases.CreateCheckoutInput) (*usecases.CheckoutResult, error)
}

// CheckoutHandler handles checkout staging
type CheckoutHandler struct {
	checkoutUsecase CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutUsecase CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase}
}

// HandleCreateCheckout stages a payment or subscription checkout
// POST /checkouts
func (h *CheckoutHandler) HandleCreateCheckout(c *gin.Context) {
	var input usecases.CreateCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.checkoutUsecase.CreateCheckout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
