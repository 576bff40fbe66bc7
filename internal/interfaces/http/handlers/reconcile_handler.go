package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/interfaces/http/response"
	"paysentry.backend/internal/usecases"
)

// ReconcileService drives one reconciliation pass.
type ReconcileService interface {
	Reconcile(ctx context.Context, input usecases.ReconcileInput) (*usecases.ReconcileResult, error)
}

// ReconcileHandler handles the operator reconciliation endpoint
type ReconcileHandler struct {
	reconcileUsecase ReconcileService
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(reconcileUsecase ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileUsecase: reconcileUsecase}
}

// HandleReconcile replays recent provider events through the pipeline
// POST /reconcile
func (h *ReconcileHandler) HandleReconcile(c *gin.Context) {
	var input struct {
		Limit                int64  `json:"limit"`
		CreatedAfter         *int64 `json:"created_after"`
		StartingAfterEventID string `json:"starting_after_event_id"`
	}
	// All parameters are optional; an empty body runs with defaults.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, domainerrors.BadRequest(err.Error()))
			return
		}
	}

	reconcileInput := usecases.ReconcileInput{
		Limit:                input.Limit,
		StartingAfterEventID: input.StartingAfterEventID,
	}
	if input.CreatedAfter != nil {
		createdAfter := time.Unix(*input.CreatedAfter, 0)
		reconcileInput.CreatedAfter = &createdAfter
	}

	result, err := h.reconcileUsecase.Reconcile(c.Request.Context(), reconcileInput)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
