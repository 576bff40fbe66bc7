package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/usecases"
)

// WebhookService runs the ingest pipeline on a raw delivery.
type WebhookService interface {
	Ingest(ctx context.Context, rawBody []byte, signatureHeader string) (*usecases.IngestResult, error)
}

// WebhookHandler handles the provider webhook endpoint
type WebhookHandler struct {
	webhookUsecase WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// HandleStripeWebhook handles incoming provider deliveries
// POST /webhooks/stripe
//
// The body is read as raw bytes and handed to verification untouched;
// re-encoding it here would invalidate the signature.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failed", "error": "unable to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failed", "error": "missing Stripe-Signature header"})
		return
	}

	result, err := h.webhookUsecase.Ingest(c.Request.Context(), rawBody, signature)
	if err != nil {
		if isVerificationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failed", "error": err.Error()})
		return
	}

	switch result.Status {
	case usecases.IngestApplied:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case usecases.IngestDuplicate:
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
	case usecases.IngestInProgress:
		c.JSON(http.StatusConflict, gin.H{"status": "in_progress", "event_id": result.EventID})
	default:
		body := gin.H{"status": "failed", "event_id": result.EventID}
		if result.Outcome != nil && result.Outcome.ErrorMessage.Valid {
			body["error"] = result.Outcome.ErrorMessage.String
		}
		c.JSON(http.StatusConflict, body)
	}
}

func isVerificationError(err error) bool {
	return errors.Is(err, domainerrors.ErrSignatureMalformed) ||
		errors.Is(err, domainerrors.ErrSignatureTimestamp) ||
		errors.Is(err, domainerrors.ErrSignatureMismatch) ||
		errors.Is(err, domainerrors.ErrMalformedPayload)
}
