package usecases

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/domain/repositories"
	"paysentry.backend/pkg/idempotency"
	"paysentry.backend/pkg/logger"
)

// Checkout modes accepted at staging.
const (
	CheckoutModePayment      = "payment"
	CheckoutModeSubscription = "subscription"
)

// CreateCheckoutInput is the checkout staging request.
type CreateCheckoutInput struct {
	UserID                 string `json:"user_id" binding:"required"`
	Mode                   string `json:"mode" binding:"required"`
	BusinessPaymentID      string `json:"business_payment_id"`
	BusinessSubscriptionID string `json:"business_subscription_id"`
	PriceID                string `json:"price_id" binding:"required"`
	IdempotencyKey         string `json:"idempotency_key"`
}

// CheckoutResult is returned to the caller for redirecting the payer.
type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutUsecase stages the local record before asking the provider
// for a hosted session. The record is created first so a webhook
// arriving ahead of our HTTP response still finds its target.
type CheckoutUsecase struct {
	payments      repositories.PaymentRecordRepository
	subscriptions repositories.SubscriptionRecordRepository
	sessions      repositories.CheckoutSessionCreator
}

// NewCheckoutUsecase creates a new checkout usecase
func NewCheckoutUsecase(
	payments repositories.PaymentRecordRepository,
	subscriptions repositories.SubscriptionRecordRepository,
	sessions repositories.CheckoutSessionCreator,
) *CheckoutUsecase {
	return &CheckoutUsecase{payments: payments, subscriptions: subscriptions, sessions: sessions}
}

// CreateCheckout stages the record for the requested mode and creates
// the provider session. Re-staging an existing business id is rejected
// so a converged record is never reset to its initial status.
func (u *CheckoutUsecase) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (*CheckoutResult, error) {
	var (
		scope      string
		businessID string
	)

	switch input.Mode {
	case CheckoutModePayment:
		if input.BusinessPaymentID == "" {
			return nil, domainerrors.BadRequest("business_payment_id is required for payment mode")
		}
		scope, businessID = "checkout_payment", input.BusinessPaymentID

		_, err := u.payments.GetByBusinessID(ctx, businessID)
		if err == nil {
			return nil, domainerrors.Conflict("payment already staged")
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if err := u.payments.Save(ctx, &entities.PaymentRecord{
			UserID:            input.UserID,
			BusinessPaymentID: businessID,
			Status:            entities.PaymentStatusPending,
		}); err != nil {
			return nil, err
		}

	case CheckoutModeSubscription:
		if input.BusinessSubscriptionID == "" {
			return nil, domainerrors.BadRequest("business_subscription_id is required for subscription mode")
		}
		scope, businessID = "checkout_subscription", input.BusinessSubscriptionID

		_, err := u.subscriptions.GetByBusinessID(ctx, businessID)
		if err == nil {
			return nil, domainerrors.Conflict("subscription already staged")
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if err := u.subscriptions.Save(ctx, &entities.SubscriptionRecord{
			UserID:                 input.UserID,
			BusinessSubscriptionID: businessID,
			Status:                 entities.SubscriptionStatusIncomplete,
		}); err != nil {
			return nil, err
		}

	default:
		return nil, domainerrors.BadRequest("mode must be payment or subscription")
	}

	key := input.IdempotencyKey
	if key == "" {
		var err error
		key, err = idempotency.Key(scope, businessID)
		if err != nil {
			return nil, err
		}
	}

	sessionID, url, err := u.sessions.CreateSession(ctx, repositories.CheckoutSessionInput{
		Mode:                   input.Mode,
		PriceID:                input.PriceID,
		BusinessPaymentID:      input.BusinessPaymentID,
		BusinessSubscriptionID: input.BusinessSubscriptionID,
		IdempotencyKey:         key,
	})
	if err != nil {
		// The staged record stays: webhooks or reconciliation can still
		// converge it if the session was created provider-side.
		logger.Warn(ctx, "Checkout session creation failed",
			zap.String("mode", input.Mode),
			zap.String("business_id", businessID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info(ctx, "Checkout staged",
		zap.String("user_id", input.UserID),
		zap.String("mode", input.Mode),
		zap.String("business_id", businessID),
		zap.String("checkout_session_id", sessionID),
	)
	return &CheckoutResult{SessionID: sessionID, URL: url}, nil
}
