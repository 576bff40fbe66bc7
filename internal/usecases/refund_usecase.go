package usecases

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/domain/repositories"
	"paysentry.backend/pkg/idempotency"
	"paysentry.backend/pkg/logger"
)

// CreateRefundInput is the refund staging request.
type CreateRefundInput struct {
	UserID            string `json:"user_id" binding:"required"`
	BusinessRefundID  string `json:"business_refund_id" binding:"required"`
	BusinessPaymentID string `json:"business_payment_id" binding:"required"`
	IdempotencyKey    string `json:"idempotency_key"`
}

// RefundUsecase stages refund records and submits them to the provider.
// Status convergence after staging belongs to the webhook engine.
type RefundUsecase struct {
	payments repositories.PaymentRecordRepository
	refunds  repositories.RefundRecordRepository
	creator  repositories.RefundCreator
}

// NewRefundUsecase creates a new refund usecase
func NewRefundUsecase(
	payments repositories.PaymentRecordRepository,
	refunds repositories.RefundRecordRepository,
	creator repositories.RefundCreator,
) *RefundUsecase {
	return &RefundUsecase{payments: payments, refunds: refunds, creator: creator}
}

// CreateRefund validates the guardrails, stages a Pending record and
// asks the provider for the refund under a deterministic idempotency
// key. A provider failure leaves the Pending record in place so
// webhooks or reconciliation can still converge it after a retry.
func (u *RefundUsecase) CreateRefund(ctx context.Context, input CreateRefundInput) (*entities.RefundRecord, error) {
	payment, err := u.payments.GetByBusinessID(ctx, input.BusinessPaymentID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.NotFound("payment not found")
	}
	if err != nil {
		return nil, err
	}

	if payment.UserID != input.UserID {
		return nil, domainerrors.Forbidden("payment belongs to another user")
	}
	if payment.Status != entities.PaymentStatusSucceeded || !payment.PaymentIntentID.Valid {
		return nil, domainerrors.NewAppError(400, "payment is not refundable", domainerrors.ErrPaymentNotRefundable)
	}

	record := &entities.RefundRecord{
		UserID:            input.UserID,
		BusinessRefundID:  input.BusinessRefundID,
		BusinessPaymentID: input.BusinessPaymentID,
		Status:            entities.RefundStatusPending,
		PaymentIntentID:   payment.PaymentIntentID,
	}
	if err := u.refunds.Save(ctx, record); err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	if key == "" {
		key, err = idempotency.Key("refund", input.BusinessRefundID)
		if err != nil {
			return nil, err
		}
	}

	refundID, err := u.creator.CreateRefund(ctx, payment.PaymentIntentID.String, key)
	if err != nil {
		logger.Warn(ctx, "Provider refund submission failed",
			zap.String("business_refund_id", input.BusinessRefundID),
			zap.Error(err),
		)
		return nil, err
	}

	record.RefundID = null.StringFrom(refundID)
	if err := u.refunds.Save(ctx, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Refund staged",
		zap.String("user_id", input.UserID),
		zap.String("business_refund_id", input.BusinessRefundID),
		zap.String("business_payment_id", input.BusinessPaymentID),
		zap.String("refund_id", refundID),
	)
	return record, nil
}
