package repositories

import (
	"context"

	"paysentry.backend/internal/domain/entities"
)

// RefundRecordRepository defines refund record store operations
type RefundRecordRepository interface {
	Save(ctx context.Context, record *entities.RefundRecord) error
	GetByBusinessID(ctx context.Context, businessRefundID string) (*entities.RefundRecord, error)
	GetByProviderID(ctx context.Context, refundID string) (*entities.RefundRecord, error)
}
