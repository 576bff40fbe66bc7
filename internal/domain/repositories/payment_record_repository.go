package repositories

import (
	"context"

	"paysentry.backend/internal/domain/entities"
)

// PaymentRecordRepository defines payment record store operations.
// Save is an upsert keyed by business payment id; the provider-id index
// is maintained atomically with the record write.
type PaymentRecordRepository interface {
	Save(ctx context.Context, record *entities.PaymentRecord) error
	GetByBusinessID(ctx context.Context, businessPaymentID string) (*entities.PaymentRecord, error)
	GetByProviderID(ctx context.Context, paymentIntentID string) (*entities.PaymentRecord, error)
}
