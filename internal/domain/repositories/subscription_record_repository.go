package repositories

import (
	"context"

	"paysentry.backend/internal/domain/entities"
)

// SubscriptionRecordRepository defines subscription record store operations
type SubscriptionRecordRepository interface {
	Save(ctx context.Context, record *entities.SubscriptionRecord) error
	GetByBusinessID(ctx context.Context, businessSubscriptionID string) (*entities.SubscriptionRecord, error)
	GetByProviderID(ctx context.Context, subscriptionID string) (*entities.SubscriptionRecord, error)
}
