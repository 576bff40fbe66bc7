package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/infrastructure/models"
)

// SubscriptionRecordRepository implements subscription record store operations
type SubscriptionRecordRepository struct {
	db *gorm.DB
}

// NewSubscriptionRecordRepository creates a new subscription record repository
func NewSubscriptionRecordRepository(db *gorm.DB) *SubscriptionRecordRepository {
	return &SubscriptionRecordRepository{db: db}
}

// Save upserts a record keyed by business subscription id
func (r *SubscriptionRecordRepository) Save(ctx context.Context, record *entities.SubscriptionRecord) error {
	if record == nil {
		return domainerrors.ErrInvalidInput
	}
	if record.BusinessSubscriptionID == "" {
		return domainerrors.ErrInvalidInput
	}

	now := time.Now()
	m := models.SubscriptionRecord{
		BusinessSubscriptionID: record.BusinessSubscriptionID,
		UserID:                 record.UserID,
		Status:                 string(record.Status),
		CustomerID:             record.CustomerID,
		SubscriptionID:         record.SubscriptionID,
		PromotionOutcome:       record.PromotionOutcome,
		PromotionCouponID:      record.PromotionCouponID,
		PromotionCodeID:        record.PromotionCodeID,
		LastEventCreatedAt:     record.LastEventCreatedAt,
		CreatedAt:              record.CreatedAt,
		UpdatedAt:              now,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "status", "customer_id", "subscription_id",
			"promotion_outcome", "promotion_coupon_id", "promotion_code_id",
			"last_event_created_at", "updated_at",
		}),
	}).Create(&m).Error
}

// GetByBusinessID gets a record by business subscription id
func (r *SubscriptionRecordRepository) GetByBusinessID(ctx context.Context, businessSubscriptionID string) (*entities.SubscriptionRecord, error) {
	if businessSubscriptionID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.SubscriptionRecord
	err := r.db.WithContext(ctx).First(&m, "business_subscription_id = ?", businessSubscriptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return subscriptionRecordFromModel(&m), nil
}

// GetByProviderID gets a record via the subscription id index
func (r *SubscriptionRecordRepository) GetByProviderID(ctx context.Context, subscriptionID string) (*entities.SubscriptionRecord, error) {
	if subscriptionID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.SubscriptionRecord
	err := r.db.WithContext(ctx).First(&m, "subscription_id = ?", subscriptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return subscriptionRecordFromModel(&m), nil
}

func subscriptionRecordFromModel(m *models.SubscriptionRecord) *entities.SubscriptionRecord {
	return &entities.SubscriptionRecord{
		UserID:                 m.UserID,
		BusinessSubscriptionID: m.BusinessSubscriptionID,
		Status:                 entities.SubscriptionRecordStatus(m.Status),
		CustomerID:             m.CustomerID,
		SubscriptionID:         m.SubscriptionID,
		PromotionOutcome:       m.PromotionOutcome,
		PromotionCouponID:      m.PromotionCouponID,
		PromotionCodeID:        m.PromotionCodeID,
		LastEventCreatedAt:     m.LastEventCreatedAt,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}
