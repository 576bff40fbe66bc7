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

// PaymentRecordRepository implements payment record store operations
type PaymentRecordRepository struct {
	db *gorm.DB
}

// NewPaymentRecordRepository creates a new payment record repository
func NewPaymentRecordRepository(db *gorm.DB) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: db}
}

// Save upserts a record keyed by business payment id. The provider-id
// index is the indexed payment_intent_id column, so rewriting it in the
// same row keeps record and index atomic.
func (r *PaymentRecordRepository) Save(ctx context.Context, record *entities.PaymentRecord) error {
	if record == nil {
		return domainerrors.ErrInvalidInput
	}
	if record.BusinessPaymentID == "" {
		return domainerrors.ErrInvalidInput
	}

	now := time.Now()
	m := models.PaymentRecord{
		BusinessPaymentID:  record.BusinessPaymentID,
		UserID:             record.UserID,
		Status:             string(record.Status),
		PaymentIntentID:    record.PaymentIntentID,
		ChargeID:           record.ChargeID,
		PromotionOutcome:   record.PromotionOutcome,
		PromotionCouponID:  record.PromotionCouponID,
		PromotionCodeID:    record.PromotionCodeID,
		LastEventCreatedAt: record.LastEventCreatedAt,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          now,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_payment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "status", "payment_intent_id", "charge_id",
			"promotion_outcome", "promotion_coupon_id", "promotion_code_id",
			"last_event_created_at", "updated_at",
		}),
	}).Create(&m).Error
}

// GetByBusinessID gets a record by business payment id
func (r *PaymentRecordRepository) GetByBusinessID(ctx context.Context, businessPaymentID string) (*entities.PaymentRecord, error) {
	if businessPaymentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.PaymentRecord
	err := r.db.WithContext(ctx).First(&m, "business_payment_id = ?", businessPaymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return paymentRecordFromModel(&m), nil
}

// GetByProviderID gets a record via the payment intent id index
func (r *PaymentRecordRepository) GetByProviderID(ctx context.Context, paymentIntentID string) (*entities.PaymentRecord, error) {
	if paymentIntentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.PaymentRecord
	err := r.db.WithContext(ctx).First(&m, "payment_intent_id = ?", paymentIntentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return paymentRecordFromModel(&m), nil
}

func paymentRecordFromModel(m *models.PaymentRecord) *entities.PaymentRecord {
	return &entities.PaymentRecord{
		UserID:             m.UserID,
		BusinessPaymentID:  m.BusinessPaymentID,
		Status:             entities.PaymentRecordStatus(m.Status),
		PaymentIntentID:    m.PaymentIntentID,
		ChargeID:           m.ChargeID,
		PromotionOutcome:   m.PromotionOutcome,
		PromotionCouponID:  m.PromotionCouponID,
		PromotionCodeID:    m.PromotionCodeID,
		LastEventCreatedAt: m.LastEventCreatedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
