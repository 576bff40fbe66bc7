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

// RefundRecordRepository implements refund record store operations
type RefundRecordRepository struct {
	db *gorm.DB
}

// NewRefundRecordRepository creates a new refund record repository
func NewRefundRecordRepository(db *gorm.DB) *RefundRecordRepository {
	return &RefundRecordRepository{db: db}
}

// Save upserts a record keyed by business refund id
func (r *RefundRecordRepository) Save(ctx context.Context, record *entities.RefundRecord) error {
	if record == nil {
		return domainerrors.ErrInvalidInput
	}
	if record.BusinessRefundID == "" {
		return domainerrors.ErrInvalidInput
	}

	now := time.Now()
	m := models.RefundRecord{
		BusinessRefundID:  record.BusinessRefundID,
		BusinessPaymentID: record.BusinessPaymentID,
		UserID:            record.UserID,
		Status:            string(record.Status),
		PaymentIntentID:   record.PaymentIntentID,
		RefundID:          record.RefundID,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         now,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_refund_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"business_payment_id", "user_id", "status",
			"payment_intent_id", "refund_id", "updated_at",
		}),
	}).Create(&m).Error
}

// GetByBusinessID gets a record by business refund id
func (r *RefundRecordRepository) GetByBusinessID(ctx context.Context, businessRefundID string) (*entities.RefundRecord, error) {
	if businessRefundID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.RefundRecord
	err := r.db.WithContext(ctx).First(&m, "business_refund_id = ?", businessRefundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return refundRecordFromModel(&m), nil
}

// GetByProviderID gets a record via the refund id index
func (r *RefundRecordRepository) GetByProviderID(ctx context.Context, refundID string) (*entities.RefundRecord, error) {
	if refundID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	var m models.RefundRecord
	err := r.db.WithContext(ctx).First(&m, "refund_id = ?", refundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return refundRecordFromModel(&m), nil
}

func refundRecordFromModel(m *models.RefundRecord) *entities.RefundRecord {
	return &entities.RefundRecord{
		UserID:            m.UserID,
		BusinessRefundID:  m.BusinessRefundID,
		BusinessPaymentID: m.BusinessPaymentID,
		Status:            entities.RefundRecordStatus(m.Status),
		PaymentIntentID:   m.PaymentIntentID,
		RefundID:          m.RefundID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
