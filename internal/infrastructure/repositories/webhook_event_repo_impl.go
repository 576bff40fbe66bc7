package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/infrastructure/models"
)

// DefaultProcessingLease bounds how long a Processing entry blocks
// takeover by another delivery of the same event id.
const DefaultProcessingLease = 5 * time.Minute

// WebhookEventRepository implements the dedupe store on the relational
// backend. The unique event_id primary key makes the initial claim a
// test-and-set; reopening a failed or stale entry is a guarded UPDATE
// whose WHERE clause loses the race at most once.
type WebhookEventRepository struct {
	db    *gorm.DB
	lease time.Duration
	now   func() time.Time
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB, lease time.Duration) *WebhookEventRepository {
	if lease <= 0 {
		lease = DefaultProcessingLease
	}
	return &WebhookEventRepository{db: db, lease: lease, now: time.Now}
}

// TryBegin atomically claims the event id for processing
func (r *WebhookEventRepository) TryBegin(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, domainerrors.ErrInvalidInput
	}

	now := r.now()
	m := models.WebhookEvent{EventID: eventID, StartedAt: now}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	// Entry exists. Only a failed entry or an expired processing lease
	// may be reopened; a succeeded entry stays closed forever.
	cutoff := now.Add(-r.lease)
	res = r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("event_id = ? AND (succeeded = ? OR (succeeded IS NULL AND started_at <= ?))",
			eventID, false, cutoff).
		Updates(map[string]interface{}{
			"started_at":    now,
			"succeeded":     nil,
			"error_message": nil,
			"recorded_at":   nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RecordOutcome unconditionally records the processing result,
// preserving started_at when the entry already exists
func (r *WebhookEventRepository) RecordOutcome(ctx context.Context, eventID string, outcome entities.WebhookEventOutcome) error {
	if eventID == "" {
		return domainerrors.ErrInvalidInput
	}

	m := models.WebhookEvent{
		EventID:      eventID,
		StartedAt:    outcome.RecordedAt,
		Succeeded:    null.BoolFrom(outcome.Succeeded),
		ErrorMessage: outcome.ErrorMessage,
		RecordedAt:   null.TimeFrom(outcome.RecordedAt),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"succeeded", "error_message", "recorded_at"}),
	}).Create(&m).Error
}

// GetOutcome returns the last recorded outcome; entries still in
// Processing (and absent entries) return none
func (r *WebhookEventRepository) GetOutcome(ctx context.Context, eventID string) (*entities.WebhookEventOutcome, error) {
	if eventID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	var m models.WebhookEvent
	err := r.db.WithContext(ctx).First(&m, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !m.Succeeded.Valid {
		return nil, nil
	}
	return &entities.WebhookEventOutcome{
		Succeeded:    m.Succeeded.Bool,
		ErrorMessage: m.ErrorMessage,
		RecordedAt:   m.RecordedAt.Time,
	}, nil
}
