package repositories

import (
	"context"

	"paysentry.backend/internal/domain/entities"
)

// WebhookEventRepository is the per-event-id dedupe store.
//
// TryBegin is an atomic test-and-set: it returns true iff the entry was
// absent, failed, or held a processing lease older than the configured
// lease duration, in which case the entry is (re)written to Processing.
// A succeeded entry never reopens.
type WebhookEventRepository interface {
	TryBegin(ctx context.Context, eventID string) (bool, error)
	RecordOutcome(ctx context.Context, eventID string, outcome entities.WebhookEventOutcome) error
	GetOutcome(ctx context.Context, eventID string) (*entities.WebhookEventOutcome, error)
}
