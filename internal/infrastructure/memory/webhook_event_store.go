package memory

import (
	"context"
	"sync"
	"time"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
)

// WebhookEventStore is the in-memory dedupe store. One mutex covers
// the map so TryBegin, RecordOutcome and GetOutcome serialize against
// each other per event id.
type WebhookEventStore struct {
	mu      sync.Mutex
	entries map[string]*entities.WebhookEventEntry
	lease   time.Duration
	now     func() time.Time
}

// NewWebhookEventStore creates an empty webhook event store
func NewWebhookEventStore(lease time.Duration) *WebhookEventStore {
	if lease <= 0 {
		lease = 5 * time.Minute
	}
	return &WebhookEventStore{
		entries: make(map[string]*entities.WebhookEventEntry),
		lease:   lease,
		now:     time.Now,
	}
}

// SetNow overrides the clock (used for lease tests)
func (s *WebhookEventStore) SetNow(now func() time.Time) {
	s.now = now
}

// TryBegin atomically claims the event id for processing
func (s *WebhookEventStore) TryBegin(ctx context.Context, eventID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if eventID == "" {
		return false, domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[eventID]
	if !ok {
		s.entries[eventID] = &entities.WebhookEventEntry{
			EventID:   eventID,
			State:     entities.WebhookEventProcessing,
			StartedAt: now,
		}
		return true, nil
	}

	switch entry.State {
	case entities.WebhookEventSucceeded:
		return false, nil
	case entities.WebhookEventFailed:
	case entities.WebhookEventProcessing:
		if now.Sub(entry.StartedAt) < s.lease {
			return false, nil
		}
	}

	entry.State = entities.WebhookEventProcessing
	entry.StartedAt = now
	entry.Outcome = nil
	return true, nil
}

// RecordOutcome unconditionally records the processing result
func (s *WebhookEventStore) RecordOutcome(ctx context.Context, eventID string, outcome entities.WebhookEventOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if eventID == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[eventID]
	if !ok {
		entry = &entities.WebhookEventEntry{EventID: eventID, StartedAt: outcome.RecordedAt}
		s.entries[eventID] = entry
	}
	if outcome.Succeeded {
		entry.State = entities.WebhookEventSucceeded
	} else {
		entry.State = entities.WebhookEventFailed
	}
	stored := outcome
	entry.Outcome = &stored
	return nil
}

// GetOutcome returns the last recorded outcome; Processing entries return none
func (s *WebhookEventStore) GetOutcome(ctx context.Context, eventID string) (*entities.WebhookEventOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[eventID]
	if !ok || entry.Outcome == nil {
		return nil, nil
	}
	outcome := *entry.Outcome
	return &outcome, nil
}
