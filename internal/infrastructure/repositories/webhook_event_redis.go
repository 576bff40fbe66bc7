package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/volatiletech/null/v8"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
)

const webhookEventKeyPrefix = "webhook:event:"

type redisEventEntry struct {
	State        string `json:"state"`
	StartedAt    int64  `json:"startedAt"`
	Succeeded    *bool  `json:"succeeded,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	RecordedAt   int64  `json:"recordedAt,omitempty"`
}

// RedisWebhookEventStore is the redis-backed dedupe store. The initial
// claim is a SetNX; takeover of a failed or stale entry runs under
// WATCH so concurrent takeovers serialize per key.
type RedisWebhookEventStore struct {
	rdb   *redis.Client
	lease time.Duration
	now   func() time.Time
}

// NewRedisWebhookEventStore creates a redis-backed webhook event store
func NewRedisWebhookEventStore(rdb *redis.Client, lease time.Duration) *RedisWebhookEventStore {
	if lease <= 0 {
		lease = DefaultProcessingLease
	}
	return &RedisWebhookEventStore{rdb: rdb, lease: lease, now: time.Now}
}

func (s *RedisWebhookEventStore) key(eventID string) string {
	return webhookEventKeyPrefix + eventID
}

// TryBegin atomically claims the event id for processing
func (s *RedisWebhookEventStore) TryBegin(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	claim, err := json.Marshal(redisEventEntry{
		State:     string(entities.WebhookEventProcessing),
		StartedAt: now.Unix(),
	})
	if err != nil {
		return false, err
	}

	ok, err := s.rdb.SetNX(ctx, s.key(eventID), claim, 0).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	began := false
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.key(eventID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if !errors.Is(err, redis.Nil) {
			var cur redisEventEntry
			if err := json.Unmarshal([]byte(raw), &cur); err != nil {
				return err
			}
			switch entities.WebhookEventState(cur.State) {
			case entities.WebhookEventSucceeded:
				return nil
			case entities.WebhookEventProcessing:
				if now.Sub(time.Unix(cur.StartedAt, 0)) < s.lease {
					return nil
				}
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key(eventID), claim, 0)
			return nil
		})
		if err == nil {
			began = true
		}
		return err
	}, s.key(eventID))

	if errors.Is(err, redis.TxFailedErr) {
		// Another delivery rewrote the entry first.
		return false, nil
	}
	return began, err
}

// RecordOutcome unconditionally records the processing result
func (s *RedisWebhookEventStore) RecordOutcome(ctx context.Context, eventID string, outcome entities.WebhookEventOutcome) error {
	if eventID == "" {
		return domainerrors.ErrInvalidInput
	}

	startedAt := outcome.RecordedAt.Unix()
	raw, err := s.rdb.Get(ctx, s.key(eventID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil {
		var cur redisEventEntry
		if jsonErr := json.Unmarshal([]byte(raw), &cur); jsonErr == nil && cur.StartedAt > 0 {
			startedAt = cur.StartedAt
		}
	}

	state := entities.WebhookEventFailed
	if outcome.Succeeded {
		state = entities.WebhookEventSucceeded
	}
	succeeded := outcome.Succeeded
	entry, err := json.Marshal(redisEventEntry{
		State:        string(state),
		StartedAt:    startedAt,
		Succeeded:    &succeeded,
		ErrorMessage: outcome.ErrorMessage.String,
		RecordedAt:   outcome.RecordedAt.Unix(),
	})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(eventID), entry, 0).Err()
}

// GetOutcome returns the last recorded outcome; Processing entries return none
func (s *RedisWebhookEventStore) GetOutcome(ctx context.Context, eventID string) (*entities.WebhookEventOutcome, error) {
	if eventID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	raw, err := s.rdb.Get(ctx, s.key(eventID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry redisEventEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	if entry.Succeeded == nil {
		return nil, nil
	}

	outcome := &entities.WebhookEventOutcome{
		Succeeded:  *entry.Succeeded,
		RecordedAt: time.Unix(entry.RecordedAt, 0),
	}
	if entry.ErrorMessage != "" {
		outcome.ErrorMessage = null.StringFrom(entry.ErrorMessage)
	}
	return outcome, nil
}
