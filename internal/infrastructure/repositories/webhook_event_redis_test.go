package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"paysentry.backend/internal/domain/entities"
)

func newRedisEventStore(t *testing.T, lease time.Duration) *RedisWebhookEventStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWebhookEventStore(client, lease)
}

func TestRedisWebhookEventStore_ClaimAndDuplicate(t *testing.T) {
	store := newRedisEventStore(t, time.Minute)
	ctx := context.Background()

	began, err := store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)

	began, err = store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.False(t, began)

	outcome, err := store.GetOutcome(ctx, "evt_1")
	require.NoError(t, err)
	require.Nil(t, outcome)
}

func TestRedisWebhookEventStore_OutcomeRoundTrip(t *testing.T) {
	store := newRedisEventStore(t, time.Minute)
	ctx := context.Background()

	began, err := store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)

	recorded := time.Unix(1700000000, 0)
	require.NoError(t, store.RecordOutcome(ctx, "evt_1", entities.FailureOutcome(recorded, "store unavailable")))

	outcome, err := store.GetOutcome(ctx, "evt_1")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	require.False(t, outcome.Succeeded)
	require.Equal(t, "store unavailable", outcome.ErrorMessage.String)
	require.Equal(t, recorded.Unix(), outcome.RecordedAt.Unix())

	// Failed entries reopen.
	began, err = store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)
}

func TestRedisWebhookEventStore_SucceededIsTerminal(t *testing.T) {
	store := newRedisEventStore(t, time.Minute)
	ctx := context.Background()

	began, err := store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)
	require.NoError(t, store.RecordOutcome(ctx, "evt_1", entities.SuccessOutcome(time.Now())))

	store.now = func() time.Time { return time.Now().Add(time.Hour) }
	began, err = store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.False(t, began)
}

func TestRedisWebhookEventStore_StaleLeaseTakeover(t *testing.T) {
	store := newRedisEventStore(t, time.Minute)
	ctx := context.Background()

	start := time.Unix(1700000000, 0)
	store.now = func() time.Time { return start }

	began, err := store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)

	store.now = func() time.Time { return start.Add(30 * time.Second) }
	began, err = store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.False(t, began)

	store.now = func() time.Time { return start.Add(2 * time.Minute) }
	began, err = store.TryBegin(ctx, "evt_1")
	require.NoError(t, err)
	require.True(t, began)
}

func TestRedisWebhookEventStore_GetOutcomeMissing(t *testing.T) {
	store := newRedisEventStore(t, time.Minute)
	outcome, err := store.GetOutcome(context.Background(), "evt_missing")
	require.NoError(t, err)
	require.Nil(t, outcome)
}
