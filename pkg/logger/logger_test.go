package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitAndContextFields(t *testing.T) {
	Init("development")
	require.NotNil(t, GetLogger())

	// Init is idempotent.
	Init("production")
	require.NotNil(t, GetLogger())

	require.NotNil(t, WithContext(nil))
	require.NotNil(t, WithContext(context.Background()))

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	ctx = WithEvent(ctx, "evt_1")
	require.NotNil(t, WithContext(ctx))

	// The level helpers must not panic with or without fields.
	Info(ctx, "info message")
	Debug(ctx, "debug message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")
	LogRequest(ctx, "POST", "/webhooks/stripe", 200, 5*time.Millisecond, "127.0.0.1")
}
