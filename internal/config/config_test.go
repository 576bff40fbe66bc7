package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "development", cfg.Server.Env)
	require.Equal(t, "paysentry", cfg.Database.DBName)
	require.Equal(t, 5*time.Minute, cfg.Stripe.SignatureTolerance)
	require.Equal(t, 5*time.Minute, cfg.Webhook.ProcessingLease)
	require.Equal(t, "db", cfg.Webhook.DedupeBackend)
	require.True(t, cfg.Modules.PaymentsEnabled)
	require.True(t, cfg.Modules.BillingEnabled)
	require.True(t, cfg.Modules.RefundsEnabled)
	require.Empty(t, cfg.Security.AdminKeyHash)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("WEBHOOK_PROCESSING_LEASE", "1m")
	t.Setenv("WEBHOOK_DEDUPE_BACKEND", "redis")
	t.Setenv("MODULE_REFUNDS_ENABLED", "false")
	t.Setenv("STRIPE_SIGNATURE_TOLERANCE", "2m")

	cfg := Load()
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, time.Minute, cfg.Webhook.ProcessingLease)
	require.Equal(t, "redis", cfg.Webhook.DedupeBackend)
	require.False(t, cfg.Modules.RefundsEnabled)
	require.Equal(t, 2*time.Minute, cfg.Stripe.SignatureTolerance)
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("WEBHOOK_PROCESSING_LEASE", "soon")
	t.Setenv("MODULE_PAYMENTS_ENABLED", "maybe")

	cfg := Load()
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 5*time.Minute, cfg.Webhook.ProcessingLease)
	require.True(t, cfg.Modules.PaymentsEnabled)
}

func TestDatabaseConfig_URL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "paysentry", SSLMode: "disable"}
	require.Equal(t, "postgres://u:p@db:5432/paysentry?sslmode=disable&prepare_threshold=0", c.URL())
}
