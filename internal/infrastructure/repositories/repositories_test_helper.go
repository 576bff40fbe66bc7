package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createRecordTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payment_records (
		business_payment_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_intent_id TEXT UNIQUE,
		charge_id TEXT,
		promotion_outcome TEXT,
		promotion_coupon_id TEXT,
		promotion_code_id TEXT,
		last_event_created_at INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE subscription_records (
		business_subscription_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		customer_id TEXT,
		subscription_id TEXT UNIQUE,
		promotion_outcome TEXT,
		promotion_coupon_id TEXT,
		promotion_code_id TEXT,
		last_event_created_at INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE refund_records (
		business_refund_id TEXT PRIMARY KEY,
		business_payment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_intent_id TEXT,
		refund_id TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWebhookEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE webhook_events (
		event_id TEXT PRIMARY KEY,
		started_at DATETIME,
		succeeded BOOLEAN,
		error_message TEXT,
		recorded_at DATETIME
	);`)
}
