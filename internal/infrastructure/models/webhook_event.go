package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// WebhookEvent is the dedupe row. State is derived from the nullable
// Succeeded column: NULL = processing, true = succeeded, false = failed.
// The primary key on EventID is the persistence primitive that makes
// TryBegin a true test-and-set under concurrent deliveries.
type WebhookEvent struct {
	EventID      string `gorm:"type:varchar(255);primaryKey"`
	StartedAt    time.Time
	Succeeded    null.Bool
	ErrorMessage null.String `gorm:"type:text"`
	RecordedAt   null.Time
}
