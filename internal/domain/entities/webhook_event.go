package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// WebhookEventState represents the dedupe state of an event id
type WebhookEventState string

const (
	WebhookEventProcessing WebhookEventState = "PROCESSING"
	WebhookEventSucceeded  WebhookEventState = "SUCCEEDED"
	WebhookEventFailed     WebhookEventState = "FAILED"
)

// WebhookEventOutcome is the recorded result of one processing attempt.
type WebhookEventOutcome struct {
	Succeeded    bool        `json:"succeeded"`
	ErrorMessage null.String `json:"errorMessage,omitempty"`
	RecordedAt   time.Time   `json:"recordedAt"`
}

// SuccessOutcome returns a succeeded outcome stamped now.
func SuccessOutcome(now time.Time) WebhookEventOutcome {
	return WebhookEventOutcome{Succeeded: true, RecordedAt: now}
}

// FailureOutcome returns a failed outcome carrying the error message.
func FailureOutcome(now time.Time, msg string) WebhookEventOutcome {
	return WebhookEventOutcome{Succeeded: false, ErrorMessage: null.StringFrom(msg), RecordedAt: now}
}

// WebhookEventEntry is the per-event-id dedupe row. A Processing entry
// with no outcome holds the lease; a Succeeded entry is terminal.
type WebhookEventEntry struct {
	EventID   string               `json:"eventId"`
	State     WebhookEventState    `json:"state"`
	StartedAt time.Time            `json:"startedAt"`
	Outcome   *WebhookEventOutcome `json:"outcome,omitempty"`
}
