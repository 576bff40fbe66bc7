package repositories

import (
	"context"

	"paysentry.backend/internal/domain/entities"
)

// EventPage is one page of provider events in delivery order.
type EventPage struct {
	Events      []*entities.ParsedEvent
	HasMore     bool
	LastEventID string
}

// EventListQuery filters the provider event list.
type EventListQuery struct {
	Types              []string
	CreatedAfterUnix   int64
	Limit              int64
	StartingAfterEvent string
}

// EventLister pages recent events from the provider for reconciliation.
type EventLister interface {
	ListEvents(ctx context.Context, query EventListQuery) (*EventPage, error)
}

// RefundCreator asks the provider to create a refund for a payment
// intent under the given idempotency key.
type RefundCreator interface {
	CreateRefund(ctx context.Context, paymentIntentID, idempotencyKey string) (refundID string, err error)
}

// CheckoutSessionInput carries the business correlation the session
// must echo back through webhook metadata.
type CheckoutSessionInput struct {
	Mode                   string
	PriceID                string
	BusinessPaymentID      string
	BusinessSubscriptionID string
	IdempotencyKey         string
}

// CheckoutSessionCreator stages a hosted checkout session.
type CheckoutSessionCreator interface {
	CreateSession(ctx context.Context, input CheckoutSessionInput) (sessionID string, url string, err error)
}
