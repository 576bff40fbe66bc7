package entities

import "github.com/volatiletech/null/v8"

// Recognized provider event types. The dispatch over these is the
// closed world of the convergence engine; anything else is an
// acknowledged no-op.
const (
	EventPaymentIntentSucceeded  = "payment_intent.succeeded"
	EventPaymentIntentFailed     = "payment_intent.payment_failed"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
	EventSubscriptionCreated     = "customer.subscription.created"
	EventSubscriptionUpdated     = "customer.subscription.updated"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
	EventRefundCreated           = "refund.created"
	EventRefundUpdated           = "refund.updated"
	EventRefundFailed            = "refund.failed"
)

// SupportedEventTypes lists every event type the engine converges on,
// in the order used for reconciliation list filters.
func SupportedEventTypes() []string {
	return []string{
		EventPaymentIntentSucceeded,
		EventPaymentIntentFailed,
		EventInvoicePaymentSucceeded,
		EventInvoicePaymentFailed,
		EventSubscriptionCreated,
		EventSubscriptionUpdated,
		EventSubscriptionDeleted,
		EventRefundCreated,
		EventRefundUpdated,
		EventRefundFailed,
	}
}

// ObjectKind classifies the payload object carried by an event.
type ObjectKind string

const (
	ObjectKindPaymentIntent   ObjectKind = "payment_intent"
	ObjectKindInvoice         ObjectKind = "invoice"
	ObjectKindSubscription    ObjectKind = "subscription"
	ObjectKindRefund          ObjectKind = "refund"
	ObjectKindCheckoutSession ObjectKind = "checkout_session"
	ObjectKindUnknown         ObjectKind = "unknown"
)

// ParsedEvent is the normalized view of a provider event, produced from
// either the raw body or an SDK-typed event. Linked ids stay unset when
// the payload is thin; the engine falls back to the object lookup.
type ParsedEvent struct {
	ID        string
	Type      string
	CreatedAt null.Int64

	ObjectID     null.String
	ObjectKind   ObjectKind
	ObjectStatus null.String

	PaymentIntentID null.String
	SubscriptionID  null.String
	RefundID        null.String
	CustomerID      null.String
	ChargeID        null.String

	BusinessPaymentID      null.String
	BusinessSubscriptionID null.String
}
