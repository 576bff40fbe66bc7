package repositories

import "context"

// ObjectLookup resolves linked provider ids from a raw object id when
// the event payload was too thin to carry them. Implementations return
// an empty string (no error) when the linkage is absent.
type ObjectLookup interface {
	GetPaymentIntentID(ctx context.Context, objectID string) (string, error)
	GetSubscriptionID(ctx context.Context, objectID string) (string, error)
}
