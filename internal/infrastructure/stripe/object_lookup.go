package stripe

import (
	"context"
	"strings"

	stripe "github.com/stripe/stripe-go/v81"
)

// GetPaymentIntentID resolves a payment intent id from a raw object id.
// Dispatch is by id prefix: pi_ passes through, in_ fetches the invoice,
// evt_ fetches the event and inspects its embedded object. An absent
// linkage returns empty with no error.
func (c *Client) GetPaymentIntentID(ctx context.Context, objectID string) (string, error) {
	switch {
	case strings.HasPrefix(objectID, "pi_"):
		return objectID, nil
	case strings.HasPrefix(objectID, "in_"):
		invoice, err := c.api.Invoices.Get(objectID, &stripe.InvoiceParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			return "", err
		}
		if invoice.PaymentIntent == nil {
			return "", nil
		}
		return invoice.PaymentIntent.ID, nil
	case strings.HasPrefix(objectID, "evt_"):
		event, err := c.api.Events.Get(objectID, &stripe.EventParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			return "", err
		}
		return linkedIDFromEvent(event, "payment_intent"), nil
	}
	return "", nil
}

// GetSubscriptionID resolves a subscription id from a raw object id.
func (c *Client) GetSubscriptionID(ctx context.Context, objectID string) (string, error) {
	switch {
	case strings.HasPrefix(objectID, "sub_"):
		return objectID, nil
	case strings.HasPrefix(objectID, "in_"):
		invoice, err := c.api.Invoices.Get(objectID, &stripe.InvoiceParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			return "", err
		}
		if invoice.Subscription == nil {
			return "", nil
		}
		return invoice.Subscription.ID, nil
	case strings.HasPrefix(objectID, "evt_"):
		event, err := c.api.Events.Get(objectID, &stripe.EventParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			return "", err
		}
		return linkedIDFromEvent(event, "subscription"), nil
	}
	return "", nil
}

// linkedIDFromEvent reads the wanted id out of an event's embedded
// object: the object's own id when it is of the wanted kind, otherwise
// its (possibly expanded) link field of that name.
func linkedIDFromEvent(event *stripe.Event, want string) string {
	if event == nil || event.Data == nil || event.Data.Object == nil {
		return ""
	}
	obj := event.Data.Object
	if kind, _ := obj["object"].(string); kind == want {
		if id, _ := obj["id"].(string); id != "" {
			return id
		}
	}
	switch v := obj[want].(type) {
	case string:
		return v
	case map[string]interface{}:
		id, _ := v["id"].(string)
		return id
	}
	return ""
}
