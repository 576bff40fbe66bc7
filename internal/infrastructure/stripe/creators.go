package stripe

import (
	"context"

	stripe "github.com/stripe/stripe-go/v81"

	"paysentry.backend/internal/domain/repositories"
)

// CreateRefund asks the provider for a refund on a payment intent. The
// idempotency key makes retried submissions collapse provider-side.
func (c *Client) CreateRefund(ctx context.Context, paymentIntentID, idempotencyKey string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		return "", err
	}
	return refund.ID, nil
}

// CreateSession stages a hosted checkout session carrying the business
// id both as client_reference_id and as metadata on the created
// payment intent or subscription, so webhook payloads correlate even
// when the session object itself is not delivered.
func (c *Client) CreateSession(ctx context.Context, input repositories.CheckoutSessionInput) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(input.Mode),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(input.PriceID), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	switch input.Mode {
	case string(stripe.CheckoutSessionModePayment):
		params.ClientReferenceID = stripe.String(input.BusinessPaymentID)
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataBusinessPaymentID: input.BusinessPaymentID},
		}
	case string(stripe.CheckoutSessionModeSubscription):
		params.ClientReferenceID = stripe.String(input.BusinessSubscriptionID)
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{MetadataBusinessSubscriptionID: input.BusinessSubscriptionID},
		}
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", err
	}
	return session.ID, session.URL, nil
}
