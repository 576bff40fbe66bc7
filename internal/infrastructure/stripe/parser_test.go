package stripe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v81"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
)

func TestParseRaw_PaymentIntentEvent(t *testing.T) {
	body := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"created": 1700000000,
		"data": {"object": {
			"id": "pi_1",
			"object": "payment_intent",
			"status": "succeeded",
			"customer": "cus_1",
			"latest_charge": "ch_1",
			"metadata": {"business_payment_id": "biz_pay_1"}
		}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, "evt_1", parsed.ID)
	require.Equal(t, "payment_intent.succeeded", parsed.Type)
	require.Equal(t, int64(1700000000), parsed.CreatedAt.Int64)
	require.Equal(t, entities.ObjectKindPaymentIntent, parsed.ObjectKind)
	require.Equal(t, "pi_1", parsed.ObjectID.String)
	require.Equal(t, "succeeded", parsed.ObjectStatus.String)
	require.Equal(t, "pi_1", parsed.PaymentIntentID.String)
	require.Equal(t, "ch_1", parsed.ChargeID.String)
	require.Equal(t, "cus_1", parsed.CustomerID.String)
	require.Equal(t, "biz_pay_1", parsed.BusinessPaymentID.String)
}

func TestParseRaw_InvoiceWithExpandedLinks(t *testing.T) {
	body := []byte(`{
		"id": "evt_2",
		"type": "invoice.payment_succeeded",
		"created": 1700000001,
		"data": {"object": {
			"id": "in_1",
			"object": "invoice",
			"status": "paid",
			"subscription": {"id": "sub_1"},
			"payment_intent": "pi_2",
			"customer": "cus_1"
		}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, entities.ObjectKindInvoice, parsed.ObjectKind)
	require.Equal(t, "sub_1", parsed.SubscriptionID.String)
	require.Equal(t, "pi_2", parsed.PaymentIntentID.String)
}

func TestParseRaw_ThinInvoiceLeavesLinksUnset(t *testing.T) {
	body := []byte(`{
		"id": "evt_3",
		"type": "invoice.payment_succeeded",
		"data": {"object": {"id": "in_x", "object": "invoice"}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, "in_x", parsed.ObjectID.String)
	require.False(t, parsed.SubscriptionID.Valid)
	require.False(t, parsed.PaymentIntentID.Valid)
	require.False(t, parsed.CreatedAt.Valid)
}

func TestParseRaw_RefundIDFallsBackToObjectID(t *testing.T) {
	body := []byte(`{
		"id": "evt_4",
		"type": "refund.updated",
		"data": {"object": {
			"id": "re_1",
			"object": "refund",
			"status": "succeeded",
			"payment_intent": "pi_1",
			"charge": "ch_1"
		}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, entities.ObjectKindRefund, parsed.ObjectKind)
	require.Equal(t, "re_1", parsed.RefundID.String)
	require.Equal(t, "pi_1", parsed.PaymentIntentID.String)
	require.Equal(t, "ch_1", parsed.ChargeID.String)
}

func TestParseRaw_CheckoutSessionModes(t *testing.T) {
	t.Run("payment mode uses client_reference_id", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_5",
			"type": "checkout.session.completed",
			"data": {"object": {
				"id": "cs_1",
				"object": "checkout.session",
				"mode": "payment",
				"client_reference_id": "biz_pay_7",
				"payment_intent": "pi_7"
			}}
		}`)
		parsed, err := ParseRaw(body)
		require.NoError(t, err)
		require.Equal(t, entities.ObjectKindCheckoutSession, parsed.ObjectKind)
		require.Equal(t, "biz_pay_7", parsed.BusinessPaymentID.String)
		require.False(t, parsed.BusinessSubscriptionID.Valid)
		require.Equal(t, "pi_7", parsed.PaymentIntentID.String)
	})

	t.Run("payment mode falls back to metadata", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_6",
			"type": "checkout.session.completed",
			"data": {"object": {
				"id": "cs_2",
				"object": "checkout.session",
				"mode": "payment",
				"metadata": {"business_payment_id": "biz_pay_8"}
			}}
		}`)
		parsed, err := ParseRaw(body)
		require.NoError(t, err)
		require.Equal(t, "biz_pay_8", parsed.BusinessPaymentID.String)
	})

	t.Run("subscription mode", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_7",
			"type": "checkout.session.completed",
			"data": {"object": {
				"id": "cs_3",
				"object": "checkout.session",
				"mode": "subscription",
				"client_reference_id": "biz_sub_1",
				"subscription": "sub_9",
				"customer": "cus_9"
			}}
		}`)
		parsed, err := ParseRaw(body)
		require.NoError(t, err)
		require.Equal(t, "biz_sub_1", parsed.BusinessSubscriptionID.String)
		require.False(t, parsed.BusinessPaymentID.Valid)
		require.Equal(t, "sub_9", parsed.SubscriptionID.String)
		require.Equal(t, "cus_9", parsed.CustomerID.String)
	})
}

func TestParseRaw_MetadataPropagatesForOtherKinds(t *testing.T) {
	body := []byte(`{
		"id": "evt_8",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_2",
			"object": "subscription",
			"status": "past_due",
			"metadata": {"business_subscription_id": "biz_sub_2"}
		}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, entities.ObjectKindSubscription, parsed.ObjectKind)
	require.Equal(t, "sub_2", parsed.SubscriptionID.String)
	require.Equal(t, "biz_sub_2", parsed.BusinessSubscriptionID.String)
	require.Equal(t, "past_due", parsed.ObjectStatus.String)
}

func TestParseRaw_Malformed(t *testing.T) {
	for _, body := range [][]byte{
		[]byte(`{`),
		[]byte(`{"type":"x"}`),
		[]byte(`{"id":"evt_1"}`),
	} {
		_, err := ParseRaw(body)
		require.ErrorIs(t, err, domainerrors.ErrMalformedPayload)
	}
}

func TestParseRaw_UnknownObjectKind(t *testing.T) {
	body := []byte(`{
		"id": "evt_9",
		"type": "charge.refunded",
		"data": {"object": {"id": "ch_1", "object": "charge"}}
	}`)

	parsed, err := ParseRaw(body)
	require.NoError(t, err)
	require.Equal(t, entities.ObjectKindUnknown, parsed.ObjectKind)
	require.Equal(t, "ch_1", parsed.ObjectID.String)
}

func TestParseEvent_MatchesRawMapping(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "pi_3",
		"object": "payment_intent",
		"status": "succeeded",
		"metadata": {"business_payment_id": "biz_pay_3"}
	}`)
	event := &stripe.Event{
		ID:      "evt_10",
		Type:    stripe.EventType("payment_intent.succeeded"),
		Created: 1700000300,
		Data:    &stripe.EventData{Raw: raw},
	}

	parsed, err := ParseEvent(event)
	require.NoError(t, err)
	require.Equal(t, "evt_10", parsed.ID)
	require.Equal(t, "payment_intent.succeeded", parsed.Type)
	require.Equal(t, int64(1700000300), parsed.CreatedAt.Int64)
	require.Equal(t, "pi_3", parsed.PaymentIntentID.String)
	require.Equal(t, "biz_pay_3", parsed.BusinessPaymentID.String)
}

func TestParseEvent_Malformed(t *testing.T) {
	_, err := ParseEvent(nil)
	require.ErrorIs(t, err, domainerrors.ErrMalformedPayload)

	_, err = ParseEvent(&stripe.Event{ID: "evt_11"})
	require.ErrorIs(t, err, domainerrors.ErrMalformedPayload)
}
