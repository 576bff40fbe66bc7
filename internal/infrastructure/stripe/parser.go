package stripe

import (
	"encoding/json"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/volatiletech/null/v8"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
)

// Metadata keys carrying the merchant correlation through the provider.
const (
	MetadataBusinessPaymentID      = "business_payment_id"
	MetadataBusinessSubscriptionID = "business_subscription_id"
)

// expandableID accepts Stripe's expandable fields, which arrive either
// as a bare id string or as an expanded object with an "id" member.
type expandableID string

func (e *expandableID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = expandableID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Tolerate null and unexpected shapes; linkage stays unset.
		*e = ""
		return nil
	}
	*e = expandableID(obj.ID)
	return nil
}

type eventObject struct {
	ID                string            `json:"id"`
	Object            string            `json:"object"`
	Status            string            `json:"status"`
	Mode              string            `json:"mode"`
	ClientReferenceID string            `json:"client_reference_id"`
	Customer          expandableID      `json:"customer"`
	Subscription      expandableID      `json:"subscription"`
	PaymentIntent     expandableID      `json:"payment_intent"`
	LatestCharge      expandableID      `json:"latest_charge"`
	Charge            expandableID      `json:"charge"`
	Metadata          map[string]string `json:"metadata"`
}

// ParseRaw normalizes a raw webhook body into a ParsedEvent.
func ParseRaw(rawBody []byte) (*entities.ParsedEvent, error) {
	var envelope struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Created *int64 `json:"created"`
		Data    struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, domainerrors.ErrMalformedPayload
	}
	if envelope.ID == "" || envelope.Type == "" {
		return nil, domainerrors.ErrMalformedPayload
	}

	parsed := parseObject(envelope.Data.Object)
	parsed.ID = envelope.ID
	parsed.Type = envelope.Type
	if envelope.Created != nil {
		parsed.CreatedAt = null.Int64From(*envelope.Created)
	}
	return parsed, nil
}

// ParseEvent normalizes an SDK-typed event. Field mapping is identical
// to ParseRaw; the payload object still comes from the event's raw data
// so thin deliveries degrade the same way.
func ParseEvent(event *stripe.Event) (*entities.ParsedEvent, error) {
	if event == nil || event.ID == "" || event.Type == "" {
		return nil, domainerrors.ErrMalformedPayload
	}

	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}
	parsed := parseObject(raw)
	parsed.ID = event.ID
	parsed.Type = string(event.Type)
	if event.Created != 0 {
		parsed.CreatedAt = null.Int64From(event.Created)
	}
	return parsed, nil
}

func parseObject(raw json.RawMessage) *entities.ParsedEvent {
	parsed := &entities.ParsedEvent{ObjectKind: entities.ObjectKindUnknown}
	if len(raw) == 0 {
		return parsed
	}

	var obj eventObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return parsed
	}

	if obj.ID != "" {
		parsed.ObjectID = null.StringFrom(obj.ID)
	}
	if obj.Status != "" {
		parsed.ObjectStatus = null.StringFrom(obj.Status)
	}
	if obj.Customer != "" {
		parsed.CustomerID = null.StringFrom(string(obj.Customer))
	}
	if obj.Subscription != "" {
		parsed.SubscriptionID = null.StringFrom(string(obj.Subscription))
	}
	if obj.PaymentIntent != "" {
		parsed.PaymentIntentID = null.StringFrom(string(obj.PaymentIntent))
	}

	switch obj.Object {
	case "payment_intent":
		parsed.ObjectKind = entities.ObjectKindPaymentIntent
		parsed.PaymentIntentID = null.StringFrom(obj.ID)
		if obj.LatestCharge != "" {
			parsed.ChargeID = null.StringFrom(string(obj.LatestCharge))
		}
	case "invoice":
		parsed.ObjectKind = entities.ObjectKindInvoice
		if obj.Charge != "" {
			parsed.ChargeID = null.StringFrom(string(obj.Charge))
		}
	case "subscription":
		parsed.ObjectKind = entities.ObjectKindSubscription
		parsed.SubscriptionID = null.StringFrom(obj.ID)
	case "refund":
		parsed.ObjectKind = entities.ObjectKindRefund
		// The refund's own id is the provider id even on thin payloads.
		parsed.RefundID = null.StringFrom(obj.ID)
		if obj.Charge != "" {
			parsed.ChargeID = null.StringFrom(string(obj.Charge))
		}
	case "checkout.session":
		parsed.ObjectKind = entities.ObjectKindCheckoutSession
	}

	parsed.BusinessPaymentID = businessID(obj.Metadata, MetadataBusinessPaymentID)
	parsed.BusinessSubscriptionID = businessID(obj.Metadata, MetadataBusinessSubscriptionID)

	// Checkout sessions resolve the business id from the reference the
	// session creator staged, scoped by mode.
	if parsed.ObjectKind == entities.ObjectKindCheckoutSession && obj.ClientReferenceID != "" {
		switch obj.Mode {
		case "payment":
			parsed.BusinessPaymentID = null.StringFrom(obj.ClientReferenceID)
		case "subscription":
			parsed.BusinessSubscriptionID = null.StringFrom(obj.ClientReferenceID)
		}
	}

	return parsed
}

func businessID(metadata map[string]string, key string) null.String {
	if v, ok := metadata[key]; ok && v != "" {
		return null.StringFrom(v)
	}
	return null.String{}
}
