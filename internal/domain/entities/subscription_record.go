package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// SubscriptionRecordStatus represents subscription record status
type SubscriptionRecordStatus string

const (
	SubscriptionStatusIncomplete SubscriptionRecordStatus = "INCOMPLETE"
	SubscriptionStatusActive     SubscriptionRecordStatus = "ACTIVE"
	SubscriptionStatusPastDue    SubscriptionRecordStatus = "PAST_DUE"
	SubscriptionStatusCanceled   SubscriptionRecordStatus = "CANCELED"
)

// Precedence orders subscription statuses for equal-timestamp resolution.
func (s SubscriptionRecordStatus) Precedence() int {
	switch s {
	case SubscriptionStatusIncomplete:
		return 0
	case SubscriptionStatusPastDue:
		return 1
	case SubscriptionStatusActive:
		return 2
	case SubscriptionStatusCanceled:
		return 3
	}
	return -1
}

// SubscriptionRecord tracks a subscription from checkout staging
// through its billing lifecycle. Canceled is terminal.
type SubscriptionRecord struct {
	UserID                 string                   `json:"userId"`
	BusinessSubscriptionID string                   `json:"businessSubscriptionId"`
	Status                 SubscriptionRecordStatus `json:"status"`
	CustomerID             null.String              `json:"customerId,omitempty"`
	SubscriptionID         null.String              `json:"subscriptionId,omitempty"`
	PromotionOutcome       null.String              `json:"promotionOutcome,omitempty"`
	PromotionCouponID      null.String              `json:"promotionCouponId,omitempty"`
	PromotionCodeID        null.String              `json:"promotionCodeId,omitempty"`
	LastEventCreatedAt     null.Int64               `json:"lastEventCreatedAt,omitempty"`
	CreatedAt              time.Time                `json:"createdAt"`
	UpdatedAt              time.Time                `json:"updatedAt"`
}

// Admits reports whether a transition to the incoming status may be
// applied. Canceled is terminal; timestamp and precedence guards match
// the payment rules.
func (r SubscriptionRecord) Admits(incoming SubscriptionRecordStatus, eventCreatedAt null.Int64) bool {
	if r.Status == SubscriptionStatusCanceled && incoming != SubscriptionStatusCanceled {
		return false
	}
	if r.LastEventCreatedAt.Valid && eventCreatedAt.Valid {
		if eventCreatedAt.Int64 < r.LastEventCreatedAt.Int64 {
			return false
		}
		if eventCreatedAt.Int64 == r.LastEventCreatedAt.Int64 &&
			incoming.Precedence() < r.Status.Precedence() {
			return false
		}
	}
	return true
}

// WithTransition returns the successor record with the incoming status
// installed and LastEventCreatedAt advanced when a timestamp is present.
func (r SubscriptionRecord) WithTransition(incoming SubscriptionRecordStatus, eventCreatedAt null.Int64) SubscriptionRecord {
	r.Status = incoming
	if eventCreatedAt.Valid {
		if !r.LastEventCreatedAt.Valid || eventCreatedAt.Int64 > r.LastEventCreatedAt.Int64 {
			r.LastEventCreatedAt = eventCreatedAt
		}
	}
	return r
}
