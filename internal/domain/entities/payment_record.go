package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// PaymentRecordStatus represents payment record status
type PaymentRecordStatus string

const (
	PaymentStatusPending   PaymentRecordStatus = "PENDING"
	PaymentStatusSucceeded PaymentRecordStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentRecordStatus = "FAILED"
	PaymentStatusCanceled  PaymentRecordStatus = "CANCELED"
)

// Precedence orders payment statuses for equal-timestamp resolution.
func (s PaymentRecordStatus) Precedence() int {
	switch s {
	case PaymentStatusPending:
		return 0
	case PaymentStatusFailed:
		return 1
	case PaymentStatusSucceeded:
		return 2
	case PaymentStatusCanceled:
		return 3
	}
	return -1
}

// PromotionOutcome captures whether a staged promotion was applied by
// the provider at checkout completion.
type PromotionOutcome string

const (
	PromotionOutcomeApplied PromotionOutcome = "APPLIED"
	PromotionOutcomeSkipped PromotionOutcome = "SKIPPED"
)

// PaymentRecord tracks a one-time payment from checkout staging to its
// converged terminal status. BusinessPaymentID is the unique merchant
// anchor; PaymentIntentID is the provider-side identity once known.
type PaymentRecord struct {
	UserID             string              `json:"userId"`
	BusinessPaymentID  string              `json:"businessPaymentId"`
	Status             PaymentRecordStatus `json:"status"`
	PaymentIntentID    null.String         `json:"paymentIntentId,omitempty"`
	ChargeID           null.String         `json:"chargeId,omitempty"`
	PromotionOutcome   null.String         `json:"promotionOutcome,omitempty"`
	PromotionCouponID  null.String         `json:"promotionCouponId,omitempty"`
	PromotionCodeID    null.String         `json:"promotionCodeId,omitempty"`
	LastEventCreatedAt null.Int64          `json:"lastEventCreatedAt,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Admits reports whether a transition to the incoming status may be
// applied. Succeeded and Canceled are terminal against any other
// status; between timestamped events the newer wins and ties are
// resolved by precedence. An event without a timestamp is judged by
// the terminal rules alone.
func (r PaymentRecord) Admits(incoming PaymentRecordStatus, eventCreatedAt null.Int64) bool {
	if r.Status == PaymentStatusSucceeded && incoming != PaymentStatusSucceeded {
		return false
	}
	if r.Status == PaymentStatusCanceled && incoming != PaymentStatusCanceled {
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

// WithTransition returns the successor record: the incoming status is
// installed and LastEventCreatedAt advances to the incoming timestamp
// when one is present (never backwards).
func (r PaymentRecord) WithTransition(incoming PaymentRecordStatus, eventCreatedAt null.Int64) PaymentRecord {
	r.Status = incoming
	if eventCreatedAt.Valid {
		if !r.LastEventCreatedAt.Valid || eventCreatedAt.Int64 > r.LastEventCreatedAt.Int64 {
			r.LastEventCreatedAt = eventCreatedAt
		}
	}
	return r
}
