package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// RefundRecordStatus represents refund record status
type RefundRecordStatus string

const (
	RefundStatusPending   RefundRecordStatus = "PENDING"
	RefundStatusSucceeded RefundRecordStatus = "SUCCEEDED"
	RefundStatusFailed    RefundRecordStatus = "FAILED"
)

// RefundRecord tracks a refund staged against a payment record.
// BusinessPaymentID correlates by id value only; no foreign key is
// enforced. The refund lifecycle has no precedence ladder: parsed
// refund events apply unconditionally after id resolution.
type RefundRecord struct {
	UserID            string             `json:"userId"`
	BusinessRefundID  string             `json:"businessRefundId"`
	BusinessPaymentID string             `json:"businessPaymentId"`
	Status            RefundRecordStatus `json:"status"`
	PaymentIntentID   null.String        `json:"paymentIntentId,omitempty"`
	RefundID          null.String        `json:"refundId,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// WithStatus returns the successor record with the incoming status.
func (r RefundRecord) WithStatus(incoming RefundRecordStatus) RefundRecord {
	r.Status = incoming
	return r
}
