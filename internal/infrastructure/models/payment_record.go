package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// PaymentRecord row. BusinessPaymentID is the primary anchor; the
// indexed PaymentIntentID column doubles as the provider-id index, so
// the mapping can never outlive or dangle from the row (one UPDATE
// rewrites both).
type PaymentRecord struct {
	BusinessPaymentID  string      `gorm:"type:varchar(255);primaryKey"`
	UserID             string      `gorm:"type:varchar(255);not null;index"`
	Status             string      `gorm:"type:varchar(50);not null;index"`
	PaymentIntentID    null.String `gorm:"type:varchar(255);index"`
	ChargeID           null.String `gorm:"type:varchar(255)"`
	PromotionOutcome   null.String `gorm:"type:varchar(50)"`
	PromotionCouponID  null.String `gorm:"type:varchar(255)"`
	PromotionCodeID    null.String `gorm:"type:varchar(255)"`
	LastEventCreatedAt null.Int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
