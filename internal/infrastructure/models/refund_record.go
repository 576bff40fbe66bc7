package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type RefundRecord struct {
	BusinessRefundID  string      `gorm:"type:varchar(255);primaryKey"`
	BusinessPaymentID string      `gorm:"type:varchar(255);not null;index"`
	UserID            string      `gorm:"type:varchar(255);not null;index"`
	Status            string      `gorm:"type:varchar(50);not null;index"`
	PaymentIntentID   null.String `gorm:"type:varchar(255)"`
	RefundID          null.String `gorm:"type:varchar(255);index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
