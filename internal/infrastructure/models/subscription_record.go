package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type SubscriptionRecord struct {
	BusinessSubscriptionID string      `gorm:"type:varchar(255);primaryKey"`
	UserID                 string      `gorm:"type:varchar(255);not null;index"`
	Status                 string      `gorm:"type:varchar(50);not null;index"`
	CustomerID             null.String `gorm:"type:varchar(255)"`
	SubscriptionID         null.String `gorm:"type:varchar(255);index"`
	PromotionOutcome       null.String `gorm:"type:varchar(50)"`
	PromotionCouponID      null.String `gorm:"type:varchar(255)"`
	PromotionCodeID        null.String `gorm:"type:varchar(255)"`
	LastEventCreatedAt     null.Int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
