package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEvent records a processed Stripe webhook event. The Stripe event id
// is the primary key, which makes redelivered webhooks idempotent.
type BillingEvent struct {
	EventID    string         `gorm:"column:event_id;primaryKey" json:"event_id"`
	Type       string         `gorm:"column:type;not null" json:"type"`
	ObjectID   string         `gorm:"column:object_id;index" json:"object_id"`
	CustomerID string         `gorm:"column:customer_id;index" json:"customer_id"`
	RawEvent   datatypes.JSON `gorm:"column:raw_event;type:json" json:"-"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (BillingEvent) TableName() string {
	return "BillingEvents"
}
