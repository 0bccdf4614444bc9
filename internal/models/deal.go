package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deal statuses. A deal is created by the wizard as draft or active;
// closing happens through the edit flow elsewhere.
const (
	DealStatusDraft  = "draft"
	DealStatusActive = "active"
	DealStatusClosed = "closed"
)

// Media statuses set by the publish saga.
const (
	MediaStatusComplete   = "complete"
	MediaStatusIncomplete = "incomplete"
)

// Deal is a published investment opportunity.
type Deal struct {
	DealID            uuid.UUID      `gorm:"column:deal_id;type:uuid;primaryKey" json:"deal_id"`
	SyndicatorID      uuid.UUID      `gorm:"column:syndicator_id;type:uuid;not null;index" json:"syndicator_id"`
	Title             string         `gorm:"column:title;not null" json:"title"`
	PropertyType      string         `gorm:"column:property_type;not null" json:"property_type"`
	Street            string         `gorm:"column:street" json:"street"`
	City              string         `gorm:"column:city;not null" json:"city"`
	State             string         `gorm:"column:state;not null" json:"state"`
	Zip               string         `gorm:"column:zip" json:"zip"`
	Location          string         `gorm:"column:location" json:"location"`
	MinimumInvestment float64        `gorm:"column:minimum_investment;type:decimal(18,2);not null" json:"minimum_investment"`
	TotalEquity       float64        `gorm:"column:total_equity;type:decimal(18,2);not null" json:"total_equity"`
	TargetIRR         *float64       `gorm:"column:target_irr;type:decimal(8,2)" json:"target_irr"`
	InvestmentTerm    *float64       `gorm:"column:investment_term;type:decimal(8,2)" json:"investment_term"`
	PreferredReturn   *float64       `gorm:"column:preferred_return;type:decimal(8,2)" json:"preferred_return"`
	EquityMultiple    *float64       `gorm:"column:equity_multiple;type:decimal(8,2)" json:"equity_multiple"`
	Description       string         `gorm:"column:description;type:text;not null" json:"description"`
	Highlights        datatypes.JSON `gorm:"column:highlights;type:json" json:"highlights"`
	CoverImageURL     string         `gorm:"column:cover_image_url" json:"cover_image_url"`
	VideoURL          string         `gorm:"column:video_url" json:"video_url"`
	Status            string         `gorm:"column:status;type:varchar(20);default:'draft'" json:"status"`
	MediaStatus       string         `gorm:"column:media_status;type:varchar(20);default:'complete'" json:"media_status"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Deal) TableName() string {
	return "Deals"
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.DealID == uuid.Nil {
		d.DealID = uuid.New()
	}
	return nil
}
