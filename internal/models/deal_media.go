package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealMedia is one uploaded photo belonging to a deal. Position is the
// dense zero-based gallery order chosen in the wizard.
type DealMedia struct {
	MediaID   uuid.UUID `gorm:"column:media_id;type:uuid;primaryKey" json:"media_id"`
	DealID    uuid.UUID `gorm:"column:deal_id;type:uuid;not null;index" json:"deal_id"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	Title     string    `gorm:"column:title" json:"title"`
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func (DealMedia) TableName() string {
	return "DealMedia"
}

func (m *DealMedia) BeforeCreate(tx *gorm.DB) error {
	if m.MediaID == uuid.Nil {
		m.MediaID = uuid.New()
	}
	return nil
}
