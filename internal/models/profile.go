package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile roles.
const (
	RoleInvestor   = "investor"
	RoleSyndicator = "syndicator"
	RoleAdmin      = "admin"
)

// Profile is a marketplace account: a syndicator sponsoring deals or an
// investor browsing them.
type Profile struct {
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName         string         `gorm:"column:full_name;not null" json:"full_name"`
	Email            string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash     string         `gorm:"column:password_hash;not null" json:"-"`
	Role             string         `gorm:"column:role;not null;default:investor" json:"role"`
	CompanyName      string         `gorm:"column:company_name" json:"company_name"`
	StripeCustomerID string         `gorm:"column:stripe_customer_id" json:"-"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "Profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	return nil
}
