package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultBaseCommissionAmount is used until an admin configures one.
const DefaultBaseCommissionAmount = 100.0

// CompanySettings is a singleton document holding agency-wide configuration,
// including the base amount an admitted referral is worth before the agent's
// commission rate is applied.
type CompanySettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName  string             `bson:"company_name" json:"company_name"`
	ContactEmail string             `bson:"contact_email" json:"contact_email" validate:"omitempty,email"`
	ContactPhone string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	// Currency amount one admitted referral is worth at a 100% rate.
	BaseCommissionAmount float64   `bson:"base_commission_amount" json:"base_commission_amount" validate:"gte=0"`
	UpdatedAt            time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicCompanySettings is the subset of settings the public site may read.
// The commission base stays internal.
type PublicCompanySettings struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

// Public returns the fields safe to expose without authentication.
func (s *CompanySettings) Public() PublicCompanySettings {
	return PublicCompanySettings{
		CompanyName:  s.CompanyName,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
	}
}

// BaseAmount returns the configured base or the default when unset.
func (s *CompanySettings) BaseAmount() float64 {
	if s == nil || s.BaseCommissionAmount <= 0 {
		return DefaultBaseCommissionAmount
	}
	return s.BaseCommissionAmount
}
