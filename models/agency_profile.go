package models

import (
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// AgencyProfile is the hiring-side profile. Campaigns and favorites reference
// the profile, not the account, matching the storage schema.
type AgencyProfile struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;uniqueIndex:uk_agency_profiles_account_id" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Website     *string `gorm:"size:255" json:"website,omitempty"`
	City        *string `gorm:"size:128" json:"city,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Campaigns []Campaign `gorm:"foreignKey:AgencyProfileID" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:AgencyProfileID" json:"-"`
}

func (AgencyProfile) TableName() string {
	return "agency_profiles"
}

// BeforeCreate is called before creating a new record
func (a *AgencyProfile) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *AgencyProfile) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	a.UpdatedAt = &now
	return nil
}

// AgencyProfileFilter represents filter criteria for agency profile queries
type AgencyProfileFilter struct {
	ID        *uint
	AccountID *uint
	Name      *string
	City      *string
}
