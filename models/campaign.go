package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// GenderPreference represents the campaign-side gender constraint
type GenderPreference string

const (
	GenderPreferenceAny   GenderPreference = "any"
	GenderPreferenceWomen GenderPreference = "women"
	GenderPreferenceMen   GenderPreference = "men"
)

// String returns the string representation of the preference
func (g GenderPreference) String() string {
	return string(g)
}

// Valid checks if the preference is valid
func (g GenderPreference) Valid() bool {
	switch g {
	case GenderPreferenceAny, GenderPreferenceWomen, GenderPreferenceMen:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for GenderPreference
func (g *GenderPreference) Scan(value any) error {
	if value == nil {
		*g = GenderPreferenceAny
		return nil
	}

	switch v := value.(type) {
	case string:
		*g = GenderPreference(v)
	case []byte:
		*g = GenderPreference(string(v))
	default:
		return fmt.Errorf("cannot scan %T into GenderPreference", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for GenderPreference
func (g GenderPreference) Value() (driver.Value, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid GenderPreference: %s", g)
	}
	return string(g), nil
}

// Campaign is a job posting created by an agency
type Campaign struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AgencyProfileID uint           `gorm:"not null;index:idx_campaigns_agency_profile_id" json:"agency_profile_id"`
	AgencyProfile   *AgencyProfile `gorm:"foreignKey:AgencyProfileID;references:ID" json:"agency_profile,omitempty"`

	Title       string  `gorm:"size:255;not null" json:"title"`
	Category    string  `gorm:"size:64;not null;index:idx_campaigns_category" json:"category"`
	Description string  `gorm:"type:text;not null" json:"description"`
	City        string  `gorm:"size:128;not null" json:"city"`
	Address     *string `gorm:"size:255" json:"address,omitempty"`

	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Deadline  time.Time  `gorm:"not null;index:idx_campaigns_deadline" json:"deadline"`

	Compensation     float64          `gorm:"not null" json:"compensation"`
	RequiredPeople   int              `gorm:"not null" json:"required_people"`
	ProOnly          *bool            `gorm:"default:false" json:"pro_only"`
	GenderPreference GenderPreference `gorm:"size:16;not null;default:'any'" json:"gender_preference"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Applications []Application `gorm:"foreignKey:CampaignID" json:"-"`
	Matches      []Match       `gorm:"foreignKey:CampaignID" json:"-"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.GenderPreference == "" {
		c.GenderPreference = GenderPreferenceAny
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsOwnedBy reports whether the campaign belongs to the given agency profile
func (c *Campaign) IsOwnedBy(agencyProfileID uint) bool {
	return c.AgencyProfileID == agencyProfileID
}

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID               *uint
	AgencyProfileID  *uint
	Category         *string
	City             *string
	GenderPreference *GenderPreference
	ProOnly          *bool
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
	DeadlineAfter    *time.Time
}
