package models

import (
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// ModelProfile is the talent-side profile. One per account, mutated only by
// that account's profile-update operation.
type ModelProfile struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;uniqueIndex:uk_model_profiles_account_id" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Age         int     `gorm:"not null" json:"age"`
	Gender      string  `gorm:"size:32" json:"gender"` // female | male | other
	Height      int     `json:"height"`                // centimeters
	Category    string  `gorm:"size:64;index:idx_model_profiles_category" json:"category"`
	City        *string `gorm:"size:128" json:"city,omitempty"`
	Location    string  `gorm:"size:255" json:"location"` // free text, first comma segment doubles as city
	Description string  `gorm:"type:text" json:"description"`

	VideoPortfolio *string `gorm:"size:512" json:"video_portfolio,omitempty"`
	IsPro          *bool   `gorm:"default:false" json:"is_pro"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Applications []Application `gorm:"foreignKey:ModelProfileID" json:"-"`
	Matches      []Match       `gorm:"foreignKey:ModelProfileID" json:"-"`
}

func (ModelProfile) TableName() string {
	return "model_profiles"
}

// BeforeCreate is called before creating a new record
func (m *ModelProfile) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (m *ModelProfile) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	m.UpdatedAt = &now
	return nil
}

// HasVideoPortfolio reports whether a non-blank portfolio reference exists
func (m *ModelProfile) HasVideoPortfolio() bool {
	return m.VideoPortfolio != nil && *m.VideoPortfolio != ""
}

// ModelProfileFilter represents filter criteria for model profile queries
type ModelProfileFilter struct {
	ID        *uint
	AccountID *uint
	Category  *string
	Gender    *string
	City      *string
	IsPro     *bool
}
