package models

import (
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// Favorite is an agency-initiated expression of interest in a model,
// independent of any specific campaign. Re-favoriting refreshes the
// timestamp rather than erroring.
type Favorite struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AgencyProfileID uint           `gorm:"not null;uniqueIndex:uk_favorites_agency_model;index:idx_favorites_agency_profile_id" json:"agency_profile_id"`
	AgencyProfile   *AgencyProfile `gorm:"foreignKey:AgencyProfileID;references:ID" json:"agency_profile,omitempty"`
	ModelProfileID  uint           `gorm:"not null;uniqueIndex:uk_favorites_agency_model;index:idx_favorites_model_profile_id" json:"model_profile_id"`
	ModelProfile    *ModelProfile  `gorm:"foreignKey:ModelProfileID;references:ID" json:"model_profile,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate is called before creating a new record
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = utils.UTCNow()
	}
	return nil
}

// FavoriteFilter represents filter criteria for favorite queries
type FavoriteFilter struct {
	ID              *uint
	AgencyProfileID *uint
	ModelProfileID  *uint
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
