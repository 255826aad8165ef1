package models

import (
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// Application records a model's intent to work a specific campaign.
// The unique key on (campaign, model) is the authoritative duplicate guard:
// concurrent identical applications race on insert and exactly one wins.
type Application struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CampaignID     uint          `gorm:"not null;uniqueIndex:uk_applications_campaign_model;index:idx_applications_campaign_id" json:"campaign_id"`
	Campaign       *Campaign     `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	ModelProfileID uint          `gorm:"not null;uniqueIndex:uk_applications_campaign_model;index:idx_applications_model_profile_id" json:"model_profile_id"`
	ModelProfile   *ModelProfile `gorm:"foreignKey:ModelProfileID;references:ID" json:"model_profile,omitempty"`

	AppliedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"applied_at"`
}

func (Application) TableName() string {
	return "campaign_applications"
}

// BeforeCreate is called before creating a new record
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.AppliedAt.IsZero() {
		a.AppliedAt = utils.UTCNow()
	}
	return nil
}

// ApplicationFilter represents filter criteria for application queries
type ApplicationFilter struct {
	ID             *uint
	CampaignID     *uint
	ModelProfileID *uint
	AppliedAfter   *time.Time
	AppliedBefore  *time.Time
}
