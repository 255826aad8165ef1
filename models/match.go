package models

import (
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// Match is a scored candidacy record, at most one per (campaign, model).
// The agency reference is derived from the campaign's owner at match-creation
// time. Re-application refreshes score and matched-at and re-opens the
// approval gate.
type Match struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CampaignID      uint           `gorm:"not null;uniqueIndex:uk_matches_campaign_model;index:idx_matches_campaign_id" json:"campaign_id"`
	Campaign        *Campaign      `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	ModelProfileID  uint           `gorm:"not null;uniqueIndex:uk_matches_campaign_model;index:idx_matches_model_profile_id" json:"model_profile_id"`
	ModelProfile    *ModelProfile  `gorm:"foreignKey:ModelProfileID;references:ID" json:"model_profile,omitempty"`
	AgencyProfileID uint           `gorm:"not null;index:idx_matches_agency_profile_id" json:"agency_profile_id"`
	AgencyProfile   *AgencyProfile `gorm:"foreignKey:AgencyProfileID;references:ID" json:"agency_profile,omitempty"`

	Score              float64 `gorm:"not null" json:"score"`
	AgencyApproved     *bool   `gorm:"default:false;index:idx_matches_agency_approved" json:"agency_approved"`
	ChannelProvisioned *bool   `gorm:"default:false" json:"channel_provisioned"`

	MatchedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"matched_at"`
}

func (Match) TableName() string {
	return "campaign_matches"
}

// BeforeCreate is called before creating a new record
func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.MatchedAt.IsZero() {
		m.MatchedAt = utils.UTCNow()
	}
	return nil
}

// IsApproved reports whether the agency has approved the match
func (m *Match) IsApproved() bool {
	return m.AgencyApproved != nil && *m.AgencyApproved
}

// IsChannelProvisioned reports whether the communication channel exists
func (m *Match) IsChannelProvisioned() bool {
	return m.ChannelProvisioned != nil && *m.ChannelProvisioned
}

// MatchFilter represents filter criteria for match queries
type MatchFilter struct {
	ID              *uint
	CampaignID      *uint
	ModelProfileID  *uint
	AgencyProfileID *uint
	AgencyApproved  *bool
	MinScore        *float64
	MatchedAfter    *time.Time
	MatchedBefore   *time.Time
}
