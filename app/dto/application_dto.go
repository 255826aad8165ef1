package dto

// ApplyRequest submits a model's application to a campaign
type ApplyRequest struct {
	AccountID  uint `json:"-"`
	CampaignID uint `json:"-"`
}

// ScoreBreakdownDTO exposes the weighted component scores of a match
type ScoreBreakdownDTO struct {
	Category float64 `json:"category"`
	City     float64 `json:"city"`
	Gender   float64 `json:"gender"`
	Video    float64 `json:"video"`
}

// ApplyResponse reports the application outcome and whether a match was produced
type ApplyResponse struct {
	Message       string             `json:"message"`
	Applied       bool               `json:"applied"`
	ApplicationID uint               `json:"application_id"`
	Matched       bool               `json:"matched"`
	Score         float64            `json:"score"`
	Breakdown     *ScoreBreakdownDTO `json:"breakdown"`
	AppliedAt     string             `json:"applied_at"`
}

// MatchStatusRequest asks for the match state between the caller and a campaign
type MatchStatusRequest struct {
	AccountID  uint `json:"-"`
	CampaignID uint `json:"-"`
}

// MatchStatusResponse reports whether a match exists and its approval state
type MatchStatusResponse struct {
	Matched            bool    `json:"matched"`
	Score              float64 `json:"score,omitempty"`
	AgencyID           uint    `json:"agency_id,omitempty"`
	AgencyApproved     bool    `json:"agency_approved"`
	ChannelProvisioned bool    `json:"channel_provisioned"`
	MatchedAt          string  `json:"matched_at,omitempty"`
}
