package dto

// MatchDTO is the externally visible match record
type MatchDTO struct {
	ID                 uint    `json:"id"`
	CampaignID         uint    `json:"campaign_id"`
	CampaignTitle      string  `json:"campaign_title,omitempty"`
	ModelProfileID     uint    `json:"model_profile_id"`
	ModelName          string  `json:"model_name,omitempty"`
	Score              float64 `json:"score"`
	AgencyApproved     bool    `json:"agency_approved"`
	ChannelProvisioned bool    `json:"channel_provisioned"`
	MatchedAt          string  `json:"matched_at"`
}

// ListPendingMatchesRequest pages matches awaiting the agency's approval
type ListPendingMatchesRequest struct {
	AccountID  uint  `json:"-"`
	CampaignID *uint `json:"-"`
	Page       int   `json:"page" validate:"min=1"`
	Limit      int   `json:"limit" validate:"min=1,max=100"`
}

// ListMatchesResponse is a paginated match listing
type ListMatchesResponse struct {
	Message    string        `json:"message"`
	Items      []MatchDTO    `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}

// ApproveMatchRequest approves a single pending match
type ApproveMatchRequest struct {
	AccountID      uint `json:"-"`
	CampaignID     uint `json:"-"`
	ModelProfileID uint `json:"-"`
}

// ApproveMatchResponse reports the approval and channel provisioning outcome
type ApproveMatchResponse struct {
	Message        string `json:"message"`
	Approved       bool   `json:"approved"`
	ChannelCreated bool   `json:"channel_created"`
	ChannelKey     string `json:"channel_key,omitempty"`
}

// ListApprovedMatchesRequest pages approved matches for either side
type ListApprovedMatchesRequest struct {
	AccountID  uint  `json:"-"`
	CampaignID *uint `json:"-"`
	Page       int   `json:"page" validate:"min=1"`
	Limit      int   `json:"limit" validate:"min=1,max=100"`
}

// ExportApprovedMatchesRequest selects the approved matches to export
type ExportApprovedMatchesRequest struct {
	AccountID  uint  `json:"-"`
	CampaignID *uint `json:"-"`
}

// ExportApprovedMatchesResponse carries the generated xlsx workbook
type ExportApprovedMatchesResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"-"`
}
