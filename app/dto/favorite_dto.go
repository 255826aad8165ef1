package dto

// FavoriteRequest marks a model as a favorite of the calling agency
type FavoriteRequest struct {
	AccountID      uint `json:"-"`
	ModelProfileID uint `json:"-"`
}

// ChannelOutcomeDTO reports provisioning for one campaign after a favorite approval
type ChannelOutcomeDTO struct {
	CampaignID     uint   `json:"campaign_id"`
	ChannelCreated bool   `json:"channel_created"`
	ChannelKey     string `json:"channel_key,omitempty"`
}

// FavoriteResponse reports the favorite write and any approvals it triggered
type FavoriteResponse struct {
	Message           string              `json:"message"`
	Favorited         bool                `json:"favorited"`
	ApprovedCampaigns []uint              `json:"approved_campaigns,omitempty"`
	Channels          []ChannelOutcomeDTO `json:"channels,omitempty"`
}

// UnfavoriteResponse reports removal of a favorite
type UnfavoriteResponse struct {
	Message string `json:"message"`
	Removed bool   `json:"removed"`
}

// FavoriteDTO is the externally visible favorite record
type FavoriteDTO struct {
	AgencyProfileID uint   `json:"agency_profile_id"`
	AgencyName      string `json:"agency_name,omitempty"`
	ModelProfileID  uint   `json:"model_profile_id"`
	ModelName       string `json:"model_name,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ListFavoritesRequest pages favorites for the caller
type ListFavoritesRequest struct {
	AccountID uint `json:"-"`
	Page      int  `json:"page" validate:"min=1"`
	Limit     int  `json:"limit" validate:"min=1,max=100"`
}

// ListFavoritesResponse is a paginated favorite listing
type ListFavoritesResponse struct {
	Message    string        `json:"message"`
	Items      []FavoriteDTO `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}
