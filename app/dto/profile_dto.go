package dto

// UpsertModelProfileRequest creates or updates the caller's model profile
type UpsertModelProfileRequest struct {
	AccountID      uint    `json:"-"`
	Name           string  `json:"name" validate:"required,max=255"`
	Age            int     `json:"age" validate:"required,min=16,max=99"`
	Gender         string  `json:"gender" validate:"required,oneof=female male other"`
	Height         int     `json:"height" validate:"omitempty,min=100,max=250"`
	Category       string  `json:"category" validate:"omitempty,max=64"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=128"`
	Location       string  `json:"location" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required,max=2000"`
	VideoPortfolio *string `json:"video_portfolio,omitempty" validate:"omitempty,max=512,url"`
}

// UpsertModelProfileResponse reports the profile write outcome
type UpsertModelProfileResponse struct {
	Message string          `json:"message"`
	Profile ModelProfileDTO `json:"profile"`
	Created bool            `json:"created"`
}

// ModelProfileDTO is the externally visible model profile
type ModelProfileDTO struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Height         int     `json:"height,omitempty"`
	Category       string  `json:"category,omitempty"`
	City           *string `json:"city,omitempty"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	VideoPortfolio *string `json:"video_portfolio,omitempty"`
	IsPro          bool    `json:"is_pro"`
	CreatedAt      string  `json:"created_at"`
}

// ListModelProfilesRequest pages through model profiles (agency side)
type ListModelProfilesRequest struct {
	AccountID uint `json:"-"`
	Page      int  `json:"page" validate:"min=1"`
	Limit     int  `json:"limit" validate:"min=1,max=100"`
}

// ListModelProfilesResponse is the paginated model profile listing
type ListModelProfilesResponse struct {
	Message    string            `json:"message"`
	Items      []ModelProfileDTO `json:"items"`
	Pagination PaginationDTO     `json:"pagination"`
}

// UpsertAgencyProfileRequest creates or updates the caller's agency profile
type UpsertAgencyProfileRequest struct {
	AccountID   uint    `json:"-"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Website     *string `json:"website,omitempty" validate:"omitempty,max=255,url"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=128"`
}

// UpsertAgencyProfileResponse reports the profile write outcome
type UpsertAgencyProfileResponse struct {
	Message string           `json:"message"`
	Profile AgencyProfileDTO `json:"profile"`
	Created bool             `json:"created"`
}

// AgencyProfileDTO is the externally visible agency profile
type AgencyProfileDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	City        *string `json:"city,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
