package dto

import "time"

// CreateCampaignRequest opens a new campaign owned by the calling agency
type CreateCampaignRequest struct {
	AccountID        uint      `json:"-"`
	Title            string    `json:"title" validate:"required,max=255"`
	Category         string    `json:"category" validate:"required,max=64"`
	Description      string    `json:"description" validate:"required,max=500"`
	City             string    `json:"city" validate:"required,max=128"`
	Address          string    `json:"address" validate:"omitempty,max=255"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	EndDate          time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	Compensation     float64   `json:"compensation" validate:"min=0"`
	RequiredPeople   int       `json:"required_people" validate:"required,min=1,max=500"`
	ProOnly          bool      `json:"pro_only"`
	GenderPreference string    `json:"gender_preference" validate:"omitempty,oneof=any women men"`
}

// CreateCampaignResponse returns the created campaign
type CreateCampaignResponse struct {
	Message  string      `json:"message"`
	Campaign CampaignDTO `json:"campaign"`
}

// UpdateCampaignRequest edits an existing campaign
type UpdateCampaignRequest struct {
	AccountID        uint       `json:"-"`
	CampaignID       uint       `json:"-"`
	Title            *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Category         *string    `json:"category,omitempty" validate:"omitempty,max=64"`
	Description      *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	City             *string    `json:"city,omitempty" validate:"omitempty,max=128"`
	Address          *string    `json:"address,omitempty" validate:"omitempty,max=255"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Compensation     *float64   `json:"compensation,omitempty" validate:"omitempty,min=0"`
	RequiredPeople   *int       `json:"required_people,omitempty" validate:"omitempty,min=1,max=500"`
	ProOnly          *bool      `json:"pro_only,omitempty"`
	GenderPreference *string    `json:"gender_preference,omitempty" validate:"omitempty,oneof=any women men"`
}

// CampaignDTO is the externally visible campaign
type CampaignDTO struct {
	ID               uint    `json:"id"`
	AgencyProfileID  uint    `json:"agency_profile_id"`
	AgencyName       string  `json:"agency_name,omitempty"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	City             string  `json:"city"`
	Address          string  `json:"address,omitempty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Deadline         string  `json:"deadline"`
	Compensation     float64 `json:"compensation"`
	RequiredPeople   int     `json:"required_people"`
	ProOnly          bool    `json:"pro_only"`
	GenderPreference string  `json:"gender_preference"`
	CreatedAt        string  `json:"created_at"`
}

// ListCampaignsRequest pages through open campaigns
type ListCampaignsRequest struct {
	AccountID uint   `json:"-"`
	City      string `json:"city" validate:"omitempty,max=128"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	Page      int    `json:"page" validate:"min=1"`
	Limit     int    `json:"limit" validate:"min=1,max=100"`
}

// ListCampaignsResponse is the paginated campaign listing
type ListCampaignsResponse struct {
	Message    string        `json:"message"`
	Items      []CampaignDTO `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}
