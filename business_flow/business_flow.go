// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

func getAccount(ctx context.Context, repo repository.AccountRepository, accountID uint) (models.Account, error) {
	account, err := repo.ByID(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	if account == nil {
		return models.Account{}, ErrAccountNotFound
	}
	if !utils.IsTrue(account.IsActive) {
		return models.Account{}, ErrAccountInactive
	}
	return *account, nil
}

func getModelProfile(ctx context.Context, repo repository.ModelProfileRepository, accountID uint) (models.ModelProfile, error) {
	profile, err := repo.ByAccountID(ctx, accountID)
	if err != nil {
		return models.ModelProfile{}, err
	}
	if profile == nil {
		return models.ModelProfile{}, ErrModelProfileNotFound
	}
	return *profile, nil
}

func getAgencyProfile(ctx context.Context, repo repository.AgencyProfileRepository, accountID uint) (models.AgencyProfile, error) {
	profile, err := repo.ByAccountID(ctx, accountID)
	if err != nil {
		return models.AgencyProfile{}, err
	}
	if profile == nil {
		return models.AgencyProfile{}, ErrAgencyProfileNotFound
	}
	return *profile, nil
}

func getCampaign(ctx context.Context, repo repository.CampaignRepository, campaignID uint) (models.Campaign, error) {
	campaign, err := repo.ByID(ctx, campaignID)
	if err != nil {
		return models.Campaign{}, err
	}
	if campaign == nil {
		return models.Campaign{}, ErrCampaignNotFound
	}
	return *campaign, nil
}

// writeAuditLog records the outcome of a flow. Failures to write audit records
// never abort the flow itself.
func writeAuditLog(ctx context.Context, repo repository.AuditLogRepository, accountID *uint, action, description string, success bool, errorMessage *string, metadata *ClientMetadata) error {
	entry := &models.AuditLog{
		AccountID:    accountID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		ErrorMessage: errorMessage,
		CreatedAt:    utils.UTCNow(),
	}

	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
		if len(metadata.Additional) > 0 {
			if raw, err := json.Marshal(metadata.Additional); err == nil {
				entry.Metadata = raw
			}
		}
	}

	return repo.Save(ctx, entry)
}

// ToAccountDTO converts an account model for authentication responses
func ToAccountDTO(account models.Account) dto.AccountDTO {
	return dto.AccountDTO{
		ID:        account.ID,
		UUID:      account.UUID.String(),
		Email:     account.Email,
		Role:      string(account.Role),
		IsActive:  utils.IsTrue(account.IsActive),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}

func ToModelProfileDTO(profile models.ModelProfile) dto.ModelProfileDTO {
	return dto.ModelProfileDTO{
		ID:             profile.ID,
		Name:           profile.Name,
		Age:            profile.Age,
		Gender:         profile.Gender,
		Height:         profile.Height,
		Category:       profile.Category,
		City:           profile.City,
		Location:       profile.Location,
		Description:    profile.Description,
		VideoPortfolio: profile.VideoPortfolio,
		IsPro:          utils.IsTrue(profile.IsPro),
		CreatedAt:      profile.CreatedAt.Format(time.RFC3339),
	}
}

func ToAgencyProfileDTO(profile models.AgencyProfile) dto.AgencyProfileDTO {
	return dto.AgencyProfileDTO{
		ID:          profile.ID,
		Name:        profile.Name,
		Description: profile.Description,
		Website:     profile.Website,
		City:        profile.City,
		CreatedAt:   profile.CreatedAt.Format(time.RFC3339),
	}
}

func ToCampaignDTO(campaign models.Campaign) dto.CampaignDTO {
	d := dto.CampaignDTO{
		ID:               campaign.ID,
		AgencyProfileID:  campaign.AgencyProfileID,
		Title:            campaign.Title,
		Category:         campaign.Category,
		Description:      campaign.Description,
		City:             campaign.City,
		StartDate:        campaign.StartDate.Format(time.RFC3339),
		Deadline:         campaign.Deadline.Format(time.RFC3339),
		Compensation:     campaign.Compensation,
		RequiredPeople:   campaign.RequiredPeople,
		ProOnly:          utils.IsTrue(campaign.ProOnly),
		GenderPreference: string(campaign.GenderPreference),
		CreatedAt:        campaign.CreatedAt.Format(time.RFC3339),
	}
	if campaign.Address != nil {
		d.Address = *campaign.Address
	}
	if campaign.EndDate != nil {
		d.EndDate = campaign.EndDate.Format(time.RFC3339)
	}
	if campaign.AgencyProfile != nil {
		d.AgencyName = campaign.AgencyProfile.Name
	}
	return d
}

func ToMatchDTO(match models.Match) dto.MatchDTO {
	d := dto.MatchDTO{
		ID:                 match.ID,
		CampaignID:         match.CampaignID,
		ModelProfileID:     match.ModelProfileID,
		Score:              match.Score,
		AgencyApproved:     match.IsApproved(),
		ChannelProvisioned: match.IsChannelProvisioned(),
		MatchedAt:          match.MatchedAt.Format(time.RFC3339),
	}
	if match.Campaign != nil {
		d.CampaignTitle = match.Campaign.Title
	}
	if match.ModelProfile != nil {
		d.ModelName = match.ModelProfile.Name
	}
	return d
}

func ToFavoriteDTO(favorite models.Favorite) dto.FavoriteDTO {
	d := dto.FavoriteDTO{
		AgencyProfileID: favorite.AgencyProfileID,
		ModelProfileID:  favorite.ModelProfileID,
		CreatedAt:       favorite.CreatedAt.Format(time.RFC3339),
	}
	if favorite.AgencyProfile != nil {
		d.AgencyName = favorite.AgencyProfile.Name
	}
	if favorite.ModelProfile != nil {
		d.ModelName = favorite.ModelProfile.Name
	}
	return d
}

func buildPagination(page, limit int, total int64) dto.PaginationDTO {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return dto.PaginationDTO{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

func normalizePagination(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if limit < 1 || limit > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, limit, nil
}
