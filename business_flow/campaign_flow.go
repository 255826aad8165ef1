// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	GetCampaign(ctx context.Context, campaignID uint) (*dto.CampaignDTO, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	ListOwnCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	accountRepo  repository.AccountRepository
	agencyRepo   repository.AgencyProfileRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	accountRepo repository.AccountRepository,
	agencyRepo repository.AgencyProfileRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		accountRepo:  accountRepo,
		agencyRepo:   agencyRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateCampaign handles the complete campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	if err := s.validateCreateCampaignRequest(req); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can create campaigns", ErrRoleMismatch)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	var campaign *models.Campaign

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		genderPref := models.GenderPreferenceAny
		if req.GenderPreference != "" {
			genderPref = models.GenderPreference(req.GenderPreference)
		}

		campaign = &models.Campaign{
			AgencyProfileID:  agency.ID,
			Title:            req.Title,
			Category:         req.Category,
			Description:      req.Description,
			City:             req.City,
			StartDate:        utils.TimeToUTC(req.StartDate),
			EndDate:          utils.ToPtr(utils.TimeToUTC(req.EndDate)),
			Deadline:         utils.TimeToUTC(req.Deadline),
			Compensation:     req.Compensation,
			RequiredPeople:   req.RequiredPeople,
			ProOnly:          utils.ToPtr(req.ProOnly),
			GenderPreference: genderPref,
			CreatedAt:        utils.UTCNow(),
		}
		if addr := strings.TrimSpace(req.Address); addr != "" {
			campaign.Address = &addr
		}

		return s.campaignRepo.Save(txCtx, campaign)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionCampaignCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Campaign created successfully: %d", campaign.ID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	campaign.AgencyProfile = &agency

	return &dto.CreateCampaignResponse{
		Message:  "Campaign created successfully",
		Campaign: ToCampaignDTO(*campaign),
	}, nil
}

// UpdateCampaign handles the campaign update process
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	if !hasCampaignUpdates(req) {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_VALIDATION_FAILED", "Campaign update validation failed", ErrCampaignUpdateRequired)
	}

	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	var campaign models.Campaign

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		campaign, err = getCampaign(txCtx, s.campaignRepo, req.CampaignID)
		if err != nil {
			return err
		}
		if !campaign.IsOwnedBy(agency.ID) {
			return ErrCampaignAccessDenied
		}

		applyCampaignUpdates(&campaign, req)
		campaign.UpdatedAt = utils.UTCNowPtr()

		return s.campaignRepo.Update(txCtx, &campaign)
	})

	if err != nil {
		switch {
		case IsCampaignNotFound(err):
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", err)
		case IsCampaignAccessDenied(err):
			return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", err)
		default:
			return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
		}
	}

	msg := fmt.Sprintf("Campaign updated successfully: %d", campaign.ID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionCampaignUpdated, msg, true, nil, metadata)

	d := ToCampaignDTO(campaign)
	return &d, nil
}

// GetCampaign returns a single campaign by ID
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, campaignID uint) (*dto.CampaignDTO, error) {
	campaign, err := getCampaign(ctx, s.campaignRepo, campaignID)
	if err != nil {
		if IsCampaignNotFound(err) {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", err)
		}
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	d := ToCampaignDTO(campaign)
	return &d, nil
}

// ListCampaigns pages through campaigns visible to models
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	filter := models.CampaignFilter{}
	if city := strings.TrimSpace(req.City); city != "" {
		filter.City = &city
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		filter.Category = &category
	}

	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_COUNT_FAILED", "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, ToCampaignDTO(*c))
	}

	return &dto.ListCampaignsResponse{
		Message:    "Campaigns retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// ListOwnCampaigns pages through the calling agency's campaigns
func (s *CampaignFlowImpl) ListOwnCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	campaigns, err := s.campaignRepo.ByAgencyProfileID(ctx, agency.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	total, err := s.campaignRepo.Count(ctx, models.CampaignFilter{AgencyProfileID: &agency.ID})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_COUNT_FAILED", "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, ToCampaignDTO(*c))
	}

	return &dto.ListCampaignsResponse{
		Message:    "Campaigns retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

func (s *CampaignFlowImpl) validateCreateCampaignRequest(req *dto.CreateCampaignRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrCampaignTitleRequired
	}
	if strings.TrimSpace(req.Category) == "" {
		return ErrCampaignCategoryRequired
	}
	if strings.TrimSpace(req.City) == "" {
		return ErrCampaignCityRequired
	}
	if len(req.Description) > utils.MaxCampaignDescriptionLength {
		return ErrCampaignDescriptionLength
	}
	if !req.EndDate.After(req.StartDate) {
		return ErrCampaignDatesInvalid
	}
	if utils.IsExpired(req.Deadline) {
		return ErrCampaignDeadlinePassed
	}
	return nil
}

func hasCampaignUpdates(req *dto.UpdateCampaignRequest) bool {
	return req.Title != nil || req.Category != nil || req.Description != nil ||
		req.City != nil || req.Address != nil || req.StartDate != nil ||
		req.EndDate != nil || req.Deadline != nil || req.Compensation != nil ||
		req.RequiredPeople != nil || req.ProOnly != nil || req.GenderPreference != nil
}

func applyCampaignUpdates(campaign *models.Campaign, req *dto.UpdateCampaignRequest) {
	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.Category != nil {
		campaign.Category = *req.Category
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.City != nil {
		campaign.City = *req.City
	}
	if req.Address != nil {
		campaign.Address = req.Address
	}
	if req.StartDate != nil {
		campaign.StartDate = utils.TimeToUTC(*req.StartDate)
	}
	if req.EndDate != nil {
		campaign.EndDate = utils.ToPtr(utils.TimeToUTC(*req.EndDate))
	}
	if req.Deadline != nil {
		campaign.Deadline = utils.TimeToUTC(*req.Deadline)
	}
	if req.Compensation != nil {
		campaign.Compensation = *req.Compensation
	}
	if req.RequiredPeople != nil {
		campaign.RequiredPeople = *req.RequiredPeople
	}
	if req.ProOnly != nil {
		campaign.ProOnly = req.ProOnly
	}
	if req.GenderPreference != nil {
		campaign.GenderPreference = models.GenderPreference(*req.GenderPreference)
	}
}
