// Package businessflow contains the core business logic and use cases for profile workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles model and agency profile management
type ProfileFlow interface {
	UpsertModelProfile(ctx context.Context, req *dto.UpsertModelProfileRequest, metadata *ClientMetadata) (*dto.UpsertModelProfileResponse, error)
	GetModelProfile(ctx context.Context, accountID uint) (*dto.ModelProfileDTO, error)
	UpsertAgencyProfile(ctx context.Context, req *dto.UpsertAgencyProfileRequest, metadata *ClientMetadata) (*dto.UpsertAgencyProfileResponse, error)
	GetAgencyProfile(ctx context.Context, accountID uint) (*dto.AgencyProfileDTO, error)
	ListModelProfiles(ctx context.Context, req *dto.ListModelProfilesRequest) (*dto.ListModelProfilesResponse, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	accountRepo repository.AccountRepository
	modelRepo   repository.ModelProfileRepository
	agencyRepo  repository.AgencyProfileRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(
	accountRepo repository.AccountRepository,
	modelRepo repository.ModelProfileRepository,
	agencyRepo repository.AgencyProfileRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ProfileFlow {
	return &ProfileFlowImpl{
		accountRepo: accountRepo,
		modelRepo:   modelRepo,
		agencyRepo:  agencyRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// UpsertModelProfile creates or updates the caller's model profile
func (s *ProfileFlowImpl) UpsertModelProfile(ctx context.Context, req *dto.UpsertModelProfileRequest, metadata *ClientMetadata) (*dto.UpsertModelProfileResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsModel() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only model accounts can edit a model profile", ErrRoleMismatch)
	}

	var profile *models.ModelProfile
	var created bool

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		profile, err = s.modelRepo.ByAccountID(txCtx, account.ID)
		if err != nil {
			return err
		}

		if profile == nil {
			created = true
			profile = &models.ModelProfile{
				AccountID: account.ID,
				CreatedAt: utils.UTCNow(),
			}
		}

		profile.Name = req.Name
		profile.Age = req.Age
		profile.Gender = req.Gender
		profile.Height = req.Height
		profile.Category = req.Category
		profile.City = req.City
		profile.Location = req.Location
		profile.Description = req.Description
		profile.VideoPortfolio = req.VideoPortfolio
		profile.UpdatedAt = utils.UTCNowPtr()

		if created {
			return s.modelRepo.Save(txCtx, profile)
		}
		return s.modelRepo.Update(txCtx, profile)
	})

	if err != nil {
		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save model profile", err)
	}

	msg := fmt.Sprintf("Model profile saved: %d", profile.ID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionProfileUpdated, msg, true, nil, metadata)

	return &dto.UpsertModelProfileResponse{
		Message: "Profile saved successfully",
		Profile: ToModelProfileDTO(*profile),
		Created: created,
	}, nil
}

// GetModelProfile returns the caller's model profile
func (s *ProfileFlowImpl) GetModelProfile(ctx context.Context, accountID uint) (*dto.ModelProfileDTO, error) {
	profile, err := getModelProfile(ctx, s.modelRepo, accountID)
	if err != nil {
		if IsModelProfileNotFound(err) {
			return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", err)
		}
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup model profile", err)
	}

	d := ToModelProfileDTO(profile)
	return &d, nil
}

// UpsertAgencyProfile creates or updates the caller's agency profile
func (s *ProfileFlowImpl) UpsertAgencyProfile(ctx context.Context, req *dto.UpsertAgencyProfileRequest, metadata *ClientMetadata) (*dto.UpsertAgencyProfileResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can edit an agency profile", ErrRoleMismatch)
	}

	var profile *models.AgencyProfile
	var created bool

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		profile, err = s.agencyRepo.ByAccountID(txCtx, account.ID)
		if err != nil {
			return err
		}

		if profile == nil {
			created = true
			profile = &models.AgencyProfile{
				AccountID: account.ID,
				CreatedAt: utils.UTCNow(),
			}
		}

		profile.Name = req.Name
		profile.Description = req.Description
		profile.Website = req.Website
		profile.City = req.City
		profile.UpdatedAt = utils.UTCNowPtr()

		if created {
			return s.agencyRepo.Save(txCtx, profile)
		}
		return s.agencyRepo.Update(txCtx, profile)
	})

	if err != nil {
		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save agency profile", err)
	}

	msg := fmt.Sprintf("Agency profile saved: %d", profile.ID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionProfileUpdated, msg, true, nil, metadata)

	return &dto.UpsertAgencyProfileResponse{
		Message: "Profile saved successfully",
		Profile: ToAgencyProfileDTO(*profile),
		Created: created,
	}, nil
}

// GetAgencyProfile returns the caller's agency profile
func (s *ProfileFlowImpl) GetAgencyProfile(ctx context.Context, accountID uint) (*dto.AgencyProfileDTO, error) {
	profile, err := getAgencyProfile(ctx, s.agencyRepo, accountID)
	if err != nil {
		if IsAgencyProfileNotFound(err) {
			return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
		}
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup agency profile", err)
	}

	d := ToAgencyProfileDTO(profile)
	return &d, nil
}

// ListModelProfiles pages through model profiles for agency browsing
func (s *ProfileFlowImpl) ListModelProfiles(ctx context.Context, req *dto.ListModelProfilesRequest) (*dto.ListModelProfilesResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can browse model profiles", ErrRoleMismatch)
	}

	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	profiles, err := s.modelRepo.ListAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LIST_FAILED", "Failed to list model profiles", err)
	}

	total, err := s.modelRepo.Count(ctx, models.ModelProfileFilter{})
	if err != nil {
		return nil, NewBusinessError("PROFILE_COUNT_FAILED", "Failed to count model profiles", err)
	}

	items := make([]dto.ModelProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, ToModelProfileDTO(*p))
	}

	return &dto.ListModelProfilesResponse{
		Message:    "Model profiles retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}
