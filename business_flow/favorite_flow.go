// Package businessflow contains the core business logic and use cases for favorite workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// FavoriteFlow handles agency favorites and the approvals they trigger
type FavoriteFlow interface {
	Favorite(ctx context.Context, req *dto.FavoriteRequest, metadata *ClientMetadata) (*dto.FavoriteResponse, error)
	Unfavorite(ctx context.Context, req *dto.FavoriteRequest, metadata *ClientMetadata) (*dto.UnfavoriteResponse, error)
	ListFavorites(ctx context.Context, req *dto.ListFavoritesRequest) (*dto.ListFavoritesResponse, error)
	ListFavoritedBy(ctx context.Context, req *dto.ListFavoritesRequest) (*dto.ListFavoritesResponse, error)
}

// FavoriteFlowImpl implements the favorite business flow
type FavoriteFlowImpl struct {
	accountRepo    repository.AccountRepository
	modelRepo      repository.ModelProfileRepository
	agencyRepo     repository.AgencyProfileRepository
	favoriteRepo   repository.FavoriteRepository
	matchRepo      repository.MatchRepository
	auditRepo      repository.AuditLogRepository
	channelService services.ChannelService
	db             *gorm.DB
	rc             *redis.Client
}

// NewFavoriteFlow creates a new favorite flow instance
func NewFavoriteFlow(
	accountRepo repository.AccountRepository,
	modelRepo repository.ModelProfileRepository,
	agencyRepo repository.AgencyProfileRepository,
	favoriteRepo repository.FavoriteRepository,
	matchRepo repository.MatchRepository,
	auditRepo repository.AuditLogRepository,
	channelService services.ChannelService,
	db *gorm.DB,
	rc *redis.Client,
) FavoriteFlow {
	return &FavoriteFlowImpl{
		accountRepo:    accountRepo,
		modelRepo:      modelRepo,
		agencyRepo:     agencyRepo,
		favoriteRepo:   favoriteRepo,
		matchRepo:      matchRepo,
		auditRepo:      auditRepo,
		channelService: channelService,
		db:             db,
		rc:             rc,
	}
}

// Favorite records an agency's interest in a model and approves every pending
// match between them in the same transaction. Channel provisioning for the
// newly approved matches runs after the commit and is best effort.
func (s *FavoriteFlowImpl) Favorite(ctx context.Context, req *dto.FavoriteRequest, metadata *ClientMetadata) (*dto.FavoriteResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can favorite models", ErrRoleMismatch)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	profile, err := s.modelRepo.ByID(ctx, req.ModelProfileID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup model profile", err)
	}
	if profile == nil {
		return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", ErrModelProfileNotFound)
	}

	var approvedCampaigns []uint

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		favorite := &models.Favorite{
			AgencyProfileID: agency.ID,
			ModelProfileID:  profile.ID,
			CreatedAt:       utils.UTCNow(),
		}
		if err := s.favoriteRepo.Upsert(txCtx, favorite); err != nil {
			return err
		}

		approvedCampaigns, err = s.matchRepo.ApproveAllPending(txCtx, agency.ID, profile.ID)
		return err
	})

	if err != nil {
		errMsg := fmt.Sprintf("Favorite failed for model %d: %s", req.ModelProfileID, err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionFavoriteAdded, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("FAVORITE_FAILED", "Favorite failed", err)
	}

	msg := fmt.Sprintf("Model %d favorited, %d pending matches approved", profile.ID, len(approvedCampaigns))
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionFavoriteAdded, msg, true, nil, metadata)

	resp := &dto.FavoriteResponse{
		Message:           "Model favorited successfully",
		Favorited:         true,
		ApprovedCampaigns: approvedCampaigns,
	}

	for _, campaignID := range approvedCampaigns {
		invalidateMatchStatusCache(ctx, s.rc, campaignID, profile.ID)
		outcome := provisionMatchChannel(ctx, s.channelService, s.matchRepo, s.modelRepo, s.accountRepo, &account, campaignID, profile.ID)
		resp.Channels = append(resp.Channels, dto.ChannelOutcomeDTO{
			CampaignID:     campaignID,
			ChannelCreated: outcome.provisioned,
			ChannelKey:     outcome.channelKey,
		})
		if outcome.provisioned {
			invalidateMatchStatusCache(ctx, s.rc, campaignID, profile.ID)
			provMsg := fmt.Sprintf("Channel provisioned: %s", outcome.channelKey)
			_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionChannelProvisioned, provMsg, true, nil, metadata)
		} else if outcome.err != nil {
			errMsg := fmt.Sprintf("Channel provisioning deferred for %s: %s", outcome.channelKey, outcome.err.Error())
			_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionChannelProvisioned, errMsg, false, &errMsg, metadata)
		}
	}

	return resp, nil
}

// Unfavorite removes a favorite. Already-approved matches stay approved.
func (s *FavoriteFlowImpl) Unfavorite(ctx context.Context, req *dto.FavoriteRequest, metadata *ClientMetadata) (*dto.UnfavoriteResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	rows, err := s.favoriteRepo.Delete(ctx, agency.ID, req.ModelProfileID)
	if err != nil {
		return nil, NewBusinessError("UNFAVORITE_FAILED", "Failed to remove favorite", err)
	}
	if rows == 0 {
		return nil, NewBusinessError("FAVORITE_NOT_FOUND", "Favorite not found", ErrFavoriteNotFound)
	}

	msg := fmt.Sprintf("Model %d unfavorited", req.ModelProfileID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionFavoriteRemoved, msg, true, nil, metadata)

	return &dto.UnfavoriteResponse{
		Message: "Favorite removed successfully",
		Removed: true,
	}, nil
}

// ListFavorites pages the calling agency's favorites
func (s *FavoriteFlowImpl) ListFavorites(ctx context.Context, req *dto.ListFavoritesRequest) (*dto.ListFavoritesResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	favorites, err := s.favoriteRepo.ListByAgency(ctx, agency.ID)
	if err != nil {
		return nil, NewBusinessError("FAVORITE_LIST_FAILED", "Failed to list favorites", err)
	}

	return paginateFavorites(favorites, req.Page, req.Limit)
}

// ListFavoritedBy pages the agencies that favorited the calling model
func (s *FavoriteFlowImpl) ListFavoritedBy(ctx context.Context, req *dto.ListFavoritesRequest) (*dto.ListFavoritesResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	profile, err := getModelProfile(ctx, s.modelRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", err)
	}

	favorites, err := s.favoriteRepo.ListByModel(ctx, profile.ID)
	if err != nil {
		return nil, NewBusinessError("FAVORITE_LIST_FAILED", "Failed to list favorites", err)
	}

	return paginateFavorites(favorites, req.Page, req.Limit)
}

func paginateFavorites(favorites []*models.Favorite, page, limit int) (*dto.ListFavoritesResponse, error) {
	page, limit, err := normalizePagination(page, limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	total := int64(len(favorites))

	start := (page - 1) * limit
	if start > len(favorites) {
		start = len(favorites)
	}
	end := start + limit
	if end > len(favorites) {
		end = len(favorites)
	}

	items := make([]dto.FavoriteDTO, 0, end-start)
	for _, f := range favorites[start:end] {
		items = append(items, ToFavoriteDTO(*f))
	}

	return &dto.ListFavoritesResponse{
		Message:    "Favorites retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}
