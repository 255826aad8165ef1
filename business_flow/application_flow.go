// Package businessflow contains the core business logic and use cases for application and matching workflows
package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/scoring"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationFlow handles a model applying to a campaign and inspecting the result
type ApplicationFlow interface {
	Apply(ctx context.Context, req *dto.ApplyRequest, metadata *ClientMetadata) (*dto.ApplyResponse, error)
	GetMatchStatus(ctx context.Context, req *dto.MatchStatusRequest) (*dto.MatchStatusResponse, error)
}

// ApplicationFlowImpl implements the application business flow
type ApplicationFlowImpl struct {
	accountRepo     repository.AccountRepository
	modelRepo       repository.ModelProfileRepository
	campaignRepo    repository.CampaignRepository
	applicationRepo repository.ApplicationRepository
	matchRepo       repository.MatchRepository
	auditRepo       repository.AuditLogRepository
	cacheConfig     *config.CacheConfig
	rc              *redis.Client
	db              *gorm.DB
}

// NewApplicationFlow creates a new application flow instance
func NewApplicationFlow(
	accountRepo repository.AccountRepository,
	modelRepo repository.ModelProfileRepository,
	campaignRepo repository.CampaignRepository,
	applicationRepo repository.ApplicationRepository,
	matchRepo repository.MatchRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) ApplicationFlow {
	return &ApplicationFlowImpl{
		accountRepo:     accountRepo,
		modelRepo:       modelRepo,
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		matchRepo:       matchRepo,
		auditRepo:       auditRepo,
		cacheConfig:     cacheConfig,
		rc:              rc,
		db:              db,
	}
}

// Apply submits a model's application to a campaign. The application row and,
// when the score clears the threshold, the match row are written in a single
// transaction so no application can exist half-processed. Re-applying after a
// previous application is rejected with a conflict.
func (s *ApplicationFlowImpl) Apply(ctx context.Context, req *dto.ApplyRequest, metadata *ClientMetadata) (*dto.ApplyResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsModel() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only model accounts can apply to campaigns", ErrRoleMismatch)
	}

	profile, err := getModelProfile(ctx, s.modelRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", err)
	}

	campaign, err := getCampaign(ctx, s.campaignRepo, req.CampaignID)
	if err != nil {
		if IsCampaignNotFound(err) {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", err)
		}
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	if utils.IsExpired(campaign.Deadline) {
		return nil, NewBusinessError("CAMPAIGN_DEADLINE_PASSED", "Campaign deadline has passed", ErrCampaignDeadlinePassed)
	}
	if utils.IsTrue(campaign.ProOnly) && !utils.IsTrue(profile.IsPro) {
		return nil, NewBusinessError("PROFILE_NOT_ELIGIBLE", "Campaign is restricted to pro profiles", ErrProfileNotEligible)
	}

	result := scoring.Score(&profile, &campaign)
	matched := result.Score >= utils.MatchScoreThreshold

	var application *models.Application

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		application = &models.Application{
			CampaignID:     campaign.ID,
			ModelProfileID: profile.ID,
			AppliedAt:      utils.UTCNow(),
		}

		if err := s.applicationRepo.Save(txCtx, application); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return err
		}

		if matched {
			match := &models.Match{
				CampaignID:      campaign.ID,
				ModelProfileID:  profile.ID,
				AgencyProfileID: campaign.AgencyProfileID,
				Score:           result.Score,
				AgencyApproved:  utils.ToPtr(false),
				MatchedAt:       utils.UTCNow(),
			}
			if err := s.matchRepo.Upsert(txCtx, match); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Application failed for campaign %d: %s", campaign.ID, err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionApplicationFailed, errMsg, false, &errMsg, metadata)

		if errors.Is(err, ErrAlreadyApplied) {
			return nil, NewBusinessError("ALREADY_APPLIED", "Already applied to this campaign", err)
		}
		return nil, NewBusinessError("APPLICATION_FAILED", "Application failed", err)
	}

	msg := fmt.Sprintf("Application submitted for campaign %d with score %.2f", campaign.ID, result.Score)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionApplicationSubmitted, msg, true, nil, metadata)
	if matched {
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionMatchCreated, msg, true, nil, metadata)
	}

	s.invalidateMatchStatus(ctx, campaign.ID, profile.ID)

	return &dto.ApplyResponse{
		Message:       "Application submitted successfully",
		Applied:       true,
		ApplicationID: application.ID,
		Matched:       matched,
		Score:         result.Score,
		Breakdown: &dto.ScoreBreakdownDTO{
			Category: result.Breakdown.Category,
			City:     result.Breakdown.City,
			Gender:   result.Breakdown.Gender,
			Video:    result.Breakdown.Video,
		},
		AppliedAt: application.AppliedAt.Format(time.RFC3339),
	}, nil
}

// GetMatchStatus reports the match state between the calling model and a
// campaign. Results are cached briefly since models poll this endpoint.
func (s *ApplicationFlowImpl) GetMatchStatus(ctx context.Context, req *dto.MatchStatusRequest) (*dto.MatchStatusResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	profile, err := getModelProfile(ctx, s.modelRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", err)
	}

	if cached := s.cachedMatchStatus(ctx, req.CampaignID, profile.ID); cached != nil {
		return cached, nil
	}

	match, err := s.matchRepo.ByCampaignAndModel(ctx, req.CampaignID, profile.ID)
	if err != nil {
		return nil, NewBusinessError("MATCH_LOOKUP_FAILED", "Failed to lookup match", err)
	}

	resp := &dto.MatchStatusResponse{}
	if match != nil {
		resp.Matched = true
		resp.Score = match.Score
		resp.AgencyID = match.AgencyProfileID
		resp.AgencyApproved = match.IsApproved()
		resp.ChannelProvisioned = match.IsChannelProvisioned()
		resp.MatchedAt = match.MatchedAt.Format(time.RFC3339)
	}

	s.cacheMatchStatus(ctx, req.CampaignID, profile.ID, resp)

	return resp, nil
}

func matchStatusCacheKey(campaignID, modelProfileID uint) string {
	return fmt.Sprintf("match_status:%d:%d", campaignID, modelProfileID)
}

func (s *ApplicationFlowImpl) cachedMatchStatus(ctx context.Context, campaignID, modelProfileID uint) *dto.MatchStatusResponse {
	if s.rc == nil {
		return nil
	}

	raw, err := s.rc.Get(ctx, matchStatusCacheKey(campaignID, modelProfileID)).Result()
	if err != nil {
		return nil
	}

	var resp dto.MatchStatusResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *ApplicationFlowImpl) cacheMatchStatus(ctx context.Context, campaignID, modelProfileID uint, resp *dto.MatchStatusResponse) {
	if s.rc == nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}

	ttl := 30 * time.Second
	if s.cacheConfig != nil && s.cacheConfig.MatchStatusTTL > 0 {
		ttl = s.cacheConfig.MatchStatusTTL
	}

	_ = s.rc.Set(ctx, matchStatusCacheKey(campaignID, modelProfileID), raw, ttl).Err()
}

func (s *ApplicationFlowImpl) invalidateMatchStatus(ctx context.Context, campaignID, modelProfileID uint) {
	invalidateMatchStatusCache(ctx, s.rc, campaignID, modelProfileID)
}

// invalidateMatchStatusCache drops the cached match status for a pair. Every
// flow that flips approval or provisioning state calls this after commit so
// polling models never see the stale pre-approval answer for a full TTL.
func invalidateMatchStatusCache(ctx context.Context, rc *redis.Client, campaignID, modelProfileID uint) {
	if rc == nil {
		return
	}
	_ = rc.Del(ctx, matchStatusCacheKey(campaignID, modelProfileID)).Err()
}
