// Package businessflow contains the core business logic and use cases for match approval workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ApprovalFlow handles agency-side match approval and match listings
type ApprovalFlow interface {
	ApproveMatch(ctx context.Context, req *dto.ApproveMatchRequest, metadata *ClientMetadata) (*dto.ApproveMatchResponse, error)
	ListPendingMatches(ctx context.Context, req *dto.ListPendingMatchesRequest) (*dto.ListMatchesResponse, error)
	ListApprovedMatches(ctx context.Context, req *dto.ListApprovedMatchesRequest) (*dto.ListMatchesResponse, error)
	ExportApprovedMatches(ctx context.Context, req *dto.ExportApprovedMatchesRequest) (*dto.ExportApprovedMatchesResponse, error)
}

// ApprovalFlowImpl implements the approval business flow
type ApprovalFlowImpl struct {
	accountRepo    repository.AccountRepository
	modelRepo      repository.ModelProfileRepository
	agencyRepo     repository.AgencyProfileRepository
	campaignRepo   repository.CampaignRepository
	matchRepo      repository.MatchRepository
	auditRepo      repository.AuditLogRepository
	channelService services.ChannelService
	db             *gorm.DB
	rc             *redis.Client
}

// NewApprovalFlow creates a new approval flow instance
func NewApprovalFlow(
	accountRepo repository.AccountRepository,
	modelRepo repository.ModelProfileRepository,
	agencyRepo repository.AgencyProfileRepository,
	campaignRepo repository.CampaignRepository,
	matchRepo repository.MatchRepository,
	auditRepo repository.AuditLogRepository,
	channelService services.ChannelService,
	db *gorm.DB,
	rc *redis.Client,
) ApprovalFlow {
	return &ApprovalFlowImpl{
		accountRepo:    accountRepo,
		modelRepo:      modelRepo,
		agencyRepo:     agencyRepo,
		campaignRepo:   campaignRepo,
		matchRepo:      matchRepo,
		auditRepo:      auditRepo,
		channelService: channelService,
		db:             db,
		rc:             rc,
	}
}

// ApproveMatch marks a pending match as approved by the owning agency. The
// approval itself is transactional; channel provisioning runs after the commit
// and its failure never rolls back the approval. Unprovisioned approved
// matches are picked up later by the channel reconciler.
func (s *ApprovalFlowImpl) ApproveMatch(ctx context.Context, req *dto.ApproveMatchRequest, metadata *ClientMetadata) (*dto.ApproveMatchResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return nil, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can approve matches", ErrRoleMismatch)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	var alreadyProvisioned bool

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		rows, err := s.matchRepo.Approve(txCtx, req.CampaignID, req.ModelProfileID, agency.ID)
		if err != nil {
			return err
		}
		if rows > 0 {
			return nil
		}

		// Zero rows means no match, a match owned by another agency, or a
		// match that was already approved. Approving twice is not an error.
		match, err := s.matchRepo.ByCampaignAndModel(txCtx, req.CampaignID, req.ModelProfileID)
		if err != nil {
			return err
		}
		if match == nil {
			return ErrMatchNotFound
		}
		if match.AgencyProfileID != agency.ID {
			return ErrCampaignAccessDenied
		}
		alreadyProvisioned = match.IsChannelProvisioned()
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Match approval failed for campaign %d model %d: %s", req.CampaignID, req.ModelProfileID, err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionMatchApprovalFailed, errMsg, false, &errMsg, metadata)

		switch {
		case IsMatchNotFound(err):
			return nil, NewBusinessError("MATCH_NOT_FOUND", "Match not found", err)
		case IsCampaignAccessDenied(err):
			return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", err)
		default:
			return nil, NewBusinessError("MATCH_APPROVAL_FAILED", "Match approval failed", err)
		}
	}

	invalidateMatchStatusCache(ctx, s.rc, req.CampaignID, req.ModelProfileID)

	msg := fmt.Sprintf("Match approved for campaign %d model %d", req.CampaignID, req.ModelProfileID)
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionMatchApproved, msg, true, nil, metadata)

	resp := &dto.ApproveMatchResponse{
		Message:    "Match approved successfully",
		Approved:   true,
		ChannelKey: services.ChannelKey(req.CampaignID, req.ModelProfileID),
	}

	if alreadyProvisioned {
		resp.ChannelCreated = true
		return resp, nil
	}

	// Best effort: the approval is already committed.
	outcome := provisionMatchChannel(ctx, s.channelService, s.matchRepo, s.modelRepo, s.accountRepo, &account, req.CampaignID, req.ModelProfileID)
	resp.ChannelCreated = outcome.provisioned
	if outcome.provisioned {
		invalidateMatchStatusCache(ctx, s.rc, req.CampaignID, req.ModelProfileID)
		provMsg := fmt.Sprintf("Channel provisioned: %s", outcome.channelKey)
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionChannelProvisioned, provMsg, true, nil, metadata)
	} else if outcome.err != nil {
		errMsg := fmt.Sprintf("Channel provisioning deferred for %s: %s", resp.ChannelKey, outcome.err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionChannelProvisioned, errMsg, false, &errMsg, metadata)
	}

	return resp, nil
}

// ListPendingMatches pages matches awaiting the calling agency's approval
func (s *ApprovalFlowImpl) ListPendingMatches(ctx context.Context, req *dto.ListPendingMatchesRequest) (*dto.ListMatchesResponse, error) {
	agency, err := s.requireAgency(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	matches, err := s.matchRepo.ListPending(ctx, agency.ID)
	if err != nil {
		return nil, NewBusinessError("MATCH_LIST_FAILED", "Failed to list pending matches", err)
	}

	if req.CampaignID != nil {
		matches = filterMatchesByCampaign(matches, *req.CampaignID)
	}

	return paginateMatches(matches, page, limit), nil
}

// ListApprovedMatches pages approved matches for either side of the marketplace
func (s *ApprovalFlowImpl) ListApprovedMatches(ctx context.Context, req *dto.ListApprovedMatchesRequest) (*dto.ListMatchesResponse, error) {
	account, err := getAccount(ctx, s.accountRepo, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}

	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	var matches []*models.Match

	if account.IsAgency() {
		agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
		if err != nil {
			return nil, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
		}
		matches, err = s.matchRepo.ListApprovedByAgency(ctx, agency.ID, req.CampaignID)
		if err != nil {
			return nil, NewBusinessError("MATCH_LIST_FAILED", "Failed to list approved matches", err)
		}
	} else {
		profile, err := getModelProfile(ctx, s.modelRepo, account.ID)
		if err != nil {
			return nil, NewBusinessError("MODEL_PROFILE_NOT_FOUND", "Model profile not found", err)
		}
		matches, err = s.matchRepo.ListApprovedByModel(ctx, profile.ID, req.CampaignID)
		if err != nil {
			return nil, NewBusinessError("MATCH_LIST_FAILED", "Failed to list approved matches", err)
		}
	}

	return paginateMatches(matches, page, limit), nil
}

// ExportApprovedMatches renders the calling agency's approved matches as an
// xlsx workbook for offline processing.
func (s *ApprovalFlowImpl) ExportApprovedMatches(ctx context.Context, req *dto.ExportApprovedMatchesRequest) (*dto.ExportApprovedMatchesResponse, error) {
	agency, err := s.requireAgency(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListApprovedByAgency(ctx, agency.ID, req.CampaignID)
	if err != nil {
		return nil, NewBusinessError("MATCH_LIST_FAILED", "Failed to list approved matches", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Approved Matches"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, NewBusinessError("EXPORT_FAILED", "Failed to build export workbook", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Campaign ID", "Campaign Title", "Model ID", "Model Name", "Score", "Channel Provisioned", "Matched At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, NewBusinessError("EXPORT_FAILED", "Failed to build export workbook", err)
		}
	}

	for row, m := range matches {
		values := []any{
			m.CampaignID,
			matchCampaignTitle(m),
			m.ModelProfileID,
			matchModelName(m),
			m.Score,
			m.IsChannelProvisioned(),
			m.MatchedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, NewBusinessError("EXPORT_FAILED", "Failed to build export workbook", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXPORT_FAILED", "Failed to build export workbook", err)
	}

	return &dto.ExportApprovedMatchesResponse{
		FileName: fmt.Sprintf("approved_matches_%s.xlsx", time.Now().UTC().Format("20060102_150405")),
		Content:  buf.Bytes(),
	}, nil
}

func (s *ApprovalFlowImpl) requireAgency(ctx context.Context, accountID uint) (models.AgencyProfile, error) {
	account, err := getAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return models.AgencyProfile{}, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if !account.IsAgency() {
		return models.AgencyProfile{}, NewBusinessError("ROLE_MISMATCH", "Only agency accounts can access matches", ErrRoleMismatch)
	}

	agency, err := getAgencyProfile(ctx, s.agencyRepo, account.ID)
	if err != nil {
		return models.AgencyProfile{}, NewBusinessError("AGENCY_PROFILE_NOT_FOUND", "Agency profile not found", err)
	}

	return agency, nil
}

type channelOutcome struct {
	channelKey  string
	provisioned bool
	err         error
}

// provisionMatchChannel calls the chat provider for one approved match and
// records the provisioned flag on success. Callers treat failure as soft.
func provisionMatchChannel(
	ctx context.Context,
	channelService services.ChannelService,
	matchRepo repository.MatchRepository,
	modelRepo repository.ModelProfileRepository,
	accountRepo repository.AccountRepository,
	agencyAccount *models.Account,
	campaignID, modelProfileID uint,
) channelOutcome {
	key := services.ChannelKey(campaignID, modelProfileID)

	if channelService == nil {
		return channelOutcome{channelKey: key}
	}

	members := make([]string, 0, 2)
	if agencyAccount != nil {
		members = append(members, agencyAccount.UUID.String())
	}

	profile, err := modelRepo.ByID(ctx, modelProfileID)
	if err != nil {
		return channelOutcome{channelKey: key, err: err}
	}
	if profile != nil {
		modelAccount, err := accountRepo.ByID(ctx, profile.AccountID)
		if err != nil {
			return channelOutcome{channelKey: key, err: err}
		}
		if modelAccount != nil {
			members = append(members, modelAccount.UUID.String())
		}
	}

	result, err := channelService.ProvisionChannel(ctx, services.ProvisionChannelInput{
		CampaignID:     campaignID,
		ModelProfileID: modelProfileID,
		MemberUUIDs:    members,
	})
	if err != nil {
		return channelOutcome{channelKey: key, err: err}
	}

	if err := matchRepo.MarkChannelProvisioned(ctx, campaignID, modelProfileID); err != nil {
		return channelOutcome{channelKey: result.ChannelKey, err: err}
	}

	return channelOutcome{channelKey: result.ChannelKey, provisioned: true}
}

func filterMatchesByCampaign(matches []*models.Match, campaignID uint) []*models.Match {
	filtered := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.CampaignID == campaignID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func paginateMatches(matches []*models.Match, page, limit int) *dto.ListMatchesResponse {
	total := int64(len(matches))

	start := (page - 1) * limit
	if start > len(matches) {
		start = len(matches)
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	items := make([]dto.MatchDTO, 0, end-start)
	for _, m := range matches[start:end] {
		items = append(items, ToMatchDTO(*m))
	}

	return &dto.ListMatchesResponse{
		Message:    "Matches retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, limit, total),
	}
}

func matchCampaignTitle(m *models.Match) string {
	if m.Campaign != nil {
		return m.Campaign.Title
	}
	return ""
}

func matchModelName(m *models.Match) string {
	if m.ModelProfile != nil {
		return m.ModelProfile.Name
	}
	return ""
}
