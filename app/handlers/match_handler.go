package handlers

import (
	"log"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/middleware"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/gofiber/fiber/v3"
)

// MatchHandlerInterface defines the contract for match handlers
type MatchHandlerInterface interface {
	ApproveMatch(c fiber.Ctx) error
	ListPendingMatches(c fiber.Ctx) error
	ListApprovedMatches(c fiber.Ctx) error
	ExportApprovedMatches(c fiber.Ctx) error
}

// MatchHandler handles match approval HTTP requests
type MatchHandler struct {
	approvalFlow businessflow.ApprovalFlow
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(approvalFlow businessflow.ApprovalFlow) *MatchHandler {
	return &MatchHandler{
		approvalFlow: approvalFlow,
	}
}

// ApproveMatch approves a pending match on one of the agency's campaigns
// @Summary Approve Match
// @Description Approve a pending match and provision its chat channel
// @Tags Matches
// @Produce json
// @Security BearerAuth
// @Param campaign_id path int true "Campaign ID"
// @Param model_profile_id path int true "Model profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApproveMatchResponse} "Match approved"
// @Failure 403 {object} dto.APIResponse "Campaign belongs to another agency"
// @Failure 404 {object} dto.APIResponse "Match not found"
// @Router /api/v1/matches/{campaign_id}/{model_profile_id}/approve [post]
func (h *MatchHandler) ApproveMatch(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseUintParam(c, "campaign_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	modelProfileID, err := parseUintParam(c, "model_profile_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid model profile ID", "INVALID_MODEL_PROFILE_ID", err.Error())
	}

	req := dto.ApproveMatchRequest{
		AccountID:      accountID,
		CampaignID:     campaignID,
		ModelProfileID: modelProfileID,
	}

	result, err := h.approvalFlow.ApproveMatch(createRequestContext(c, "/api/v1/matches/:campaign_id/:model_profile_id/approve"), &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsMatchNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Match not found", "MATCH_NOT_FOUND", nil)
		case businessflow.IsCampaignAccessDenied(err):
			return errorResponse(c, fiber.StatusForbidden, "Campaign belongs to another agency", "CAMPAIGN_ACCESS_DENIED", nil)
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can approve matches", "ROLE_MISMATCH", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Match approval failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Match approval failed", "MATCH_APPROVAL_FAILED", nil)
	}

	middleware.RecordMatchApproved()
	middleware.RecordChannelProvisioned(result.ChannelCreated)

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListPendingMatches lists matches awaiting the agency's approval
// @Summary Pending Matches
// @Description List matches on the agency's campaigns that await approval
// @Tags Matches
// @Produce json
// @Security BearerAuth
// @Param campaign_id query int false "Restrict to one campaign"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListMatchesResponse} "Matches retrieved"
// @Router /api/v1/matches/pending [get]
func (h *MatchHandler) ListPendingMatches(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseOptionalUintQuery(c, "campaign_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	req := dto.ListPendingMatchesRequest{
		AccountID:  accountID,
		CampaignID: campaignID,
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}

	result, err := h.approvalFlow.ListPendingMatches(createRequestContext(c, "/api/v1/matches/pending"), &req)
	if err != nil {
		switch {
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can list pending matches", "ROLE_MISMATCH", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		case businessflow.IsInvalidPagination(err):
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Pending match listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list pending matches", "MATCH_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListApprovedMatches lists approved matches visible to the caller
// @Summary Approved Matches
// @Description List approved matches for the calling account
// @Tags Matches
// @Produce json
// @Security BearerAuth
// @Param campaign_id query int false "Restrict to one campaign"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListMatchesResponse} "Matches retrieved"
// @Router /api/v1/matches/approved [get]
func (h *MatchHandler) ListApprovedMatches(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseOptionalUintQuery(c, "campaign_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	req := dto.ListApprovedMatchesRequest{
		AccountID:  accountID,
		CampaignID: campaignID,
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}

	result, err := h.approvalFlow.ListApprovedMatches(createRequestContext(c, "/api/v1/matches/approved"), &req)
	if err != nil {
		if businessflow.IsInvalidPagination(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Approved match listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list approved matches", "MATCH_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportApprovedMatches downloads approved matches as an xlsx workbook
// @Summary Export Approved Matches
// @Description Download the agency's approved matches as a spreadsheet
// @Tags Matches
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param campaign_id query int false "Restrict to one campaign"
// @Success 200 {file} binary "Workbook generated"
// @Router /api/v1/matches/approved/export [get]
func (h *MatchHandler) ExportApprovedMatches(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseOptionalUintQuery(c, "campaign_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	req := dto.ExportApprovedMatchesRequest{
		AccountID:  accountID,
		CampaignID: campaignID,
	}

	result, err := h.approvalFlow.ExportApprovedMatches(createRequestContext(c, "/api/v1/matches/approved/export"), &req)
	if err != nil {
		switch {
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can export matches", "ROLE_MISMATCH", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Match export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Match export failed", "MATCH_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.FileName+`"`)
	return c.Send(result.Content)
}
