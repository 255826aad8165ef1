package handlers

import (
	"log"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/middleware"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ApplicationHandlerInterface defines the contract for application handlers
type ApplicationHandlerInterface interface {
	Apply(c fiber.Ctx) error
	GetMatchStatus(c fiber.Ctx) error
}

// ApplicationHandler handles campaign application HTTP requests
type ApplicationHandler struct {
	applicationFlow businessflow.ApplicationFlow
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationFlow businessflow.ApplicationFlow) *ApplicationHandler {
	return &ApplicationHandler{
		applicationFlow: applicationFlow,
	}
}

// Apply submits the calling model's application to a campaign
// @Summary Apply to Campaign
// @Description Submit an application; a match is created when the compatibility score clears the threshold
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 201 {object} dto.APIResponse{data=dto.ApplyResponse} "Application submitted"
// @Failure 403 {object} dto.APIResponse "Wrong account role or not eligible"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 409 {object} dto.APIResponse "Already applied"
// @Router /api/v1/campaigns/{id}/apply [post]
func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseUintParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	req := dto.ApplyRequest{
		AccountID:  accountID,
		CampaignID: campaignID,
	}

	result, err := h.applicationFlow.Apply(createRequestContext(c, "/api/v1/campaigns/:id/apply"), &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsAlreadyApplied(err):
			return errorResponse(c, fiber.StatusConflict, "Already applied to this campaign", "ALREADY_APPLIED", nil)
		case businessflow.IsCampaignNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		case businessflow.IsCampaignDeadlinePassed(err):
			return errorResponse(c, fiber.StatusBadRequest, "Campaign deadline has passed", "CAMPAIGN_DEADLINE_PASSED", nil)
		case businessflow.IsProfileNotEligible(err):
			return errorResponse(c, fiber.StatusForbidden, "Campaign is restricted to pro profiles", "PROFILE_NOT_ELIGIBLE", nil)
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only model accounts can apply to campaigns", "ROLE_MISMATCH", nil)
		case businessflow.IsModelProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create a model profile before applying", "MODEL_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Application failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Application failed", "APPLICATION_FAILED", nil)
	}

	middleware.RecordApplicationSubmitted()
	if result.Matched {
		middleware.RecordMatchCreated()
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// GetMatchStatus reports the match state between the calling model and a campaign
// @Summary Match Status
// @Description Report whether the calling model matched a campaign and the approval state
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse{data=dto.MatchStatusResponse} "Status retrieved"
// @Router /api/v1/campaigns/{id}/match-status [get]
func (h *ApplicationHandler) GetMatchStatus(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseUintParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	req := dto.MatchStatusRequest{
		AccountID:  accountID,
		CampaignID: campaignID,
	}

	result, err := h.applicationFlow.GetMatchStatus(createRequestContext(c, "/api/v1/campaigns/:id/match-status"), &req)
	if err != nil {
		if businessflow.IsModelProfileNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Model profile not found", "MODEL_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Match status lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch match status", "MATCH_STATUS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Match status retrieved successfully", result)
}
