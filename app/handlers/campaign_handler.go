package handlers

import (
	"log"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	ListOwnCampaigns(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign opens a new campaign owned by the calling agency
// @Summary Create Campaign
// @Description Create a new campaign for the authenticated agency
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCampaignRequest true "Campaign data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCampaignResponse} "Campaign created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AccountID = accountID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.campaignFlow.CreateCampaign(createRequestContext(c, "/api/v1/campaigns"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleMismatch(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can create campaigns", "ROLE_MISMATCH", nil)
		}
		if businessflow.IsAgencyProfileNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile before posting campaigns", "AGENCY_PROFILE_NOT_FOUND", nil)
		}
		var bizErr *businessflow.BusinessError
		if ok := asBusinessError(err, &bizErr); ok && bizErr.Code == "CAMPAIGN_VALIDATION_FAILED" {
			return errorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, bizErr.Err.Error())
		}

		log.Println("Campaign creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateCampaign edits one of the calling agency's campaigns
// @Summary Update Campaign
// @Description Update fields of an existing campaign owned by the authenticated agency
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param request body dto.UpdateCampaignRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign updated"
// @Failure 403 {object} dto.APIResponse "Not the campaign owner"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	campaignID, err := parseUintParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AccountID = accountID
	req.CampaignID = campaignID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.campaignFlow.UpdateCampaign(createRequestContext(c, "/api/v1/campaigns/:id"), &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsCampaignNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		case businessflow.IsCampaignAccessDenied(err):
			return errorResponse(c, fiber.StatusForbidden, "Campaign access denied", "CAMPAIGN_ACCESS_DENIED", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Agency profile not found", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Campaign update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign updated successfully", result)
}

// GetCampaign returns a single campaign
// @Summary Get Campaign
// @Description Fetch a single campaign by ID
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign retrieved"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignID, err := parseUintParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign ID", "INVALID_CAMPAIGN_ID", err.Error())
	}

	result, err := h.campaignFlow.GetCampaign(createRequestContext(c, "/api/v1/campaigns/:id"), campaignID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", "CAMPAIGN_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns pages through open campaigns
// @Summary List Campaigns
// @Description Paginated campaign listing with optional city and category filters
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param city query string false "Filter by city"
// @Param category query string false "Filter by category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns retrieved"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	accountID, _ := accountIDFromContext(c)

	req := dto.ListCampaignsRequest{
		AccountID: accountID,
		City:      c.Query("city"),
		Category:  c.Query("category"),
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 20),
	}

	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c, "/api/v1/campaigns"), &req)
	if err != nil {
		log.Println("Campaign listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListOwnCampaigns pages through the calling agency's campaigns
// @Summary List Own Campaigns
// @Description Paginated listing of the authenticated agency's campaigns
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns retrieved"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Router /api/v1/campaigns/mine [get]
func (h *CampaignHandler) ListOwnCampaigns(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.ListCampaignsRequest{
		AccountID: accountID,
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 20),
	}

	result, err := h.campaignFlow.ListOwnCampaigns(createRequestContext(c, "/api/v1/campaigns/mine"), &req)
	if err != nil {
		if businessflow.IsAgencyProfileNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Agency profile not found", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Own campaign listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
