package handlers

import (
	"log"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProfileHandlerInterface defines the contract for profile handlers
type ProfileHandlerInterface interface {
	UpsertModelProfile(c fiber.Ctx) error
	GetModelProfile(c fiber.Ctx) error
	UpsertAgencyProfile(c fiber.Ctx) error
	GetAgencyProfile(c fiber.Ctx) error
	ListModelProfiles(c fiber.Ctx) error
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileFlow businessflow.ProfileFlow
	validator   *validator.Validate
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileFlow businessflow.ProfileFlow) *ProfileHandler {
	return &ProfileHandler{
		profileFlow: profileFlow,
		validator:   validator.New(),
	}
}

// UpsertModelProfile creates or updates the caller's model profile
// @Summary Upsert Model Profile
// @Description Create or update the authenticated model's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertModelProfileRequest true "Model profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertModelProfileResponse} "Profile saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Router /api/v1/profiles/model [put]
func (h *ProfileHandler) UpsertModelProfile(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.UpsertModelProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AccountID = accountID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.profileFlow.UpsertModelProfile(createRequestContext(c, "/api/v1/profiles/model"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleMismatch(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only model accounts can edit a model profile", "ROLE_MISMATCH", nil)
		}

		log.Println("Model profile upsert failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to save profile", "PROFILE_SAVE_FAILED", nil)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return successResponse(c, status, result.Message, result)
}

// GetModelProfile returns the caller's model profile
// @Summary Get Model Profile
// @Description Fetch the authenticated model's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ModelProfileDTO} "Profile retrieved"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /api/v1/profiles/model [get]
func (h *ProfileHandler) GetModelProfile(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	profile, err := h.profileFlow.GetModelProfile(createRequestContext(c, "/api/v1/profiles/model"), accountID)
	if err != nil {
		if businessflow.IsModelProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Model profile not found", "MODEL_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Model profile lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile", "PROFILE_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile retrieved successfully", profile)
}

// UpsertAgencyProfile creates or updates the caller's agency profile
// @Summary Upsert Agency Profile
// @Description Create or update the authenticated agency's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertAgencyProfileRequest true "Agency profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertAgencyProfileResponse} "Profile saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Router /api/v1/profiles/agency [put]
func (h *ProfileHandler) UpsertAgencyProfile(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.UpsertAgencyProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AccountID = accountID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.profileFlow.UpsertAgencyProfile(createRequestContext(c, "/api/v1/profiles/agency"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleMismatch(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can edit an agency profile", "ROLE_MISMATCH", nil)
		}

		log.Println("Agency profile upsert failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to save profile", "PROFILE_SAVE_FAILED", nil)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return successResponse(c, status, result.Message, result)
}

// GetAgencyProfile returns the caller's agency profile
// @Summary Get Agency Profile
// @Description Fetch the authenticated agency's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AgencyProfileDTO} "Profile retrieved"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /api/v1/profiles/agency [get]
func (h *ProfileHandler) GetAgencyProfile(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	profile, err := h.profileFlow.GetAgencyProfile(createRequestContext(c, "/api/v1/profiles/agency"), accountID)
	if err != nil {
		if businessflow.IsAgencyProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Agency profile not found", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Agency profile lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile", "PROFILE_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile retrieved successfully", profile)
}

// ListModelProfiles pages through model profiles for agency browsing
// @Summary Browse Model Profiles
// @Description Paginated model profile listing for agencies
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListModelProfilesResponse} "Profiles retrieved"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Router /api/v1/profiles/models [get]
func (h *ProfileHandler) ListModelProfiles(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.ListModelProfilesRequest{
		AccountID: accountID,
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 20),
	}

	result, err := h.profileFlow.ListModelProfiles(createRequestContext(c, "/api/v1/profiles/models"), &req)
	if err != nil {
		if businessflow.IsRoleMismatch(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can browse model profiles", "ROLE_MISMATCH", nil)
		}

		log.Println("Model profile listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list profiles", "PROFILE_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
