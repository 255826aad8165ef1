package handlers

import (
	"log"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/middleware"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/gofiber/fiber/v3"
)

// FavoriteHandlerInterface defines the contract for favorite handlers
type FavoriteHandlerInterface interface {
	Favorite(c fiber.Ctx) error
	Unfavorite(c fiber.Ctx) error
	ListFavorites(c fiber.Ctx) error
	ListFavoritedBy(c fiber.Ctx) error
}

// FavoriteHandler handles favorite HTTP requests
type FavoriteHandler struct {
	favoriteFlow businessflow.FavoriteFlow
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteFlow businessflow.FavoriteFlow) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteFlow: favoriteFlow,
	}
}

// Favorite marks a model as a favorite of the calling agency
// @Summary Favorite Model
// @Description Mark a model as a favorite; pending matches with that model are approved as a side effect
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param model_profile_id path int true "Model profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.FavoriteResponse} "Favorite recorded"
// @Failure 403 {object} dto.APIResponse "Wrong account role"
// @Failure 404 {object} dto.APIResponse "Model profile not found"
// @Router /api/v1/favorites/{model_profile_id} [put]
func (h *FavoriteHandler) Favorite(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	modelProfileID, err := parseUintParam(c, "model_profile_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid model profile ID", "INVALID_MODEL_PROFILE_ID", err.Error())
	}

	req := dto.FavoriteRequest{
		AccountID:      accountID,
		ModelProfileID: modelProfileID,
	}

	result, err := h.favoriteFlow.Favorite(createRequestContext(c, "/api/v1/favorites/:model_profile_id"), &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can favorite models", "ROLE_MISMATCH", nil)
		case businessflow.IsModelProfileNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Model profile not found", "MODEL_PROFILE_NOT_FOUND", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Favorite failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Favorite failed", "FAVORITE_FAILED", nil)
	}

	for _, outcome := range result.Channels {
		middleware.RecordMatchApproved()
		middleware.RecordChannelProvisioned(outcome.ChannelCreated)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Unfavorite removes a favorite
// @Summary Unfavorite Model
// @Description Remove a model from the agency's favorites; approvals already granted stay in place
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param model_profile_id path int true "Model profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.UnfavoriteResponse} "Favorite removed"
// @Failure 404 {object} dto.APIResponse "Favorite not found"
// @Router /api/v1/favorites/{model_profile_id} [delete]
func (h *FavoriteHandler) Unfavorite(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	modelProfileID, err := parseUintParam(c, "model_profile_id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid model profile ID", "INVALID_MODEL_PROFILE_ID", err.Error())
	}

	req := dto.FavoriteRequest{
		AccountID:      accountID,
		ModelProfileID: modelProfileID,
	}

	result, err := h.favoriteFlow.Unfavorite(createRequestContext(c, "/api/v1/favorites/:model_profile_id"), &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsFavoriteNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Favorite not found", "FAVORITE_NOT_FOUND", nil)
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can manage favorites", "ROLE_MISMATCH", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		}

		log.Println("Unfavorite failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Unfavorite failed", "UNFAVORITE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListFavorites lists the agency's favorited models
// @Summary List Favorites
// @Description List models the calling agency has favorited
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListFavoritesResponse} "Favorites retrieved"
// @Router /api/v1/favorites [get]
func (h *FavoriteHandler) ListFavorites(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.ListFavoritesRequest{
		AccountID: accountID,
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 20),
	}

	result, err := h.favoriteFlow.ListFavorites(createRequestContext(c, "/api/v1/favorites"), &req)
	if err != nil {
		switch {
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only agency accounts can list favorites", "ROLE_MISMATCH", nil)
		case businessflow.IsAgencyProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create an agency profile first", "AGENCY_PROFILE_NOT_FOUND", nil)
		case businessflow.IsInvalidPagination(err):
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Favorite listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list favorites", "FAVORITE_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListFavoritedBy lists agencies that favorited the calling model
// @Summary List Favorited By
// @Description List agencies that have favorited the calling model
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListFavoritesResponse} "Favorites retrieved"
// @Router /api/v1/favorites/of-me [get]
func (h *FavoriteHandler) ListFavoritedBy(c fiber.Ctx) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.ListFavoritesRequest{
		AccountID: accountID,
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 20),
	}

	result, err := h.favoriteFlow.ListFavoritedBy(createRequestContext(c, "/api/v1/favorites/of-me"), &req)
	if err != nil {
		switch {
		case businessflow.IsRoleMismatch(err):
			return errorResponse(c, fiber.StatusForbidden, "Only model accounts can use this listing", "ROLE_MISMATCH", nil)
		case businessflow.IsModelProfileNotFound(err):
			return errorResponse(c, fiber.StatusBadRequest, "Create a model profile first", "MODEL_PROFILE_NOT_FOUND", nil)
		case businessflow.IsInvalidPagination(err):
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Favorite listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list favorites", "FAVORITE_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
