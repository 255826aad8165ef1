package handlers

import (
	"log"
	"strings"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	GetCaptcha(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	signupFlow businessflow.SignupFlow
	loginFlow  businessflow.LoginFlow
	validator  *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		signupFlow: signupFlow,
		loginFlow:  loginFlow,
		validator:  validator.New(),
	}
}

// Signup handles the account registration process
// @Summary Account Registration
// @Description Register a new model or agency account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account registration data"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse} "Account created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.signupFlow.Signup(createRequestContext(c, "/api/v1/auth/signup"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}
		if businessflow.IsCaptchaInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Captcha verification failed", "CAPTCHA_INVALID", nil)
		}

		log.Println("Signup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// Login handles account authentication
// @Summary Account Login
// @Description Authenticate with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.loginFlow.Login(createRequestContext(c, "/api/v1/auth/login"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh Tokens
// @Description Exchange a refresh token for a new access and refresh token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object{refresh_token=string} true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenPairDTO} "Tokens refreshed"
// @Failure 401 {object} dto.APIResponse "Invalid or expired refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	tokens, err := h.loginFlow.RefreshTokens(createRequestContext(c, "/api/v1/auth/refresh"), req.RefreshToken)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", "TOKEN_REFRESH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Tokens refreshed successfully", tokens)
}

// Logout revokes the caller's access token
// @Summary Logout
// @Description Revoke the presented access token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		return errorResponse(c, fiber.StatusUnauthorized, "Access token is required", "MISSING_ACCESS_TOKEN", nil)
	}

	if err := h.loginFlow.Logout(createRequestContext(c, "/api/v1/auth/logout"), token); err != nil {
		log.Println("Logout failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}

// GetCaptcha issues a rotate captcha challenge for the signup form
// @Summary Signup Captcha
// @Description Generate a rotate captcha challenge used during signup
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CaptchaChallengeResponse} "Challenge generated"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/captcha [get]
func (h *AuthHandler) GetCaptcha(c fiber.Ctx) error {
	challenge, err := h.signupFlow.GetCaptcha(createRequestContext(c, "/api/v1/auth/captcha"))
	if err != nil {
		log.Println("Captcha generation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate captcha", "CAPTCHA_GENERATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Captcha generated successfully", challenge)
}
