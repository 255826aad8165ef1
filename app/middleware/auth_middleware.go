// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_AUTHORIZATION_HEADER",
				},
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				Error: dto.ErrorDetail{
					Code: "INVALID_AUTHORIZATION_FORMAT",
				},
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Access token is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_ACCESS_TOKEN",
				},
			})
		}

		// Validation already covers revocation
		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			var errorCode string
			var message string

			if errors.Is(err, services.ErrTokenExpired) {
				errorCode = "TOKEN_EXPIRED"
				message = "Access token has expired"
			} else if errors.Is(err, services.ErrTokenInvalid) {
				errorCode = "TOKEN_INVALID"
				message = "Invalid access token"
			} else if errors.Is(err, services.ErrTokenRevoked) {
				errorCode = "TOKEN_REVOKED"
				message = "Access token has been revoked"
			} else {
				errorCode = "TOKEN_VALIDATION_FAILED"
				message = "Token validation failed"
			}

			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error: dto.ErrorDetail{
					Code: errorCode,
				},
			})
		}

		// Store account information in context for downstream handlers
		c.Locals("account_id", claims.AccountID)
		c.Locals("account_role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireRole builds a middleware that rejects accounts outside the given role.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role models.AccountRole) fiber.Handler {
	return func(c fiber.Ctx) error {
		accountRole, ok := c.Locals("account_role").(string)
		if !ok || accountRole != string(role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "This endpoint is not available for your account role",
				Error: dto.ErrorDetail{
					Code: "ROLE_FORBIDDEN",
				},
			})
		}
		return c.Next()
	}
}

// OptionalAuth is a middleware that validates JWT tokens if present, but doesn't require them
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Next()
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			// Token is invalid, but this is optional auth, so continue
			return c.Next()
		}

		c.Locals("account_id", claims.AccountID)
		c.Locals("account_role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetAccountIDFromContext extracts the account ID from the request context
func GetAccountIDFromContext(c fiber.Ctx) (uint, bool) {
	accountID, ok := c.Locals("account_id").(uint)
	return accountID, ok
}

// GetAccountRoleFromContext extracts the account role from the request context
func GetAccountRoleFromContext(c fiber.Ctx) (string, bool) {
	role, ok := c.Locals("account_role").(string)
	return role, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}

// RequireAuth is a helper function that ensures authentication is required
func RequireAuth(c fiber.Ctx) error {
	accountID, exists := GetAccountIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authentication required",
			Error: dto.ErrorDetail{
				Code: "AUTHENTICATION_REQUIRED",
			},
		})
	}

	if accountID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid account ID",
			Error: dto.ErrorDetail{
				Code: "INVALID_ACCOUNT_ID",
			},
		})
	}

	return nil
}
