// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// LoginFlow handles the authentication business logic
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	accountRepo  repository.AccountRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
) LoginFlow {
	return &LoginFlowImpl{
		accountRepo:  accountRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
	}
}

// Login authenticates an account by email and password
func (s *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	account, err := s.accountRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if account == nil {
		s.logFailedLogin(ctx, nil, req.Email, "account not found", metadata)
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}
	if !utils.IsTrue(account.IsActive) {
		s.logFailedLogin(ctx, &account.ID, req.Email, "account inactive", metadata)
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logFailedLogin(ctx, &account.ID, req.Email, "incorrect password", metadata)
		return nil, NewBusinessError("INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(account.ID, string(account.Role))
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		// Non-fatal, the login itself already succeeded
		_ = err
	}

	msg := fmt.Sprintf("Login successful: %s", account.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return &dto.LoginResponse{
		Message: "Login successful",
		Account: ToAccountDTO(*account),
		Tokens: dto.TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
		},
	}, nil
}

// RefreshTokens exchanges a refresh token for a new token pair
func (s *LoginFlowImpl) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	access, refresh, err := s.tokenService.RefreshToken(refreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
	}, nil
}

// Logout revokes the presented access token
func (s *LoginFlowImpl) Logout(ctx context.Context, accessToken string) error {
	if err := s.tokenService.RevokeToken(accessToken); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Failed to revoke token", err)
	}
	return nil
}

func (s *LoginFlowImpl) logFailedLogin(ctx context.Context, accountID *uint, email, reason string, metadata *ClientMetadata) {
	errMsg := fmt.Sprintf("Login failed for %s: %s", email, reason)
	_ = writeAuditLog(ctx, s.auditRepo, accountID, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)
}
