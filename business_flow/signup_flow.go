// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupFlow handles the account registration business logic
type SignupFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
	GetCaptcha(ctx context.Context) (*dto.CaptchaChallengeResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	accountRepo    repository.AccountRepository
	auditRepo      repository.AuditLogRepository
	tokenService   services.TokenService
	captchaService services.CaptchaService
	securityConfig config.SecurityConfig
	db             *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaService services.CaptchaService,
	securityConfig config.SecurityConfig,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		accountRepo:    accountRepo,
		auditRepo:      auditRepo,
		tokenService:   tokenService,
		captchaService: captchaService,
		securityConfig: securityConfig,
		db:             db,
	}
}

// GetCaptcha issues a rotate captcha challenge for the signup form
func (s *SignupFlowImpl) GetCaptcha(ctx context.Context) (*dto.CaptchaChallengeResponse, error) {
	challenge, err := s.captchaService.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_GENERATION_FAILED", "Failed to generate captcha", err)
	}

	return &dto.CaptchaChallengeResponse{
		ChallengeID: challenge.ID,
		MasterImage: challenge.MasterImageBase64,
		ThumbImage:  challenge.ThumbImageBase64,
	}, nil
}

// Signup handles the complete account registration process
func (s *SignupFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	if err := s.verifyCaptcha(ctx, req); err != nil {
		return nil, NewBusinessError("CAPTCHA_VERIFICATION_FAILED", "Captcha verification failed", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.securityConfig.BcryptCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASHING_FAILED", "Failed to hash password", err)
	}

	var account *models.Account

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.accountRepo.ByEmail(txCtx, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		account = &models.Account{
			Email:        req.Email,
			PasswordHash: string(passwordHash),
			Role:         models.AccountRole(req.Role),
			IsActive:     utils.ToPtr(true),
			CreatedAt:    utils.UTCNow(),
		}

		if err := s.accountRepo.Save(txCtx, account); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed for %s: %s", req.Email, err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, nil, models.AuditActionSignupCompleted, errMsg, false, &errMsg, metadata)

		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already exists", err)
		}
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(account.ID, string(account.Role))
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	msg := fmt.Sprintf("Account created successfully: %s", account.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, &account.ID, models.AuditActionSignupCompleted, msg, true, nil, metadata)

	return &dto.SignupResponse{
		Message: "Account created successfully",
		Account: ToAccountDTO(*account),
		Tokens: dto.TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
		},
	}, nil
}

func (s *SignupFlowImpl) verifyCaptcha(ctx context.Context, req *dto.SignupRequest) error {
	if !s.securityConfig.CaptchaEnabled {
		return nil
	}
	if req.CaptchaID == nil || req.CaptchaAngle == nil {
		return ErrCaptchaRequired
	}
	if !s.captchaService.VerifyRotate(ctx, *req.CaptchaID, *req.CaptchaAngle) {
		return ErrCaptchaInvalid
	}
	return nil
}
