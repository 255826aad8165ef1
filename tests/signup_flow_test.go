package tests

import (
	"context"
	"testing"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		1*time.Hour, 24*time.Hour, "test-issuer", "test-audience",
		false, "", "", "test-secret-key-for-signing-tokens",
	)
	require.NoError(t, err)
	return tokenService
}

func TestSignup(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		accountRepo := repository.NewAccountRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		securityConfig := config.SecurityConfig{
			BcryptCost:     bcrypt.MinCost,
			CaptchaEnabled: false,
		}

		signupFlow := businessflow.NewSignupFlow(
			accountRepo,
			auditRepo,
			tokenService,
			nil,
			securityConfig,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulModelSignup", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:    "new.model@example.com",
				Password: "SecurePass123!",
				Role:     "model",
			}

			result, err := signupFlow.Signup(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "new.model@example.com", result.Account.Email)
			assert.Equal(t, "model", result.Account.Role)
			assert.True(t, result.Account.IsActive)
			assert.NotEmpty(t, result.Account.UUID)
			assert.NotEmpty(t, result.Tokens.AccessToken)
			assert.NotEmpty(t, result.Tokens.RefreshToken)
			assert.Equal(t, "Bearer", result.Tokens.TokenType)

			// The password is stored hashed, never verbatim
			account, err := accountRepo.ByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.NotEqual(t, req.Password, account.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)))

			// The issued access token resolves back to the account
			claims, err := tokenService.ValidateToken(result.Tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, account.ID, claims.AccountID)
			assert.Equal(t, "model", claims.Role)

			// Signup is audited
			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &account.ID,
				Action:    utils.ToPtr(models.AuditActionSignupCompleted),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, auditLogs, 1)
			assert.True(t, utils.IsTrue(auditLogs[0].Success))
		})

		t.Run("SuccessfulAgencySignup", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:    "new.agency@example.com",
				Password: "SecurePass123!",
				Role:     "agency",
			}

			result, err := signupFlow.Signup(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "agency", result.Account.Role)

			account, err := accountRepo.ByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.True(t, account.IsAgency())
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			existing, err := fixtures.CreateTestAccount(models.AccountRoleModel)
			require.NoError(t, err)

			req := &dto.SignupRequest{
				Email:    existing.Email,
				Password: "SecurePass123!",
				Role:     "model",
			}

			result, err := signupFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))

			// Only the original account remains
			count, err := accountRepo.Count(context.Background(), models.AccountFilter{
				Email: &existing.Email,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("CaptchaRequiredWhenEnabled", func(t *testing.T) {
			captchaService, err := services.NewCaptchaServiceRotate(2*time.Minute, 10, 220)
			require.NoError(t, err)

			strictFlow := businessflow.NewSignupFlow(
				accountRepo,
				auditRepo,
				tokenService,
				captchaService,
				config.SecurityConfig{BcryptCost: bcrypt.MinCost, CaptchaEnabled: true},
				testDB.DB,
			)

			req := &dto.SignupRequest{
				Email:    "captcha.required@example.com",
				Password: "SecurePass123!",
				Role:     "model",
			}

			result, err := strictFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			require.Nil(t, result)

			// The account was never created
			account, err := accountRepo.ByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			assert.Nil(t, account)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestGetCaptcha(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		captchaService, err := services.NewCaptchaServiceRotate(2*time.Minute, 10, 220)
		require.NoError(t, err)

		signupFlow := businessflow.NewSignupFlow(
			repository.NewAccountRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			newTestTokenService(t),
			captchaService,
			config.SecurityConfig{CaptchaEnabled: true},
			testDB.DB,
		)

		challenge, err := signupFlow.GetCaptcha(context.Background())
		require.NoError(t, err)
		require.NotNil(t, challenge)
		assert.NotEmpty(t, challenge.ChallengeID)
		assert.NotEmpty(t, challenge.MasterImage)
		assert.NotEmpty(t, challenge.ThumbImage)

		return nil
	})

	require.NoError(t, err)
}
