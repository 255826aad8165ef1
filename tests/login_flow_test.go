package tests

import (
	"context"
	"testing"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		accountRepo := repository.NewAccountRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		loginFlow := businessflow.NewLoginFlow(accountRepo, auditRepo, tokenService)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulLogin", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.AccountRoleModel)
			require.NoError(t, err)

			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, account.Email, result.Account.Email)
			assert.NotEmpty(t, result.Tokens.AccessToken)
			assert.NotEmpty(t, result.Tokens.RefreshToken)

			// Last login is stamped
			updated, err := accountRepo.ByID(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.NotNil(t, updated.LastLoginAt)

			// Successful login is audited
			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &account.ID,
				Action:    utils.ToPtr(models.AuditActionLoginSuccessful),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, auditLogs, 1)
			assert.True(t, utils.IsTrue(auditLogs[0].Success))
		})

		t.Run("IncorrectPassword", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.AccountRoleModel)
			require.NoError(t, err)

			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    account.Email,
				Password: "WrongPassword!",
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsIncorrectPassword(err))

			// The failure is audited
			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &account.ID,
				Action:    utils.ToPtr(models.AuditActionLoginFailed),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, auditLogs, 1)
			assert.False(t, utils.IsTrue(auditLogs[0].Success))
		})

		t.Run("AccountNotFound", func(t *testing.T) {
			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "missing@example.com",
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.AccountRoleAgency)
			require.NoError(t, err)

			err = testDB.DB.Model(account).Update("is_active", false).Error
			require.NoError(t, err)

			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestTokenLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		accountRepo := repository.NewAccountRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		loginFlow := businessflow.NewLoginFlow(accountRepo, auditRepo, tokenService)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		account, err := fixtures.CreateTestAccount(models.AccountRoleModel)
		require.NoError(t, err)

		login, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
			Email:    account.Email,
			Password: "TestPass123!",
		}, metadata)
		require.NoError(t, err)

		t.Run("RefreshTokens", func(t *testing.T) {
			pair, err := loginFlow.RefreshTokens(context.Background(), login.Tokens.RefreshToken)
			require.NoError(t, err)
			require.NotNil(t, pair)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)

			claims, err := tokenService.ValidateToken(pair.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, account.ID, claims.AccountID)
		})

		t.Run("RefreshWithAccessTokenFails", func(t *testing.T) {
			pair, err := loginFlow.RefreshTokens(context.Background(), login.Tokens.AccessToken)
			require.Error(t, err)
			assert.Nil(t, pair)
		})

		t.Run("LogoutRevokesToken", func(t *testing.T) {
			err := loginFlow.Logout(context.Background(), login.Tokens.AccessToken)
			require.NoError(t, err)

			_, err = tokenService.ValidateToken(login.Tokens.AccessToken)
			require.Error(t, err)
		})

		return nil
	})

	require.NoError(t, err)
}
