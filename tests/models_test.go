package tests

import (
	"testing"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		t.Run("BeforeCreateAssignsUUIDAndTimestamp", func(t *testing.T) {
			account := &models.Account{
				Email:        "model.defaults@example.com",
				PasswordHash: "hash",
				Role:         models.AccountRoleModel,
			}
			require.NoError(t, testDB.DB.Create(account).Error)

			assert.NotEqual(t, uuid.Nil, account.UUID)
			assert.False(t, account.CreatedAt.IsZero())
			assert.True(t, account.CreatedAt.Before(time.Now().Add(time.Minute)))

			var stored models.Account
			require.NoError(t, testDB.DB.First(&stored, account.ID).Error)
			assert.Equal(t, account.UUID, stored.UUID)
			assert.True(t, utils.IsTrue(stored.IsActive))
		})

		t.Run("EmailUniqueness", func(t *testing.T) {
			first := &models.Account{
				Email:        "unique@example.com",
				PasswordHash: "hash",
				Role:         models.AccountRoleAgency,
			}
			require.NoError(t, testDB.DB.Create(first).Error)

			second := &models.Account{
				Email:        "unique@example.com",
				PasswordHash: "hash",
				Role:         models.AccountRoleModel,
			}
			assert.Error(t, testDB.DB.Create(second).Error)
		})

		t.Run("RoleHelpers", func(t *testing.T) {
			model := models.Account{Role: models.AccountRoleModel}
			assert.True(t, model.IsModel())
			assert.False(t, model.IsAgency())

			agency := models.Account{Role: models.AccountRoleAgency}
			assert.True(t, agency.IsAgency())
			assert.False(t, agency.IsModel())

			assert.False(t, models.AccountRole("admin").Valid())
		})

		return nil
	})

	require.NoError(t, err)
}

func TestCampaignModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		_, agency, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)

		t.Run("GenderPreferenceDefaultsToAny", func(t *testing.T) {
			campaign := &models.Campaign{
				AgencyProfileID: agency.ID,
				Title:           "Defaults",
				Category:        "fashion",
				City:            "Milan",
				StartDate:       utils.UTCNow().Add(7 * 24 * time.Hour),
				Deadline:        utils.UTCNow().Add(3 * 24 * time.Hour),
				Compensation:    100,
				RequiredPeople:  1,
			}
			require.NoError(t, testDB.DB.Create(campaign).Error)

			var stored models.Campaign
			require.NoError(t, testDB.DB.First(&stored, campaign.ID).Error)
			assert.Equal(t, models.GenderPreferenceAny, stored.GenderPreference)
		})

		t.Run("GenderPreferenceValidation", func(t *testing.T) {
			assert.True(t, models.GenderPreferenceWomen.Valid())
			assert.True(t, models.GenderPreferenceMen.Valid())
			assert.False(t, models.GenderPreference("everyone").Valid())
		})

		return nil
	})

	require.NoError(t, err)
}

func TestMatchModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		_, agency, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)
		_, profile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign(agency.ID)
		require.NoError(t, err)

		t.Run("BeforeCreateStampsMatchedAt", func(t *testing.T) {
			match := &models.Match{
				CampaignID:      campaign.ID,
				ModelProfileID:  profile.ID,
				AgencyProfileID: agency.ID,
				Score:           85,
			}
			require.NoError(t, testDB.DB.Create(match).Error)
			assert.False(t, match.MatchedAt.IsZero())
			assert.False(t, match.IsApproved())
			assert.False(t, match.IsChannelProvisioned())
		})

		t.Run("CampaignModelPairIsUnique", func(t *testing.T) {
			duplicate := &models.Match{
				CampaignID:      campaign.ID,
				ModelProfileID:  profile.ID,
				AgencyProfileID: agency.ID,
				Score:           90,
			}
			assert.Error(t, testDB.DB.Create(duplicate).Error)
		})

		return nil
	})

	require.NoError(t, err)
}
