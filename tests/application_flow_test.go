package tests

import (
	"context"
	"testing"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplicationFlow(testDB *testingutil.TestDB) businessflow.ApplicationFlow {
	return businessflow.NewApplicationFlow(
		repository.NewAccountRepository(testDB.DB),
		repository.NewModelProfileRepository(testDB.DB),
		repository.NewCampaignRepository(testDB.DB),
		repository.NewApplicationRepository(testDB.DB),
		repository.NewMatchRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
		nil,
		nil,
	)
}

func TestApplyToCampaign(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		applicationRepo := repository.NewApplicationRepository(testDB.DB)
		matchRepo := repository.NewMatchRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		applicationFlow := newApplicationFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulApplicationWithMatch", func(t *testing.T) {
			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Applied)
			assert.True(t, result.Matched)
			// Fixture profile and campaign agree on category, city and gender
			// preference but the profile has no video portfolio.
			assert.InDelta(t, 85.0, result.Score, 0.001)
			require.NotNil(t, result.Breakdown)
			assert.InDelta(t, 1.0, result.Breakdown.Category, 0.001)
			assert.InDelta(t, 1.0, result.Breakdown.City, 0.001)
			assert.InDelta(t, 1.0, result.Breakdown.Gender, 0.001)
			assert.InDelta(t, 0.0, result.Breakdown.Video, 0.001)
			assert.NotEmpty(t, result.AppliedAt)
			assert.NotZero(t, result.ApplicationID)

			// Verify the application row was persisted
			application, err := applicationRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, application)
			assert.Equal(t, application.ID, result.ApplicationID)

			// Verify a pending match was produced in the same transaction
			match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.Equal(t, agency.ID, match.AgencyProfileID)
			assert.InDelta(t, 85.0, match.Score, 0.001)
			assert.False(t, match.IsApproved())
			assert.False(t, match.IsChannelProvisioned())

			// Verify audit logs for both the application and the match
			submitted, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &modelAccount.ID,
				Action:    utils.ToPtr(models.AuditActionApplicationSubmitted),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, submitted, 1)
			assert.True(t, utils.IsTrue(submitted[0].Success))

			created, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &modelAccount.ID,
				Action:    utils.ToPtr(models.AuditActionMatchCreated),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, created, 1)
		})

		t.Run("ApplicationBelowThresholdDoesNotMatch", func(t *testing.T) {
			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			// A campaign in a different category and city only earns the
			// gender sub-score, well below the match threshold.
			err = testDB.DB.Model(campaign).Updates(map[string]any{
				"category": "sports",
				"city":     "Tokyo",
			}).Error
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Applied)
			assert.False(t, result.Matched)
			assert.Less(t, result.Score, utils.MatchScoreThreshold)

			// The breakdown is reported even when no match clears the
			// threshold, so models can see why they fell short.
			require.NotNil(t, result.Breakdown)
			assert.InDelta(t, 0.0, result.Breakdown.Category, 0.001)
			assert.InDelta(t, 0.0, result.Breakdown.City, 0.001)
			assert.InDelta(t, 1.0, result.Breakdown.Gender, 0.001)
			assert.InDelta(t, 0.0, result.Breakdown.Video, 0.001)

			// The application exists but no match was written
			application, err := applicationRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, application)
			assert.Equal(t, application.ID, result.ApplicationID)

			match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			assert.Nil(t, match)
		})

		t.Run("DuplicateApplication", func(t *testing.T) {
			modelAccount, _, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			req := &dto.ApplyRequest{AccountID: modelAccount.ID, CampaignID: campaign.ID}

			first, err := applicationFlow.Apply(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, first)

			second, err := applicationFlow.Apply(context.Background(), req, metadata)
			require.Error(t, err)
			require.Nil(t, second)
			assert.True(t, businessflow.IsAlreadyApplied(err))

			// The failure is audited
			failed, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				AccountID: &modelAccount.ID,
				Action:    utils.ToPtr(models.AuditActionApplicationFailed),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, failed, 1)
			assert.False(t, utils.IsTrue(failed[0].Success))
		})

		t.Run("DeadlinePassed", func(t *testing.T) {
			modelAccount, _, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			err = testDB.DB.Model(campaign).Update("deadline", utils.UTCNow().Add(-1*time.Hour)).Error
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsCampaignDeadlinePassed(err))
		})

		t.Run("ProOnlyCampaignRejectsNonProProfile", func(t *testing.T) {
			modelAccount, _, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			err = testDB.DB.Model(campaign).Update("pro_only", true).Error
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsProfileNotEligible(err))
		})

		t.Run("CampaignNotFound", func(t *testing.T) {
			modelAccount, _, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  modelAccount.ID,
				CampaignID: 99999,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsCampaignNotFound(err))
		})

		t.Run("AgencyAccountCannotApply", func(t *testing.T) {
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			result, err := applicationFlow.Apply(context.Background(), &dto.ApplyRequest{
				AccountID:  agencyAccount.ID,
				CampaignID: campaign.ID,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsRoleMismatch(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestGetMatchStatus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		matchRepo := repository.NewMatchRepository(testDB.DB)
		applicationFlow := newApplicationFlow(testDB)

		t.Run("NoMatch", func(t *testing.T) {
			modelAccount, _, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			status, err := applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			require.NotNil(t, status)
			assert.False(t, status.Matched)
			assert.Zero(t, status.AgencyID)
			assert.False(t, status.AgencyApproved)
			assert.False(t, status.ChannelProvisioned)
			assert.Empty(t, status.MatchedAt)
		})

		t.Run("PendingMatch", func(t *testing.T) {
			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 72.5)
			require.NoError(t, err)

			status, err := applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			require.NotNil(t, status)
			assert.True(t, status.Matched)
			assert.Equal(t, agency.ID, status.AgencyID)
			assert.InDelta(t, 72.5, status.Score, 0.001)
			assert.False(t, status.AgencyApproved)
			assert.False(t, status.ChannelProvisioned)
			assert.NotEmpty(t, status.MatchedAt)
		})

		t.Run("ApprovedMatch", func(t *testing.T) {
			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 90)
			require.NoError(t, err)

			rows, err := matchRepo.Approve(context.Background(), campaign.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1), rows)
			err = matchRepo.MarkChannelProvisioned(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)

			status, err := applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			require.NotNil(t, status)
			assert.True(t, status.Matched)
			assert.Equal(t, agency.ID, status.AgencyID)
			assert.True(t, status.AgencyApproved)
			assert.True(t, status.ChannelProvisioned)
		})

		return nil
	})

	require.NoError(t, err)
}
