package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMatchRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		matchRepo := repository.NewMatchRepository(testDB.DB)

		t.Run("UpsertResetsApprovalOnConflict", func(t *testing.T) {
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			first := &models.Match{
				CampaignID:      campaign.ID,
				ModelProfileID:  profile.ID,
				AgencyProfileID: agency.ID,
				Score:           60,
				AgencyApproved:  utils.ToPtr(false),
				MatchedAt:       utils.UTCNow(),
			}
			require.NoError(t, matchRepo.Upsert(context.Background(), first))

			rows, err := matchRepo.Approve(context.Background(), campaign.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1), rows)

			// A re-application on the same pair refreshes the score and
			// reopens the approval gate.
			second := &models.Match{
				CampaignID:      campaign.ID,
				ModelProfileID:  profile.ID,
				AgencyProfileID: agency.ID,
				Score:           75,
				AgencyApproved:  utils.ToPtr(false),
				MatchedAt:       utils.UTCNow(),
			}
			require.NoError(t, matchRepo.Upsert(context.Background(), second))

			match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.InDelta(t, 75.0, match.Score, 0.001)
			assert.False(t, match.IsApproved())
			assert.False(t, match.IsChannelProvisioned())

			// Still a single row for the pair
			count, err := matchRepo.Count(context.Background(), models.MatchFilter{
				CampaignID:     &campaign.ID,
				ModelProfileID: &profile.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("ApproveScopesToAgency", func(t *testing.T) {
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, otherAgency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)

			rows, err := matchRepo.Approve(context.Background(), campaign.ID, profile.ID, otherAgency.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)

			rows, err = matchRepo.Approve(context.Background(), campaign.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			// An already approved match affects zero rows
			rows, err = matchRepo.Approve(context.Background(), campaign.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)
		})

		t.Run("ApproveAllPendingReturnsCampaignIDs", func(t *testing.T) {
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			campaignA, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			campaignB, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			campaignC, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			_, err = fixtures.CreateTestMatch(campaignA.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaignB.ID, profile.ID, agency.ID, 70)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaignC.ID, profile.ID, agency.ID, 65)
			require.NoError(t, err)

			// One match is already approved and must not be reported again
			rows, err := matchRepo.Approve(context.Background(), campaignC.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1), rows)

			campaignIDs, err := matchRepo.ApproveAllPending(context.Background(), agency.ID, profile.ID)
			require.NoError(t, err)
			assert.ElementsMatch(t, []uint{campaignA.ID, campaignB.ID}, campaignIDs)

			// Nothing left pending on a second call
			campaignIDs, err = matchRepo.ApproveAllPending(context.Background(), agency.ID, profile.ID)
			require.NoError(t, err)
			assert.Empty(t, campaignIDs)
		})

		t.Run("ListApprovedUnprovisioned", func(t *testing.T) {
			_, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			campaignA, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			campaignB, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)

			approved, err := fixtures.CreateTestMatch(campaignA.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaignB.ID, profile.ID, agency.ID, 70)
			require.NoError(t, err)

			rows, err := matchRepo.Approve(context.Background(), campaignA.ID, profile.ID, agency.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1), rows)

			// Only the approved but unprovisioned match surfaces
			pending, err := matchRepo.ListApprovedUnprovisioned(context.Background(), 10)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, approved.ID, pending[0].ID)

			err = matchRepo.MarkChannelProvisioned(context.Background(), campaignA.ID, profile.ID)
			require.NoError(t, err)

			pending, err = matchRepo.ListApprovedUnprovisioned(context.Background(), 10)
			require.NoError(t, err)
			assert.Empty(t, pending)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestApplicationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		applicationRepo := repository.NewApplicationRepository(testDB.DB)

		_, agency, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)
		_, profile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign(agency.ID)
		require.NoError(t, err)

		t.Run("DuplicateApplicationViolatesUniqueKey", func(t *testing.T) {
			first := &models.Application{
				CampaignID:     campaign.ID,
				ModelProfileID: profile.ID,
				AppliedAt:      utils.UTCNow(),
			}
			require.NoError(t, applicationRepo.Save(context.Background(), first))

			second := &models.Application{
				CampaignID:     campaign.ID,
				ModelProfileID: profile.ID,
				AppliedAt:      utils.UTCNow(),
			}
			err := applicationRepo.Save(context.Background(), second)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
		})

		t.Run("ByCampaignAndModel", func(t *testing.T) {
			application, err := applicationRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, application)
			assert.Equal(t, campaign.ID, application.CampaignID)
			assert.False(t, application.AppliedAt.IsZero())

			missing, err := applicationRepo.ByCampaignAndModel(context.Background(), campaign.ID, 99999)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestFavoriteRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		favoriteRepo := repository.NewFavoriteRepository(testDB.DB)

		_, agency, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)
		_, profile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)

		t.Run("UpsertIsIdempotent", func(t *testing.T) {
			favorite := &models.Favorite{
				AgencyProfileID: agency.ID,
				ModelProfileID:  profile.ID,
				CreatedAt:       utils.UTCNow(),
			}
			require.NoError(t, favoriteRepo.Upsert(context.Background(), favorite))

			again := &models.Favorite{
				AgencyProfileID: agency.ID,
				ModelProfileID:  profile.ID,
				CreatedAt:       utils.UTCNow(),
			}
			require.NoError(t, favoriteRepo.Upsert(context.Background(), again))

			favorites, err := favoriteRepo.ListByAgency(context.Background(), agency.ID)
			require.NoError(t, err)
			assert.Len(t, favorites, 1)
		})

		t.Run("DeleteReportsAffectedRows", func(t *testing.T) {
			rows, err := favoriteRepo.Delete(context.Background(), agency.ID, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			rows, err = favoriteRepo.Delete(context.Background(), agency.ID, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestTransactionRollback(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		favoriteRepo := repository.NewFavoriteRepository(testDB.DB)
		matchRepo := repository.NewMatchRepository(testDB.DB)

		_, agency, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)
		_, profile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign(agency.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 85)
		require.NoError(t, err)

		boom := errors.New("boom")

		err = repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
			favorite := &models.Favorite{
				AgencyProfileID: agency.ID,
				ModelProfileID:  profile.ID,
				CreatedAt:       utils.UTCNow(),
			}
			if err := favoriteRepo.Upsert(txCtx, favorite); err != nil {
				return err
			}
			if _, err := matchRepo.ApproveAllPending(txCtx, agency.ID, profile.ID); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		// Neither the favorite nor the approval survived the rollback
		favorites, err := favoriteRepo.ListByAgency(context.Background(), agency.ID)
		require.NoError(t, err)
		assert.Empty(t, favorites)

		match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.False(t, match.IsApproved())

		return nil
	})

	require.NoError(t, err)
}
