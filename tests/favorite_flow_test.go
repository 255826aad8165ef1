package tests

import (
	"context"
	"testing"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavoriteFlow(testDB *testingutil.TestDB, channelService services.ChannelService) businessflow.FavoriteFlow {
	return businessflow.NewFavoriteFlow(
		repository.NewAccountRepository(testDB.DB),
		repository.NewModelProfileRepository(testDB.DB),
		repository.NewAgencyProfileRepository(testDB.DB),
		repository.NewFavoriteRepository(testDB.DB),
		repository.NewMatchRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		channelService,
		testDB.DB,
		nil,
	)
}

func TestFavoriteModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		matchRepo := repository.NewMatchRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("FavoriteApprovesAllPendingMatches", func(t *testing.T) {
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			campaignA, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			campaignB, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaignA.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaignB.ID, profile.ID, agency.ID, 70)
			require.NoError(t, err)

			channelService := &fakeChannelService{}
			favoriteFlow := newFavoriteFlow(testDB, channelService)

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Favorited)
			assert.ElementsMatch(t, []uint{campaignA.ID, campaignB.ID}, result.ApprovedCampaigns)

			// One channel per approved campaign
			require.Len(t, result.Channels, 2)
			for _, ch := range result.Channels {
				assert.True(t, ch.ChannelCreated)
				assert.Equal(t, services.ChannelKey(ch.CampaignID, profile.ID), ch.ChannelKey)
			}
			assert.Len(t, channelService.calls, 2)

			// Both matches are approved and provisioned
			for _, campaignID := range []uint{campaignA.ID, campaignB.ID} {
				match, err := matchRepo.ByCampaignAndModel(context.Background(), campaignID, profile.ID)
				require.NoError(t, err)
				require.NotNil(t, match)
				assert.True(t, match.IsApproved())
				assert.True(t, match.IsChannelProvisioned())
			}
		})

		t.Run("FavoriteLeavesOtherAgenciesMatchesAlone", func(t *testing.T) {
			agencyAccount, _, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, otherAgency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			otherCampaign, err := fixtures.CreateTestCampaign(otherAgency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(otherCampaign.ID, profile.ID, otherAgency.ID, 85)
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Favorited)
			assert.Empty(t, result.ApprovedCampaigns)

			match, err := matchRepo.ByCampaignAndModel(context.Background(), otherCampaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.False(t, match.IsApproved())
		})

		t.Run("RepeatedFavoriteIsIdempotent", func(t *testing.T) {
			agencyAccount, _, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			req := &dto.FavoriteRequest{AccountID: agencyAccount.ID, ModelProfileID: profile.ID}

			first, err := favoriteFlow.Favorite(context.Background(), req, metadata)
			require.NoError(t, err)
			assert.True(t, first.Favorited)

			second, err := favoriteFlow.Favorite(context.Background(), req, metadata)
			require.NoError(t, err)
			assert.True(t, second.Favorited)

			listed, err := favoriteFlow.ListFavorites(context.Background(), &dto.ListFavoritesRequest{
				AccountID: agencyAccount.ID,
				Page:      1,
				Limit:     20,
			})
			require.NoError(t, err)
			require.Len(t, listed.Items, 1)
			assert.Equal(t, profile.ID, listed.Items[0].ModelProfileID)
		})

		t.Run("ProviderFailureLeavesMatchesForReconciler", func(t *testing.T) {
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)

			channelService := &fakeChannelService{failWith: services.ErrChannelProviderUnavailable}
			favoriteFlow := newFavoriteFlow(testDB, channelService)

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Favorited)
			assert.Equal(t, []uint{campaign.ID}, result.ApprovedCampaigns)
			require.Len(t, result.Channels, 1)
			assert.False(t, result.Channels[0].ChannelCreated)

			// Approval is committed even though provisioning failed
			match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.True(t, match.IsApproved())
			assert.False(t, match.IsChannelProvisioned())
		})

		t.Run("ModelAccountCannotFavorite", func(t *testing.T) {
			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      modelAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsRoleMismatch(err))
		})

		t.Run("UnknownModelProfile", func(t *testing.T) {
			agencyAccount, _, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: 99999,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsModelProfileNotFound(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestUnfavoriteModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		matchRepo := repository.NewMatchRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("UnfavoriteKeepsApprovals", func(t *testing.T) {
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			req := &dto.FavoriteRequest{AccountID: agencyAccount.ID, ModelProfileID: profile.ID}

			_, err = favoriteFlow.Favorite(context.Background(), req, metadata)
			require.NoError(t, err)

			result, err := favoriteFlow.Unfavorite(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Removed)

			// Removing the favorite never unwinds an approval
			match, err := matchRepo.ByCampaignAndModel(context.Background(), campaign.ID, profile.ID)
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.True(t, match.IsApproved())
		})

		t.Run("UnfavoriteMissingFavorite", func(t *testing.T) {
			agencyAccount, _, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			_, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)

			favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

			result, err := favoriteFlow.Unfavorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.Error(t, err)
			require.Nil(t, result)
			assert.True(t, businessflow.IsFavoriteNotFound(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestListFavorites(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		favoriteFlow := newFavoriteFlow(testDB, &fakeChannelService{})

		agencyAccount, _, err := fixtures.CreateAgencyWithProfile()
		require.NoError(t, err)
		modelAccount, profile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)
		_, otherProfile, err := fixtures.CreateModelWithProfile()
		require.NoError(t, err)

		for _, p := range []uint{profile.ID, otherProfile.ID} {
			_, err = favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: p,
			}, metadata)
			require.NoError(t, err)
		}

		t.Run("AgencyFavorites", func(t *testing.T) {
			result, err := favoriteFlow.ListFavorites(context.Background(), &dto.ListFavoritesRequest{
				AccountID: agencyAccount.ID,
				Page:      1,
				Limit:     20,
			})
			require.NoError(t, err)
			require.Len(t, result.Items, 2)
			assert.Equal(t, int64(2), result.Pagination.Total)
		})

		t.Run("PaginationWindow", func(t *testing.T) {
			result, err := favoriteFlow.ListFavorites(context.Background(), &dto.ListFavoritesRequest{
				AccountID: agencyAccount.ID,
				Page:      2,
				Limit:     1,
			})
			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, int64(2), result.Pagination.Total)
			assert.Equal(t, 2, result.Pagination.TotalPages)
		})

		t.Run("FavoritedByForModel", func(t *testing.T) {
			result, err := favoriteFlow.ListFavoritedBy(context.Background(), &dto.ListFavoritesRequest{
				AccountID: modelAccount.ID,
				Page:      1,
				Limit:     20,
			})
			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, profile.ID, result.Items[0].ModelProfileID)
		})

		return nil
	})

	require.NoError(t, err)
}
