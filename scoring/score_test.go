package scoring

import (
	"testing"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePerfectMatch(t *testing.T) {
	model := &models.ModelProfile{
		Category:       "Model",
		City:           utils.ToPtr("Paris"),
		Gender:         "female",
		VideoPortfolio: utils.ToPtr("https://cdn.example.com/reel.mp4"),
	}
	campaign := &models.Campaign{
		Category:         "Model",
		City:             "Paris",
		GenderPreference: models.GenderPreferenceWomen,
	}

	result := Score(model, campaign)

	assert.Equal(t, 100.00, result.Score)
	assert.Equal(t, 1.0, result.Breakdown.Category)
	assert.Equal(t, 1.0, result.Breakdown.City)
	assert.Equal(t, 1.0, result.Breakdown.Gender)
	assert.Equal(t, 1.0, result.Breakdown.Video)
}

func TestScoreCompleteMismatch(t *testing.T) {
	model := &models.ModelProfile{
		Category: "Waiter",
		City:     utils.ToPtr("Berlin"),
		Gender:   "male",
	}
	campaign := &models.Campaign{
		Category:         "Model",
		City:             "Paris",
		GenderPreference: models.GenderPreferenceWomen,
	}

	result := Score(model, campaign)

	assert.Equal(t, 0.00, result.Score)
	assert.Equal(t, 0.0, result.Breakdown.Category)
	assert.Equal(t, 0.0, result.Breakdown.City)
	assert.Equal(t, 0.0, result.Breakdown.Gender)
	assert.Equal(t, 0.0, result.Breakdown.Video)
}

func TestScoreNeutralOnUnsetCampaignFields(t *testing.T) {
	// Campaign with no city and no gender preference must not penalize; a
	// model missing only a video portfolio loses exactly the video weight.
	model := &models.ModelProfile{
		Category: "Model",
		Gender:   "female",
		Location: "Milan, Italy",
	}
	campaign := &models.Campaign{
		Category:         "Model",
		GenderPreference: models.GenderPreferenceAny,
	}

	result := Score(model, campaign)

	assert.Equal(t, 1.0, result.Breakdown.City)
	assert.Equal(t, 1.0, result.Breakdown.Gender)
	assert.Equal(t, 0.0, result.Breakdown.Video)
	// 100 * (0.35*1 + 0.30*1 + 0.20*1)
	assert.Equal(t, 85.00, result.Score)
}

func TestScoreCityFromLocationFirstSegment(t *testing.T) {
	model := &models.ModelProfile{
		Category: "Model",
		Gender:   "female",
		Location: "Paris, France",
	}
	campaign := &models.Campaign{
		Category:         "Model",
		City:             "paris",
		GenderPreference: models.GenderPreferenceAny,
	}

	result := Score(model, campaign)
	assert.Equal(t, 1.0, result.Breakdown.City)
}

func TestScoreCitySubstringContainment(t *testing.T) {
	model := &models.ModelProfile{City: utils.ToPtr("Greater Paris")}
	campaign := &models.Campaign{City: "Paris", GenderPreference: models.GenderPreferenceAny}

	result := Score(model, campaign)
	assert.Equal(t, 0.85, result.Breakdown.City)
}

func TestScoreCategoryPartialCredit(t *testing.T) {
	t.Run("CampaignOther", func(t *testing.T) {
		model := &models.ModelProfile{Category: "Model"}
		campaign := &models.Campaign{Category: "Other", GenderPreference: models.GenderPreferenceAny}
		assert.Equal(t, 0.6, Score(model, campaign).Breakdown.Category)
	})

	t.Run("ModelOther", func(t *testing.T) {
		model := &models.ModelProfile{Category: "other"}
		campaign := &models.Campaign{Category: "Model", GenderPreference: models.GenderPreferenceAny}
		assert.Equal(t, 0.5, Score(model, campaign).Breakdown.Category)
	})

	t.Run("ModelUnset", func(t *testing.T) {
		model := &models.ModelProfile{}
		campaign := &models.Campaign{Category: "Model", GenderPreference: models.GenderPreferenceAny}
		assert.Equal(t, 0.0, Score(model, campaign).Breakdown.Category)
	})
}

func TestScoreGenderPartialCredit(t *testing.T) {
	t.Run("OtherTag", func(t *testing.T) {
		model := &models.ModelProfile{Gender: "other"}
		campaign := &models.Campaign{GenderPreference: models.GenderPreferenceWomen}
		assert.Equal(t, 0.5, Score(model, campaign).Breakdown.Gender)
	})

	t.Run("MenPreference", func(t *testing.T) {
		model := &models.ModelProfile{Gender: "male"}
		campaign := &models.Campaign{GenderPreference: models.GenderPreferenceMen}
		assert.Equal(t, 1.0, Score(model, campaign).Breakdown.Gender)
	})

	t.Run("UnsetTag", func(t *testing.T) {
		model := &models.ModelProfile{}
		campaign := &models.Campaign{GenderPreference: models.GenderPreferenceMen}
		assert.Equal(t, 0.0, Score(model, campaign).Breakdown.Gender)
	})
}

func TestScoreBlankVideoPortfolio(t *testing.T) {
	model := &models.ModelProfile{VideoPortfolio: utils.ToPtr("   ")}
	campaign := &models.Campaign{GenderPreference: models.GenderPreferenceAny}
	assert.Equal(t, 0.0, Score(model, campaign).Breakdown.Video)
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	cases := []struct {
		model    *models.ModelProfile
		campaign *models.Campaign
	}{
		{&models.ModelProfile{}, &models.Campaign{}},
		{&models.ModelProfile{Category: "Other", Gender: "other"}, &models.Campaign{Category: "other", City: "Rome", GenderPreference: models.GenderPreferenceMen}},
		{&models.ModelProfile{Category: "Dancer", Location: "Lyon"}, &models.Campaign{Category: "dancer", City: "Lyon"}},
	}

	for _, tc := range cases {
		first := Score(tc.model, tc.campaign)
		second := Score(tc.model, tc.campaign)
		require.Equal(t, first, second)
		assert.GreaterOrEqual(t, first.Score, 0.0)
		assert.LessOrEqual(t, first.Score, 100.0)
	}
}

func TestScoreRoundedToTwoDecimals(t *testing.T) {
	// category exact + city substring: 0.35 + 0.30*0.85 + 0.20 = 0.805
	model := &models.ModelProfile{
		Category: "Model",
		City:     utils.ToPtr("Greater Paris"),
		Gender:   "female",
	}
	campaign := &models.Campaign{
		Category:         "Model",
		City:             "Paris",
		GenderPreference: models.GenderPreferenceWomen,
	}

	assert.Equal(t, 80.50, Score(model, campaign).Score)
}
