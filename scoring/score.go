// Package scoring implements the pure match-scoring engine: a weighted
// additive score over four independent factors, mapping a model profile and a
// campaign to a compatibility score in [0, 100] with a per-factor breakdown.
// It performs no I/O and never fails; missing or blank fields normalize to
// neutral or zero sub-scores.
package scoring

import (
	"math"
	"strings"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
)

// Weights encode business priority: fit-to-role dominates, location is
// near-equal, gender preference and portfolio are lighter signals.
type Weights struct {
	Category float64 `json:"category"`
	City     float64 `json:"city"`
	Gender   float64 `json:"gender"`
	Video    float64 `json:"video"`
}

// DefaultWeights is the fixed production weighting scheme.
var DefaultWeights = Weights{
	Category: 0.35,
	City:     0.30,
	Gender:   0.20,
	Video:    0.15,
}

// Breakdown exposes each sub-score (all in [0, 1]) and the weights applied,
// for caller-side explainability.
type Breakdown struct {
	Category float64 `json:"category"`
	City     float64 `json:"city"`
	Gender   float64 `json:"gender"`
	Video    float64 `json:"video"`
	Weights  Weights `json:"weights"`
}

// Result is the scoring output for a single model-campaign pair.
type Result struct {
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score computes the weighted compatibility score for a model-campaign pair.
// Deterministic: same inputs always produce the same output.
func Score(model *models.ModelProfile, campaign *models.Campaign) Result {
	breakdown := Breakdown{
		Category: categoryScore(model, campaign),
		City:     cityScore(model, campaign),
		Gender:   genderScore(model, campaign),
		Video:    videoScore(model),
		Weights:  DefaultWeights,
	}

	total := breakdown.Category*DefaultWeights.Category +
		breakdown.City*DefaultWeights.City +
		breakdown.Gender*DefaultWeights.Gender +
		breakdown.Video*DefaultWeights.Video

	// Round half-up at the cent level.
	score := math.Round(total*10000) / 100

	return Result{Score: score, Breakdown: breakdown}
}

// categoryScore: campaign category unset is open (neutral), model category
// unset scores zero, "other" on either side earns partial credit.
func categoryScore(model *models.ModelProfile, campaign *models.Campaign) float64 {
	cCat := normalize(campaign.Category)
	mCat := normalize(model.Category)

	if cCat == "" {
		return 1.0
	}
	if mCat == "" {
		return 0
	}
	if cCat == "other" {
		return 0.6
	}
	if mCat == "other" {
		return 0.5
	}
	if mCat == cCat {
		return 1.0
	}
	return 0
}

// cityScore prefers the model's explicit city and falls back to the first
// comma segment of the free-text location. Substring containment in either
// direction earns near-full credit.
func cityScore(model *models.ModelProfile, campaign *models.Campaign) float64 {
	mCity := ""
	if model.City != nil {
		mCity = normalize(*model.City)
	}
	if mCity == "" {
		mCity = firstSegment(model.Location)
	}
	cCity := normalize(campaign.City)

	if cCity == "" {
		return 1.0
	}
	if mCity == "" {
		return 0
	}
	if mCity == cCity {
		return 1.0
	}
	if strings.Contains(mCity, cCity) || strings.Contains(cCity, mCity) {
		return 0.85
	}
	return 0
}

// genderScore maps the campaign preference onto the model's gender tag.
// An unset preference counts as "any".
func genderScore(model *models.ModelProfile, campaign *models.Campaign) float64 {
	pref := normalize(campaign.GenderPreference.String())
	if pref == "" {
		pref = "any"
	}
	gender := normalize(model.Gender)

	if pref == "any" {
		return 1.0
	}
	if gender == "" {
		return 0
	}
	if pref == "women" && gender == "female" {
		return 1.0
	}
	if pref == "men" && gender == "male" {
		return 1.0
	}
	if gender == "other" {
		return 0.5
	}
	return 0
}

func videoScore(model *models.ModelProfile) float64 {
	if model.HasVideoPortfolio() && strings.TrimSpace(*model.VideoPortfolio) != "" {
		return 1.0
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// firstSegment returns the lowercased text before the first comma, or the
// whole string when no comma is present.
func firstSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	part, _, _ := strings.Cut(s, ",")
	return strings.ToLower(strings.TrimSpace(part))
}
