package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskProfileFor_Boundaries(t *testing.T) {
	tests := []struct {
		score   float64
		profile string
	}{
		{80, RiskProfileExtreme},
		{79.9, RiskProfileHigh},
		{65, RiskProfileHigh},
		{64.9, RiskProfileModerate},
		{40, RiskProfileModerate},
		{39.9, RiskProfileLow},
		{10, RiskProfileLow},
		{95, RiskProfileExtreme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profile, RiskProfileFor(tt.score), "score %.1f", tt.score)
	}
}

func TestWeightedScore(t *testing.T) {
	r := RiskCategory{Impact: "Critical", Probability: "Very High", RiskScore: 50}

	contribution, weight := r.WeightedScore()

	assert.InDelta(t, 1.5*1.4, weight, 1e-9)
	assert.InDelta(t, 50*1.5*1.4, contribution, 1e-9)
}

func TestWeightedScore_UnknownLevelsDefaultToNeutral(t *testing.T) {
	r := RiskCategory{Impact: "Unknown", Probability: "Whatever", RiskScore: 50}

	contribution, weight := r.WeightedScore()

	assert.InDelta(t, 1.0, weight, 1e-9)
	assert.InDelta(t, 50.0, contribution, 1e-9)
}

func TestOverallRiskScore_WeightedMean(t *testing.T) {
	categories := []RiskCategory{
		{Impact: "Critical", Probability: "High", RiskScore: 80}, // weight 1.5*1.2 = 1.8
		{Impact: "Low", Probability: "Low", RiskScore: 20},       // weight 0.7*0.8 = 0.56
	}

	got := OverallRiskScore(categories)

	want := (80*1.8 + 20*0.56) / (1.8 + 0.56)
	assert.InDelta(t, want, got, 1e-9)
}

func TestOverallRiskScore_EmptyYieldsFloor(t *testing.T) {
	assert.Equal(t, 10.0, OverallRiskScore(nil))
}

func TestOverallRiskScore_ClampedToCeiling(t *testing.T) {
	categories := []RiskCategory{
		{Impact: "Critical", Probability: "Very High", RiskScore: 100},
	}

	assert.Equal(t, 95.0, OverallRiskScore(categories))
}

func TestOverallRiskScore_ClampedToFloor(t *testing.T) {
	categories := []RiskCategory{
		{Impact: "Low", Probability: "Low", RiskScore: 1},
	}

	assert.Equal(t, 10.0, OverallRiskScore(categories))
}

func TestOverallRiskScore_SingleCategoryEqualsItsScore(t *testing.T) {
	// With one category the weights cancel out.
	categories := []RiskCategory{
		{Impact: "High", Probability: "Medium", RiskScore: 55},
	}

	assert.InDelta(t, 55.0, OverallRiskScore(categories), 1e-9)
}
