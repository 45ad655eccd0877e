package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackMarketSizing_Ratios(t *testing.T) {
	sizing := fallbackMarketSizing(testInput())

	assert.Equal(t, 1_000_000_000.0, sizing.TAM.ValueUSD)
	assert.Equal(t, 100_000_000.0, sizing.SAM.ValueUSD, "SAM is 10% of TAM")
	assert.Equal(t, 3_000_000.0, sizing.SOM.ValueUSD, "SOM is 3% of SAM")
	assert.Equal(t, 3.0, sizing.SOMMarketSharePct)
	assert.Equal(t, 5, sizing.TimeframeYears)
}

func TestFallbackProjections_RampOffSOM(t *testing.T) {
	sizing := fallbackMarketSizing(testInput())

	projections := fallbackProjections(sizing)

	require.Len(t, projections, 3)
	assert.Equal(t, 300_000.0, projections[0].RevenueUSD, "year one captures 10% of SOM")
	assert.Equal(t, 750_000.0, projections[1].RevenueUSD)
	assert.Equal(t, 1_500_000.0, projections[2].RevenueUSD)

	for i, p := range projections {
		assert.Equal(t, i+1, p.Year)
		assert.InDelta(t, p.RevenueUSD-p.CostsUSD, p.NetUSD, 1e-6)
	}
}

func TestNormalizeSizing_RepairsInvertedEstimates(t *testing.T) {
	sizing := fallbackMarketSizing(testInput())
	sizing.SAM.ValueUSD = sizing.TAM.ValueUSD * 2

	repaired := normalizeSizing(sizing)

	assert.Equal(t, sizing.TAM.ValueUSD*0.10, repaired.SAM.ValueUSD)
	assert.LessOrEqual(t, repaired.SOM.ValueUSD, repaired.SAM.ValueUSD)
}

func TestNormalizeUnitEconomics_RecomputesRatio(t *testing.T) {
	ue := fallbackUnitEconomics()
	ue.LTVToCACRatio = 99 // model-asserted nonsense

	repaired := normalizeUnitEconomics(ue)

	assert.Equal(t, 3.0, repaired.LTVToCACRatio)
}

func TestFallbackMitigations_CoverEveryCategory(t *testing.T) {
	categories := fallbackRiskCategories(testInput())

	strategies := fallbackMitigations(categories)

	require.Len(t, strategies, len(categories))
	for i, s := range strategies {
		assert.Equal(t, categories[i].Category, s.RiskCategory)
	}
}

func TestFallbackSkillsAnalysis_UsesTeamProfile(t *testing.T) {
	input := testInput()
	input.TeamProfile = &TeamProfile{
		Skills:        []string{"engineering"},
		MissingSkills: []string{"marketing"},
	}

	analysis := fallbackSkillsAnalysis(input)

	require.Len(t, analysis.CoreSkills, 1)
	assert.Equal(t, "engineering", analysis.CoreSkills[0].Skill)
	require.Len(t, analysis.SkillGaps, 1)
	assert.Equal(t, "marketing", analysis.SkillGaps[0].Skill)
}

func TestTopRisks_SortsByScoreWithoutMutating(t *testing.T) {
	categories := fallbackRiskCategories(testInput())
	originalFirst := categories[0].Category

	ranked := topRisks(categories, 2)

	require.Len(t, ranked, 2)
	assert.GreaterOrEqual(t, ranked[0].RiskScore, ranked[1].RiskScore)
	assert.Equal(t, originalFirst, categories[0].Category)
}
