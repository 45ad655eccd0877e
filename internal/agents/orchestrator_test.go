package agents

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideascope/internal/adapters/config"
	"ideascope/internal/agents/schemas"
	"ideascope/pkg/errors"
)

func TestOrchestrator_ExecuteAllAggregatesEveryAgent(t *testing.T) {
	deps := Deps{Gateway: erroringGateway(), Config: testAgentsConfig()}
	o := NewOrchestrator(deps)

	combined, err := o.ExecuteAll(context.Background(), testInput(), nil)

	require.NoError(t, err)
	require.Len(t, combined.Results, 4)
	for _, name := range AllAgents {
		result, ok := combined.Results[name]
		require.True(t, ok, "missing result for %s", name)
		assert.True(t, result.IsValid, "%s should degrade to fallbacks, not fail", name)
	}
	assert.Equal(t, "opp-123", combined.OpportunityID)
	assert.Equal(t, AllAgents, combined.AgentsUsed)

	// Every agent degraded to floor confidence, so the mean is the floor.
	assert.Equal(t, schemas.ConfidenceFloor, combined.Confidence)
}

// fullPipelineResponder answers every stage of all four agents with valid
// canned JSON; market research stages delegate to marketResearchResponder.
func fullPipelineResponder(prompt string) (string, error) {
	switch {
	// financial modeling
	case strings.Contains(prompt, "Estimate TAM, SAM, and SOM"):
		return `{"tam": {"valueUsd": 2000000000, "basis": "top-down"},
			"sam": {"valueUsd": 200000000, "basis": "regional reach"},
			"som": {"valueUsd": 30000000, "basis": "three-year capture"},
			"methodology": "top-down", "timeframeYears": 5, "somMarketSharePct": 15}`, nil
	case strings.Contains(prompt, "Propose the primary revenue model"):
		return `{"primaryModel": "subscription",
			"streams": [{"name": "Pro plan", "description": "monthly subscription", "sharePct": 100}],
			"pricingStrategy": "tiered"}`, nil
	case strings.Contains(prompt, "Estimate customer acquisition cost"):
		return `{"cacUsd": 500, "ltvUsd": 1500, "ltvToCacRatio": 3, "grossMarginPct": 70, "breakEvenMonths": 18}`, nil
	case strings.Contains(prompt, "Project revenue, costs, and net"):
		return `{"projections": [
			{"year": 1, "revenueUsd": 1000000, "costsUsd": 800000, "netUsd": 200000, "assumptions": ["pilot launch"]},
			{"year": 2, "revenueUsd": 2000000, "costsUsd": 1400000, "netUsd": 600000, "assumptions": ["regional expansion"]},
			{"year": 3, "revenueUsd": 4000000, "costsUsd": 2400000, "netUsd": 1600000, "assumptions": ["self-serve growth"]}
		]}`, nil
	case strings.Contains(prompt, "Estimate required funding"):
		return `{"requiredUsd": 750000, "runwayMonths": 18, "suggestedRound": "seed", "useOfFunds": ["engineering", "marketing"]}`, nil

	// founder fit
	case strings.Contains(prompt, "Assess which skills the team has"):
		return `{"coreSkills": [{"skill": "engineering", "level": "advanced", "relevance": "critical"}],
			"skillGaps": [{"skill": "sales", "severity": "moderate", "mitigation": "hire a first seller"}],
			"overallSkillScore": 80}`, nil
	case strings.Contains(prompt, "Rate how relevant the team's experience"):
		return `{"score": 70, "domainYears": 6, "startupExperience": true, "relevantHighlights": ["built a food-tech product"]}`, nil
	case strings.Contains(prompt, "Rate the team's commitment"):
		return `{"score": 75, "timeCommitment": "full-time", "financialRunwayMonths": 12, "motivationFactors": ["domain passion"]}`, nil
	case strings.Contains(prompt, "Rate the team's industry connections"):
		return `{"score": 60, "industryConnections": "moderate", "advisorAccess": true, "capitalAccess": "limited"}`, nil
	case strings.Contains(prompt, "Propose a prioritized plan"):
		return `{"developmentPlan": [{"priority": 1, "area": "sales", "action": "hire a first seller", "timelineMonths": 3}]}`, nil

	// risk assessment
	case strings.Contains(prompt, "Identify the material risks"):
		return `{"riskCategories": [
			{"category": "market", "description": "crowded space", "impact": "High", "probability": "Medium", "riskScore": 60, "indicators": ["churn"]},
			{"category": "financial", "description": "long payback period", "impact": "Medium", "probability": "Medium", "riskScore": 50},
			{"category": "technical", "description": "recommendation quality", "impact": "Medium", "probability": "Low", "riskScore": 40}
		]}`, nil
	case strings.Contains(prompt, "Propose a mitigation strategy"):
		return `{"mitigationStrategies": [
			{"riskCategory": "market", "strategy": "niche positioning", "effectivenessPct": 60, "timelineMonths": 6, "cost": "low"},
			{"riskCategory": "financial", "strategy": "annual prepay discounts", "effectivenessPct": 50, "timelineMonths": 3, "cost": "low"},
			{"riskCategory": "technical", "strategy": "human review loop", "effectivenessPct": 70, "timelineMonths": 2, "cost": "medium"}
		]}`, nil
	case strings.Contains(prompt, "Describe the plausible downside scenarios"):
		return `{"scenarios": [{"name": "Incumbent copies the product", "description": "a large platform ships the same feature",
			"triggerEvents": ["platform announcement"], "impactSeverity": "High", "contingencyPlan": "double down on the niche"}]}`, nil
	case strings.Contains(prompt, "Define the review cadence"):
		return `{"reviewCadence": "monthly",
			"keyIndicators": [{"indicator": "churn rate", "threshold": ">5% monthly", "frequency": "monthly"}],
			"escalationPath": "founders review", "recommendations": ["validate pricing early"]}`, nil

	default:
		return marketResearchResponder(prompt)
	}
}

func TestOrchestrator_EndToEndCannedRun(t *testing.T) {
	gw := &stubGateway{respond: fullPipelineResponder}
	o := NewOrchestrator(Deps{Gateway: gw, Config: testAgentsConfig()})

	combined, err := o.ExecuteAll(context.Background(), testInput(), nil)

	require.NoError(t, err)
	require.Len(t, combined.Results, 4)
	for name, result := range combined.Results {
		require.True(t, result.IsValid, "%s: %v", name, result.Errors)
		assert.Empty(t, result.Metadata.FallbackStages, "%s ran without fallbacks", name)
	}

	// Each overall is the rounded mean of that agent's stage dimensions.
	// Founder fit scores lower because no team profile was provided.
	assert.Equal(t, 71, combined.Results[AgentMarketResearch].Confidence.Overall)
	assert.Equal(t, 70, combined.Results[AgentFinancialModeling].Confidence.Overall)
	assert.Equal(t, 51, combined.Results[AgentFounderFit].Confidence.Overall)
	assert.Equal(t, 71, combined.Results[AgentRiskAssessment].Confidence.Overall)

	// Risk identification carries both grounding bonuses, which proves the
	// projection and skill-gap findings from phase one reached phase two.
	assert.Equal(t, 80, combined.Results[AgentRiskAssessment].Confidence.Breakdown["riskIdentification"])

	// (71+70+51+71)/4 = 65.75 rounds to 66.
	assert.Equal(t, 66, combined.Confidence)
}

func TestOrchestrator_DisabledAgentsAreSkipped(t *testing.T) {
	cfg := testAgentsConfig()
	cfg.FounderFitEnabled = false
	cfg.RiskAssessmentEnabled = false

	o := NewOrchestrator(Deps{Gateway: erroringGateway(), Config: cfg})

	combined, err := o.ExecuteAll(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Len(t, combined.Results, 2)
	assert.NotContains(t, combined.Results, AgentFounderFit)
	assert.NotContains(t, combined.Results, AgentRiskAssessment)
	assert.Equal(t, []AgentName{AgentMarketResearch, AgentFinancialModeling}, o.EnabledAgents())
}

func TestOrchestrator_NoAgentsEnabled(t *testing.T) {
	o := NewOrchestrator(Deps{Config: config.AgentsConfig{}})

	_, err := o.ExecuteAll(context.Background(), testInput(), nil)

	assert.True(t, errors.Is(err, errors.ErrAgentDisabled))
}

func TestOrchestrator_ExecuteAgent(t *testing.T) {
	o := NewOrchestrator(Deps{Gateway: erroringGateway(), Config: testAgentsConfig()})

	result, err := o.ExecuteAgent(context.Background(), "market_research", testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, AgentMarketResearch, result.Agent)
	assert.True(t, result.IsValid)
}

func TestOrchestrator_ExecuteAgent_Unknown(t *testing.T) {
	o := NewOrchestrator(Deps{Gateway: erroringGateway(), Config: testAgentsConfig()})

	_, err := o.ExecuteAgent(context.Background(), "sentiment_analysis", testInput(), nil)

	assert.True(t, errors.Is(err, errors.ErrUnknownAgent))
}

func TestOrchestrator_ExecuteAgent_Disabled(t *testing.T) {
	cfg := testAgentsConfig()
	cfg.FounderFitEnabled = false
	o := NewOrchestrator(Deps{Gateway: erroringGateway(), Config: cfg})

	_, err := o.ExecuteAgent(context.Background(), "founder_fit", testInput(), nil)

	assert.True(t, errors.Is(err, errors.ErrAgentDisabled))
}

// panicAgent blows up on execution to exercise orchestrator recovery.
type panicAgent struct{}

func (panicAgent) Name() AgentName { return AgentMarketResearch }
func (panicAgent) Execute(context.Context, AgentInput, *AgentContext) (*AgentResult, error) {
	panic("boom")
}

func TestOrchestrator_RecoverFromAgentPanic(t *testing.T) {
	o := NewOrchestrator(Deps{Gateway: erroringGateway(), Config: testAgentsConfig()})

	result := o.runSafely(context.Background(), panicAgent{}, testInput(), &AgentContext{})

	require.NotNil(t, result)
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "boom")
}

func TestInjectRiskContext_FinancialProjections(t *testing.T) {
	fm := &schemas.FinancialModelOutput{
		Projections: []schemas.YearProjection{
			{Year: 1, RevenueUSD: 100_000},
			{Year: 2, RevenueUSD: 400_000},
			{Year: 3, RevenueUSD: 900_000},
		},
		Funding: schemas.FundingAnalysis{RequiredUSD: 250_000},
	}
	results := map[AgentName]*AgentResult{
		AgentFinancialModeling: {Agent: AgentFinancialModeling, Output: fm, IsValid: true},
	}

	enriched := injectRiskContext(testInput(), results)

	require.NotNil(t, enriched.FinancialProjections)
	assert.Equal(t, 100_000.0, enriched.FinancialProjections.RevenueYearOneUSD)
	assert.Equal(t, 900_000.0, enriched.FinancialProjections.RevenueYearThreeUSD)
	assert.Equal(t, 250_000.0, enriched.FinancialProjections.InitialInvestmentUSD)
}

func TestInjectRiskContext_DoesNotOverwriteCallerProjections(t *testing.T) {
	input := testInput()
	input.FinancialProjections = &FinancialProjections{RevenueYearOneUSD: 42}

	fm := &schemas.FinancialModelOutput{
		Projections: []schemas.YearProjection{{Year: 1, RevenueUSD: 100_000}},
	}
	results := map[AgentName]*AgentResult{
		AgentFinancialModeling: {Agent: AgentFinancialModeling, Output: fm, IsValid: true},
	}

	enriched := injectRiskContext(input, results)

	assert.Equal(t, 42.0, enriched.FinancialProjections.RevenueYearOneUSD)
}

func TestInjectRiskContext_SkillGapsMergeIntoTeamProfile(t *testing.T) {
	input := testInput()
	input.TeamProfile = &TeamProfile{MissingSkills: []string{"sales"}}

	ff := &schemas.FounderFitOutput{
		SkillsAnalysis: schemas.SkillsAnalysis{
			SkillGaps: []schemas.SkillGap{
				{Skill: "sales", Severity: "moderate"},
				{Skill: "ml engineering", Severity: "critical"},
			},
		},
	}
	results := map[AgentName]*AgentResult{
		AgentFounderFit: {Agent: AgentFounderFit, Output: ff, IsValid: true},
	}

	enriched := injectRiskContext(input, results)

	assert.ElementsMatch(t, []string{"sales", "ml engineering"}, enriched.TeamProfile.MissingSkills)
	// The caller's input must stay untouched.
	assert.Equal(t, []string{"sales"}, input.TeamProfile.MissingSkills)
}

func TestInjectRiskContext_IgnoresInvalidResults(t *testing.T) {
	results := map[AgentName]*AgentResult{
		AgentFinancialModeling: {Agent: AgentFinancialModeling, IsValid: false},
	}

	enriched := injectRiskContext(testInput(), results)

	assert.Nil(t, enriched.FinancialProjections)
}

func TestCombinedConfidence(t *testing.T) {
	results := map[AgentName]*AgentResult{
		AgentMarketResearch:    {IsValid: true, Confidence: schemas.ConfidenceBreakdown{Overall: 60}},
		AgentFinancialModeling: {IsValid: true, Confidence: schemas.ConfidenceBreakdown{Overall: 61}},
		AgentFounderFit:        {IsValid: false, Confidence: schemas.ConfidenceBreakdown{Overall: 95}},
	}

	// (60+61)/2 = 60.5 rounds to 61; the invalid result is excluded.
	assert.Equal(t, 61, combinedConfidence(results))
}

func TestCombinedConfidence_AllInvalid(t *testing.T) {
	results := map[AgentName]*AgentResult{
		AgentMarketResearch: {IsValid: false},
	}

	assert.Equal(t, 0, combinedConfidence(results))
}

func TestSampleAnalysis_IsCompleteAndDeterministic(t *testing.T) {
	first := SampleAnalysis(testInput())
	second := SampleAnalysis(testInput())

	require.Len(t, first.Results, 4)
	for name, result := range first.Results {
		assert.True(t, result.IsValid, "%s sample must be valid", name)
		assert.Equal(t, schemas.ConfidenceFloor, result.Confidence.Overall)
	}
	assert.Equal(t, schemas.ConfidenceFloor, first.Confidence)

	for _, name := range AllAgents {
		a, err := json.Marshal(first.Results[name].Output)
		require.NoError(t, err)
		b, err := json.Marshal(second.Results[name].Output)
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b), "%s sample output must be stable", name)
	}
}
