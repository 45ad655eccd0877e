package agents

import (
	"time"

	"ideascope/internal/agents/schemas"
)

// SampleAnalysis assembles a complete, schema-valid analysis from the
// deterministic fallback outputs. It is the last tier of the serving chain:
// always available, clearly marked low-confidence, and derived only from the
// input so repeated calls return the same analysis.
func SampleAnalysis(input AgentInput) *CombinedAnalysis {
	now := time.Now().UTC()
	results := map[AgentName]*AgentResult{
		AgentMarketResearch:    sampleMarketResearch(input),
		AgentFinancialModeling: sampleFinancialModel(input),
		AgentFounderFit:        sampleFounderFit(input),
		AgentRiskAssessment:    sampleRiskAssessment(input),
	}

	return &CombinedAnalysis{
		OpportunityID: input.OpportunityID,
		Results:       results,
		AgentsUsed:    AllAgents,
		Confidence:    combinedConfidence(results),
		GeneratedAt:   now,
	}
}

func sampleResult(name AgentName, output interface{}, confidence schemas.ConfidenceBreakdown) *AgentResult {
	return &AgentResult{
		Agent:      name,
		Output:     output,
		Confidence: confidence,
		IsValid:    true,
		Metadata: ResultMetadata{
			Warnings: []string{"sample analysis, not generated by a model"},
		},
	}
}

func sampleMarketResearch(input AgentInput) *AgentResult {
	out := &schemas.MarketResearchOutput{
		MarketOverview: fallbackMarketOverview(input),
		Competitors:    fallbackCompetitors(input),
		TargetAudience: fallbackTargetAudience(input),
	}
	out.Trends, out.Opportunities, out.Threats, out.Recommendations = fallbackMarketTrends(input)
	out.Confidence = schemas.FloorConfidence("marketData", "competitorAnalysis", "audienceDefinition", "trendAnalysis")
	return sampleResult(AgentMarketResearch, out, out.Confidence)
}

func sampleFinancialModel(input AgentInput) *AgentResult {
	sizing := fallbackMarketSizing(input)
	out := &schemas.FinancialModelOutput{
		MarketSizing:  sizing,
		RevenueModel:  fallbackRevenueModel(input),
		UnitEconomics: fallbackUnitEconomics(),
		Projections:   fallbackProjections(sizing),
		Funding:       fallbackFunding(),
		Confidence:    schemas.FloorConfidence("marketSizing", "revenueModel", "unitEconomics", "projections", "funding"),
	}
	return sampleResult(AgentFinancialModeling, out, out.Confidence)
}

func sampleFounderFit(input AgentInput) *AgentResult {
	out := &schemas.FounderFitOutput{
		SkillsAnalysis:      fallbackSkillsAnalysis(input),
		ExperienceRelevance: fallbackExperience(input),
		CommitmentSignals:   fallbackCommitment(input),
		NetworkAndResources: fallbackNetwork(),
		Confidence:          schemas.FloorConfidence("skillsAssessment", "experienceAnalysis", "commitmentReading", "networkAssessment"),
	}
	out.DevelopmentPlan = fallbackDevelopmentPlan(out.SkillsAnalysis.SkillGaps)
	out.OverallFitScore = overallFitScore(out)
	return sampleResult(AgentFounderFit, out, out.Confidence)
}

func sampleRiskAssessment(input AgentInput) *AgentResult {
	categories := fallbackRiskCategories(input)
	out := &schemas.RiskAssessmentOutput{
		RiskCategories:       categories,
		OverallRiskScore:     schemas.OverallRiskScore(categories),
		MitigationStrategies: fallbackMitigations(categories),
		Scenarios:            fallbackScenarios(),
		Monitoring:           fallbackMonitoring(),
		Recommendations:      []string{"treat this as a placeholder until a full analysis is generated"},
		Confidence:           schemas.FloorConfidence("riskIdentification", "mitigationQuality", "scenarioCoverage", "monitoringDesign"),
	}
	out.RiskProfile = schemas.RiskProfileFor(out.OverallRiskScore)
	return sampleResult(AgentRiskAssessment, out, out.Confidence)
}
