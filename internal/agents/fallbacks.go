package agents

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"ideascope/internal/agents/schemas"
)

// Pipeline stage names, shared between execution telemetry and fallbacks.
const (
	stageMarketOverview = "market_overview"
	stageCompetitors    = "competitors"
	stageTargetAudience = "target_audience"
	stageTrends         = "trends"

	stageMarketSizing  = "market_sizing"
	stageRevenueModel  = "revenue_model"
	stageUnitEconomics = "unit_economics"
	stageProjections   = "projections"
	stageFunding       = "funding"

	stageSkillsAnalysis  = "skills_analysis"
	stageExperience      = "experience"
	stageCommitment      = "commitment"
	stageNetwork         = "network"
	stageDevelopmentPlan = "development_plan"

	stageRiskIdentification = "risk_identification"
	stageMitigations        = "mitigations"
	stageScenarios          = "scenarios"
	stageMonitoring         = "monitoring"
)

// Deterministic fallbacks. Every LLM stage has one; they are conservative,
// schema-valid, and derived only from the input so repeated failures yield
// identical output.

// Fallback market sizing ratios.
var (
	fallbackTAMUSD        = decimal.NewFromInt(1_000_000_000)
	samShareOfTAM         = decimal.NewFromFloat(0.10)
	somShareOfSAM         = decimal.NewFromFloat(0.03)
	somMarketSharePctFall = somShareOfSAM.Mul(decimal.NewFromInt(100))
)

func fallbackMarketOverview(input AgentInput) schemas.MarketOverview {
	return schemas.MarketOverview{
		Size:       fmt.Sprintf("The %s market size could not be quantified from available data", input.Category),
		GrowthRate: "unknown, assume moderate single-digit growth",
		Maturity:   "growing",
		KeyDrivers: []string{"digital adoption", "changing customer expectations"},
	}
}

func fallbackCompetitors(input AgentInput) []schemas.Competitor {
	return []schemas.Competitor{
		{
			Name:        fmt.Sprintf("Established %s incumbents", input.Category),
			Strengths:   []string{"brand recognition", "existing customer base"},
			Weaknesses:  []string{"slower to adopt new approaches"},
			MarketShare: "unknown",
			ThreatLevel: "medium",
		},
	}
}

func fallbackTargetAudience(input AgentInput) schemas.TargetAudience {
	segment := "Early adopters"
	if input.TargetMarket != nil && len(input.TargetMarket.SegmentHints) > 0 {
		segment = input.TargetMarket.SegmentHints[0]
	}
	return schemas.TargetAudience{
		Segments: []schemas.AudienceSegment{{
			Name:        segment,
			Description: fmt.Sprintf("Customers in the %s space open to new solutions", input.Category),
			Size:        "unknown",
			PainPoints:  []string{"existing solutions are costly or cumbersome"},
		}},
		PrimarySegment: segment,
	}
}

// fallbackMarketTrends covers the trends stage, which also carries the
// opportunities, threats, and recommendations lists.
func fallbackMarketTrends(input AgentInput) ([]schemas.MarketTrend, []string, []string, []string) {
	trends := []schemas.MarketTrend{{
		Name:        fmt.Sprintf("Continued digitization of %s", input.Category),
		Direction:   "rising",
		Impact:      "medium",
		Opportunity: "position early in an evolving segment",
	}}
	opportunities := []string{"differentiate on user experience"}
	threats := []string{"incumbent response", "unclear willingness to pay"}
	recommendations := []string{"validate demand with a small pilot before committing capital"}
	return trends, opportunities, threats, recommendations
}

// fallbackMarketSizing derives SAM and SOM as fixed fractions of a
// conservative TAM. Decimal arithmetic keeps the ratios exact.
func fallbackMarketSizing(input AgentInput) schemas.MarketSizing {
	tam := fallbackTAMUSD
	sam := tam.Mul(samShareOfTAM)
	som := sam.Mul(somShareOfSAM)

	return schemas.MarketSizing{
		TAM: schemas.MarketEstimate{
			ValueUSD: tam.InexactFloat64(),
			Basis:    fmt.Sprintf("conservative $%s placeholder for the %s category", humanize.Comma(tam.IntPart()), input.Category),
		},
		SAM: schemas.MarketEstimate{
			ValueUSD: sam.InexactFloat64(),
			Basis:    "10% of TAM, heuristic serviceable share",
		},
		SOM: schemas.MarketEstimate{
			ValueUSD: som.InexactFloat64(),
			Basis:    "3% of SAM, heuristic obtainable share",
		},
		Methodology:       "heuristic top-down ratios applied to a placeholder market size",
		TimeframeYears:    5,
		SOMMarketSharePct: somMarketSharePctFall.InexactFloat64(),
	}
}

func fallbackRevenueModel(input AgentInput) schemas.RevenueModel {
	return schemas.RevenueModel{
		PrimaryModel: "subscription",
		Streams: []schemas.RevenueStream{{
			Name:        "Core subscription",
			Description: fmt.Sprintf("Recurring access to the %s product", input.Title),
			SharePct:    100,
		}},
		PricingStrategy: "tiered monthly pricing, to be validated with early customers",
	}
}

func fallbackUnitEconomics() schemas.UnitEconomics {
	return schemas.UnitEconomics{
		CACUSD:          500,
		LTVUSD:          1500,
		LTVToCACRatio:   3,
		GrossMarginPct:  70,
		BreakEvenMonths: 24,
	}
}

// fallbackProjections builds a flat three-year ramp off the SOM estimate:
// 10%, 25%, and 50% of SOM captured in years one through three.
func fallbackProjections(sizing schemas.MarketSizing) []schemas.YearProjection {
	som := decimal.NewFromFloat(sizing.SOM.ValueUSD)
	ramp := []decimal.Decimal{
		decimal.NewFromFloat(0.10),
		decimal.NewFromFloat(0.25),
		decimal.NewFromFloat(0.50),
	}
	costRatio := decimal.NewFromFloat(0.80)

	projections := make([]schemas.YearProjection, 0, len(ramp))
	for i, share := range ramp {
		revenue := som.Mul(share)
		costs := revenue.Mul(costRatio)
		projections = append(projections, schemas.YearProjection{
			Year:        i + 1,
			RevenueUSD:  revenue.InexactFloat64(),
			CostsUSD:    costs.InexactFloat64(),
			NetUSD:      revenue.Sub(costs).InexactFloat64(),
			Assumptions: []string{fmt.Sprintf("captures %s%% of obtainable market", share.Mul(decimal.NewFromInt(100)).String())},
		})
	}
	return projections
}

func fallbackFunding() schemas.FundingAnalysis {
	return schemas.FundingAnalysis{
		RequiredUSD:    250_000,
		RunwayMonths:   18,
		SuggestedRound: "pre-seed",
		UseOfFunds:     []string{"product development", "initial customer acquisition"},
	}
}

// fallbackSkillsAnalysis uses the team profile hint when present so a
// degraded result still reflects what the caller told us.
func fallbackSkillsAnalysis(input AgentInput) schemas.SkillsAnalysis {
	analysis := schemas.SkillsAnalysis{
		CoreSkills:        []schemas.SkillAssessment{},
		SkillGaps:         []schemas.SkillGap{},
		OverallSkillScore: 50,
	}

	if input.TeamProfile == nil {
		analysis.SkillGaps = append(analysis.SkillGaps, schemas.SkillGap{
			Skill:      "team composition unknown",
			Severity:   "moderate",
			Mitigation: "provide a team profile for a grounded assessment",
		})
		return analysis
	}

	for _, skill := range input.TeamProfile.Skills {
		analysis.CoreSkills = append(analysis.CoreSkills, schemas.SkillAssessment{
			Skill:     skill,
			Level:     "intermediate",
			Relevance: "medium",
		})
	}
	for _, missing := range input.TeamProfile.MissingSkills {
		analysis.SkillGaps = append(analysis.SkillGaps, schemas.SkillGap{
			Skill:      missing,
			Severity:   "moderate",
			Mitigation: "hire, contract, or find an advisor to cover this area",
		})
	}
	return analysis
}

func fallbackExperience(input AgentInput) schemas.ExperienceRelevance {
	exp := schemas.ExperienceRelevance{
		Score:              50,
		RelevantHighlights: []string{},
	}
	if input.TeamProfile != nil {
		exp.DomainYears = input.TeamProfile.YearsExperience
		if exp.DomainYears >= 5 {
			exp.Score = 65
		}
	}
	return exp
}

func fallbackCommitment(input AgentInput) schemas.CommitmentSignals {
	commitment := schemas.CommitmentSignals{
		Score:                 50,
		TimeCommitment:        "part-time",
		FinancialRunwayMonths: 6,
		MotivationFactors:     []string{"not assessed"},
	}
	if input.TeamProfile != nil && input.TeamProfile.FullTime {
		commitment.Score = 65
		commitment.TimeCommitment = "full-time"
	}
	return commitment
}

func fallbackNetwork() schemas.NetworkAndResources {
	return schemas.NetworkAndResources{
		Score:               50,
		IndustryConnections: "moderate",
		AdvisorAccess:       false,
		CapitalAccess:       "limited",
	}
}

func fallbackDevelopmentPlan(gaps []schemas.SkillGap) []schemas.DevelopmentAction {
	if len(gaps) == 0 {
		return []schemas.DevelopmentAction{{
			Priority:       1,
			Area:           "validation",
			Action:         "interview prospective customers to pressure-test the idea",
			TimelineMonths: 2,
		}}
	}

	plan := make([]schemas.DevelopmentAction, 0, len(gaps))
	for i, gap := range gaps {
		plan = append(plan, schemas.DevelopmentAction{
			Priority:       i + 1,
			Area:           gap.Skill,
			Action:         "close this gap through hiring or advisory support",
			TimelineMonths: 3,
		})
	}
	return plan
}

// fallbackRiskCategories is the baseline risk register applied when
// identification fails. Scores are deliberately mid-range.
func fallbackRiskCategories(input AgentInput) []schemas.RiskCategory {
	categories := []schemas.RiskCategory{
		{
			Category:    "market",
			Description: fmt.Sprintf("Demand for %s is unproven", input.Title),
			Impact:      "High",
			Probability: "Medium",
			RiskScore:   60,
			Indicators:  []string{"slow pilot uptake", "low conversion from trials"},
		},
		{
			Category:    "financial",
			Description: "Funding needs and unit economics are unvalidated",
			Impact:      "Medium",
			Probability: "Medium",
			RiskScore:   50,
			Indicators:  []string{"burn rate exceeds plan"},
		},
		{
			Category:    "operational",
			Description: "Execution capacity of the team is unassessed",
			Impact:      "Medium",
			Probability: "Medium",
			RiskScore:   45,
			Indicators:  []string{"missed milestones"},
		},
	}

	if input.TeamProfile != nil && len(input.TeamProfile.MissingSkills) > 0 {
		categories = append(categories, schemas.RiskCategory{
			Category:    "team",
			Description: fmt.Sprintf("Key skills missing: %v", input.TeamProfile.MissingSkills),
			Impact:      "High",
			Probability: "High",
			RiskScore:   65,
			Indicators:  []string{"hiring delays", "quality issues in uncovered areas"},
		})
	}
	return categories
}

// fallbackMitigations produces one generic strategy per identified risk.
func fallbackMitigations(categories []schemas.RiskCategory) []schemas.MitigationStrategy {
	strategies := make([]schemas.MitigationStrategy, 0, len(categories))
	for _, cat := range categories {
		strategies = append(strategies, schemas.MitigationStrategy{
			RiskCategory:     cat.Category,
			Strategy:         fmt.Sprintf("Define leading indicators for %s risk and review them monthly", cat.Category),
			EffectivenessPct: 40,
			TimelineMonths:   3,
			Cost:             "low",
		})
	}
	return strategies
}

func fallbackScenarios() []schemas.RiskScenario {
	return []schemas.RiskScenario{{
		Name:            "Slow adoption",
		Description:     "Initial traction falls well short of projections",
		TriggerEvents:   []string{"pilot conversion below 10%", "no organic referrals after 6 months"},
		ImpactSeverity:  "High",
		ContingencyPlan: "narrow the target segment and reduce burn until demand is demonstrated",
	}}
}

func fallbackMonitoring() schemas.MonitoringFramework {
	return schemas.MonitoringFramework{
		ReviewCadence: "monthly",
		KeyIndicators: []schemas.MonitoringIndicator{
			{Indicator: "monthly burn rate", Threshold: "within 10% of plan", Frequency: "monthly"},
			{Indicator: "pilot conversion rate", Threshold: "above 10%", Frequency: "monthly"},
		},
		EscalationPath: "founders review off-threshold indicators and decide corrective action",
	}
}
