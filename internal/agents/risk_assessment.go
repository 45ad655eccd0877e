package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ideascope/internal/agents/schemas"
)

// How many of the highest-scoring risks get dedicated mitigation strategies.
const topRisksForMitigation = 5

// RiskAssessmentAgent identifies and scores the risks of an opportunity and
// produces mitigations, downside scenarios, and a monitoring framework.
// The overall risk score is always computed from the identified categories;
// a model-asserted overall number is never trusted.
type RiskAssessmentAgent struct {
	base
}

func NewRiskAssessmentAgent(deps Deps) *RiskAssessmentAgent {
	return &RiskAssessmentAgent{base: newBase(AgentRiskAssessment, deps)}
}

func (a *RiskAssessmentAgent) Name() AgentName { return AgentRiskAssessment }

func (a *RiskAssessmentAgent) Execute(ctx context.Context, input AgentInput, actx *AgentContext) (*AgentResult, error) {
	return a.execute(ctx, input, actx, schemas.RiskAssessmentOutputSchema,
		func() interface{} { return &schemas.RiskAssessmentOutput{} },
		a.process, a.qualityCheck)
}

func (a *RiskAssessmentAgent) process(ctx context.Context, input AgentInput, actx *AgentContext, stats *ExecStats) (interface{}, schemas.ConfidenceBreakdown) {
	opts := a.genOptions(actx)
	out := &schemas.RiskAssessmentOutput{}

	var identified struct {
		RiskCategories []schemas.RiskCategory `json:"riskCategories"`
	}
	if err := a.callJSON(ctx, a.identificationPrompt(input), schemas.RiskIdentificationSchema, &identified, opts, stats); err != nil {
		a.noteFallback(stats, stageRiskIdentification, err)
		identified.RiskCategories = fallbackRiskCategories(input)
	}
	out.RiskCategories = identified.RiskCategories

	out.OverallRiskScore = schemas.OverallRiskScore(out.RiskCategories)
	out.RiskProfile = schemas.RiskProfileFor(out.OverallRiskScore)

	topRisks := topRisks(out.RiskCategories, topRisksForMitigation)

	var mitigations struct {
		MitigationStrategies []schemas.MitigationStrategy `json:"mitigationStrategies"`
	}
	if err := a.callJSON(ctx, a.mitigationsPrompt(input, topRisks), schemas.MitigationStrategiesSchema, &mitigations, opts, stats); err != nil {
		a.noteFallback(stats, stageMitigations, err)
		mitigations.MitigationStrategies = fallbackMitigations(topRisks)
	}
	out.MitigationStrategies = mitigations.MitigationStrategies

	var scenarios struct {
		Scenarios []schemas.RiskScenario `json:"scenarios"`
	}
	if err := a.callJSON(ctx, a.scenariosPrompt(input, out), schemas.RiskScenariosSchema, &scenarios, opts, stats); err != nil {
		a.noteFallback(stats, stageScenarios, err)
		scenarios.Scenarios = fallbackScenarios()
	}
	out.Scenarios = scenarios.Scenarios

	var monitoring struct {
		ReviewCadence   string                        `json:"reviewCadence"`
		KeyIndicators   []schemas.MonitoringIndicator `json:"keyIndicators"`
		EscalationPath  string                        `json:"escalationPath"`
		Recommendations []string                      `json:"recommendations"`
	}
	if err := a.callJSON(ctx, a.monitoringPrompt(input, out), schemas.MonitoringFrameworkSchema, &monitoring, opts, stats); err != nil {
		a.noteFallback(stats, stageMonitoring, err)
		out.Monitoring = fallbackMonitoring()
		out.Recommendations = []string{"revisit this assessment once real traction data exists"}
	} else {
		out.Monitoring = schemas.MonitoringFramework{
			ReviewCadence:  monitoring.ReviewCadence,
			KeyIndicators:  monitoring.KeyIndicators,
			EscalationPath: monitoring.EscalationPath,
		}
		out.Recommendations = monitoring.Recommendations
	}

	confidence := a.confidence(input, stats)
	out.Confidence = confidence
	return out, confidence
}

// topRisks returns the n highest-scoring categories, ordered by score
// descending. The input slice is left untouched.
func topRisks(categories []schemas.RiskCategory, n int) []schemas.RiskCategory {
	ranked := make([]schemas.RiskCategory, len(categories))
	copy(ranked, categories)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// confidence gains from richer input: financial projections and a team
// profile both ground the financial and team risk dimensions.
func (a *RiskAssessmentAgent) confidence(input AgentInput, stats *ExecStats) schemas.ConfidenceBreakdown {
	score := func(stage string, produced int) int {
		if stats.FellBack(stage) {
			return schemas.ConfidenceFloor
		}
		return produced
	}

	identification := score(stageRiskIdentification, 70)
	if !stats.FellBack(stageRiskIdentification) {
		if input.FinancialProjections != nil {
			identification += 5
		}
		if input.TeamProfile != nil {
			identification += 5
		}
	}

	return schemas.NewConfidence(map[string]int{
		"riskIdentification": identification,
		"mitigationQuality":  score(stageMitigations, 68),
		"scenarioCoverage":   score(stageScenarios, 65),
		"monitoringDesign":   score(stageMonitoring, 70),
	})
}

// qualityCheck verifies the highest risks are actually covered by strategies.
func (a *RiskAssessmentAgent) qualityCheck(output interface{}) []string {
	out, ok := output.(*schemas.RiskAssessmentOutput)
	if !ok {
		return nil
	}

	covered := make(map[string]bool, len(out.MitigationStrategies))
	for _, strategy := range out.MitigationStrategies {
		covered[strings.ToLower(strategy.RiskCategory)] = true
	}

	var warnings []string
	for _, risk := range topRisks(out.RiskCategories, topRisksForMitigation) {
		if !covered[strings.ToLower(risk.Category)] {
			warnings = append(warnings, fmt.Sprintf("top risk %q has no mitigation strategy", risk.Category))
		}
	}
	if len(out.RiskCategories) < 3 {
		warnings = append(warnings, "fewer than three risk categories identified")
	}
	return warnings
}

func (a *RiskAssessmentAgent) identificationPrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are a risk analyst evaluating a startup opportunity.\n\n")
	b.WriteString(ideaBlock(input))

	if fp := input.FinancialProjections; fp != nil {
		b.WriteString("\nFinancial context:\n")
		if fp.RevenueYearOneUSD > 0 {
			fmt.Fprintf(&b, "Year-one revenue plan: $%.0f\n", fp.RevenueYearOneUSD)
		}
		if fp.RevenueYearThreeUSD > 0 {
			fmt.Fprintf(&b, "Year-three revenue plan: $%.0f\n", fp.RevenueYearThreeUSD)
		}
		if fp.InitialInvestmentUSD > 0 {
			fmt.Fprintf(&b, "Initial investment: $%.0f\n", fp.InitialInvestmentUSD)
		}
	}
	if tp := input.TeamProfile; tp != nil && len(tp.MissingSkills) > 0 {
		fmt.Fprintf(&b, "\nTeam gaps to weigh: %s\n", strings.Join(tp.MissingSkills, ", "))
	}
	if input.Preferences != nil && input.Preferences.RiskTolerance != "" {
		fmt.Fprintf(&b, "Founder risk tolerance: %s\n", input.Preferences.RiskTolerance)
	}

	b.WriteString("\nIdentify the material risks across market, financial, technical, operational, legal, and team categories. Score each 1-100 with impact and probability levels.\n")
	b.WriteString(schemaInstruction(schemas.RiskIdentificationSchema))
	return b.String()
}

func (a *RiskAssessmentAgent) mitigationsPrompt(input AgentInput, risks []schemas.RiskCategory) string {
	var b strings.Builder
	b.WriteString("You are a risk analyst designing mitigations.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nHighest risks, most severe first:\n")
	for _, risk := range risks {
		fmt.Fprintf(&b, "- %s (score %.0f, %s impact, %s probability): %s\n",
			risk.Category, risk.RiskScore, risk.Impact, risk.Probability, risk.Description)
	}
	b.WriteString("\nPropose a mitigation strategy for each listed risk with its expected effectiveness, timeline, and cost.\n")
	b.WriteString(schemaInstruction(schemas.MitigationStrategiesSchema))
	return b.String()
}

func (a *RiskAssessmentAgent) scenariosPrompt(input AgentInput, out *schemas.RiskAssessmentOutput) string {
	var b strings.Builder
	b.WriteString("You are a risk analyst constructing downside scenarios.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nOverall risk: %.0f (%s profile) across %d categories.\n",
		out.OverallRiskScore, out.RiskProfile, len(out.RiskCategories))
	b.WriteString("\nDescribe the plausible downside scenarios, what would trigger each, and the contingency plan.\n")
	b.WriteString(schemaInstruction(schemas.RiskScenariosSchema))
	return b.String()
}

func (a *RiskAssessmentAgent) monitoringPrompt(input AgentInput, out *schemas.RiskAssessmentOutput) string {
	var b strings.Builder
	b.WriteString("You are a risk analyst designing a monitoring framework.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nRisk profile: %s. Key categories: ", out.RiskProfile)
	for i, risk := range out.RiskCategories {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(risk.Category)
	}
	b.WriteString(".\n\nDefine the review cadence, the indicators to track with thresholds, the escalation path, and overall recommendations.\n")
	b.WriteString(schemaInstruction(schemas.MonitoringFrameworkSchema))
	return b.String()
}
