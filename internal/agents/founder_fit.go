package agents

import (
	"context"
	"math"
	"sort"
	"strings"

	"ideascope/internal/agents/schemas"
)

// FounderFitAgent evaluates how well the founding team matches what the
// idea demands: skills, experience, commitment, network, and a plan to
// close the gaps.
type FounderFitAgent struct {
	base
}

func NewFounderFitAgent(deps Deps) *FounderFitAgent {
	return &FounderFitAgent{base: newBase(AgentFounderFit, deps)}
}

func (a *FounderFitAgent) Name() AgentName { return AgentFounderFit }

func (a *FounderFitAgent) Execute(ctx context.Context, input AgentInput, actx *AgentContext) (*AgentResult, error) {
	return a.execute(ctx, input, actx, schemas.FounderFitOutputSchema,
		func() interface{} { return &schemas.FounderFitOutput{} },
		a.process, a.qualityCheck)
}

func (a *FounderFitAgent) process(ctx context.Context, input AgentInput, actx *AgentContext, stats *ExecStats) (interface{}, schemas.ConfidenceBreakdown) {
	opts := a.genOptions(actx)
	out := &schemas.FounderFitOutput{}

	if err := a.callJSON(ctx, a.skillsPrompt(input), schemas.SkillsAnalysisSchema, &out.SkillsAnalysis, opts, stats); err != nil {
		a.noteFallback(stats, stageSkillsAnalysis, err)
		out.SkillsAnalysis = fallbackSkillsAnalysis(input)
	}

	if err := a.callJSON(ctx, a.experiencePrompt(input), schemas.ExperienceRelevanceSchema, &out.ExperienceRelevance, opts, stats); err != nil {
		a.noteFallback(stats, stageExperience, err)
		out.ExperienceRelevance = fallbackExperience(input)
	}

	if err := a.callJSON(ctx, a.commitmentPrompt(input), schemas.CommitmentSignalsSchema, &out.CommitmentSignals, opts, stats); err != nil {
		a.noteFallback(stats, stageCommitment, err)
		out.CommitmentSignals = fallbackCommitment(input)
	}

	if err := a.callJSON(ctx, a.networkPrompt(input), schemas.NetworkAndResourcesSchema, &out.NetworkAndResources, opts, stats); err != nil {
		a.noteFallback(stats, stageNetwork, err)
		out.NetworkAndResources = fallbackNetwork()
	}

	var plan struct {
		DevelopmentPlan []schemas.DevelopmentAction `json:"developmentPlan"`
	}
	if err := a.callJSON(ctx, a.planPrompt(input, out), schemas.DevelopmentPlanSchema, &plan, opts, stats); err != nil {
		a.noteFallback(stats, stageDevelopmentPlan, err)
		plan.DevelopmentPlan = fallbackDevelopmentPlan(out.SkillsAnalysis.SkillGaps)
	}
	sort.SliceStable(plan.DevelopmentPlan, func(i, j int) bool {
		return plan.DevelopmentPlan[i].Priority < plan.DevelopmentPlan[j].Priority
	})
	out.DevelopmentPlan = plan.DevelopmentPlan

	out.OverallFitScore = overallFitScore(out)

	confidence := a.confidence(input, stats)
	out.Confidence = confidence
	return out, confidence
}

// overallFitScore is a weighted blend of the four assessment dimensions.
// Skills carry the most weight; network the least.
func overallFitScore(out *schemas.FounderFitOutput) int {
	weighted := 0.35*float64(out.SkillsAnalysis.OverallSkillScore) +
		0.25*float64(out.ExperienceRelevance.Score) +
		0.25*float64(out.CommitmentSignals.Score) +
		0.15*float64(out.NetworkAndResources.Score)
	return schemas.ClampScore(int(math.Round(weighted)))
}

// confidence scores reflect both stage provenance and how much the caller
// told us: without a team profile every dimension is guesswork.
func (a *FounderFitAgent) confidence(input AgentInput, stats *ExecStats) schemas.ConfidenceBreakdown {
	profilePenalty := 0
	if input.TeamProfile == nil {
		profilePenalty = 20
	}

	score := func(stage string, produced int) int {
		if stats.FellBack(stage) {
			return schemas.ConfidenceFloor
		}
		return produced - profilePenalty
	}

	return schemas.NewConfidence(map[string]int{
		"skillsAssessment":   score(stageSkillsAnalysis, 75),
		"experienceAnalysis": score(stageExperience, 72),
		"commitmentReading":  score(stageCommitment, 70),
		"networkAssessment":  score(stageNetwork, 65),
	})
}

func (a *FounderFitAgent) qualityCheck(output interface{}) []string {
	out, ok := output.(*schemas.FounderFitOutput)
	if !ok {
		return nil
	}

	var warnings []string
	criticalGaps := 0
	for _, gap := range out.SkillsAnalysis.SkillGaps {
		if gap.Severity == "critical" {
			criticalGaps++
		}
	}
	if criticalGaps > 0 && out.OverallFitScore >= 75 {
		warnings = append(warnings, "high fit score despite critical skill gaps")
	}
	if len(out.DevelopmentPlan) == 0 {
		warnings = append(warnings, "no development plan produced")
	}
	return warnings
}

func (a *FounderFitAgent) skillsPrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are an advisor assessing founder-idea fit.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nTeam profile:\n")
	b.WriteString(teamBlock(input))
	b.WriteString("\nAssess which skills the team has, which the idea demands but the team lacks, and score the skill coverage overall.\n")
	b.WriteString(schemaInstruction(schemas.SkillsAnalysisSchema))
	return b.String()
}

func (a *FounderFitAgent) experiencePrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are an advisor assessing founder experience.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nTeam profile:\n")
	b.WriteString(teamBlock(input))
	b.WriteString("\nRate how relevant the team's experience is to this venture.\n")
	b.WriteString(schemaInstruction(schemas.ExperienceRelevanceSchema))
	return b.String()
}

func (a *FounderFitAgent) commitmentPrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are an advisor reading founder commitment signals.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nTeam profile:\n")
	b.WriteString(teamBlock(input))
	b.WriteString("\nRate the team's commitment: time dedicated, financial runway, and motivation.\n")
	b.WriteString(schemaInstruction(schemas.CommitmentSignalsSchema))
	return b.String()
}

func (a *FounderFitAgent) networkPrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are an advisor assessing founder networks and resources.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nTeam profile:\n")
	b.WriteString(teamBlock(input))
	b.WriteString("\nRate the team's industry connections, advisor access, and access to capital.\n")
	b.WriteString(schemaInstruction(schemas.NetworkAndResourcesSchema))
	return b.String()
}

func (a *FounderFitAgent) planPrompt(input AgentInput, out *schemas.FounderFitOutput) string {
	var b strings.Builder
	b.WriteString("You are an advisor building a founder development plan.\n\n")
	b.WriteString(ideaBlock(input))
	if len(out.SkillsAnalysis.SkillGaps) > 0 {
		b.WriteString("\nIdentified skill gaps:\n")
		for _, gap := range out.SkillsAnalysis.SkillGaps {
			b.WriteString("- " + gap.Skill + " (" + gap.Severity + ")\n")
		}
	}
	b.WriteString("\nPropose a prioritized plan to close the most important gaps, with a timeline per action.\n")
	b.WriteString(schemaInstruction(schemas.DevelopmentPlanSchema))
	return b.String()
}
