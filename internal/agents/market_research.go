package agents

import (
	"context"
	"fmt"
	"strings"

	"ideascope/internal/agents/schemas"
)

// MarketResearchAgent analyzes the market landscape around an opportunity:
// overview, competitors, target audience, and trends.
type MarketResearchAgent struct {
	base
}

func NewMarketResearchAgent(deps Deps) *MarketResearchAgent {
	return &MarketResearchAgent{base: newBase(AgentMarketResearch, deps)}
}

func (a *MarketResearchAgent) Name() AgentName { return AgentMarketResearch }

func (a *MarketResearchAgent) Execute(ctx context.Context, input AgentInput, actx *AgentContext) (*AgentResult, error) {
	return a.execute(ctx, input, actx, schemas.MarketResearchOutputSchema,
		func() interface{} { return &schemas.MarketResearchOutput{} },
		a.process, a.qualityCheck)
}

func (a *MarketResearchAgent) process(ctx context.Context, input AgentInput, actx *AgentContext, stats *ExecStats) (interface{}, schemas.ConfidenceBreakdown) {
	opts := a.genOptions(actx)
	enrichment := a.enrich(ctx, actx, stats, "market_comparables", map[string]interface{}{
		"category": input.Category,
	})

	out := &schemas.MarketResearchOutput{}

	if err := a.callJSON(ctx, a.overviewPrompt(input, enrichment), schemas.MarketOverviewSchema, &out.MarketOverview, opts, stats); err != nil {
		a.noteFallback(stats, stageMarketOverview, err)
		out.MarketOverview = fallbackMarketOverview(input)
	}

	var competitors struct {
		Competitors []schemas.Competitor `json:"competitors"`
	}
	if err := a.callJSON(ctx, a.competitorsPrompt(input, out.MarketOverview), schemas.CompetitorListSchema, &competitors, opts, stats); err != nil {
		a.noteFallback(stats, stageCompetitors, err)
		competitors.Competitors = fallbackCompetitors(input)
	}
	out.Competitors = competitors.Competitors

	var audience schemas.TargetAudience
	if err := a.callJSON(ctx, a.audiencePrompt(input), schemas.TargetAudienceSchema, &audience, opts, stats); err != nil {
		a.noteFallback(stats, stageTargetAudience, err)
		audience = fallbackTargetAudience(input)
	}
	out.TargetAudience = audience

	var trends struct {
		Trends          []schemas.MarketTrend `json:"trends"`
		Opportunities   []string              `json:"opportunities"`
		Threats         []string              `json:"threats"`
		Recommendations []string              `json:"recommendations"`
	}
	if err := a.callJSON(ctx, a.trendsPrompt(input, out), schemas.MarketTrendsSchema, &trends, opts, stats); err != nil {
		a.noteFallback(stats, stageTrends, err)
		trends.Trends, trends.Opportunities, trends.Threats, trends.Recommendations = fallbackMarketTrends(input)
	}
	out.Trends = trends.Trends
	out.Opportunities = trends.Opportunities
	out.Threats = trends.Threats
	out.Recommendations = trends.Recommendations

	confidence := a.confidence(stats)
	out.Confidence = confidence
	return out, confidence
}

// confidence derives per-dimension scores from how each stage was produced.
// A fallback stage scores at the floor; real model output scores higher, with
// a small bonus when external data grounded the prompts.
func (a *MarketResearchAgent) confidence(stats *ExecStats) schemas.ConfidenceBreakdown {
	score := func(stage string, produced int) int {
		if stats.FellBack(stage) {
			return schemas.ConfidenceFloor
		}
		if stats.DataEnriched {
			produced += 5
		}
		return produced
	}

	return schemas.NewConfidence(map[string]int{
		"marketData":         score(stageMarketOverview, 70),
		"competitorAnalysis": score(stageCompetitors, 72),
		"audienceDefinition": score(stageTargetAudience, 75),
		"trendAnalysis":      score(stageTrends, 68),
	})
}

// qualityCheck flags structural weaknesses a schema cannot express.
func (a *MarketResearchAgent) qualityCheck(output interface{}) []string {
	out, ok := output.(*schemas.MarketResearchOutput)
	if !ok {
		return nil
	}

	var warnings []string
	if len(out.Competitors) < 2 {
		warnings = append(warnings, "fewer than two competitors identified")
	}
	if len(out.Recommendations) == 0 {
		warnings = append(warnings, "no recommendations produced")
	}

	primaryKnown := false
	for _, seg := range out.TargetAudience.Segments {
		if seg.Name == out.TargetAudience.PrimarySegment {
			primaryKnown = true
			break
		}
	}
	if !primaryKnown {
		warnings = append(warnings, "primary segment does not match any defined segment")
	}
	return warnings
}

func (a *MarketResearchAgent) overviewPrompt(input AgentInput, enrichment map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("You are a market research analyst evaluating a startup opportunity.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString(enrichmentBlock(enrichment))
	b.WriteString("\nAssess the overall market: its size, growth rate, maturity stage, and the key drivers shaping it.\n")
	b.WriteString(schemaInstruction(schemas.MarketOverviewSchema))
	return b.String()
}

func (a *MarketResearchAgent) competitorsPrompt(input AgentInput, overview schemas.MarketOverview) string {
	var b strings.Builder
	b.WriteString("You are a market research analyst mapping the competitive landscape.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nMarket context: %s market, %s maturity, growing at %s.\n",
		overview.Size, overview.Maturity, overview.GrowthRate)
	b.WriteString("\nIdentify the most relevant competitors, their strengths and weaknesses, and how threatening each is to this idea.\n")
	b.WriteString(schemaInstruction(schemas.CompetitorListSchema))
	return b.String()
}

func (a *MarketResearchAgent) audiencePrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are a market research analyst defining customer segments.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString("\nDefine the target audience segments, their pain points, and which segment to pursue first.\n")
	b.WriteString(schemaInstruction(schemas.TargetAudienceSchema))
	return b.String()
}

func (a *MarketResearchAgent) trendsPrompt(input AgentInput, out *schemas.MarketResearchOutput) string {
	var b strings.Builder
	b.WriteString("You are a market research analyst synthesizing findings.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nKnown competitors: %d identified. Primary segment: %s.\n",
		len(out.Competitors), out.TargetAudience.PrimarySegment)
	b.WriteString("\nDescribe the market trends affecting this idea, then list concrete opportunities, threats, and recommendations.\n")
	b.WriteString(schemaInstruction(schemas.MarketTrendsSchema))
	return b.String()
}
