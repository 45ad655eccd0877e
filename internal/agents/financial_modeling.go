package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"ideascope/internal/agents/schemas"
)

// FinancialModelingAgent builds the financial picture of an opportunity:
// market sizing, revenue model, unit economics, projections, and funding needs.
type FinancialModelingAgent struct {
	base
}

func NewFinancialModelingAgent(deps Deps) *FinancialModelingAgent {
	return &FinancialModelingAgent{base: newBase(AgentFinancialModeling, deps)}
}

func (a *FinancialModelingAgent) Name() AgentName { return AgentFinancialModeling }

func (a *FinancialModelingAgent) Execute(ctx context.Context, input AgentInput, actx *AgentContext) (*AgentResult, error) {
	return a.execute(ctx, input, actx, schemas.FinancialModelOutputSchema,
		func() interface{} { return &schemas.FinancialModelOutput{} },
		a.process, a.qualityCheck)
}

func (a *FinancialModelingAgent) process(ctx context.Context, input AgentInput, actx *AgentContext, stats *ExecStats) (interface{}, schemas.ConfidenceBreakdown) {
	opts := a.genOptions(actx)
	enrichment := a.enrich(ctx, actx, stats, "market_comparables", map[string]interface{}{
		"category": input.Category,
	})

	out := &schemas.FinancialModelOutput{}

	if err := a.callJSON(ctx, a.sizingPrompt(input, enrichment), schemas.MarketSizingSchema, &out.MarketSizing, opts, stats); err != nil {
		a.noteFallback(stats, stageMarketSizing, err)
		out.MarketSizing = fallbackMarketSizing(input)
	}
	out.MarketSizing = normalizeSizing(out.MarketSizing)

	if err := a.callJSON(ctx, a.revenuePrompt(input), schemas.RevenueModelSchema, &out.RevenueModel, opts, stats); err != nil {
		a.noteFallback(stats, stageRevenueModel, err)
		out.RevenueModel = fallbackRevenueModel(input)
	}

	if err := a.callJSON(ctx, a.unitEconomicsPrompt(input, out.RevenueModel), schemas.UnitEconomicsSchema, &out.UnitEconomics, opts, stats); err != nil {
		a.noteFallback(stats, stageUnitEconomics, err)
		out.UnitEconomics = fallbackUnitEconomics()
	}
	out.UnitEconomics = normalizeUnitEconomics(out.UnitEconomics)

	var projections struct {
		Projections []schemas.YearProjection `json:"projections"`
	}
	if err := a.callJSON(ctx, a.projectionsPrompt(input, out), schemas.ProjectionsSchema, &projections, opts, stats); err != nil {
		a.noteFallback(stats, stageProjections, err)
		projections.Projections = fallbackProjections(out.MarketSizing)
	}
	out.Projections = normalizeProjections(projections.Projections)

	if err := a.callJSON(ctx, a.fundingPrompt(input, out), schemas.FundingAnalysisSchema, &out.Funding, opts, stats); err != nil {
		a.noteFallback(stats, stageFunding, err)
		out.Funding = fallbackFunding()
	}

	confidence := a.confidence(stats)
	out.Confidence = confidence
	return out, confidence
}

// normalizeSizing enforces TAM >= SAM >= SOM. Out-of-order estimates are
// repaired with the standard heuristic fractions rather than rejected.
func normalizeSizing(sizing schemas.MarketSizing) schemas.MarketSizing {
	tam := decimal.NewFromFloat(sizing.TAM.ValueUSD)

	sam := decimal.NewFromFloat(sizing.SAM.ValueUSD)
	if sam.GreaterThan(tam) {
		sam = tam.Mul(samShareOfTAM)
		sizing.SAM.ValueUSD = sam.InexactFloat64()
		sizing.SAM.Basis = "repaired to 10% of TAM, original estimate exceeded TAM"
	}

	som := decimal.NewFromFloat(sizing.SOM.ValueUSD)
	if som.GreaterThan(sam) {
		som = sam.Mul(somShareOfSAM)
		sizing.SOM.ValueUSD = som.InexactFloat64()
		sizing.SOM.Basis = "repaired to 3% of SAM, original estimate exceeded SAM"
	}

	if sizing.SOMMarketSharePct <= 0 || sizing.SOMMarketSharePct > 100 {
		if sam.IsPositive() {
			sizing.SOMMarketSharePct = som.Div(sam).Mul(decimal.NewFromInt(100)).InexactFloat64()
		} else {
			sizing.SOMMarketSharePct = 0
		}
	}
	return sizing
}

// normalizeUnitEconomics recomputes the LTV/CAC ratio from its parts.
func normalizeUnitEconomics(ue schemas.UnitEconomics) schemas.UnitEconomics {
	if ue.CACUSD > 0 {
		ue.LTVToCACRatio = decimal.NewFromFloat(ue.LTVUSD).
			Div(decimal.NewFromFloat(ue.CACUSD)).
			Round(2).InexactFloat64()
	}
	return ue
}

// normalizeProjections recomputes net from revenue and costs and renumbers
// years sequentially.
func normalizeProjections(projections []schemas.YearProjection) []schemas.YearProjection {
	for i := range projections {
		projections[i].Year = i + 1
		projections[i].NetUSD = projections[i].RevenueUSD - projections[i].CostsUSD
	}
	return projections
}

func (a *FinancialModelingAgent) confidence(stats *ExecStats) schemas.ConfidenceBreakdown {
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
		"marketSizing":  score(stageMarketSizing, 68),
		"revenueModel":  score(stageRevenueModel, 74),
		"unitEconomics": score(stageUnitEconomics, 70),
		"projections":   score(stageProjections, 65),
		"funding":       score(stageFunding, 72),
	})
}

func (a *FinancialModelingAgent) qualityCheck(output interface{}) []string {
	out, ok := output.(*schemas.FinancialModelOutput)
	if !ok {
		return nil
	}

	var warnings []string
	if out.UnitEconomics.LTVToCACRatio < 1 {
		warnings = append(warnings, "LTV/CAC ratio below 1, unit economics do not support growth")
	}
	if out.UnitEconomics.GrossMarginPct < 20 {
		warnings = append(warnings, "gross margin below 20%")
	}
	if len(out.Projections) > 0 {
		last := out.Projections[len(out.Projections)-1]
		if last.RevenueUSD > out.MarketSizing.SOM.ValueUSD {
			warnings = append(warnings, "final-year revenue exceeds the obtainable market estimate")
		}
	}
	return warnings
}

func (a *FinancialModelingAgent) sizingPrompt(input AgentInput, enrichment map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst sizing a startup's market.\n\n")
	b.WriteString(ideaBlock(input))
	b.WriteString(enrichmentBlock(enrichment))
	b.WriteString("\nEstimate TAM, SAM, and SOM in USD with the basis for each figure. SAM must not exceed TAM and SOM must not exceed SAM.\n")
	b.WriteString(schemaInstruction(schemas.MarketSizingSchema))
	return b.String()
}

func (a *FinancialModelingAgent) revenuePrompt(input AgentInput) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst designing a revenue model.\n\n")
	b.WriteString(ideaBlock(input))
	if input.Preferences != nil && input.Preferences.FundingPreference != "" {
		fmt.Fprintf(&b, "Funding preference: %s\n", input.Preferences.FundingPreference)
	}
	b.WriteString("\nPropose the primary revenue model, the individual revenue streams with their share of total revenue, and a pricing strategy.\n")
	b.WriteString(schemaInstruction(schemas.RevenueModelSchema))
	return b.String()
}

func (a *FinancialModelingAgent) unitEconomicsPrompt(input AgentInput, model schemas.RevenueModel) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst estimating per-customer economics.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nRevenue model: %s.\n", model.PrimaryModel)
	b.WriteString("\nEstimate customer acquisition cost, lifetime value, gross margin, and months to break even.\n")
	b.WriteString(schemaInstruction(schemas.UnitEconomicsSchema))
	return b.String()
}

func (a *FinancialModelingAgent) projectionsPrompt(input AgentInput, out *schemas.FinancialModelOutput) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst building revenue projections.\n\n")
	b.WriteString(ideaBlock(input))
	fmt.Fprintf(&b, "\nObtainable market: $%s over %d years. Revenue model: %s. CAC $%s, LTV $%s.\n",
		humanize.CommafWithDigits(out.MarketSizing.SOM.ValueUSD, 0),
		out.MarketSizing.TimeframeYears,
		out.RevenueModel.PrimaryModel,
		humanize.CommafWithDigits(out.UnitEconomics.CACUSD, 0),
		humanize.CommafWithDigits(out.UnitEconomics.LTVUSD, 0))
	b.WriteString("\nProject revenue, costs, and net for the next 3 to 5 years with the assumptions behind each year.\n")
	b.WriteString(schemaInstruction(schemas.ProjectionsSchema))
	return b.String()
}

func (a *FinancialModelingAgent) fundingPrompt(input AgentInput, out *schemas.FinancialModelOutput) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst assessing capital needs.\n\n")
	b.WriteString(ideaBlock(input))
	if len(out.Projections) > 0 {
		fmt.Fprintf(&b, "\nYear-one plan: revenue $%s against costs $%s.\n",
			humanize.CommafWithDigits(out.Projections[0].RevenueUSD, 0),
			humanize.CommafWithDigits(out.Projections[0].CostsUSD, 0))
	}
	b.WriteString("\nEstimate required funding, the runway it buys, the appropriate round, and the use of funds.\n")
	b.WriteString(schemaInstruction(schemas.FundingAnalysisSchema))
	return b.String()
}
