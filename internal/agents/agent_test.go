package agents

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideascope/internal/adapters/ai"
	"ideascope/internal/adapters/config"
	"ideascope/internal/adapters/marketdata"
	"ideascope/internal/agents/schemas"
	"ideascope/pkg/errors"
)

// stubGateway routes prompts to canned responses, or fails every call.
type stubGateway struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	calls   int
}

func (s *stubGateway) Name() string { return "stub" }

func (s *stubGateway) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (*ai.GenerateResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	text, err := s.respond(prompt)
	if err != nil {
		return nil, err
	}
	return &ai.GenerateResult{Text: text, InputTokens: 100, OutputTokens: 200, Model: "stub"}, nil
}

func (s *stubGateway) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func erroringGateway() *stubGateway {
	return &stubGateway{respond: func(string) (string, error) {
		return "", errors.Wrap(errors.ErrUnavailable, "provider down")
	}}
}

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.m[key]
	if !ok {
		return errors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = data
	return nil
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func testAgentsConfig() config.AgentsConfig {
	return config.AgentsConfig{
		MarketResearchEnabled:    true,
		FinancialModelingEnabled: true,
		FounderFitEnabled:        true,
		RiskAssessmentEnabled:    true,
		AnalysisDepth:            DepthStandard,
		ExecutionTimeout:         time.Minute,
		MaxTokens:                1024,
		CacheTTL:                 time.Hour,
		CacheEnabled:             true,
	}
}

func testInput() AgentInput {
	return AgentInput{
		OpportunityID: "opp-123",
		Title:         "AI Meal Planner",
		IdeaText:      "A meal planning assistant that builds weekly menus and shopping lists from dietary goals.",
		Category:      "food-tech",
	}
}

// marketResearchResponder answers each market research stage with valid JSON.
func marketResearchResponder(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Assess the overall market"):
		return `{"size": "$2B", "growthRate": "12% CAGR", "maturity": "growing", "keyDrivers": ["remote work"]}`, nil
	case strings.Contains(prompt, "Identify the most relevant competitors"):
		return `{"competitors": [
			{"name": "Acme", "strengths": ["brand"], "weaknesses": ["price"], "marketShare": "20%", "threatLevel": "high"},
			{"name": "Beta", "strengths": ["speed"], "weaknesses": ["scale"], "marketShare": "5%", "threatLevel": "low"}
		]}`, nil
	case strings.Contains(prompt, "Define the target audience segments"):
		return `{"segments": [{"name": "Freelancers", "description": "independent workers", "size": "5M", "painPoints": ["scheduling"]}], "primarySegment": "Freelancers"}`, nil
	case strings.Contains(prompt, "Describe the market trends"):
		return `{"trends": [{"name": "AI adoption", "direction": "rising", "impact": "high", "opportunity": "automation"}],
			"opportunities": ["niche focus"], "threats": ["incumbents"], "recommendations": ["start with a pilot"]}`, nil
	default:
		return "", errors.Wrapf(errors.ErrInternal, "unexpected prompt: %.60s", prompt)
	}
}

func TestAgent_InvalidInputIsTerminal(t *testing.T) {
	gw := erroringGateway()
	agent := NewMarketResearchAgent(Deps{Gateway: gw, Config: testAgentsConfig()})

	result, err := agent.Execute(context.Background(), AgentInput{Title: "x"}, nil)

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
	assert.Zero(t, gw.callCount(), "no provider call for invalid input")
}

func TestAgent_HappyPathProducesValidOutput(t *testing.T) {
	gw := &stubGateway{respond: marketResearchResponder}
	agent := NewMarketResearchAgent(Deps{Gateway: gw, Config: testAgentsConfig()})

	result, err := agent.Execute(context.Background(), testInput(), nil)

	require.NoError(t, err)
	require.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.Empty(t, result.Metadata.FallbackStages)
	assert.Equal(t, 4, gw.callCount())
	assert.Equal(t, 4*300, result.Metadata.TokensUsed)

	out, ok := result.Output.(*schemas.MarketResearchOutput)
	require.True(t, ok)
	assert.Equal(t, "growing", out.MarketOverview.Maturity)
	assert.Len(t, out.Competitors, 2)
	assert.Equal(t, "Freelancers", out.TargetAudience.PrimarySegment)
	assert.Greater(t, result.Confidence.Overall, schemas.ConfidenceFloor)
}

func TestAgent_FallbackDeterminism(t *testing.T) {
	deps := Deps{Gateway: erroringGateway(), Config: testAgentsConfig()}
	agent := NewMarketResearchAgent(deps)

	first, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	second, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	require.True(t, first.IsValid)
	require.True(t, second.IsValid)

	assert.ElementsMatch(t,
		[]string{stageMarketOverview, stageCompetitors, stageTargetAudience, stageTrends},
		first.Metadata.FallbackStages)

	// Degraded output reports floor confidence.
	assert.Equal(t, schemas.ConfidenceFloor, first.Confidence.Overall)

	firstJSON, err := json.Marshal(first.Output)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Output)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestAgent_CacheHitReplaysResult(t *testing.T) {
	gw := &stubGateway{respond: marketResearchResponder}
	cache := newMemCache()
	agent := NewMarketResearchAgent(Deps{Gateway: gw, Cache: cache, Config: testAgentsConfig()})

	first, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	require.True(t, first.IsValid)
	callsAfterFirst := gw.callCount()

	second, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	assert.True(t, second.Metadata.CacheHit)
	assert.False(t, first.Metadata.CacheHit)
	assert.Equal(t, callsAfterFirst, gw.callCount(), "cache hit must not call the provider")
	assert.Equal(t, first.Confidence, second.Confidence)

	firstJSON, _ := json.Marshal(first.Output)
	secondJSON, _ := json.Marshal(second.Output)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestAgent_CacheKeyNormalization(t *testing.T) {
	a := testInput()
	b := testInput()
	b.Title = "  AI   meal PLANNER "
	b.IdeaText = strings.ToUpper(a.IdeaText)

	assert.Equal(t, CacheKey(AgentMarketResearch, a), CacheKey(AgentMarketResearch, b))

	c := testInput()
	c.IdeaText = a.IdeaText + " Now with restaurants."
	assert.NotEqual(t, CacheKey(AgentMarketResearch, a), CacheKey(AgentMarketResearch, c))

	assert.NotEqual(t,
		CacheKey(AgentMarketResearch, a),
		CacheKey(AgentFounderFit, a),
		"different agents must not share entries")
}

func TestAgent_FallbackRunsAreNotCached(t *testing.T) {
	gw := erroringGateway()
	cache := newMemCache()
	agent := NewMarketResearchAgent(Deps{Gateway: gw, Cache: cache, Config: testAgentsConfig()})

	_, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	assert.Zero(t, cache.size(), "degraded output must not be cached")

	second, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	assert.False(t, second.Metadata.CacheHit)
}

func TestAgent_CacheDisabledByConfig(t *testing.T) {
	cfg := testAgentsConfig()
	cfg.CacheEnabled = false

	gw := &stubGateway{respond: marketResearchResponder}
	cache := newMemCache()
	agent := NewMarketResearchAgent(Deps{Gateway: gw, Cache: cache, Config: cfg})

	_, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	assert.Zero(t, cache.size())
}

func TestAgent_QualityWarningsLowerConfidence(t *testing.T) {
	// Single competitor triggers the "fewer than two competitors" warning.
	respond := func(prompt string) (string, error) {
		if strings.Contains(prompt, "Identify the most relevant competitors") {
			return `{"competitors": [{"name": "Acme", "strengths": ["brand"], "weaknesses": ["price"], "marketShare": "20%", "threatLevel": "high"}]}`, nil
		}
		return marketResearchResponder(prompt)
	}

	baseline, err := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: marketResearchResponder}, Config: testAgentsConfig()}).
		Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	flagged, err := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: respond}, Config: testAgentsConfig()}).
		Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)

	require.True(t, flagged.IsValid)
	assert.NotEmpty(t, flagged.Metadata.Warnings)
	assert.Less(t, flagged.Confidence.Overall, baseline.Confidence.Overall)
}

// stubData is an in-memory marketdata.Provider recording every request.
type stubData struct {
	mu    sync.Mutex
	res   *marketdata.Result
	err   error
	calls []marketdata.Request
}

func (d *stubData) FetchData(ctx context.Context, req marketdata.Request) (*marketdata.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, req)
	if d.err != nil {
		return nil, d.err
	}
	return d.res, nil
}

func (d *stubData) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// stallingGateway blocks every generation until the context is done.
type stallingGateway struct{}

func (stallingGateway) Name() string { return "stalling" }
func (stallingGateway) Generate(ctx context.Context, _ string, _ ai.GenerateOptions) (*ai.GenerateResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAgent_DataEnrichmentReachesPromptAndConfidence(t *testing.T) {
	data := &stubData{res: &marketdata.Result{
		Success: true,
		Data:    map[string]interface{}{"averageMarketSizeUsd": "2000000000"},
	}}

	var overviewPrompt string
	var mu sync.Mutex
	respond := func(prompt string) (string, error) {
		if strings.Contains(prompt, "Assess the overall market") {
			mu.Lock()
			overviewPrompt = prompt
			mu.Unlock()
		}
		return marketResearchResponder(prompt)
	}

	agent := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: respond}, Data: data, Config: testAgentsConfig()})
	result, err := agent.Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	require.True(t, result.IsValid)

	require.Equal(t, 1, data.callCount())
	assert.Equal(t, "market_comparables", data.calls[0].Type)
	assert.Equal(t, "food-tech", data.calls[0].Params["category"])

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, overviewPrompt, "Reference data:")
	assert.Contains(t, overviewPrompt, "averageMarketSizeUsd")

	baseline, err := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: marketResearchResponder}, Config: testAgentsConfig()}).
		Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	assert.Greater(t, result.Confidence.Overall, baseline.Confidence.Overall,
		"grounded prompts score higher confidence")
}

func TestAgent_DataSourceFailureIsNonFatal(t *testing.T) {
	data := &stubData{err: errors.Wrap(errors.ErrDataSourceUnavailable, "upstream 503")}

	agent := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: marketResearchResponder}, Data: data, Config: testAgentsConfig()})
	result, err := agent.Execute(context.Background(), testInput(), nil)

	require.NoError(t, err)
	require.True(t, result.IsValid)
	assert.Empty(t, result.Metadata.FallbackStages)
	assert.Equal(t, 1, data.callCount())

	baseline, err := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: marketResearchResponder}, Config: testAgentsConfig()}).
		Execute(context.Background(), testInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, baseline.Confidence.Overall, result.Confidence.Overall,
		"a failed fetch earns no grounding bonus")
}

func TestAgent_RestrictedDataSourceListIsHonored(t *testing.T) {
	data := &stubData{res: &marketdata.Result{Success: true, Data: map[string]interface{}{"x": 1}}}
	agent := NewMarketResearchAgent(Deps{Gateway: &stubGateway{respond: marketResearchResponder}, Data: data, Config: testAgentsConfig()})

	actx := &AgentContext{DataSources: []string{"funding_rounds"}}
	_, err := agent.Execute(context.Background(), testInput(), actx)

	require.NoError(t, err)
	assert.Zero(t, data.callCount(), "sources outside the allow-list must not be consulted")
}

func TestAgent_BudgetExpiryDegradesToFallbacks(t *testing.T) {
	agent := NewMarketResearchAgent(Deps{Gateway: stallingGateway{}, Config: testAgentsConfig()})
	actx := &AgentContext{MaxDuration: 50 * time.Millisecond}

	result, err := agent.Execute(context.Background(), testInput(), actx)

	require.NoError(t, err, "an expired budget yields a degraded result, not an error")
	require.True(t, result.IsValid)
	assert.Len(t, result.Metadata.FallbackStages, 4)
	assert.Equal(t, schemas.ConfidenceFloor, result.Confidence.Overall)
}

func TestAgent_CallerCancellationIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agent := NewMarketResearchAgent(Deps{Gateway: stallingGateway{}, Config: testAgentsConfig()})
	_, err := agent.Execute(ctx, testInput(), nil)

	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestAgent_NoGatewayRunsOnFallbacks(t *testing.T) {
	agent := NewRiskAssessmentAgent(Deps{Config: testAgentsConfig()})

	result, err := agent.Execute(context.Background(), testInput(), nil)

	require.NoError(t, err)
	require.True(t, result.IsValid)
	assert.Len(t, result.Metadata.FallbackStages, 4)

	out, ok := result.Output.(*schemas.RiskAssessmentOutput)
	require.True(t, ok)
	assert.Equal(t, schemas.OverallRiskScore(out.RiskCategories), out.OverallRiskScore)
	assert.Equal(t, schemas.RiskProfileFor(out.OverallRiskScore), out.RiskProfile)
}
