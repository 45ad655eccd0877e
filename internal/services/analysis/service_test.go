package analysis

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideascope/internal/adapters/ai"
	"ideascope/internal/adapters/config"
	"ideascope/internal/adapters/kafka"
	"ideascope/internal/agents"
	"ideascope/internal/domain/report"
	"ideascope/pkg/errors"
)

// stubStore is an in-memory ReportStore.
type stubStore struct {
	mu      sync.Mutex
	reports map[string]*report.AnalysisReport
	getErr  error
}

func newStubStore() *stubStore {
	return &stubStore{reports: make(map[string]*report.AnalysisReport)}
}

func (s *stubStore) GetByOpportunityID(ctx context.Context, id string) (*report.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	rep, ok := s.reports[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return rep, nil
}

func (s *stubStore) Upsert(ctx context.Context, rep *report.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.OpportunityID] = rep
	return nil
}

// stubPublisher records published events.
type stubPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *stubPublisher) Publish(ctx context.Context, topic, key string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) last() interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

// downGateway fails every generation, pushing agents onto fallbacks.
type downGateway struct{}

func (downGateway) Name() string { return "down" }
func (downGateway) Generate(context.Context, string, ai.GenerateOptions) (*ai.GenerateResult, error) {
	return nil, errors.Wrap(errors.ErrUnavailable, "provider down")
}

func allAgentsConfig() config.AgentsConfig {
	return config.AgentsConfig{
		MarketResearchEnabled:    true,
		FinancialModelingEnabled: true,
		FounderFitEnabled:        true,
		RiskAssessmentEnabled:    true,
		AnalysisDepth:            "standard",
		ExecutionTimeout:         time.Minute,
		MaxTokens:                1024,
	}
}

func testInput() agents.AgentInput {
	return agents.AgentInput{
		OpportunityID: "opp-7",
		Title:         "AI Meal Planner",
		IdeaText:      "A meal planning assistant that builds weekly menus and shopping lists from dietary goals.",
		Category:      "food-tech",
	}
}

func newTestService(store ReportStore, pub Publisher, cfg config.AgentsConfig) *Service {
	orchestrator := agents.NewOrchestrator(agents.Deps{Gateway: downGateway{}, Config: cfg})
	return NewService(orchestrator, store, pub, time.Second)
}

func TestGetAnalysis_DatabaseTier(t *testing.T) {
	store := newStubStore()
	store.reports["opp-7"] = &report.AnalysisReport{
		OpportunityID: "opp-7",
		Source:        report.SourceGenerated,
		Confidence:    72,
		AgentsUsed:    pq.StringArray{"market_research"},
		Payload:       json.RawMessage(`{"stored": true}`),
	}

	svc := newTestService(store, nil, allAgentsConfig())

	got, err := svc.GetAnalysis(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceDatabase, got.Source)
	assert.Equal(t, 72, got.Confidence)
	assert.JSONEq(t, `{"stored": true}`, string(got.Payload))
}

func TestGetAnalysis_GeneratedTierOnMiss(t *testing.T) {
	store := newStubStore()
	pub := &stubPublisher{}
	svc := newTestService(store, pub, allAgentsConfig())

	got, err := svc.GetAnalysis(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, got.Source)

	var combined agents.CombinedAnalysis
	require.NoError(t, json.Unmarshal(got.Payload, &combined))
	assert.Len(t, combined.Results, 4)

	// The generated report was stored for next time.
	stored, err := store.GetByOpportunityID(context.Background(), "opp-7")
	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, stored.Source)

	// And announced.
	event, ok := pub.last().(kafka.AnalysisCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "opp-7", event.OpportunityID)
	assert.Equal(t, report.SourceGenerated, event.Source)
}

func TestGetAnalysis_StoreFailureFallsThrough(t *testing.T) {
	store := newStubStore()
	store.getErr = errors.Wrap(errors.ErrUnavailable, "db down")
	svc := newTestService(store, nil, allAgentsConfig())

	got, err := svc.GetAnalysis(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, got.Source)
}

func TestGetAnalysis_SampleTierWhenNothingElseServes(t *testing.T) {
	// No agents enabled: generation cannot serve, the sample tier must.
	pub := &stubPublisher{}
	svc := newTestService(nil, pub, config.AgentsConfig{})

	got, err := svc.GetAnalysis(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceSample, got.Source)

	var combined agents.CombinedAnalysis
	require.NoError(t, json.Unmarshal(got.Payload, &combined))
	assert.Len(t, combined.Results, 4)

	event, ok := pub.last().(kafka.AnalysisCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, report.SourceSample, event.Source)
}

func TestRegenerate_BypassesStoredReport(t *testing.T) {
	store := newStubStore()
	store.reports["opp-7"] = &report.AnalysisReport{
		OpportunityID: "opp-7",
		Source:        report.SourceGenerated,
		Payload:       json.RawMessage(`{"stale": true}`),
	}

	svc := newTestService(store, nil, allAgentsConfig())

	got, err := svc.Regenerate(context.Background(), testInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, got.Source)
	assert.NotContains(t, string(got.Payload), "stale")

	// The stale report was replaced.
	stored, err := store.GetByOpportunityID(context.Background(), "opp-7")
	require.NoError(t, err)
	assert.NotContains(t, string(stored.Payload), "stale")
}

func TestGetAnalysis_InvalidInputIsRejected(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestService(newStubStore(), pub, allAgentsConfig())

	input := agents.AgentInput{Title: "x", IdeaText: "too short"}

	got, err := svc.GetAnalysis(context.Background(), input, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Nil(t, got, "bad input must surface its errors, not a fabricated report")
	assert.Nil(t, pub.last(), "nothing was served, nothing to announce")

	_, err = svc.Regenerate(context.Background(), input, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestGetAnalysis_NoStoreNoID(t *testing.T) {
	svc := newTestService(nil, nil, allAgentsConfig())

	input := testInput()
	input.OpportunityID = ""

	got, err := svc.GetAnalysis(context.Background(), input, nil)

	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, got.Source)
}
