package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"

	"ideascope/internal/adapters/kafka"
	"ideascope/internal/agents"
	"ideascope/internal/domain/report"
	"ideascope/internal/metrics"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

// ReportStore is the persistence contract for completed analyses.
type ReportStore interface {
	GetByOpportunityID(ctx context.Context, opportunityID string) (*report.AnalysisReport, error)
	Upsert(ctx context.Context, rep *report.AnalysisReport) error
}

// Publisher is the event contract. A nil Publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Analysis is the service response: the combined analysis payload plus
// which tier served it.
type Analysis struct {
	OpportunityID string          `json:"opportunityId,omitempty"`
	Source        string          `json:"source"`
	Confidence    int             `json:"confidence"`
	AgentsUsed    []string        `json:"agentsUsed"`
	Payload       json.RawMessage `json:"payload"`
}

// Service serves analyses through a read-through chain: stored report first,
// fresh generation second, static sample last. Every tier failure degrades
// to the next; the chain never returns empty-handed.
type Service struct {
	orchestrator *agents.Orchestrator
	reports      ReportStore // nil disables the database tier
	publisher    Publisher   // nil disables events
	fetchTimeout time.Duration
	log          *logger.Logger
}

// NewService wires the serving chain. Both reports and publisher may be nil.
func NewService(orchestrator *agents.Orchestrator, reports ReportStore, publisher Publisher, fetchTimeout time.Duration) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 3 * time.Second
	}
	return &Service{
		orchestrator: orchestrator,
		reports:      reports,
		publisher:    publisher,
		fetchTimeout: fetchTimeout,
		log:          logger.Get().With("component", "analysis_service"),
	}
}

// GetAnalysis resolves an analysis for the input, walking the tier chain.
// Input that fails structural validation is rejected outright: the fallback
// tiers exist for system degradation, not for answering bad requests.
func (s *Service) GetAnalysis(ctx context.Context, input agents.AgentInput, actx *agents.AgentContext) (*Analysis, error) {
	if err := rejectInvalidInput(input); err != nil {
		return nil, err
	}

	if stored := s.fromDatabase(ctx, input.OpportunityID); stored != nil {
		metrics.AnalysisRequests.WithLabelValues(report.SourceDatabase).Inc()
		return stored, nil
	}

	if generated := s.fromOrchestrator(ctx, input, actx); generated != nil {
		metrics.AnalysisRequests.WithLabelValues(report.SourceGenerated).Inc()
		return generated, nil
	}

	metrics.AnalysisRequests.WithLabelValues(report.SourceSample).Inc()
	return s.fromSample(ctx, input)
}

// Regenerate bypasses the database tier and replaces any stored report.
func (s *Service) Regenerate(ctx context.Context, input agents.AgentInput, actx *agents.AgentContext) (*Analysis, error) {
	if err := rejectInvalidInput(input); err != nil {
		return nil, err
	}

	if generated := s.fromOrchestrator(ctx, input, actx); generated != nil {
		metrics.AnalysisRequests.WithLabelValues(report.SourceGenerated).Inc()
		return generated, nil
	}

	metrics.AnalysisRequests.WithLabelValues(report.SourceSample).Inc()
	return s.fromSample(ctx, input)
}

// fromDatabase is the first tier. Slow or failing lookups fall through; the
// fetch budget keeps a degraded database from stalling the whole request.
func (s *Service) fromDatabase(ctx context.Context, opportunityID string) *Analysis {
	if s.reports == nil || opportunityID == "" {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	stored, err := s.reports.GetByOpportunityID(fetchCtx, opportunityID)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			s.log.Warnf("report lookup failed, generating instead: %v", err)
		}
		return nil
	}

	return &Analysis{
		OpportunityID: opportunityID,
		Source:        report.SourceDatabase,
		Confidence:    stored.Confidence,
		AgentsUsed:    []string(stored.AgentsUsed),
		Payload:       stored.Payload,
	}
}

// fromOrchestrator is the second tier: a fresh multi-agent run. A run where
// no agent produced a valid result does not count as served.
func (s *Service) fromOrchestrator(ctx context.Context, input agents.AgentInput, actx *agents.AgentContext) *Analysis {
	combined, err := s.orchestrator.ExecuteAll(ctx, input, actx)
	if err != nil {
		s.log.Errorf("generation failed: %v", err)
		return nil
	}

	if !hasValidResult(combined) {
		s.log.Warn("generation produced no valid agent results")
		return nil
	}

	payload, err := json.Marshal(combined)
	if err != nil {
		s.log.Errorf("marshal combined analysis: %v", err)
		return nil
	}

	analysis := &Analysis{
		OpportunityID: input.OpportunityID,
		Source:        report.SourceGenerated,
		Confidence:    combined.Confidence,
		AgentsUsed:    agentNames(combined.AgentsUsed),
		Payload:       payload,
	}

	s.persist(ctx, analysis)
	s.announce(ctx, analysis, combined.Duration)
	return analysis
}

// fromSample is the terminal tier and cannot fail.
func (s *Service) fromSample(ctx context.Context, input agents.AgentInput) (*Analysis, error) {
	combined := agents.SampleAnalysis(input)
	payload, err := json.Marshal(combined)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err.Error())
	}

	analysis := &Analysis{
		OpportunityID: input.OpportunityID,
		Source:        report.SourceSample,
		Confidence:    combined.Confidence,
		AgentsUsed:    agentNames(combined.AgentsUsed),
		Payload:       payload,
	}

	s.announce(ctx, analysis, 0)
	return analysis, nil
}

// persist stores a generated analysis, best effort. Storage being down must
// not fail a request that already has its answer.
func (s *Service) persist(ctx context.Context, analysis *Analysis) {
	if s.reports == nil || analysis.OpportunityID == "" {
		return
	}

	err := s.reports.Upsert(ctx, &report.AnalysisReport{
		OpportunityID: analysis.OpportunityID,
		Source:        analysis.Source,
		Confidence:    analysis.Confidence,
		AgentsUsed:    pq.StringArray(analysis.AgentsUsed),
		Payload:       analysis.Payload,
	})
	if err != nil {
		s.log.Warnf("failed to store report: %v", err)
	}
}

// announce publishes the completion event, best effort.
func (s *Service) announce(ctx context.Context, analysis *Analysis, duration time.Duration) {
	if s.publisher == nil {
		return
	}

	event := kafka.AnalysisCompletedEvent{
		OpportunityID: analysis.OpportunityID,
		Source:        analysis.Source,
		AgentsUsed:    analysis.AgentsUsed,
		Confidence:    analysis.Confidence,
		DurationMs:    duration.Milliseconds(),
	}
	if err := s.publisher.Publish(ctx, kafka.TopicAnalysisCompleted, analysis.OpportunityID, event); err != nil {
		s.log.Warnf("failed to publish completion event: %v", err)
	}
}

func rejectInvalidInput(input agents.AgentInput) error {
	msgs := agents.ValidateInput(input)
	if len(msgs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrInvalidInput, strings.Join(msgs, "; "))
}

func hasValidResult(combined *agents.CombinedAnalysis) bool {
	for _, result := range combined.Results {
		if result != nil && result.IsValid {
			return true
		}
	}
	return false
}

func agentNames(names []agents.AgentName) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = string(name)
	}
	return out
}
