package agents

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"ideascope/internal/adapters/config"
	"ideascope/internal/agents/schemas"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

// CombinedAnalysis aggregates the results of one orchestrated run.
type CombinedAnalysis struct {
	OpportunityID string                     `json:"opportunityId,omitempty"`
	Results       map[AgentName]*AgentResult `json:"results"`
	AgentsUsed    []AgentName                `json:"agentsUsed"`
	Confidence    int                        `json:"confidence"`
	Duration      time.Duration              `json:"duration"`
	GeneratedAt   time.Time                  `json:"generatedAt"`
}

// Orchestrator owns the agent registry and coordinates multi-agent runs.
// Execution is two-phase: the independent agents run in parallel, then risk
// assessment runs with their findings injected into its input.
type Orchestrator struct {
	registry map[AgentName]Agent
	cfg      config.AgentsConfig
	log      *logger.Logger
}

// NewOrchestrator builds the registry from configuration. Disabled agents
// are not constructed at all.
func NewOrchestrator(deps Deps) *Orchestrator {
	registry := make(map[AgentName]Agent, len(AllAgents))
	if deps.Config.MarketResearchEnabled {
		registry[AgentMarketResearch] = NewMarketResearchAgent(deps)
	}
	if deps.Config.FinancialModelingEnabled {
		registry[AgentFinancialModeling] = NewFinancialModelingAgent(deps)
	}
	if deps.Config.FounderFitEnabled {
		registry[AgentFounderFit] = NewFounderFitAgent(deps)
	}
	if deps.Config.RiskAssessmentEnabled {
		registry[AgentRiskAssessment] = NewRiskAssessmentAgent(deps)
	}

	return &Orchestrator{
		registry: registry,
		cfg:      deps.Config,
		log:      logger.Get().With("component", "orchestrator"),
	}
}

// EnabledAgents returns the registered agent names in orchestration order.
func (o *Orchestrator) EnabledAgents() []AgentName {
	names := make([]AgentName, 0, len(o.registry))
	for _, name := range AllAgents {
		if _, ok := o.registry[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// ExecuteAgent runs one agent by name.
func (o *Orchestrator) ExecuteAgent(ctx context.Context, name string, input AgentInput, actx *AgentContext) (*AgentResult, error) {
	agentName, err := ParseAgentName(name)
	if err != nil {
		return nil, err
	}

	agent, ok := o.registry[agentName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAgentDisabled, "%s", agentName)
	}

	return o.runSafely(ctx, agent, input, o.contextFor(actx)), nil
}

// ExecuteAll runs every enabled agent against the input and aggregates the
// results. One agent failing, panicking, or producing invalid output never
// sinks the run; its result is recorded and the rest proceed.
func (o *Orchestrator) ExecuteAll(ctx context.Context, input AgentInput, actx *AgentContext) (*CombinedAnalysis, error) {
	if len(o.registry) == 0 {
		return nil, errors.Wrap(errors.ErrAgentDisabled, "no agents enabled")
	}

	start := time.Now()
	actx = o.contextFor(actx)

	results := make(map[AgentName]*AgentResult, len(o.registry))

	// Phase one: the independent agents, in parallel.
	phaseOne := make([]Agent, 0, 3)
	for _, name := range []AgentName{AgentMarketResearch, AgentFinancialModeling, AgentFounderFit} {
		if agent, ok := o.registry[name]; ok {
			phaseOne = append(phaseOne, agent)
		}
	}

	type agentOutcome struct {
		name   AgentName
		result *AgentResult
	}
	outcomes := make(chan agentOutcome, len(phaseOne))

	var wg sync.WaitGroup
	for _, agent := range phaseOne {
		wg.Add(1)
		go func(agent Agent) {
			defer wg.Done()
			outcomes <- agentOutcome{
				name:   agent.Name(),
				result: o.runSafely(ctx, agent, input, actx),
			}
		}(agent)
	}
	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		results[outcome.name] = outcome.result
	}

	// Phase two: risk assessment sees what the others found.
	if riskAgent, ok := o.registry[AgentRiskAssessment]; ok {
		enriched := injectRiskContext(input, results)
		results[AgentRiskAssessment] = o.runSafely(ctx, riskAgent, enriched, actx)
	}

	analysis := &CombinedAnalysis{
		OpportunityID: input.OpportunityID,
		Results:       results,
		AgentsUsed:    o.EnabledAgents(),
		Confidence:    combinedConfidence(results),
		Duration:      time.Since(start),
		GeneratedAt:   time.Now().UTC(),
	}

	o.log.Infof("analysis complete: %d agents, confidence %d, took %s",
		len(results), analysis.Confidence, analysis.Duration)
	return analysis, nil
}

// runSafely executes one agent, converting panics and hard errors into an
// invalid result so the orchestration can aggregate whatever it got.
func (o *Orchestrator) runSafely(ctx context.Context, agent Agent, input AgentInput, actx *AgentContext) (result *AgentResult) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("agent %s panicked: %v\n%s", agent.Name(), r, debug.Stack())
			result = &AgentResult{
				Agent:   agent.Name(),
				IsValid: false,
				Errors:  []string{fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()

	result, err := agent.Execute(ctx, input, actx)
	if err != nil {
		o.log.Errorf("agent %s failed: %v", agent.Name(), err)
		return &AgentResult{
			Agent:   agent.Name(),
			IsValid: false,
			Errors:  []string{err.Error()},
		}
	}
	return result
}

// contextFor fills in configured defaults for a missing or partial context.
func (o *Orchestrator) contextFor(actx *AgentContext) *AgentContext {
	if actx == nil {
		actx = &AgentContext{}
	}
	if actx.Depth == "" {
		actx.Depth = o.cfg.AnalysisDepth
	}
	if actx.MaxDuration == 0 {
		actx.MaxDuration = o.cfg.ExecutionTimeout
	}
	return actx
}

// injectRiskContext clones the input and feeds phase-one findings into the
// risk assessment's view: projected revenue from financial modeling, skill
// gaps from founder fit. Caller-supplied hints are never overwritten.
func injectRiskContext(input AgentInput, results map[AgentName]*AgentResult) AgentInput {
	if fm, ok := results[AgentFinancialModeling]; ok && fm.IsValid {
		if out, ok := fm.Output.(*schemas.FinancialModelOutput); ok && input.FinancialProjections == nil {
			projections := &FinancialProjections{
				InitialInvestmentUSD: out.Funding.RequiredUSD,
			}
			if len(out.Projections) > 0 {
				projections.RevenueYearOneUSD = out.Projections[0].RevenueUSD
			}
			if len(out.Projections) >= 3 {
				projections.RevenueYearThreeUSD = out.Projections[2].RevenueUSD
			}
			input.FinancialProjections = projections
		}
	}

	if ff, ok := results[AgentFounderFit]; ok && ff.IsValid {
		if out, ok := ff.Output.(*schemas.FounderFitOutput); ok && len(out.SkillsAnalysis.SkillGaps) > 0 {
			profile := &TeamProfile{}
			if input.TeamProfile != nil {
				clone := *input.TeamProfile
				profile = &clone
			}
			known := make(map[string]bool, len(profile.MissingSkills))
			for _, skill := range profile.MissingSkills {
				known[skill] = true
			}
			for _, gap := range out.SkillsAnalysis.SkillGaps {
				if !known[gap.Skill] {
					profile.MissingSkills = append(profile.MissingSkills, gap.Skill)
				}
			}
			input.TeamProfile = profile
		}
	}

	return input
}

// combinedConfidence is the rounded mean of the overall confidence of every
// valid result. All-invalid runs score zero.
func combinedConfidence(results map[AgentName]*AgentResult) int {
	sum, n := 0, 0
	for _, result := range results {
		if result != nil && result.IsValid {
			sum += result.Confidence.Overall
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
