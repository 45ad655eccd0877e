package agents

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"ideascope/internal/agents/schemas"
	"ideascope/pkg/errors"
)

// AgentName identifies one analysis agent.
type AgentName string

const (
	AgentMarketResearch    AgentName = "market_research"
	AgentFinancialModeling AgentName = "financial_modeling"
	AgentFounderFit        AgentName = "founder_fit"
	AgentRiskAssessment    AgentName = "risk_assessment"
)

// AllAgents lists every agent in orchestration order.
var AllAgents = []AgentName{
	AgentMarketResearch,
	AgentFinancialModeling,
	AgentFounderFit,
	AgentRiskAssessment,
}

// ParseAgentName validates an agent name string.
func ParseAgentName(s string) (AgentName, error) {
	for _, name := range AllAgents {
		if string(name) == s {
			return name, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUnknownAgent, "%q", s)
}

// AgentInput is the caller-constructed description of one opportunity.
// It is immutable during one execution. Optional hint fields may be nil;
// every consumer supplies defaults.
type AgentInput struct {
	OpportunityID string `json:"opportunityId,omitempty"`
	Title         string `json:"title" validate:"required,min=3"`
	IdeaText      string `json:"ideaText" validate:"required,min=30"`
	Category      string `json:"category" validate:"required,min=2"`

	TargetMarket         *TargetMarket         `json:"targetMarket,omitempty"`
	TeamProfile          *TeamProfile          `json:"teamProfile,omitempty"`
	FinancialProjections *FinancialProjections `json:"financialProjections,omitempty"`
	Preferences          *Preferences          `json:"preferences,omitempty"`
}

// TargetMarket is an optional hint about the intended market.
type TargetMarket struct {
	Region         string   `json:"region,omitempty"`
	SegmentHints   []string `json:"segmentHints,omitempty"`
	EstimatedUsers int      `json:"estimatedUsers,omitempty"`
}

// TeamProfile is an optional hint about the founding team.
type TeamProfile struct {
	FounderCount    int      `json:"founderCount,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	MissingSkills   []string `json:"missingSkills,omitempty"`
	YearsExperience int      `json:"yearsExperience,omitempty"`
	FullTime        bool     `json:"fullTime,omitempty"`
}

// FinancialProjections is an optional hint with caller-supplied figures.
// The orchestrator also injects the financial modeling agent's projection
// here before risk assessment runs.
type FinancialProjections struct {
	RevenueYearOneUSD    float64 `json:"revenueYearOneUsd,omitempty"`
	RevenueYearThreeUSD  float64 `json:"revenueYearThreeUsd,omitempty"`
	InitialInvestmentUSD float64 `json:"initialInvestmentUsd,omitempty"`
}

// Preferences carries user analysis preferences.
type Preferences struct {
	RiskTolerance     string `json:"riskTolerance,omitempty"`
	FundingPreference string `json:"fundingPreference,omitempty"`
}

// AgentContext carries ambient execution parameters for one run.
// It is passed by reference through one execution and never mutated.
type AgentContext struct {
	Depth       string        // quick | standard | deep
	MaxDuration time.Duration // 0 = use configured default
	DataSources []string      // enabled data-source names
}

// DataSourceEnabled reports whether a named data source may be consulted.
// An absent list imposes no restriction; whether enrichment happens at all
// is governed by whether a data provider is wired. A non-empty list limits
// enrichment to the named sources.
func (c *AgentContext) DataSourceEnabled(name string) bool {
	if c == nil || len(c.DataSources) == 0 {
		return true
	}
	for _, ds := range c.DataSources {
		if ds == name {
			return true
		}
	}
	return false
}

// ExecStats accumulates telemetry across one agent execution.
type ExecStats struct {
	TokensUsed     int
	LLMCalls       int
	FallbackStages []string
	DataEnriched   bool
}

// UsedFallback reports whether any stage fell back to its deterministic output.
func (s *ExecStats) UsedFallback() bool {
	return len(s.FallbackStages) > 0
}

// FellBack reports whether one named stage was substituted.
func (s *ExecStats) FellBack(stage string) bool {
	for _, fb := range s.FallbackStages {
		if fb == stage {
			return true
		}
	}
	return false
}

// ResultMetadata describes how a result was produced.
type ResultMetadata struct {
	Duration       time.Duration `json:"duration"`
	TokensUsed     int           `json:"tokensUsed,omitempty"`
	CacheHit       bool          `json:"cacheHit,omitempty"`
	FallbackStages []string      `json:"fallbackStages,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// AgentResult is the uniform result envelope returned by every agent.
type AgentResult struct {
	Agent      AgentName                   `json:"agent"`
	Output     interface{}                 `json:"output,omitempty"`
	Confidence schemas.ConfidenceBreakdown `json:"confidence"`
	IsValid    bool                        `json:"isValid"`
	Errors     []string                    `json:"errors,omitempty"`
	Metadata   ResultMetadata              `json:"metadata"`
}

// Agent is the uniform execution contract the orchestrator depends on.
type Agent interface {
	Name() AgentName
	Execute(ctx context.Context, input AgentInput, actx *AgentContext) (*AgentResult, error)
}

var inputValidator = validator.New()

// ValidateInput runs structural validation and returns field-level messages.
// Callers that reject bad input before running agents use the same rules the
// agents themselves enforce.
func ValidateInput(input AgentInput) []string {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, errors.NewValidationError(fe.Field(), "failed "+fe.Tag()+" constraint", fe.Value()).Error())
	}
	return msgs
}
