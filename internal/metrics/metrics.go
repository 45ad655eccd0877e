package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AgentExecutions counts agent runs by agent and outcome (ok, invalid, error).
	AgentExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "agents",
		Name:      "executions_total",
		Help:      "Agent executions by agent and outcome",
	}, []string{"agent", "outcome"})

	// AgentDuration observes wall-clock execution time per agent.
	AgentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ideascope",
		Subsystem: "agents",
		Name:      "execution_duration_seconds",
		Help:      "Agent execution latency",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"agent"})

	// AgentTokens counts LLM tokens consumed per agent.
	AgentTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "agents",
		Name:      "tokens_total",
		Help:      "LLM tokens consumed per agent",
	}, []string{"agent"})

	// AgentCacheHits counts cache lookups by agent and result (hit, miss).
	AgentCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "agents",
		Name:      "cache_lookups_total",
		Help:      "Agent cache lookups by result",
	}, []string{"agent", "result"})

	// AgentFallbacks counts stages that fell back to deterministic output.
	AgentFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "agents",
		Name:      "fallback_stages_total",
		Help:      "Pipeline stages substituted by fallback output",
	}, []string{"agent", "stage"})

	// LLMRequests counts provider round trips by provider and status.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "LLM provider requests by status",
	}, []string{"provider", "status"})

	// AnalysisRequests counts read-through analysis requests by source tier.
	AnalysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideascope",
		Subsystem: "analysis",
		Name:      "requests_total",
		Help:      "Analysis requests by serving tier (database, generated, sample)",
	}, []string{"source"})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
