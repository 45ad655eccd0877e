package agents

import (
	"context"
	"encoding/json"
	"time"

	"ideascope/internal/adapters/ai"
	"ideascope/internal/adapters/config"
	"ideascope/internal/adapters/marketdata"
	"ideascope/internal/agents/schemas"
	"ideascope/internal/metrics"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

// Analysis depth levels. Depth tunes generation parameters, never the
// output contract.
const (
	DepthQuick    = "quick"
	DepthStandard = "standard"
	DepthDeep     = "deep"
)

// Cache is the subset of the Redis client agents need. A nil Cache
// disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Deps bundles the shared dependencies every agent is constructed with.
type Deps struct {
	Gateway ai.Gateway
	Cache   Cache
	Data    marketdata.Provider // nil when no data source is configured
	Config  config.AgentsConfig
}

// processFunc is one agent's pipeline. It always produces an output:
// individual stage failures are absorbed by deterministic fallbacks, so the
// only errors that escape an execution are input validation and cancellation.
type processFunc func(ctx context.Context, input AgentInput, actx *AgentContext, stats *ExecStats) (interface{}, schemas.ConfidenceBreakdown)

// qaFunc inspects the assembled output and returns human-readable warnings.
type qaFunc func(output interface{}) []string

// base carries the shared execution lifecycle. Concrete agents embed it and
// hand their pipeline to execute.
type base struct {
	name AgentName
	deps Deps
	log  *logger.Logger
}

func newBase(name AgentName, deps Deps) base {
	return base{
		name: name,
		deps: deps,
		log:  logger.Get().With("agent", string(name)),
	}
}

// execute runs the uniform lifecycle: validate input, consult the cache, run
// the pipeline, validate the assembled output against the agent schema, apply
// quality checks, then store the result for reuse.
func (b *base) execute(
	ctx context.Context,
	input AgentInput,
	actx *AgentContext,
	outputSchema string,
	fresh func() interface{},
	process processFunc,
	qa qaFunc,
) (*AgentResult, error) {
	start := time.Now()

	if msgs := ValidateInput(input); len(msgs) > 0 {
		metrics.AgentExecutions.WithLabelValues(string(b.name), "invalid").Inc()
		return &AgentResult{
			Agent:    b.name,
			IsValid:  false,
			Errors:   msgs,
			Metadata: ResultMetadata{Duration: time.Since(start)},
		}, nil
	}

	timeout := b.deps.Config.ExecutionTimeout
	if actx != nil && actx.MaxDuration > 0 {
		timeout = actx.MaxDuration
	}
	caller := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	key := CacheKey(b.name, input)
	if cached := b.cacheGet(ctx, key, fresh); cached != nil {
		cached.Metadata.Duration = time.Since(start)
		metrics.AgentExecutions.WithLabelValues(string(b.name), "ok").Inc()
		return cached, nil
	}

	stats := &ExecStats{}
	output, confidence := process(ctx, input, actx, stats)

	// The execution budget expiring is not terminal: the stages it cut off
	// fell back deterministically and a complete output exists. Only the
	// caller going away makes the result undeliverable.
	if err := caller.Err(); err != nil {
		metrics.AgentExecutions.WithLabelValues(string(b.name), "error").Inc()
		return nil, errors.Wrapf(errors.ErrTimeout, "agent %s: %v", b.name, err)
	}

	raw, err := json.Marshal(output)
	if err != nil {
		metrics.AgentExecutions.WithLabelValues(string(b.name), "error").Inc()
		return nil, errors.Wrapf(errors.ErrInternal, "agent %s: marshal output: %v", b.name, err)
	}

	if violations := schemas.Validate(raw, outputSchema); len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, v := range violations {
			msgs = append(msgs, v.Error())
		}
		b.log.Errorf("assembled output failed schema validation: %v", msgs)
		metrics.AgentExecutions.WithLabelValues(string(b.name), "invalid").Inc()
		return &AgentResult{
			Agent:   b.name,
			IsValid: false,
			Errors:  msgs,
			Metadata: ResultMetadata{
				Duration:       time.Since(start),
				TokensUsed:     stats.TokensUsed,
				FallbackStages: stats.FallbackStages,
			},
		}, nil
	}

	var warnings []string
	if qa != nil {
		warnings = qa(output)
	}
	if len(warnings) > 0 {
		confidence.Overall = schemas.ClampConfidence(confidence.Overall - 3*len(warnings))
		b.log.Warnf("quality checks flagged %d warning(s): %v", len(warnings), warnings)
	}

	// Only a run with no fallback substitutions represents the model's own
	// answer; caching degraded output would mask provider recovery.
	if !stats.UsedFallback() {
		b.cacheSet(ctx, key, cacheEntry{
			Output:     raw,
			Confidence: confidence,
			TokensUsed: stats.TokensUsed,
		})
	}

	duration := time.Since(start)
	metrics.AgentExecutions.WithLabelValues(string(b.name), "ok").Inc()
	metrics.AgentDuration.WithLabelValues(string(b.name)).Observe(duration.Seconds())
	metrics.AgentTokens.WithLabelValues(string(b.name)).Add(float64(stats.TokensUsed))

	return &AgentResult{
		Agent:      b.name,
		Output:     output,
		Confidence: confidence,
		IsValid:    true,
		Metadata: ResultMetadata{
			Duration:       duration,
			TokensUsed:     stats.TokensUsed,
			FallbackStages: stats.FallbackStages,
			Warnings:       warnings,
		},
	}, nil
}

// cacheGet returns a replayed result on hit, nil on miss or when caching is off.
func (b *base) cacheGet(ctx context.Context, key string, fresh func() interface{}) *AgentResult {
	if b.deps.Cache == nil || !b.deps.Config.CacheEnabled {
		return nil
	}

	var entry cacheEntry
	if err := b.deps.Cache.Get(ctx, key, &entry); err != nil {
		if !errors.Is(err, errors.ErrCacheMiss) {
			b.log.Warnf("cache read failed: %v", err)
		}
		metrics.AgentCacheHits.WithLabelValues(string(b.name), "miss").Inc()
		return nil
	}

	output := fresh()
	if err := json.Unmarshal(entry.Output, output); err != nil {
		b.log.Warnf("cache entry is unreadable, regenerating: %v", err)
		metrics.AgentCacheHits.WithLabelValues(string(b.name), "miss").Inc()
		return nil
	}

	metrics.AgentCacheHits.WithLabelValues(string(b.name), "hit").Inc()
	return &AgentResult{
		Agent:      b.name,
		Output:     output,
		Confidence: entry.Confidence,
		IsValid:    true,
		Metadata: ResultMetadata{
			TokensUsed: entry.TokensUsed,
			CacheHit:   true,
		},
	}
}

func (b *base) cacheSet(ctx context.Context, key string, entry cacheEntry) {
	if b.deps.Cache == nil || !b.deps.Config.CacheEnabled {
		return
	}
	ttl := b.deps.Config.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := b.deps.Cache.Set(ctx, key, entry, ttl); err != nil {
		b.log.Warnf("cache write failed: %v", err)
	}
}

// callJSON runs one LLM stage: generate in JSON mode, extract the document,
// validate it against the stage schema, decode into dest.
func (b *base) callJSON(ctx context.Context, prompt, stageSchema string, dest interface{}, opts ai.GenerateOptions, stats *ExecStats) error {
	if b.deps.Gateway == nil {
		return errors.Wrap(errors.ErrProviderUnavailable, "no gateway configured")
	}
	opts.Format = ai.FormatJSON

	res, err := b.deps.Gateway.Generate(ctx, prompt, opts)
	if err != nil {
		metrics.LLMRequests.WithLabelValues(b.deps.Gateway.Name(), "error").Inc()
		return err
	}
	metrics.LLMRequests.WithLabelValues(b.deps.Gateway.Name(), "ok").Inc()

	stats.LLMCalls++
	stats.TokensUsed += res.TokensUsed()

	return schemas.DecodeAndValidate(res.Text, stageSchema, dest)
}

// noteFallback records that a stage was substituted by deterministic output.
func (b *base) noteFallback(stats *ExecStats, stage string, err error) {
	stats.FallbackStages = append(stats.FallbackStages, stage)
	metrics.AgentFallbacks.WithLabelValues(string(b.name), stage).Inc()
	b.log.Warnf("stage %s fell back to deterministic output: %v", stage, err)
}

// genOptions maps the analysis depth to generation parameters.
func (b *base) genOptions(actx *AgentContext) ai.GenerateOptions {
	opts := ai.GenerateOptions{
		Format:      ai.FormatJSON,
		Temperature: 0.4,
		MaxTokens:   b.deps.Config.MaxTokens,
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	depth := DepthStandard
	if actx != nil && actx.Depth != "" {
		depth = actx.Depth
	}
	switch depth {
	case DepthQuick:
		opts.Temperature = 0.2
		if opts.MaxTokens > 2048 {
			opts.MaxTokens = 2048
		}
	case DepthDeep:
		opts.Temperature = 0.6
	}
	return opts
}

// enrich fetches external context for prompt grounding. Best effort: any
// failure logs and returns nil so analysis proceeds on the idea text alone.
func (b *base) enrich(ctx context.Context, actx *AgentContext, stats *ExecStats, reqType string, params map[string]interface{}) map[string]interface{} {
	if b.deps.Data == nil || !actx.DataSourceEnabled(reqType) {
		return nil
	}

	res, err := b.deps.Data.FetchData(ctx, marketdata.Request{Type: reqType, Params: params})
	if err != nil {
		b.log.Debugf("data source %s unavailable: %v", reqType, err)
		return nil
	}
	if !res.Success || len(res.Data) == 0 {
		return nil
	}

	stats.DataEnriched = true
	return res.Data
}
