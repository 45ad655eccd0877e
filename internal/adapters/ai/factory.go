package ai

import (
	"ideascope/internal/adapters/config"
	"ideascope/pkg/errors"
)

// NewGateway constructs the configured provider. Returns
// ErrProviderUnavailable when no usable provider is configured, which the
// caller treats as "run on fallbacks only".
func NewGateway(cfg config.AIConfig) (Gateway, error) {
	switch ProviderName(cfg.DefaultProvider) {
	case ProviderNameOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, errors.Wrap(errors.ErrProviderUnavailable, "openai selected but OPENAI_API_KEY is empty")
		}
		limiter := NewRateLimiter(ProviderNameOpenAI, cfg.RequestsPerMin)
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.RequestTimeout, limiter), nil

	case ProviderNameClaude:
		if cfg.ClaudeKey == "" {
			return nil, errors.Wrap(errors.ErrProviderUnavailable, "claude selected but CLAUDE_API_KEY is empty")
		}
		limiter := NewRateLimiter(ProviderNameClaude, cfg.RequestsPerMin)
		return NewClaudeProvider(cfg.ClaudeKey, cfg.Model, cfg.RequestTimeout, limiter), nil

	case ProviderNameDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, errors.Wrap(errors.ErrProviderUnavailable, "deepseek selected but DEEPSEEK_API_KEY is empty")
		}
		limiter := NewRateLimiter(ProviderNameDeepSeek, cfg.RequestsPerMin)
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg.Model, cfg.RequestTimeout, limiter), nil

	default:
		return nil, errors.Wrapf(errors.ErrProviderUnavailable, "unknown provider %q", cfg.DefaultProvider)
	}
}
