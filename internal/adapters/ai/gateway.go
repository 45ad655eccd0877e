package ai

import (
	"context"
	"time"
)

// ResponseFormat is the formatting hint passed to the provider.
type ResponseFormat string

const (
	FormatJSON ResponseFormat = "json"
	FormatText ResponseFormat = "text"
)

// GenerateOptions controls a single generation request.
type GenerateOptions struct {
	Format      ResponseFormat
	Temperature float64
	MaxTokens   int
}

// GenerateResult carries the raw provider response plus usage telemetry.
type GenerateResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
	Duration     time.Duration
}

// TokensUsed returns the total token count for the round trip.
func (r *GenerateResult) TokensUsed() int {
	return r.InputTokens + r.OutputTokens
}

// Gateway is the contract every text-generation provider implements.
// When Format is FormatJSON the provider must instruct the model to emit
// strictly valid JSON; callers still validate the result against a schema.
type Gateway interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error)
}
