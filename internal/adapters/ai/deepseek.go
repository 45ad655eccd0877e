package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ideascope/pkg/errors"
)

const deepseekAPIURL = "https://api.deepseek.com/v1/chat/completions"

// Ensure DeepSeekProvider implements Gateway
var _ Gateway = (*DeepSeekProvider)(nil)

// DeepSeekProvider calls the DeepSeek API, which is OpenAI-compatible.
type DeepSeekProvider struct {
	apiKey      string
	model       string
	timeout     time.Duration
	rateLimiter *RateLimiter
	client      *http.Client
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, timeout time.Duration, limiter *RateLimiter) *DeepSeekProvider {
	return &DeepSeekProvider{
		apiKey:      apiKey,
		model:       model,
		timeout:     timeout,
		rateLimiter: limiter,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name returns provider name.
func (p *DeepSeekProvider) Name() string { return string(ProviderNameDeepSeek) }

// Generate sends a single-turn chat completion request.
func (p *DeepSeekProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if p.apiKey == "" {
		return nil, errors.Wrap(errors.ErrProviderUnavailable, "deepseek API key not configured")
	}

	if p.rateLimiter != nil {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Wire format is OpenAI-compatible, so reuse the OpenAI types and
	// transport with a different endpoint.
	proxy := &OpenAIProvider{
		apiKey:  p.apiKey,
		model:   p.model,
		timeout: p.timeout,
		client:  p.client,
	}

	req := openAIRequest{
		Model:       p.model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}
	if opts.Format == FormatJSON {
		req.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
		req.Messages[0].Content = prompt + jsonInstruction
	}

	start := time.Now()
	respBody, err := proxy.post(ctx, deepseekAPIURL, req)
	if err != nil {
		return nil, err
	}

	var resp openAIResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, errors.Wrap(err, "unmarshal deepseek response")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(errors.ErrExternal, "deepseek returned no choices")
	}

	return &GenerateResult{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		Duration:     time.Since(start),
	}, nil
}
