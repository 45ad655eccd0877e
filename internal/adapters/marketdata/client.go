package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"ideascope/internal/adapters/config"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

// Request describes one data fetch. Type selects the dataset
// ("category_keywords", "market_comparables", "funding_rounds"); Params are
// dataset-specific filters.
type Request struct {
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params"`
}

// Result carries the fetched payload. Success is false when the upstream
// answered but had no data for the query.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
}

// Provider is the data-source contract agents consult to enrich prompts.
// Failures are never fatal to an analysis; callers log and continue.
type Provider interface {
	FetchData(ctx context.Context, req Request) (*Result, error)
}

// Client is an HTTP implementation of Provider against the market data API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a market data client. Returns nil when the source is
// disabled so callers can nil-check instead of branching on config.
func NewClient(cfg config.DataSourceConfig) *Client {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger.Get().With("component", "marketdata"),
	}
}

// FetchData posts the query to the data API and decodes the result.
func (c *Client) FetchData(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal data request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/data", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create data request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDataSourceUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read data response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrDataSourceUnavailable, "data API returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, "unmarshal data response")
	}

	return &result, nil
}
