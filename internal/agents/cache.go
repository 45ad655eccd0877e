package agents

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"ideascope/internal/agents/schemas"
)

// cacheEntry is what one agent stores per input. The output is kept as raw
// JSON so a hit round-trips byte-identically regardless of the agent type.
type cacheEntry struct {
	Output     json.RawMessage             `json:"output"`
	Confidence schemas.ConfidenceBreakdown `json:"confidence"`
	TokensUsed int                         `json:"tokensUsed,omitempty"`
}

// CacheKey derives a deterministic key from the agent name and the
// semantically relevant input fields. Text fields are whitespace-normalized
// so incidental formatting differences do not defeat the cache.
func CacheKey(agent AgentName, input AgentInput) string {
	payload := struct {
		Agent                string                `json:"agent"`
		Title                string                `json:"title"`
		IdeaText             string                `json:"ideaText"`
		Category             string                `json:"category"`
		TargetMarket         *TargetMarket         `json:"targetMarket,omitempty"`
		TeamProfile          *TeamProfile          `json:"teamProfile,omitempty"`
		FinancialProjections *FinancialProjections `json:"financialProjections,omitempty"`
		Preferences          *Preferences          `json:"preferences,omitempty"`
	}{
		Agent:                string(agent),
		Title:                normalizeText(input.Title),
		IdeaText:             normalizeText(input.IdeaText),
		Category:             normalizeText(input.Category),
		TargetMarket:         input.TargetMarket,
		TeamProfile:          input.TeamProfile,
		FinancialProjections: input.FinancialProjections,
		Preferences:          input.Preferences,
	}

	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return "agent:" + string(agent) + ":" + hex.EncodeToString(sum[:])
}

// normalizeText lowercases and collapses runs of whitespace to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
