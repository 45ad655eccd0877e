package schemas

// MarketResearchOutput is the structured result of the market research agent.
type MarketResearchOutput struct {
	MarketOverview  MarketOverview      `json:"marketOverview"`
	Competitors     []Competitor        `json:"competitors"`
	TargetAudience  TargetAudience      `json:"targetAudience"`
	Trends          []MarketTrend       `json:"trends"`
	Opportunities   []string            `json:"opportunities"`
	Threats         []string            `json:"threats"`
	Recommendations []string            `json:"recommendations"`
	Confidence      ConfidenceBreakdown `json:"confidence"`
}

// MarketOverview summarizes the addressed market.
type MarketOverview struct {
	Size       string   `json:"size"`
	GrowthRate string   `json:"growthRate"`
	Maturity   string   `json:"maturity"` // emerging | growing | mature | declining
	KeyDrivers []string `json:"keyDrivers"`
}

// Competitor describes one player in the landscape.
type Competitor struct {
	Name        string   `json:"name"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	MarketShare string   `json:"marketShare"`
	ThreatLevel string   `json:"threatLevel"` // low | medium | high
}

// TargetAudience describes the customer segments.
type TargetAudience struct {
	Segments       []AudienceSegment `json:"segments"`
	PrimarySegment string            `json:"primarySegment"`
}

// AudienceSegment is one customer group.
type AudienceSegment struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Size        string   `json:"size"`
	PainPoints  []string `json:"painPoints"`
}

// MarketTrend is one observed market movement.
type MarketTrend struct {
	Name        string `json:"name"`
	Direction   string `json:"direction"` // rising | stable | declining
	Impact      string `json:"impact"`    // low | medium | high
	Opportunity string `json:"opportunity"`
}

// Stage schemas for the market research pipeline. Each stage's LLM response
// is validated against its own schema before being accepted.

const MarketOverviewSchema = `{
	"type": "object",
	"properties": {
		"size": {"type": "string", "minLength": 1},
		"growthRate": {"type": "string", "minLength": 1},
		"maturity": {"type": "string", "enum": ["emerging", "growing", "mature", "declining"]},
		"keyDrivers": {"type": "array", "items": {"type": "string"}, "minItems": 1}
	},
	"required": ["size", "growthRate", "maturity", "keyDrivers"]
}`

const CompetitorListSchema = `{
	"type": "object",
	"properties": {
		"competitors": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"strengths": {"type": "array", "items": {"type": "string"}},
					"weaknesses": {"type": "array", "items": {"type": "string"}},
					"marketShare": {"type": "string"},
					"threatLevel": {"type": "string", "enum": ["low", "medium", "high"]}
				},
				"required": ["name", "strengths", "weaknesses", "threatLevel"]
			}
		}
	},
	"required": ["competitors"]
}`

const TargetAudienceSchema = `{
	"type": "object",
	"properties": {
		"segments": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"size": {"type": "string"},
					"painPoints": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["name", "description", "painPoints"]
			}
		},
		"primarySegment": {"type": "string", "minLength": 1}
	},
	"required": ["segments", "primarySegment"]
}`

const MarketTrendsSchema = `{
	"type": "object",
	"properties": {
		"trends": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"direction": {"type": "string", "enum": ["rising", "stable", "declining"]},
					"impact": {"type": "string", "enum": ["low", "medium", "high"]},
					"opportunity": {"type": "string"}
				},
				"required": ["name", "direction", "impact"]
			}
		},
		"opportunities": {"type": "array", "items": {"type": "string"}},
		"threats": {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["trends", "opportunities", "threats", "recommendations"]
}`

// MarketResearchOutputSchema validates the fully assembled output.
var MarketResearchOutputSchema = `{
	"type": "object",
	"properties": {
		"marketOverview": ` + MarketOverviewSchema + `,
		"competitors": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"threatLevel": {"type": "string", "enum": ["low", "medium", "high"]}
				},
				"required": ["name", "threatLevel"]
			}
		},
		"targetAudience": ` + TargetAudienceSchema + `,
		"trends": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"direction": {"type": "string", "enum": ["rising", "stable", "declining"]},
					"impact": {"type": "string", "enum": ["low", "medium", "high"]}
				},
				"required": ["name", "direction", "impact"]
			}
		},
		"opportunities": {"type": "array", "items": {"type": "string"}},
		"threats": {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"confidence": ` + confidenceSchema + `
	},
	"required": ["marketOverview", "competitors", "targetAudience", "trends", "confidence"]
}`
