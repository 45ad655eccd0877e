package schemas

// Risk impact and probability levels with their weights. The contribution of
// each risk to the overall score is riskScore × impactWeight × probabilityWeight,
// normalized by the sum of weights.

// ImpactWeights maps impact levels to their scoring weight.
var ImpactWeights = map[string]float64{
	"Critical": 1.5,
	"High":     1.3,
	"Medium":   1.0,
	"Low":      0.7,
}

// ProbabilityWeights maps probability levels to their scoring weight.
var ProbabilityWeights = map[string]float64{
	"Very High": 1.4,
	"High":      1.2,
	"Medium":    1.0,
	"Low":       0.8,
}

// Risk profile buckets over the overall risk score.
const (
	RiskProfileLow      = "Low"
	RiskProfileModerate = "Moderate"
	RiskProfileHigh     = "High"
	RiskProfileExtreme  = "Extreme"
)

// RiskProfileFor buckets an overall risk score into a profile.
func RiskProfileFor(overall float64) string {
	switch {
	case overall >= 80:
		return RiskProfileExtreme
	case overall >= 65:
		return RiskProfileHigh
	case overall >= 40:
		return RiskProfileModerate
	default:
		return RiskProfileLow
	}
}

// RiskAssessmentOutput is the structured result of the risk assessment agent.
type RiskAssessmentOutput struct {
	OverallRiskScore     float64              `json:"overallRiskScore"`
	RiskProfile          string               `json:"riskProfile"`
	RiskCategories       []RiskCategory       `json:"riskCategories"`
	MitigationStrategies []MitigationStrategy `json:"mitigationStrategies"`
	Scenarios            []RiskScenario       `json:"scenarios"`
	Monitoring           MonitoringFramework  `json:"monitoring"`
	Recommendations      []string             `json:"recommendations"`
	Confidence           ConfidenceBreakdown  `json:"confidence"`
}

// RiskCategory is one identified risk.
type RiskCategory struct {
	Category    string   `json:"category"` // market | financial | technical | operational | legal | team
	Description string   `json:"description"`
	Impact      string   `json:"impact"`      // Critical | High | Medium | Low
	Probability string   `json:"probability"` // Very High | High | Medium | Low
	RiskScore   float64  `json:"riskScore"`   // 1-100
	Indicators  []string `json:"indicators"`
}

// WeightedScore returns the risk's contribution and its combined weight.
func (r RiskCategory) WeightedScore() (contribution, weight float64) {
	wi, ok := ImpactWeights[r.Impact]
	if !ok {
		wi = 1.0
	}
	wp, ok := ProbabilityWeights[r.Probability]
	if !ok {
		wp = 1.0
	}
	weight = wi * wp
	return r.RiskScore * weight, weight
}

// OverallRiskScore computes the weighted overall score across categories,
// clamped to [10,95]. Empty input yields the floor.
func OverallRiskScore(categories []RiskCategory) float64 {
	if len(categories) == 0 {
		return 10
	}

	var sum, weights float64
	for _, cat := range categories {
		contribution, weight := cat.WeightedScore()
		sum += contribution
		weights += weight
	}
	if weights == 0 {
		return 10
	}
	return ClampRiskScore(sum / weights)
}

// MitigationStrategy addresses one identified risk.
type MitigationStrategy struct {
	RiskCategory     string `json:"riskCategory"`
	Strategy         string `json:"strategy"`
	EffectivenessPct int    `json:"effectivenessPct"`
	TimelineMonths   int    `json:"timelineMonths"`
	Cost             string `json:"cost"` // low | medium | high
}

// RiskScenario is one downside scenario.
type RiskScenario struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	TriggerEvents   []string `json:"triggerEvents"`
	ImpactSeverity  string   `json:"impactSeverity"` // Critical | High | Medium | Low
	ContingencyPlan string   `json:"contingencyPlan"`
}

// MonitoringFramework describes how risks are tracked over time.
type MonitoringFramework struct {
	ReviewCadence  string                `json:"reviewCadence"` // weekly | monthly | quarterly
	KeyIndicators  []MonitoringIndicator `json:"keyIndicators"`
	EscalationPath string                `json:"escalationPath"`
}

// MonitoringIndicator is one tracked signal.
type MonitoringIndicator struct {
	Indicator string `json:"indicator"`
	Threshold string `json:"threshold"`
	Frequency string `json:"frequency"`
}

// Stage schemas for the risk assessment pipeline.

const RiskIdentificationSchema = `{
	"type": "object",
	"properties": {
		"riskCategories": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"category": {"type": "string", "enum": ["market", "financial", "technical", "operational", "legal", "team"]},
					"description": {"type": "string", "minLength": 1},
					"impact": {"type": "string", "enum": ["Critical", "High", "Medium", "Low"]},
					"probability": {"type": "string", "enum": ["Very High", "High", "Medium", "Low"]},
					"riskScore": {"type": "number", "minimum": 1, "maximum": 100},
					"indicators": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["category", "description", "impact", "probability", "riskScore"]
			}
		}
	},
	"required": ["riskCategories"]
}`

const MitigationStrategiesSchema = `{
	"type": "object",
	"properties": {
		"mitigationStrategies": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"riskCategory": {"type": "string", "minLength": 1},
					"strategy": {"type": "string", "minLength": 1},
					"effectivenessPct": {"type": "integer", "minimum": 0, "maximum": 100},
					"timelineMonths": {"type": "integer", "minimum": 0},
					"cost": {"type": "string", "enum": ["low", "medium", "high"]}
				},
				"required": ["riskCategory", "strategy", "effectivenessPct", "cost"]
			}
		}
	},
	"required": ["mitigationStrategies"]
}`

const RiskScenariosSchema = `{
	"type": "object",
	"properties": {
		"scenarios": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string", "minLength": 1},
					"triggerEvents": {"type": "array", "items": {"type": "string"}},
					"impactSeverity": {"type": "string", "enum": ["Critical", "High", "Medium", "Low"]},
					"contingencyPlan": {"type": "string"}
				},
				"required": ["name", "description", "impactSeverity"]
			}
		}
	},
	"required": ["scenarios"]
}`

const MonitoringFrameworkSchema = `{
	"type": "object",
	"properties": {
		"reviewCadence": {"type": "string", "enum": ["weekly", "monthly", "quarterly"]},
		"keyIndicators": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"indicator": {"type": "string", "minLength": 1},
					"threshold": {"type": "string"},
					"frequency": {"type": "string"}
				},
				"required": ["indicator"]
			}
		},
		"escalationPath": {"type": "string"},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["reviewCadence", "keyIndicators", "recommendations"]
}`

// RiskAssessmentOutputSchema validates the fully assembled output.
var RiskAssessmentOutputSchema = `{
	"type": "object",
	"properties": {
		"overallRiskScore": {"type": "number", "minimum": 10, "maximum": 95},
		"riskProfile": {"type": "string", "enum": ["Low", "Moderate", "High", "Extreme"]},
		"riskCategories": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"category": {"type": "string", "enum": ["market", "financial", "technical", "operational", "legal", "team"]},
					"impact": {"type": "string", "enum": ["Critical", "High", "Medium", "Low"]},
					"probability": {"type": "string", "enum": ["Very High", "High", "Medium", "Low"]},
					"riskScore": {"type": "number", "minimum": 1, "maximum": 100}
				},
				"required": ["category", "impact", "probability", "riskScore"]
			}
		},
		"mitigationStrategies": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"riskCategory": {"type": "string"},
					"strategy": {"type": "string"}
				},
				"required": ["riskCategory", "strategy"]
			}
		},
		"scenarios": {"type": "array"},
		"monitoring": {
			"type": "object",
			"properties": {
				"reviewCadence": {"type": "string", "enum": ["weekly", "monthly", "quarterly"]}
			},
			"required": ["reviewCadence"]
		},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"confidence": ` + confidenceSchema + `
	},
	"required": ["overallRiskScore", "riskProfile", "riskCategories", "mitigationStrategies", "monitoring", "confidence"]
}`
