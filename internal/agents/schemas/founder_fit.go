package schemas

// FounderFitOutput is the structured result of the founder fit agent.
type FounderFitOutput struct {
	SkillsAnalysis      SkillsAnalysis      `json:"skillsAnalysis"`
	ExperienceRelevance ExperienceRelevance `json:"experienceRelevance"`
	CommitmentSignals   CommitmentSignals   `json:"commitmentSignals"`
	NetworkAndResources NetworkAndResources `json:"networkAndResources"`
	DevelopmentPlan     []DevelopmentAction `json:"developmentPlan"`
	OverallFitScore     int                 `json:"overallFitScore"`
	Confidence          ConfidenceBreakdown `json:"confidence"`
}

// SkillsAnalysis maps founder skills against what the idea demands.
type SkillsAnalysis struct {
	CoreSkills        []SkillAssessment `json:"coreSkills"`
	SkillGaps         []SkillGap        `json:"skillGaps"`
	OverallSkillScore int               `json:"overallSkillScore"`
}

// SkillAssessment rates one present skill.
type SkillAssessment struct {
	Skill     string `json:"skill"`
	Level     string `json:"level"`     // novice | intermediate | advanced | expert
	Relevance string `json:"relevance"` // low | medium | high | critical
}

// SkillGap names a missing skill and how to cover it.
type SkillGap struct {
	Skill      string `json:"skill"`
	Severity   string `json:"severity"` // minor | moderate | critical
	Mitigation string `json:"mitigation"`
}

// ExperienceRelevance rates how past experience maps to the venture.
type ExperienceRelevance struct {
	Score              int      `json:"score"`
	DomainYears        int      `json:"domainYears"`
	StartupExperience  bool     `json:"startupExperience"`
	RelevantHighlights []string `json:"relevantHighlights"`
}

// CommitmentSignals rates founder commitment.
type CommitmentSignals struct {
	Score                 int      `json:"score"`
	TimeCommitment        string   `json:"timeCommitment"` // full-time | part-time | side-project
	FinancialRunwayMonths int      `json:"financialRunwayMonths"`
	MotivationFactors     []string `json:"motivationFactors"`
}

// NetworkAndResources rates access to people and capital.
type NetworkAndResources struct {
	Score               int    `json:"score"`
	IndustryConnections string `json:"industryConnections"` // weak | moderate | strong
	AdvisorAccess       bool   `json:"advisorAccess"`
	CapitalAccess       string `json:"capitalAccess"` // none | limited | moderate | strong
}

// DevelopmentAction is one step of the founder development plan.
type DevelopmentAction struct {
	Priority       int    `json:"priority"`
	Area           string `json:"area"`
	Action         string `json:"action"`
	TimelineMonths int    `json:"timelineMonths"`
}

// Stage schemas for the founder fit pipeline.

const SkillsAnalysisSchema = `{
	"type": "object",
	"properties": {
		"coreSkills": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"skill": {"type": "string", "minLength": 1},
					"level": {"type": "string", "enum": ["novice", "intermediate", "advanced", "expert"]},
					"relevance": {"type": "string", "enum": ["low", "medium", "high", "critical"]}
				},
				"required": ["skill", "level", "relevance"]
			}
		},
		"skillGaps": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"skill": {"type": "string", "minLength": 1},
					"severity": {"type": "string", "enum": ["minor", "moderate", "critical"]},
					"mitigation": {"type": "string"}
				},
				"required": ["skill", "severity"]
			}
		},
		"overallSkillScore": {"type": "integer", "minimum": 0, "maximum": 100}
	},
	"required": ["coreSkills", "skillGaps", "overallSkillScore"]
}`

const ExperienceRelevanceSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "integer", "minimum": 0, "maximum": 100},
		"domainYears": {"type": "integer", "minimum": 0},
		"startupExperience": {"type": "boolean"},
		"relevantHighlights": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["score", "domainYears", "startupExperience", "relevantHighlights"]
}`

const CommitmentSignalsSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "integer", "minimum": 0, "maximum": 100},
		"timeCommitment": {"type": "string", "enum": ["full-time", "part-time", "side-project"]},
		"financialRunwayMonths": {"type": "integer", "minimum": 0},
		"motivationFactors": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["score", "timeCommitment", "financialRunwayMonths", "motivationFactors"]
}`

const NetworkAndResourcesSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "integer", "minimum": 0, "maximum": 100},
		"industryConnections": {"type": "string", "enum": ["weak", "moderate", "strong"]},
		"advisorAccess": {"type": "boolean"},
		"capitalAccess": {"type": "string", "enum": ["none", "limited", "moderate", "strong"]}
	},
	"required": ["score", "industryConnections", "advisorAccess", "capitalAccess"]
}`

const DevelopmentPlanSchema = `{
	"type": "object",
	"properties": {
		"developmentPlan": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"priority": {"type": "integer", "minimum": 1},
					"area": {"type": "string", "minLength": 1},
					"action": {"type": "string", "minLength": 1},
					"timelineMonths": {"type": "integer", "minimum": 1}
				},
				"required": ["priority", "area", "action", "timelineMonths"]
			}
		}
	},
	"required": ["developmentPlan"]
}`

// FounderFitOutputSchema validates the fully assembled output.
var FounderFitOutputSchema = `{
	"type": "object",
	"properties": {
		"skillsAnalysis": ` + SkillsAnalysisSchema + `,
		"experienceRelevance": ` + ExperienceRelevanceSchema + `,
		"commitmentSignals": ` + CommitmentSignalsSchema + `,
		"networkAndResources": ` + NetworkAndResourcesSchema + `,
		"developmentPlan": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"priority": {"type": "integer", "minimum": 1},
					"area": {"type": "string"},
					"action": {"type": "string"}
				},
				"required": ["priority", "area", "action"]
			}
		},
		"overallFitScore": {"type": "integer", "minimum": 0, "maximum": 100},
		"confidence": ` + confidenceSchema + `
	},
	"required": ["skillsAnalysis", "experienceRelevance", "commitmentSignals", "networkAndResources", "overallFitScore", "confidence"]
}`
