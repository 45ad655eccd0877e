package schemas

// FinancialModelOutput is the structured result of the financial modeling agent.
type FinancialModelOutput struct {
	MarketSizing  MarketSizing        `json:"marketSizing"`
	RevenueModel  RevenueModel        `json:"revenueModel"`
	UnitEconomics UnitEconomics       `json:"unitEconomics"`
	Projections   []YearProjection    `json:"projections"`
	Funding       FundingAnalysis     `json:"funding"`
	Confidence    ConfidenceBreakdown `json:"confidence"`
}

// MarketSizing holds the nested TAM/SAM/SOM estimates. SOM is bounded as a
// market-share fraction of SAM over the stated timeframe.
type MarketSizing struct {
	TAM               MarketEstimate `json:"tam"`
	SAM               MarketEstimate `json:"sam"`
	SOM               MarketEstimate `json:"som"`
	Methodology       string         `json:"methodology"`
	TimeframeYears    int            `json:"timeframeYears"`
	SOMMarketSharePct float64        `json:"somMarketSharePct"`
}

// MarketEstimate is one market-size figure in USD.
type MarketEstimate struct {
	ValueUSD float64 `json:"valueUsd"`
	Basis    string  `json:"basis"`
}

// RevenueModel describes how the business earns.
type RevenueModel struct {
	PrimaryModel    string          `json:"primaryModel"` // subscription | transactional | freemium | advertising | licensing | marketplace
	Streams         []RevenueStream `json:"streams"`
	PricingStrategy string          `json:"pricingStrategy"`
}

// RevenueStream is one revenue source.
type RevenueStream struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SharePct    float64 `json:"sharePct"`
}

// UnitEconomics summarizes per-customer economics.
type UnitEconomics struct {
	CACUSD          float64 `json:"cacUsd"`
	LTVUSD          float64 `json:"ltvUsd"`
	LTVToCACRatio   float64 `json:"ltvToCacRatio"`
	GrossMarginPct  float64 `json:"grossMarginPct"`
	BreakEvenMonths int     `json:"breakEvenMonths"`
}

// YearProjection is one year of the financial projection.
type YearProjection struct {
	Year        int      `json:"year"`
	RevenueUSD  float64  `json:"revenueUsd"`
	CostsUSD    float64  `json:"costsUsd"`
	NetUSD      float64  `json:"netUsd"`
	Assumptions []string `json:"assumptions"`
}

// FundingAnalysis estimates capital needs.
type FundingAnalysis struct {
	RequiredUSD    float64  `json:"requiredUsd"`
	RunwayMonths   int      `json:"runwayMonths"`
	SuggestedRound string   `json:"suggestedRound"` // bootstrapped | pre-seed | seed | series-a
	UseOfFunds     []string `json:"useOfFunds"`
}

// Stage schemas for the financial modeling pipeline.

const MarketSizingSchema = `{
	"type": "object",
	"properties": {
		"tam": {
			"type": "object",
			"properties": {
				"valueUsd": {"type": "number", "minimum": 0},
				"basis": {"type": "string"}
			},
			"required": ["valueUsd", "basis"]
		},
		"sam": {
			"type": "object",
			"properties": {
				"valueUsd": {"type": "number", "minimum": 0},
				"basis": {"type": "string"}
			},
			"required": ["valueUsd", "basis"]
		},
		"som": {
			"type": "object",
			"properties": {
				"valueUsd": {"type": "number", "minimum": 0},
				"basis": {"type": "string"}
			},
			"required": ["valueUsd", "basis"]
		},
		"methodology": {"type": "string", "minLength": 1},
		"timeframeYears": {"type": "integer", "minimum": 1, "maximum": 10},
		"somMarketSharePct": {"type": "number", "minimum": 0, "maximum": 100}
	},
	"required": ["tam", "sam", "som", "methodology", "timeframeYears", "somMarketSharePct"]
}`

const RevenueModelSchema = `{
	"type": "object",
	"properties": {
		"primaryModel": {"type": "string", "enum": ["subscription", "transactional", "freemium", "advertising", "licensing", "marketplace"]},
		"streams": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"sharePct": {"type": "number", "minimum": 0, "maximum": 100}
				},
				"required": ["name", "sharePct"]
			}
		},
		"pricingStrategy": {"type": "string"}
	},
	"required": ["primaryModel", "streams", "pricingStrategy"]
}`

const UnitEconomicsSchema = `{
	"type": "object",
	"properties": {
		"cacUsd": {"type": "number", "minimum": 0},
		"ltvUsd": {"type": "number", "minimum": 0},
		"ltvToCacRatio": {"type": "number", "minimum": 0},
		"grossMarginPct": {"type": "number", "minimum": 0, "maximum": 100},
		"breakEvenMonths": {"type": "integer", "minimum": 0}
	},
	"required": ["cacUsd", "ltvUsd", "ltvToCacRatio", "grossMarginPct", "breakEvenMonths"]
}`

const ProjectionsSchema = `{
	"type": "object",
	"properties": {
		"projections": {
			"type": "array",
			"minItems": 3,
			"maxItems": 5,
			"items": {
				"type": "object",
				"properties": {
					"year": {"type": "integer", "minimum": 1},
					"revenueUsd": {"type": "number", "minimum": 0},
					"costsUsd": {"type": "number", "minimum": 0},
					"netUsd": {"type": "number"},
					"assumptions": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["year", "revenueUsd", "costsUsd", "netUsd"]
			}
		}
	},
	"required": ["projections"]
}`

const FundingAnalysisSchema = `{
	"type": "object",
	"properties": {
		"requiredUsd": {"type": "number", "minimum": 0},
		"runwayMonths": {"type": "integer", "minimum": 0},
		"suggestedRound": {"type": "string", "enum": ["bootstrapped", "pre-seed", "seed", "series-a"]},
		"useOfFunds": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["requiredUsd", "runwayMonths", "suggestedRound", "useOfFunds"]
}`

// FinancialModelOutputSchema validates the fully assembled output.
var FinancialModelOutputSchema = `{
	"type": "object",
	"properties": {
		"marketSizing": ` + MarketSizingSchema + `,
		"revenueModel": ` + RevenueModelSchema + `,
		"unitEconomics": ` + UnitEconomicsSchema + `,
		"projections": {
			"type": "array",
			"minItems": 3,
			"items": {
				"type": "object",
				"properties": {
					"year": {"type": "integer", "minimum": 1},
					"revenueUsd": {"type": "number", "minimum": 0},
					"costsUsd": {"type": "number", "minimum": 0}
				},
				"required": ["year", "revenueUsd", "costsUsd"]
			}
		},
		"funding": ` + FundingAnalysisSchema + `,
		"confidence": ` + confidenceSchema + `
	},
	"required": ["marketSizing", "revenueModel", "unitEconomics", "projections", "funding", "confidence"]
}`
