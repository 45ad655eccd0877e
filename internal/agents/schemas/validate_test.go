package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideascope/pkg/errors"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	doc, err := ExtractJSON(`{"a": 1}`)

	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(doc))
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"a\": 1, \"b\": [1, 2]}\n```"

	doc, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": [1, 2]}`, string(doc))
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := `Here is the analysis you asked for: {"score": 42} Hope that helps!`

	doc, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 42}`, string(doc))
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"note": "uses {braces} and \"quotes\" inside"}`

	doc, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.JSONEq(t, raw, string(doc))
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	raw := `{"outer": {"inner": {"deep": true}}}`

	doc, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.JSONEq(t, raw, string(doc))
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON("the model refused to answer")

	assert.True(t, errors.Is(err, errors.ErrMalformedResponse))
}

func TestExtractJSON_TruncatedObject(t *testing.T) {
	_, err := ExtractJSON(`{"a": 1, "b":`)

	assert.True(t, errors.Is(err, errors.ErrMalformedResponse))
}

const testSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"score": {"type": "integer", "minimum": 0, "maximum": 100}
	},
	"required": ["name", "score"]
}`

func TestValidate_Conforming(t *testing.T) {
	violations := Validate([]byte(`{"name": "x", "score": 50}`), testSchema)

	assert.Empty(t, violations)
}

func TestValidate_ReportsFieldViolations(t *testing.T) {
	violations := Validate([]byte(`{"name": "", "score": 200}`), testSchema)

	require.Len(t, violations, 2)
}

func TestDecodeAndValidate_Roundtrip(t *testing.T) {
	var dest struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}

	err := DecodeAndValidate(`noise before {"name": "idea", "score": 88} noise after`, testSchema, &dest)

	require.NoError(t, err)
	assert.Equal(t, "idea", dest.Name)
	assert.Equal(t, 88, dest.Score)
}

func TestDecodeAndValidate_SchemaViolation(t *testing.T) {
	var dest map[string]interface{}

	err := DecodeAndValidate(`{"name": "idea"}`, testSchema, &dest)

	assert.True(t, errors.Is(err, errors.ErrSchemaViolation))
}

func TestDecodeAndValidate_MalformedResponse(t *testing.T) {
	var dest map[string]interface{}

	err := DecodeAndValidate(`not json at all`, testSchema, &dest)

	assert.True(t, errors.Is(err, errors.ErrMalformedResponse))
}

func TestAgentOutputSchemas_Parse(t *testing.T) {
	// Each composed schema must itself be valid JSON.
	for name, schema := range map[string]string{
		"market_research": MarketResearchOutputSchema,
		"financial_model": FinancialModelOutputSchema,
		"founder_fit":     FounderFitOutputSchema,
		"risk_assessment": RiskAssessmentOutputSchema,
	} {
		violations := Validate([]byte(`{}`), schema)
		assert.NotNil(t, violations, "%s schema should reject an empty object", name)
	}
}
