package schemas

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"ideascope/pkg/errors"
)

// confidenceSchema is shared by every agent's full output schema.
const confidenceSchema = `{
	"type": "object",
	"properties": {
		"overall": {"type": "integer", "minimum": 0, "maximum": 100},
		"breakdown": {
			"type": "object",
			"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
		}
	},
	"required": ["overall", "breakdown"]
}`

// Validate checks a JSON document against a schema and returns field-level
// validation errors. A nil return means the document conforms.
func Validate(document []byte, schema string) []errors.ValidationError {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return []errors.ValidationError{{Field: "$", Message: err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	fieldErrs := make([]errors.ValidationError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		fieldErrs = append(fieldErrs, errors.ValidationError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
			Value:   resultErr.Value(),
		})
	}
	return fieldErrs
}

// DecodeAndValidate extracts the JSON object from raw provider text,
// validates it against the schema, and unmarshals it into dest. Any failure
// is returned as ErrMalformedResponse or ErrSchemaViolation so the caller
// can substitute its fallback object.
func DecodeAndValidate(raw string, schema string, dest interface{}) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}

	if fieldErrs := Validate(doc, schema); len(fieldErrs) > 0 {
		return errors.Wrapf(errors.ErrSchemaViolation, "%d violations, first: %s", len(fieldErrs), fieldErrs[0].Error())
	}

	if err := json.Unmarshal(doc, dest); err != nil {
		return errors.Wrap(errors.ErrMalformedResponse, err.Error())
	}
	return nil
}

// ExtractJSON finds the first complete JSON object in provider text. Models
// occasionally wrap JSON in prose or markdown fences despite instructions.
func ExtractJSON(response string) ([]byte, error) {
	response = strings.TrimSpace(response)

	start := -1
	braceCount := 0
	inString := false
	escaped := false

	for i, ch := range response {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			braceCount++
		case '}':
			if start == -1 {
				continue
			}
			braceCount--
			if braceCount == 0 {
				candidate := []byte(response[start : i+1])
				if json.Valid(candidate) {
					return candidate, nil
				}
				return nil, errors.Wrap(errors.ErrMalformedResponse, "extracted block is not valid JSON")
			}
		}
	}

	return nil, errors.Wrap(errors.ErrMalformedResponse, "no JSON object found in response")
}
