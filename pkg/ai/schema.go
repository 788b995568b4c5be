package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	openaischema "github.com/sashabaranov/go-openai/jsonschema"
)

// gradingResponseSchema is sent with the completion request. Strict mode
// requires every property to be listed as required. A fresh value is built
// per request because Definition.MarshalJSON fills in nil property maps.
func gradingResponseSchema() *openaischema.Definition {
	return &openaischema.Definition{
		Type: openaischema.Object,
		Properties: map[string]openaischema.Definition{
			"passed":   {Type: openaischema.Boolean, Description: "Whether the submission passes"},
			"score":    {Type: openaischema.Integer, Description: "Overall score from 0 to 100"},
			"feedback": {Type: openaischema.String, Description: "Short feedback, at most 50 words"},
			"analysis": {
				Type: openaischema.Object,
				Properties: map[string]openaischema.Definition{
					"correctness":  {Type: openaischema.Integer, Description: "Correctness score from 0 to 100"},
					"code_quality": {Type: openaischema.Integer, Description: "Code quality score from 0 to 100"},
					"efficiency":   {Type: openaischema.Integer, Description: "Efficiency score from 0 to 100"},
					"suggestions":  {Type: openaischema.Array, Items: &openaischema.Definition{Type: openaischema.String}, Description: "Concrete improvement suggestions"},
					"strengths":    {Type: openaischema.Array, Items: &openaischema.Definition{Type: openaischema.String}, Description: "Strengths of the code"},
					"weaknesses":   {Type: openaischema.Array, Items: &openaischema.Definition{Type: openaischema.String}, Description: "Weaknesses of the code"},
				},
				Required:             []string{"correctness", "code_quality", "efficiency", "suggestions", "strengths", "weaknesses"},
				AdditionalProperties: false,
			},
		},
		Required:             []string{"passed", "score", "feedback", "analysis"},
		AdditionalProperties: false,
	}
}

func syntaxResponseSchema() *openaischema.Definition {
	return &openaischema.Definition{
		Type: openaischema.Object,
		Properties: map[string]openaischema.Definition{
			"valid": {Type: openaischema.Boolean},
			"error": {Type: openaischema.String, Description: "The syntax error, or an empty string when the code is valid"},
		},
		Required:             []string{"valid", "error"},
		AdditionalProperties: false,
	}
}

// gradingValidationSchema is checked locally against every model payload.
const gradingValidationSchema = `{
  "type": "object",
  "required": ["passed", "score", "feedback", "analysis"],
  "properties": {
    "passed": {"type": "boolean"},
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "feedback": {"type": "string"},
    "analysis": {
      "type": "object",
      "required": ["correctness", "code_quality", "efficiency", "suggestions", "strengths", "weaknesses"],
      "properties": {
        "correctness": {"type": "integer", "minimum": 0, "maximum": 100},
        "code_quality": {"type": "integer", "minimum": 0, "maximum": 100},
        "efficiency": {"type": "integer", "minimum": 0, "maximum": 100},
        "suggestions": {"type": "array", "items": {"type": "string"}},
        "strengths": {"type": "array", "items": {"type": "string"}},
        "weaknesses": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

const syntaxValidationSchema = `{
  "type": "object",
  "required": ["valid"],
  "properties": {
    "valid": {"type": "boolean"},
    "error": {"type": "string"}
  }
}`

var (
	gradingValidator = mustCompileSchema("mem://grading_result.json", gradingValidationSchema)
	syntaxValidator  = mustCompileSchema("mem://syntax_check.json", syntaxValidationSchema)
)

func mustCompileSchema(url, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("ai: add schema %s: %v", url, err))
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("ai: compile schema %s: %v", url, err))
	}
	return compiled
}

// decodeValidated checks content against schema before decoding it into out.
func decodeValidated(content string, schema *jsonschema.Schema, out interface{}) error {
	var payload interface{}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return fmt.Errorf("parse model json: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("validate model json: %w", err)
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
