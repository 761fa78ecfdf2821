package service

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	dErrors "homeward/pkg/domain-errors"
)

// The questionnaire is opaque to the lifecycle logic. Validation is
// structural only: it must be a JSON object, and the well-known fields must
// have the right shape when present. Everything else passes through untyped.
const questionnaireSchema = `{
	"type": "object",
	"properties": {
		"housing":     {"type": "string", "maxLength": 200},
		"household":   {"type": "object"},
		"experience":  {"type": "string", "maxLength": 5000},
		"veterinary":  {"type": "object"},
		"references":  {"type": "array", "items": {"type": "object"}}
	}
}`

var questionnaireLoader = gojsonschema.NewStringLoader(questionnaireSchema)

func validateQuestionnaire(raw json.RawMessage) error {
	if len(raw) == 0 {
		return dErrors.New(dErrors.CodeValidation, "questionnaire is required")
	}
	result, err := gojsonschema.Validate(questionnaireLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "questionnaire is not valid JSON")
	}
	if !result.Valid() {
		return dErrors.New(dErrors.CodeValidation, "questionnaire: "+result.Errors()[0].String())
	}
	return nil
}
