package canonical

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/debuggerone/comako/errors"
)

// Document structure schemas. The base schema covers every message type;
// the extension schemas additionally pin the message-type-specific bucket.
const baseSchema = `{
	"type": "object",
	"required": ["message_type", "timestamp", "header", "body", "segments", "metadata"],
	"properties": {
		"message_type": {"type": "string", "minLength": 1},
		"timestamp": {"type": "string"},
		"header": {"type": "object"},
		"body": {"type": "object"},
		"segments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["segment_type"],
				"properties": {
					"segment_type": {"type": "string", "minLength": 1},
					"status": {"type": "string", "enum": ["unmapped"]}
				}
			}
		},
		"metadata": {"type": "object"}
	}
}`

const utilmdSchema = `{
	"type": "object",
	"required": ["message_type", "utilities_data"],
	"properties": {
		"message_type": {"const": "UTILMD"},
		"utilities_data": {
			"type": "object",
			"required": ["metering_points", "consumption_data", "meter_readings"],
			"properties": {
				"metering_points": {"type": "array"},
				"consumption_data": {"type": "array"},
				"meter_readings": {"type": "array"}
			}
		}
	}
}`

const msconsSchema = `{
	"type": "object",
	"required": ["message_type", "consumption_report"],
	"properties": {
		"message_type": {"const": "MSCONS"},
		"consumption_report": {
			"type": "object",
			"required": ["reporting_period", "meter_readings", "consumption_totals"],
			"properties": {
				"reporting_period": {"type": "object"},
				"meter_readings": {"type": "array"},
				"consumption_totals": {"type": "array"}
			}
		}
	}
}`

var (
	baseSchemaLoader   = gojsonschema.NewStringLoader(baseSchema)
	utilmdSchemaLoader = gojsonschema.NewStringLoader(utilmdSchema)
	msconsSchemaLoader = gojsonschema.NewStringLoader(msconsSchema)
)

// ValidateStructure checks a document against the base structure schema.
// Returns the list of violations; an empty list means the document is
// structurally sound.
func ValidateStructure(doc *Document) ([]string, error) {
	violations, err := validateAgainst(doc, baseSchemaLoader)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		switch doc.MessageType {
		case MessageTypeUTILMD:
			more, err := validateAgainst(doc, utilmdSchemaLoader)
			if err != nil {
				return nil, err
			}
			violations = append(violations, more...)
		case MessageTypeMSCONS:
			more, err := validateAgainst(doc, msconsSchemaLoader)
			if err != nil {
				return nil, err
			}
			violations = append(violations, more...)
		}
	}
	return violations, nil
}

// IsValidStructure reports whether the document passes structure checks.
func IsValidStructure(doc *Document) bool {
	violations, err := ValidateStructure(doc)
	return err == nil && len(violations) == 0
}

func validateAgainst(doc *Document, schema gojsonschema.JSONLoader) ([]string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Converter", "ValidateStructure", "marshal document")
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.WrapInvalid(err, "Converter", "ValidateStructure", "evaluate schema")
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
