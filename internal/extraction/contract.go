package extraction

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"voxform/internal/domain"
)

// JSONSchema converts an extraction schema into a JSON Schema document that
// model output can be checked against. Fields are optional and extra keys are
// allowed; null is accepted for every field.
func JSONSchema(schema domain.ExtractionSchema) map[string]interface{} {
	properties := make(map[string]interface{}, len(schema))
	for _, f := range schema {
		properties[f.Name] = fieldJSONSchema(f.Spec)
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

func fieldJSONSchema(spec domain.FieldSpec) map[string]interface{} {
	switch spec.Type {
	case domain.FieldKindNumber:
		prop := map[string]interface{}{"type": []string{"number", "null"}}
		if spec.Min != nil {
			prop["minimum"] = *spec.Min
		}
		if spec.Max != nil {
			prop["maximum"] = *spec.Max
		}
		return prop
	case domain.FieldKindArray:
		items := map[string]interface{}{"type": "string"}
		if spec.Items != nil && len(spec.Items.Enum) > 0 {
			items["enum"] = spec.Items.Enum
		}
		return map[string]interface{}{"type": []string{"array", "null"}, "items": items}
	default:
		prop := map[string]interface{}{"type": []string{"string", "null"}}
		if len(spec.Enum) > 0 {
			enum := make([]interface{}, 0, len(spec.Enum)+1)
			for _, e := range spec.Enum {
				enum = append(enum, e)
			}
			prop["enum"] = append(enum, nil)
		}
		return prop
	}
}

// CheckContract validates parsed model output against the form schema and
// returns a description of each violation.
func CheckContract(schema domain.ExtractionSchema, output map[string]interface{}) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(JSONSchema(schema)),
		gojsonschema.NewGoLoader(output),
	)
	if err != nil {
		return nil, fmt.Errorf("validating model output: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	return violations, nil
}
