package validate

import "math"

// Property describes one field of a schema.
type Property struct {
	Type string `json:"type"`
}

// Schema is a minimal structural schema: required field names plus a type
// vocabulary per field. It covers what statement exports and provider
// payloads need; full JSON Schema is more machinery than those call for.
type Schema struct {
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

// Validate checks an untyped document against the schema. Fields absent
// from the document but not required are ignored; unknown type names in
// the schema are treated as always matching.
func (s *Schema) Validate(doc map[string]interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true, Issues: []string{}, Warnings: []string{}}

	for _, field := range s.Required {
		if _, ok := doc[field]; !ok {
			result.addIssue("Missing required field: %s", field)
		}
	}

	for field, prop := range s.Properties {
		value, ok := doc[field]
		if !ok || prop.Type == "" {
			continue
		}
		if !matchesType(value, prop.Type) {
			result.addIssue("Field %s has wrong type. Expected %s.", field, prop.Type)
		}
	}

	return result
}

// matchesType checks a JSON-decoded value against a schema type name.
// encoding/json decodes all numbers as float64, so "integer" means a
// float64 with no fractional part.
func matchesType(value interface{}, expected string) bool {
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "integer":
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == math.Trunc(v)
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return true
	}
}
