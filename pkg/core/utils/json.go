// Package utils holds small parsing helpers shared across the pipeline.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseLenientJSON unmarshals data into v, tolerating the JSON dialects that
// show up in hand-maintained statement files and third-party exports:
// trailing commas, single quotes, comments, unquoted keys. Strict JSON is
// tried first, then Hjson, then an automatic repair pass. Hjson runs before
// the repair pass because the repair library rewrites valid Hjson (quoteless
// strings swallow the rest of the line) instead of rejecting it.
func ParseLenientJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	if err := hjson.Unmarshal(data, v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return fmt.Errorf("JSON_PARSE_FAILED: %v", err)
	}
	// The repair pass reports success on almost any input, turning
	// arbitrary text into a bare scalar. Statement documents are objects
	// or arrays; anything else means the input was not salvageable.
	trimmed := strings.TrimSpace(repaired)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return fmt.Errorf("JSON_PARSE_FAILED: input is not a JSON document")
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		return fmt.Errorf("JSON_PARSE_FAILED: %v", err)
	}
	return nil
}

// RepairJSON fixes common JSON errors and returns the repaired document.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// MustRepairJSON is like RepairJSON but returns an empty object on failure.
func MustRepairJSON(malformed string) string {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "{}"
	}
	return repaired
}
