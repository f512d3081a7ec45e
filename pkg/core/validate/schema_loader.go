package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// LoadSchema reads a schema definition from disk. Files ending in .hjson
// are parsed as Hjson (comments, unquoted keys); everything else is parsed
// as JSON, with one repair attempt for hand-edited files that have drifted
// out of strict JSON (trailing commas, single quotes).
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hjson") {
		var schema Schema
		if err := hjson.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parse hjson schema %s: %w", path, err)
		}
		return &schema, nil
	}

	return ParseSchema(data)
}

// ParseSchema parses a JSON schema definition, repairing lenient JSON when
// strict parsing fails.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err == nil {
		return &schema, nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("schema is not valid JSON and could not be repaired: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &schema); err != nil {
		return nil, fmt.Errorf("parse repaired schema: %w", err)
	}
	return &schema, nil
}

// IncomeStatementSchema is the built-in schema for exported statement
// documents, used when no schema file is configured.
func IncomeStatementSchema() *Schema {
	return &Schema{
		Required: []string{"ticker", "periods"},
		Properties: map[string]Property{
			"ticker":       {Type: "string"},
			"company_name": {Type: "string"},
			"periods":      {Type: "object"},
			"metrics":      {Type: "object"},
		},
	}
}
