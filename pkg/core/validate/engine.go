// Package validate is the single quality-judgment point of the pipeline.
// Extraction upstream drops bad elements silently; this engine is where the
// resulting gaps become visible, as hard issues or soft warnings.
package validate

import (
	"fmt"
	"sort"

	"edgar_statements/pkg/core/statement"
)

// ValidationResult reports validation findings. Issues mark the statement
// invalid; warnings flag inconsistencies worth a look but never flip Valid.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Issues: []string{}, Warnings: []string{}}
}

func (r *ValidationResult) addIssue(format string, args ...interface{}) {
	r.Valid = false
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// keyMetrics must be present in every period for the statement to validate.
var keyMetrics = []string{"Revenues", "NetIncomeLoss"}

// ValidateIncomeStatement checks a parsed income statement for structural
// completeness and cross-period consistency. Validation only reads the
// statement, never repairs it.
func ValidateIncomeStatement(s *statement.IncomeStatement) *ValidationResult {
	result := newResult()

	if s == nil {
		result.addIssue("Income statement data is empty")
		return result
	}
	if s.ParseError != "" {
		result.addIssue("Income statement failed to parse: %s", s.ParseError)
		return result
	}
	if len(s.Periods) == 0 {
		result.addIssue("No periods found in income statement")
		return result
	}

	keys := s.SortedKeys()
	for _, key := range keys {
		validatePeriod(result, string(key), s.Periods[key])
	}

	result.Warnings = append(result.Warnings, periodConsistency(s)...)
	return result
}

func validatePeriod(result *ValidationResult, key string, record *statement.PeriodRecord) {
	if record == nil {
		result.addIssue("Period %s: Missing required field: items", key)
		return
	}
	if record.PeriodEndDate == "" {
		result.addIssue("Period %s: Missing required field: period_end_date", key)
		return
	}
	if len(record.Items) == 0 {
		result.addIssue("Period %s: No items found", key)
		return
	}

	for _, metric := range keyMetrics {
		if _, ok := record.Items[metric]; !ok {
			result.addIssue("Period %s: Missing key metric: %s", key, metric)
		}
	}
}

// periodConsistency warns when a period lacks metrics that its sibling
// periods report. Output order is deterministic: periods chronologically,
// metric names sorted.
func periodConsistency(s *statement.IncomeStatement) []string {
	all := make(map[string]bool)
	for _, record := range s.Periods {
		for concept := range record.Items {
			all[concept] = true
		}
	}

	warnings := []string{}
	for _, key := range s.SortedKeys() {
		record := s.Periods[key]
		var missing []string
		for concept := range all {
			if _, ok := record.Items[concept]; !ok {
				missing = append(missing, concept)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		warnings = append(warnings, fmt.Sprintf(
			"Period %s is missing metrics that other periods have: %s",
			key, joinComma(missing)))
	}
	return warnings
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

// ValidateRaw applies the same checks to an untyped statement document,
// such as one loaded from a JSON export or a third-party provider. It
// additionally catches shape problems the typed path cannot have, like an
// item that is not a mapping at all.
func ValidateRaw(doc map[string]interface{}) *ValidationResult {
	result := newResult()

	if len(doc) == 0 {
		result.addIssue("Income statement data is empty")
		return result
	}

	for _, field := range []string{"ticker", "periods"} {
		if _, ok := doc[field]; !ok {
			result.addIssue("Missing required field: %s", field)
		}
	}
	if !result.Valid {
		return result
	}

	periods, ok := doc["periods"].(map[string]interface{})
	if !ok || len(periods) == 0 {
		result.addIssue("No periods found in income statement")
		return result
	}

	keys := make([]string, 0, len(periods))
	for key := range periods {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		validateRawPeriod(result, key, periods[key])
	}
	return result
}

func validateRawPeriod(result *ValidationResult, key string, raw interface{}) {
	period, ok := raw.(map[string]interface{})
	if !ok {
		result.addIssue("Period %s: Missing required field: period_end_date", key)
		return
	}

	missing := false
	for _, field := range []string{"period_end_date", "items"} {
		if _, ok := period[field]; !ok {
			result.addIssue("Period %s: Missing required field: %s", key, field)
			missing = true
		}
	}
	if missing {
		return
	}

	items, ok := period["items"].(map[string]interface{})
	if !ok || len(items) == 0 {
		result.addIssue("Period %s: No items found", key)
		return
	}

	for _, metric := range keyMetrics {
		if _, ok := items[metric]; !ok {
			result.addIssue("Period %s: Missing key metric: %s", key, metric)
		}
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		item, ok := items[name].(map[string]interface{})
		if !ok {
			result.addIssue("Period %s: Item %s is not a dictionary", key, name)
			continue
		}
		if _, ok := item["value"]; !ok {
			result.addIssue("Period %s: Item %s is missing value", key, name)
		}
	}
}
