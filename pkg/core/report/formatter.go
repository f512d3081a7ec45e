package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/utils"
	"edgar_statements/pkg/core/validate"
)

// FilingInfo describes where a statement's data came from.
type FilingInfo struct {
	Form            string `json:"form,omitempty"`
	FilingDate      string `json:"filing_date,omitempty"`
	AccessionNumber string `json:"accession_number,omitempty"`
	Source          string `json:"source,omitempty"`
}

// Envelope is the formatted delivery document: statement plus provenance
// and validation findings.
type Envelope struct {
	Ticker      string                       `json:"ticker"`
	CompanyName string                       `json:"company_name"`
	FilingInfo  FilingInfo                   `json:"filing_info"`
	Validation  *validate.ValidationResult   `json:"validation"`
	Data        *statement.IncomeStatement   `json:"data"`
}

// FormatIncomeStatement assembles the delivery envelope.
func FormatIncomeStatement(s *statement.IncomeStatement, filing FilingInfo, validation *validate.ValidationResult) *Envelope {
	env := &Envelope{
		FilingInfo: filing,
		Validation: validation,
		Data:       s,
	}
	if s != nil {
		env.Ticker = s.Ticker
		env.CompanyName = s.CompanyName
	}
	return env
}

// ToJSON serializes any document, indented when pretty is set.
func ToJSON(v interface{}, pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(data), nil
}

// ToCSV flattens the statement into CSV: one row per period, one column
// per line item, items sorted by name so the column set is stable.
func ToCSV(s *statement.IncomeStatement) string {
	allItems := make(map[string]bool)
	for _, record := range s.Periods {
		for concept := range record.Items {
			allItems[concept] = true
		}
	}
	columns := make([]string, 0, len(allItems))
	for concept := range allItems {
		columns = append(columns, concept)
	}
	sort.Strings(columns)

	var b strings.Builder
	b.WriteString("Period,Type,Currency")
	for _, concept := range columns {
		b.WriteString(",")
		b.WriteString(concept)
	}
	b.WriteString("\n")

	for _, key := range s.SortedKeys() {
		record := s.Periods[key]
		b.WriteString(record.PeriodEndDate)
		b.WriteString(",")
		b.WriteString(string(record.PeriodType))
		b.WriteString(",")
		b.WriteString(record.Currency)
		for _, concept := range columns {
			b.WriteString(",")
			if item, ok := record.Items[concept]; ok {
				b.WriteString(strconv.FormatFloat(item.Value, 'f', -1, 64))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ValidationSummaryMarkdown renders validation findings as a markdown
// report.
func ValidationSummaryMarkdown(s *statement.IncomeStatement, result *validate.ValidationResult) string {
	var b strings.Builder

	name := "income statement"
	if s != nil && s.Ticker != "" {
		name = s.Ticker
	}
	fmt.Fprintf(&b, "# Validation Summary for %s\n\n", name)

	if result.Valid {
		b.WriteString("**Status:** valid\n\n")
	} else {
		b.WriteString("**Status:** invalid\n\n")
	}

	if len(result.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	}

	if s != nil && len(s.Periods) > 0 {
		b.WriteString("## Periods\n\n")
		b.WriteString("| Period End | Type | Line Items |\n|---|---|---|\n")
		for _, key := range s.SortedKeys() {
			record := s.Periods[key]
			fmt.Fprintf(&b, "| %s | %s | %d |\n", record.PeriodEndDate, record.PeriodType, len(record.Items))
		}
	}

	return b.String()
}

// ValidationSummaryHTML renders the markdown summary into HTML.
func ValidationSummaryHTML(s *statement.IncomeStatement, result *validate.ValidationResult) (string, error) {
	return utils.RenderHTML(ValidationSummaryMarkdown(s, result))
}
