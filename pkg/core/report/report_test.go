package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/validate"
)

func sampleStatement() *statement.IncomeStatement {
	s := statement.NewIncomeStatement()
	s.Ticker = "ACME"
	s.CompanyName = "Acme Corporation"

	for i, endDate := range []string{"2024-03-31", "2024-06-30"} {
		end, _ := time.Parse("2006-01-02", endDate)
		key := statement.NewPeriodKey(end, statement.PeriodQuarterly)
		s.Periods[key] = &statement.PeriodRecord{
			PeriodEndDate: endDate,
			PeriodType:    statement.PeriodQuarterly,
			Currency:      "USD",
			Items: map[string]statement.Item{
				"Revenues":      {Value: float64(1000 * (i + 1)), Unit: "USD"},
				"GrossProfit":   {Value: float64(400 * (i + 1)), Unit: "USD"},
				"NetIncomeLoss": {Value: float64(150 * (i + 1)), Unit: "USD"},
			},
		}
	}
	s.Metrics = statement.ComputeMetrics(s)
	return s
}

func TestGenerateIncomeStatementWorkbook(t *testing.T) {
	dir := t.TempDir()
	reporter := NewExcelReporter(dir)

	path, err := reporter.GenerateIncomeStatement(sampleStatement())
	if err != nil {
		t.Fatalf("GenerateIncomeStatement: %v", err)
	}
	if !strings.HasSuffix(path, "ACME_Income_Statement.xlsx") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(sheetName, "B2"); got != "ACME" {
		t.Errorf("ticker cell = %q", got)
	}
	if got, _ := f.GetCellValue(sheetName, "A5"); got != "Revenues" {
		t.Errorf("first line item = %q, want Revenues", got)
	}
	if got, _ := f.GetCellValue(sheetName, "B5"); got != "1000" {
		t.Errorf("Q1 revenue cell = %q", got)
	}
	if got, _ := f.GetCellValue(sheetName, "C5"); got != "2000" {
		t.Errorf("Q2 revenue cell = %q", got)
	}
}

func TestGenerateIncomeStatementEmpty(t *testing.T) {
	reporter := NewExcelReporter(t.TempDir())
	if _, err := reporter.GenerateIncomeStatement(statement.NewIncomeStatement()); err == nil {
		t.Error("empty statement should not produce a workbook")
	}
}

func TestToCSV(t *testing.T) {
	csv := ToCSV(sampleStatement())
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Period,Type,Currency,GrossProfit,NetIncomeLoss,Revenues" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-03-31,quarterly,USD,400,150,1000") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestFormatIncomeStatementEnvelope(t *testing.T) {
	s := sampleStatement()
	result := validate.ValidateIncomeStatement(s)

	env := FormatIncomeStatement(s, FilingInfo{Form: "10-Q", Source: "edgar"}, result)
	if env.Ticker != "ACME" || env.CompanyName != "Acme Corporation" {
		t.Errorf("envelope identity = %q / %q", env.Ticker, env.CompanyName)
	}

	out, err := ToJSON(env, true)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	for _, needle := range []string{`"filing_info"`, `"validation"`, `"10-Q"`, `"periods"`} {
		if !strings.Contains(out, needle) {
			t.Errorf("JSON missing %s", needle)
		}
	}
}

func TestValidationSummary(t *testing.T) {
	s := sampleStatement()
	result := validate.ValidateIncomeStatement(s)

	md := ValidationSummaryMarkdown(s, result)
	if !strings.Contains(md, "# Validation Summary for ACME") {
		t.Errorf("markdown missing title: %q", md)
	}
	if !strings.Contains(md, "**Status:** valid") {
		t.Errorf("markdown missing status: %q", md)
	}

	html, err := ValidationSummaryHTML(s, result)
	if err != nil {
		t.Fatalf("ValidationSummaryHTML: %v", err)
	}
	if !strings.Contains(html, "<h1>") || !strings.Contains(html, "<table>") {
		t.Errorf("html not rendered: %q", html)
	}
}
