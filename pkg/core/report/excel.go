// Package report renders income statements into delivery formats: Excel
// workbooks, JSON envelopes, CSV, and HTML validation summaries.
package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/taxonomy"
)

const sheetName = "Income Statement"

// ExcelReporter writes income statement workbooks into an output
// directory.
type ExcelReporter struct {
	outputDir string
}

// NewExcelReporter builds a reporter writing into outputDir.
func NewExcelReporter(outputDir string) *ExcelReporter {
	os.MkdirAll(outputDir, 0755)
	return &ExcelReporter{outputDir: outputDir}
}

// GenerateIncomeStatement writes the workbook and returns its path.
func (r *ExcelReporter) GenerateIncomeStatement(s *statement.IncomeStatement) (string, error) {
	if s == nil || len(s.Periods) == 0 {
		return "", fmt.Errorf("no income statement data to report")
	}

	ticker := strings.ToUpper(strings.TrimSpace(s.Ticker))
	if ticker == "" {
		ticker = "UNKNOWN"
	}

	f, err := BuildWorkbook(s)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(r.outputDir, fmt.Sprintf("%s_Income_Statement.xlsx", ticker))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	log.Printf("[REPORT] Excel income statement written for %s at %s", ticker, path)
	return path, nil
}

// BuildWorkbook renders the statement into an in-memory workbook: meta
// rows on top, one column per period in chronological order, line items in
// canonical presentation order, margins appended below when available.
func BuildWorkbook(s *statement.IncomeStatement) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", "Company")
	f.SetCellValue(sheetName, "B1", s.CompanyName)
	f.SetCellValue(sheetName, "A2", "Ticker")
	f.SetCellValue(sheetName, "B2", s.Ticker)

	keys := s.SortedKeys()

	// Header row: period end dates across the columns.
	const headerRow = 4
	f.SetCellValue(sheetName, cell(1, headerRow), "Line Item")
	for i, key := range keys {
		record := s.Periods[key]
		f.SetCellValue(sheetName, cell(i+2, headerRow), fmt.Sprintf("%s (%s)", record.PeriodEndDate, record.PeriodType))
	}
	f.SetCellStyle(sheetName, cell(1, headerRow), cell(len(keys)+1, headerRow), bold)

	row := headerRow + 1
	for _, concept := range presentedConcepts(s) {
		f.SetCellValue(sheetName, cell(1, row), concept)
		for i, key := range keys {
			if item, ok := s.Periods[key].Items[concept]; ok {
				f.SetCellValue(sheetName, cell(i+2, row), item.Value)
			}
		}
		row++
	}

	if s.Metrics != nil && len(s.Metrics.ProfitMargins) > 0 {
		row++
		f.SetCellValue(sheetName, cell(1, row), "Margins (%)")
		f.SetCellStyle(sheetName, cell(1, row), cell(1, row), bold)
		row++

		marginsByPeriod := make(map[statement.PeriodKey]map[string]float64)
		for _, m := range s.Metrics.ProfitMargins {
			marginsByPeriod[m.Period] = m.Margins
		}

		for _, name := range []string{"gross_margin", "operating_margin", "net_margin"} {
			f.SetCellValue(sheetName, cell(1, row), marginLabel(name))
			for i, key := range keys {
				if margins, ok := marginsByPeriod[key]; ok {
					if v, ok := margins[name]; ok {
						f.SetCellValue(sheetName, cell(i+2, row), v)
					}
				}
			}
			row++
		}
	}

	f.SetColWidth(sheetName, "A", "A", 34)
	return f, nil
}

// presentedConcepts returns the canonical concepts present anywhere in the
// statement, in presentation order, followed by any extensions sorted by
// name.
func presentedConcepts(s *statement.IncomeStatement) []string {
	present := make(map[string]bool)
	for _, record := range s.Periods {
		for concept := range record.Items {
			present[concept] = true
		}
	}

	var concepts []string
	for _, concept := range taxonomy.CanonicalOrder {
		if present[concept] {
			concepts = append(concepts, concept)
			delete(present, concept)
		}
	}

	var rest []string
	for concept := range present {
		rest = append(rest, concept)
	}
	sort.Strings(rest)
	return append(concepts, rest...)
}

func marginLabel(name string) string {
	switch name {
	case "gross_margin":
		return "Gross Margin"
	case "operating_margin":
		return "Operating Margin"
	case "net_margin":
		return "Net Margin"
	}
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
