package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/utils"
)

// LocalFileAdapter serves statements from JSON files on disk, one file per
// ticker. Files are often hand-edited, so parsing is lenient.
type LocalFileAdapter struct {
	dataDir string
}

// NewLocalFileAdapter builds an adapter reading from dataDir.
func NewLocalFileAdapter(dataDir string) *LocalFileAdapter {
	return &LocalFileAdapter{dataDir: dataDir}
}

// Name implements Provider.
func (a *LocalFileAdapter) Name() string { return "local" }

// Path returns where the adapter expects a ticker's statement file.
func (a *LocalFileAdapter) Path(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	return filepath.Join(a.dataDir, fmt.Sprintf("%s_income_statement.json", ticker))
}

// IncomeStatement implements Provider. A missing file is an error so the
// selector falls through to remote sources.
func (a *LocalFileAdapter) IncomeStatement(_ context.Context, req Request) (*statement.IncomeStatement, error) {
	path := a.Path(req.Ticker)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no local data for %s: %w", req.Ticker, err)
	}

	var result statement.IncomeStatement
	if err := utils.ParseLenientJSON(data, &result); err != nil {
		return nil, fmt.Errorf("parse local data %s: %w", path, err)
	}
	if result.Periods == nil {
		result.Periods = make(map[statement.PeriodKey]*statement.PeriodRecord)
	}
	if result.Ticker == "" {
		result.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	}
	return &result, nil
}

// Save writes a statement back to the adapter's directory, making EDGAR
// results available as local data on later runs.
func (a *LocalFileAdapter) Save(s *statement.IncomeStatement) error {
	if s == nil || s.Ticker == "" {
		return fmt.Errorf("statement has no ticker")
	}
	if err := os.MkdirAll(a.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.Path(s.Ticker), data, 0644)
}
