package xbrl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/taxonomy"
)

// Parser extracts income statement data from XBRL instance documents.
// It holds no cross-call state; one Parser is safe to share across
// goroutines, and every parse builds a fresh result.
type Parser struct {
	concepts []string
}

// NewParser creates a parser for the standard US-GAAP concept set.
func NewParser() *Parser {
	return &Parser{concepts: RecognizedConcepts()}
}

// ParseIncomeStatement parses a complete XBRL instance document into a
// normalized income statement.
//
// The parse boundary never returns an error: a document that cannot be
// parsed yields an empty statement with ParseError set, so callers can
// distinguish "parse failed" from "genuinely no periods". Everything below
// the boundary is best-effort, dropping bad elements and counting them.
func (p *Parser) ParseIncomeStatement(data []byte) (result *statement.IncomeStatement) {
	result = statement.NewIncomeStatement()

	defer func() {
		if r := recover(); r != nil {
			empty := statement.NewIncomeStatement()
			empty.ParseError = fmt.Sprintf("panic during parse: %v", r)
			result = empty
		}
	}()

	if err := checkWellFormed(data); err != nil {
		result.ParseError = fmt.Sprintf("malformed XML: %v", err)
		return result
	}

	result.Ticker, result.CompanyName = ExtractEntityInfo(data)

	contexts, contextStats := ResolveContexts(data)
	facts, factStats := ExtractFacts(data, p.concepts)

	periods, unresolved := statement.Aggregate(contexts, facts)
	result.Periods = periods
	result.Drops = statement.DropStats{
		NonNumericFacts:    factStats.NonNumericFacts,
		UnresolvedContexts: unresolved,
		SkippedContexts:    contextStats.SkippedContexts,
	}

	normalized := taxonomy.NormalizeStatement(result)
	normalized.Metrics = statement.ComputeMetrics(normalized)
	return normalized
}

// ParseIncomeStatementFile is a convenience wrapper for local documents.
// Unreadable files surface the same way unparseable ones do.
func (p *Parser) ParseIncomeStatementFile(path string) *statement.IncomeStatement {
	data, err := os.ReadFile(path)
	if err != nil {
		result := statement.NewIncomeStatement()
		result.ParseError = fmt.Sprintf("read %s: %v", path, err)
		return result
	}
	return p.ParseIncomeStatement(data)
}

// checkWellFormed scans the full token stream once so that a truncated or
// malformed document is rejected outright instead of yielding a partial
// statement that looks authoritative.
func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
