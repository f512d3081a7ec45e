package provider

import (
	"context"
	"fmt"
	"log"

	"edgar_statements/pkg/core/edgar"
	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/xbrl"
)

// EdgarProvider builds income statements straight from SEC filings:
// resolve the ticker, locate recent 10-K/10-Q filings, download the
// submissions, and run the XBRL pipeline over them.
type EdgarProvider struct {
	resolver   *edgar.CompanyResolver
	locator    *edgar.FilingLocator
	downloader *edgar.Downloader
	parser     *xbrl.Parser
}

// NewEdgarProvider wires the EDGAR components into a provider.
func NewEdgarProvider(client *edgar.Client, cacheDir string) *EdgarProvider {
	return &EdgarProvider{
		resolver:   edgar.NewCompanyResolver(client, cacheDir),
		locator:    edgar.NewFilingLocator(client),
		downloader: edgar.NewDownloader(client, edgar.NewFilingCacheWithDir(cacheDir+"/filings")),
		parser:     xbrl.NewParser(),
	}
}

// Name implements Provider.
func (p *EdgarProvider) Name() string { return "edgar" }

// IncomeStatement implements Provider. Filings are processed newest first
// and their periods merged until the requested period count is reached;
// periods reported in several filings keep the newest filing's values.
func (p *EdgarProvider) IncomeStatement(ctx context.Context, req Request) (*statement.IncomeStatement, error) {
	cik, err := p.resolver.CIKForTicker(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}

	formTypes := []string{"10-K"}
	if req.Period != statement.PeriodAnnual {
		formTypes = []string{"10-Q", "10-K"}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 12
	}

	filings, err := p.locator.FindFilings(ctx, cik, edgar.FilingQuery{
		FormTypes: formTypes,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	if len(filings) == 0 {
		return nil, fmt.Errorf("no filings found for %s", req.Ticker)
	}

	merged := statement.NewIncomeStatement()
	merged.Ticker = req.Ticker
	merged.CompanyName = filings[0].CompanyName

	for _, filing := range filings {
		if len(merged.Periods) >= limit {
			break
		}

		parsed, err := p.parseFiling(ctx, cik, filing)
		if err != nil {
			log.Printf("[PROVIDER] Skipping filing %s: %v", filing.AccessionNumber, err)
			continue
		}

		for key, record := range parsed.Periods {
			if _, seen := merged.Periods[key]; !seen {
				merged.Periods[key] = record
			}
		}
		merged.Drops.NonNumericFacts += parsed.Drops.NonNumericFacts
		merged.Drops.UnresolvedContexts += parsed.Drops.UnresolvedContexts
		merged.Drops.SkippedContexts += parsed.Drops.SkippedContexts

		if merged.CompanyName == "" {
			merged.CompanyName = parsed.CompanyName
		}
	}

	merged.Metrics = statement.ComputeMetrics(merged)
	return merged, nil
}

func (p *EdgarProvider) parseFiling(ctx context.Context, cik string, filing edgar.Filing) (*statement.IncomeStatement, error) {
	content, err := p.downloader.FetchSubmission(ctx, cik, filing.AccessionNumber)
	if err != nil {
		return nil, err
	}

	docs := edgar.SplitSubmission(content)
	section, kind, ok := edgar.FindIncomeStatement(docs)
	if !ok {
		return nil, fmt.Errorf("no income statement document in filing %s", filing.AccessionNumber)
	}

	var parsed *statement.IncomeStatement
	if kind == "html" {
		parsed = p.parser.ParseInlineDocument([]byte(section))
	} else {
		parsed = p.parser.ParseIncomeStatement([]byte(section))
	}
	if parsed.ParseError != "" {
		return nil, fmt.Errorf("parse filing %s: %s", filing.AccessionNumber, parsed.ParseError)
	}
	return parsed, nil
}
