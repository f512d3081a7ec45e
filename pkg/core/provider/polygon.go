package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/taxonomy"
)

const polygonBaseURL = "https://api.polygon.io"

// polygonFinancials mirrors the slice of the Polygon financials response
// this adapter reads.
type polygonFinancials struct {
	Results []struct {
		EndDate    string `json:"end_date"`
		Timeframe  string `json:"timeframe"`
		Financials struct {
			IncomeStatement map[string]struct {
				Value float64 `json:"value"`
				Unit  string  `json:"unit"`
			} `json:"income_statement"`
		} `json:"financials"`
	} `json:"results"`
}

// polygonFieldMap translates Polygon income statement fields onto the
// canonical vocabulary.
var polygonFieldMap = map[string]string{
	"revenues":             taxonomy.Revenues,
	"cost_of_revenue":      taxonomy.CostOfRevenue,
	"gross_profit":         taxonomy.GrossProfit,
	"operating_expenses":   taxonomy.OperatingExpenses,
	"operating_income_loss": taxonomy.OperatingIncomeLoss,
	"income_loss_from_continuing_operations_before_tax": taxonomy.IncomeBeforeTax,
	"income_tax_expense_benefit":                        taxonomy.IncomeTaxExpense,
	"net_income_loss":                                   taxonomy.NetIncomeLoss,
	"basic_earnings_per_share":                          taxonomy.EPSBasic,
	"diluted_earnings_per_share":                        taxonomy.EPSDiluted,
}

// PolygonAdapter fetches statements from the Polygon.io financials API.
type PolygonAdapter struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewPolygonAdapter builds an adapter with the given API key.
func NewPolygonAdapter(apiKey string) *PolygonAdapter {
	return &PolygonAdapter{
		apiKey:  apiKey,
		baseURL: polygonBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements Provider.
func (a *PolygonAdapter) Name() string { return "polygon" }

// IncomeStatement implements Provider.
func (a *PolygonAdapter) IncomeStatement(ctx context.Context, req Request) (*statement.IncomeStatement, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))

	timeframe := "quarterly"
	periodType := statement.PeriodQuarterly
	if req.Period == statement.PeriodAnnual {
		timeframe = "annual"
		periodType = statement.PeriodAnnual
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 12
	}

	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("timeframe", timeframe)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("apikey", a.apiKey)

	endpoint := fmt.Sprintf("%s/vX/reference/financials?%s", a.baseURL, params.Encode())
	var payload polygonFinancials
	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("polygon financials for %s: %w", ticker, err)
	}

	result := statement.NewIncomeStatement()
	result.Ticker = ticker
	result.CompanyName = ticker

	for _, item := range payload.Results {
		if item.EndDate == "" {
			continue
		}
		end, err := time.Parse("2006-01-02", item.EndDate)
		if err != nil {
			continue
		}

		record := &statement.PeriodRecord{
			PeriodEndDate: item.EndDate,
			PeriodType:    periodType,
			Currency:      "USD",
			Items:         make(map[string]statement.Item),
		}
		for field, value := range item.Financials.IncomeStatement {
			concept, ok := polygonFieldMap[field]
			if !ok {
				continue
			}
			unit := value.Unit
			if unit == "" {
				unit = "USD"
			}
			record.Items[concept] = statement.Item{Value: value.Value, Unit: unit}
		}
		if len(record.Items) == 0 {
			continue
		}
		result.Periods[statement.NewPeriodKey(end, periodType)] = record
	}

	result.Metrics = statement.ComputeMetrics(result)
	return result, nil
}

func (a *PolygonAdapter) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}
