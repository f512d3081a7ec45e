package edgar

import (
	"context"
	"fmt"
	"time"
)

// Filing is one entry from a company's submission history.
type Filing struct {
	CIK             string `json:"cik"`
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
	CompanyName     string `json:"company_name,omitempty"`
	Ticker          string `json:"ticker,omitempty"`
}

// FilingQuery filters a company's submission history.
type FilingQuery struct {
	FormTypes []string  // defaults to 10-K, 10-Q, 8-K
	StartDate time.Time // defaults to five years before EndDate
	EndDate   time.Time // defaults to now
	Limit     int       // defaults to 100
}

func (q *FilingQuery) applyDefaults() {
	if len(q.FormTypes) == 0 {
		q.FormTypes = []string{"10-K", "10-Q", "8-K"}
	}
	if q.EndDate.IsZero() {
		q.EndDate = time.Now()
	}
	if q.StartDate.IsZero() {
		q.StartDate = q.EndDate.AddDate(-5, 0, 0)
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
}

// submissionsResponse mirrors the shape of the submissions API, which
// stores recent filings as parallel arrays.
type submissionsResponse struct {
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			AccessionNumber []string `json:"accessionNumber"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// FilingLocator finds filings through the submissions API.
type FilingLocator struct {
	client *Client
}

// NewFilingLocator builds a locator on top of client.
func NewFilingLocator(client *Client) *FilingLocator {
	return &FilingLocator{client: client}
}

// FindFilings returns the company's filings matching the query, newest
// first, as the submissions API orders them.
func (l *FilingLocator) FindFilings(ctx context.Context, cik string, query FilingQuery) ([]Filing, error) {
	query.applyDefaults()

	url := fmt.Sprintf("%s/submissions/CIK%s.json", l.client.dataBase, PaddedCIK(cik))
	var subs submissionsResponse
	if err := l.client.GetJSON(ctx, url, &subs); err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}

	recent := subs.Filings.Recent
	n := len(recent.Form)
	for _, arr := range [][]string{recent.FilingDate, recent.AccessionNumber, recent.PrimaryDocument} {
		if len(arr) < n {
			n = len(arr)
		}
	}

	wanted := make(map[string]bool, len(query.FormTypes))
	for _, form := range query.FormTypes {
		wanted[form] = true
	}

	var filings []Filing
	for i := 0; i < n; i++ {
		if !wanted[recent.Form[i]] {
			continue
		}

		filed, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil {
			continue
		}
		if filed.Before(query.StartDate) || filed.After(query.EndDate) {
			continue
		}

		filings = append(filings, Filing{
			CIK:             cik,
			Form:            recent.Form[i],
			FilingDate:      recent.FilingDate[i],
			AccessionNumber: recent.AccessionNumber[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			CompanyName:     subs.Name,
		})
		if len(filings) >= query.Limit {
			break
		}
	}

	return filings, nil
}

// LatestFiling returns the most recent filing of the given form types, or
// an error when the company has none in the query window.
func (l *FilingLocator) LatestFiling(ctx context.Context, cik string, formTypes ...string) (Filing, error) {
	filings, err := l.FindFilings(ctx, cik, FilingQuery{FormTypes: formTypes, Limit: 1})
	if err != nil {
		return Filing{}, err
	}
	if len(filings) == 0 {
		return Filing{}, fmt.Errorf("no filings found for CIK %s", cik)
	}
	return filings[0], nil
}
