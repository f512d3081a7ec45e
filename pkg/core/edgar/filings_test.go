package edgar

import (
	"context"
	"net/http"
	"testing"
)

const submissionsBody = `{
  "name": "Acme Corporation",
  "filings": {
    "recent": {
      "form": ["10-Q", "4", "10-K", "8-K", "10-Q"],
      "filingDate": ["2024-08-02", "2024-07-15", "2024-02-01", "2023-11-20", "2023-08-04"],
      "accessionNumber": ["0000000001-24-000005", "0000000001-24-000004", "0000000001-24-000001", "0000000001-23-000009", "0000000001-23-000005"],
      "primaryDocument": ["acme-20240630.htm", "form4.xml", "acme-20231231.htm", "acme-8k.htm", "acme-20230630.htm"]
    }
  }
}`

func submissionsServer(t *testing.T) *Client {
	t.Helper()
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0000000001.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(submissionsBody))
	}))
	return client
}

func TestFindFilingsFiltersByForm(t *testing.T) {
	locator := NewFilingLocator(submissionsServer(t))

	filings, err := locator.FindFilings(context.Background(), "1", FilingQuery{
		FormTypes: []string{"10-K", "10-Q"},
	})
	if err != nil {
		t.Fatalf("FindFilings: %v", err)
	}
	if len(filings) != 3 {
		t.Fatalf("expected 3 filings, got %d", len(filings))
	}
	if filings[0].Form != "10-Q" || filings[0].FilingDate != "2024-08-02" {
		t.Errorf("first filing = %+v", filings[0])
	}
	for _, f := range filings {
		if f.Form == "4" || f.Form == "8-K" {
			t.Errorf("unwanted form %s in results", f.Form)
		}
		if f.CompanyName != "Acme Corporation" {
			t.Errorf("company name = %q", f.CompanyName)
		}
	}
}

func TestFindFilingsRespectsLimit(t *testing.T) {
	locator := NewFilingLocator(submissionsServer(t))

	filings, err := locator.FindFilings(context.Background(), "1", FilingQuery{
		FormTypes: []string{"10-Q"},
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("FindFilings: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("limit ignored: got %d filings", len(filings))
	}
	if filings[0].AccessionNumber != "0000000001-24-000005" {
		t.Errorf("should return the newest filing first, got %s", filings[0].AccessionNumber)
	}
}

func TestLatestFiling(t *testing.T) {
	locator := NewFilingLocator(submissionsServer(t))

	filing, err := locator.LatestFiling(context.Background(), "1", "10-K")
	if err != nil {
		t.Fatalf("LatestFiling: %v", err)
	}
	if filing.Form != "10-K" || filing.FilingDate != "2024-02-01" {
		t.Errorf("latest 10-K = %+v", filing)
	}

	if _, err := locator.LatestFiling(context.Background(), "1", "S-1"); err == nil {
		t.Error("no matching filings should return an error")
	}
}

func TestFindFilingsUpstreamError(t *testing.T) {
	locator := NewFilingLocator(offlineClient(t))
	if _, err := locator.FindFilings(context.Background(), "1", FilingQuery{}); err == nil {
		t.Error("unreachable submissions API should return an error")
	}
}
