package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// hardcodedCIKs covers the large technology filers so ticker resolution
// still works when both the disk cache and the SEC endpoint are
// unavailable.
var hardcodedCIKs = map[string]string{
	"AAPL":  "320193",
	"MSFT":  "789019",
	"GOOGL": "1652044",
	"AMZN":  "1018724",
	"META":  "1326801",
	"NVDA":  "1045810",
	"TSLA":  "1318605",
	"INTC":  "50863",
	"AMD":   "2488",
	"CSCO":  "858877",
}

const tickerFilePath = "/files/company_tickers.json"

// companyTickerEntry mirrors one record of company_tickers.json.
type companyTickerEntry struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CompanyResolver resolves ticker symbols to CIK numbers through three
// layers: an in-process cache, a disk snapshot of the SEC ticker file, and
// the live endpoint. The hardcoded table is the floor under all of them.
type CompanyResolver struct {
	client   *Client
	cacheDir string

	memory *gocache.Cache

	mu      sync.Mutex
	mapping map[string]companyTickerEntry // ticker -> entry, loaded lazily
}

// NewCompanyResolver builds a resolver caching under cacheDir.
func NewCompanyResolver(client *Client, cacheDir string) *CompanyResolver {
	os.MkdirAll(cacheDir, 0755)
	return &CompanyResolver{
		client:   client,
		cacheDir: cacheDir,
		memory:   gocache.New(24*time.Hour, time.Hour),
	}
}

// CIKForTicker resolves a ticker symbol to its CIK, without leading zeros.
func (r *CompanyResolver) CIKForTicker(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", fmt.Errorf("empty ticker")
	}

	if cik, ok := r.memory.Get(ticker); ok {
		return cik.(string), nil
	}

	if entry, ok := r.lookupMapping(ctx, ticker); ok {
		cik := fmt.Sprintf("%d", entry.CIK)
		r.memory.Set(ticker, cik, gocache.DefaultExpiration)
		return cik, nil
	}

	if cik, ok := hardcodedCIKs[ticker]; ok {
		r.memory.Set(ticker, cik, gocache.DefaultExpiration)
		return cik, nil
	}

	return "", fmt.Errorf("could not resolve ticker %s to a CIK", ticker)
}

// CompanyNameForTicker returns the registrant name from the ticker file,
// or "" when only the hardcoded layer matched.
func (r *CompanyResolver) CompanyNameForTicker(ctx context.Context, ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if entry, ok := r.lookupMapping(ctx, ticker); ok {
		return entry.Title
	}
	return ""
}

func (r *CompanyResolver) lookupMapping(ctx context.Context, ticker string) (companyTickerEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mapping == nil {
		r.mapping = r.loadMapping(ctx)
	}
	entry, ok := r.mapping[ticker]
	return entry, ok
}

// loadMapping tries the disk snapshot first, then the live ticker file.
// Failures degrade to an empty mapping; the hardcoded layer still applies.
func (r *CompanyResolver) loadMapping(ctx context.Context) map[string]companyTickerEntry {
	diskPath := filepath.Join(r.cacheDir, "company_tickers.json")

	if data, err := os.ReadFile(diskPath); err == nil {
		if mapping, err := parseTickerFile(data); err == nil {
			return mapping
		}
		log.Printf("[EDGAR] Ticker snapshot at %s is corrupt, refetching", diskPath)
	}

	data, err := r.client.Get(ctx, r.client.archivesBase+tickerFilePath)
	if err != nil {
		log.Printf("[EDGAR] Could not fetch company ticker file: %v", err)
		return map[string]companyTickerEntry{}
	}

	mapping, err := parseTickerFile(data)
	if err != nil {
		log.Printf("[EDGAR] Could not parse company ticker file: %v", err)
		return map[string]companyTickerEntry{}
	}

	if err := os.WriteFile(diskPath, data, 0644); err != nil {
		log.Printf("[EDGAR] Could not cache ticker file: %v", err)
	}
	return mapping
}

// parseTickerFile decodes the SEC ticker file, which is an object keyed by
// array index rather than a JSON array.
func parseTickerFile(data []byte) (map[string]companyTickerEntry, error) {
	var raw map[string]companyTickerEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mapping := make(map[string]companyTickerEntry, len(raw))
	for _, entry := range raw {
		mapping[strings.ToUpper(entry.Ticker)] = entry
	}
	return mapping, nil
}

// PaddedCIK zero-pads a CIK to the 10 digits the submissions API expects.
func PaddedCIK(cik string) string {
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
