package edgar

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedEntry is one recent filing announced on the EDGAR Atom feed.
type FeedEntry struct {
	Title           string `json:"title"`
	Form            string `json:"form"`
	AccessionNumber string `json:"accession_number"`
	Updated         string `json:"updated"`
	Link            string `json:"link"`
}

// FeedWatcher reads the per-company EDGAR Atom feed, the lowest-latency
// view of new filings.
type FeedWatcher struct {
	client *Client
	parser *gofeed.Parser
}

// NewFeedWatcher builds a watcher on top of client.
func NewFeedWatcher(client *Client) *FeedWatcher {
	return &FeedWatcher{client: client, parser: gofeed.NewParser()}
}

// RecentFilings returns the company's most recent filings of the given
// form type ("" for all), newest first.
func (w *FeedWatcher) RecentFilings(ctx context.Context, cik, formType string, limit int) ([]FeedEntry, error) {
	if limit <= 0 {
		limit = 40
	}

	url := fmt.Sprintf(
		"%s/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=%s&dateb=&owner=include&count=%d&output=atom",
		w.client.archivesBase, PaddedCIK(cik), formType, limit)

	body, err := w.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch filing feed for CIK %s: %w", cik, err)
	}

	feed, err := w.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse filing feed for CIK %s: %w", cik, err)
	}

	entries := make([]FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(entries) >= limit {
			break
		}
		entry := FeedEntry{
			Title:           item.Title,
			Form:            feedForm(item.Title),
			AccessionNumber: feedAccession(item.GUID),
			Updated:         item.Updated,
		}
		if len(item.Links) > 0 {
			entry.Link = item.Links[0]
		} else if item.Link != "" {
			entry.Link = item.Link
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// feedForm extracts the form type from an entry title like
// "10-Q - Acme Corporation".
func feedForm(title string) string {
	if idx := strings.Index(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return ""
}

// feedAccession extracts the accession number from an entry GUID like
// "urn:tag:sec.gov,2008:accession-number=0000320193-24-000081".
func feedAccession(guid string) string {
	const marker = "accession-number="
	if idx := strings.Index(guid, marker); idx >= 0 {
		return guid[idx+len(marker):]
	}
	return ""
}
