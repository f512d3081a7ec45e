package edgar

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DocumentSet holds the documents extracted from one complete submission.
type DocumentSet struct {
	Submission string // the raw complete submission text
	XBRL       string // first <XBRL> section, if any
	XML        string // first <XML> section, if any
	HTML       string // first <HTML> section, if any
}

// xbrlIndicators are concept names whose presence marks an XBRL document
// as carrying income statement data.
var xbrlIndicators = []string{
	"Revenues", "Revenue", "SalesRevenueNet",
	"CostOfRevenue", "GrossProfit",
	"OperatingIncomeLoss", "NetIncomeLoss",
}

// htmlIndicators are the statement titles filers use in HTML exhibits.
var htmlIndicators = []string{
	"Consolidated Statements of Income",
	"Consolidated Statements of Operations",
	"Income Statements",
	"Statement of Earnings",
	"Statement of Operations",
}

// Downloader fetches complete submissions from the EDGAR archives,
// consulting a disk cache first.
type Downloader struct {
	client *Client
	cache  *FilingCache
}

// NewDownloader builds a downloader caching into cache.
func NewDownloader(client *Client, cache *FilingCache) *Downloader {
	return &Downloader{client: client, cache: cache}
}

// FetchSubmission returns the complete submission text for a filing,
// downloading it only on a cache miss.
func (d *Downloader) FetchSubmission(ctx context.Context, cik, accessionNumber string) (string, error) {
	if cached, ok := d.cache.Get(cik, accessionNumber); ok {
		return cached, nil
	}

	accession := strings.ReplaceAll(accessionNumber, "-", "")
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s.txt",
		d.client.archivesBase, strings.TrimLeft(cik, "0"), accession)

	body, err := d.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download submission %s: %w", accessionNumber, err)
	}

	content := string(body)
	if err := d.cache.Set(cik, accessionNumber, content); err != nil {
		log.Printf("[EDGAR] Could not cache submission %s: %v", accessionNumber, err)
	}
	return content, nil
}

// SplitSubmission carves a complete submission file into its embedded
// document sections. Complete submissions are SGML; this takes the
// first-section shortcut, which is where filers put the primary document.
func SplitSubmission(content string) DocumentSet {
	docs := DocumentSet{Submission: content}
	docs.XBRL = sliceSection(content, "<XBRL>", "</XBRL>")
	docs.HTML = sliceSection(content, "<HTML>", "</HTML>")

	if strings.Contains(content, "<?xml") {
		docs.XML = sliceSection(content, "<XML>", "</XML>")
	}
	return docs
}

func sliceSection(content, open, close string) string {
	start := strings.Index(content, open)
	if start < 0 {
		return ""
	}
	end := strings.Index(content[start:], close)
	if end < 0 {
		return ""
	}
	return content[start : start+end+len(close)]
}

// FindIncomeStatement picks the document most likely to carry income
// statement data: the XBRL section when it mentions income statement
// concepts, the HTML section when its early text carries a statement
// title, otherwise nothing.
func FindIncomeStatement(docs DocumentSet) (content string, kind string, ok bool) {
	if docs.XBRL != "" {
		head := docs.XBRL
		if len(head) > 5000 {
			head = head[:5000]
		}
		for _, indicator := range xbrlIndicators {
			if strings.Contains(head, indicator) {
				return docs.XBRL, "xbrl", true
			}
		}
	}

	if docs.HTML != "" && htmlHasIncomeStatement(docs.HTML) {
		return docs.HTML, "html", true
	}

	return "", "", false
}

// htmlHasIncomeStatement inspects the document's visible text for a
// statement title, so a reference buried in a script or attribute does not
// count.
func htmlHasIncomeStatement(html string) bool {
	head := html
	if len(head) > 100000 {
		head = head[:100000]
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(head))
	if err != nil {
		return false
	}

	text := doc.Text()
	for _, indicator := range htmlIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}
