package xbrl

import (
	"bytes"
	"encoding/xml"
	"io"
	"time"

	"edgar_statements/pkg/core/statement"
)

// xmlContext mirrors the xbrli:context element structure.
type xmlContext struct {
	ID     string `xml:"id,attr"`
	Period struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
}

// ResolveContexts walks the document and resolves every xbrli:context
// element into period information, keyed by context id.
//
// A context without an instant or an end date has no resolvable period and
// is skipped silently: it is unusable for period aggregation and not worth
// failing the document over. Duration contexts are classified quarterly
// when the elapsed span is at most 100 days, annual otherwise.
func ResolveContexts(data []byte) (map[string]statement.Period, statement.DropStats) {
	contexts := make(map[string]statement.Period)
	var stats statement.DropStats

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break // malformed tail; keep whatever parsed so far
		}

		elem, ok := token.(xml.StartElement)
		if !ok || elem.Name.Local != "context" {
			continue
		}

		var raw xmlContext
		if err := decoder.DecodeElement(&raw, &elem); err != nil {
			stats.SkippedContexts++
			continue
		}
		if raw.ID == "" {
			stats.SkippedContexts++
			continue
		}

		period, ok := classifyPeriod(raw)
		if !ok {
			stats.SkippedContexts++
			continue
		}
		contexts[raw.ID] = period
	}

	return contexts, stats
}

// classifyPeriod turns the raw period element into a resolved Period.
func classifyPeriod(raw xmlContext) (statement.Period, bool) {
	if raw.Period.Instant != "" {
		end, err := parseXBRLDate(raw.Period.Instant)
		if err != nil {
			return statement.Period{}, false
		}
		return statement.Period{ID: raw.ID, Type: statement.PeriodInstant, PeriodEnd: end}, true
	}

	if raw.Period.EndDate == "" {
		return statement.Period{}, false
	}
	end, err := parseXBRLDate(raw.Period.EndDate)
	if err != nil {
		return statement.Period{}, false
	}

	period := statement.Period{ID: raw.ID, PeriodEnd: end}
	if raw.Period.StartDate != "" {
		start, err := parseXBRLDate(raw.Period.StartDate)
		if err == nil {
			period.PeriodStart = start
		}
	}

	period.Type = classifyDuration(period.PeriodStart, period.PeriodEnd)
	return period, true
}

// classifyDuration separates ~90 day spans from ~365 day spans.
// A duration without a start date cannot be measured and defaults to annual,
// matching the fiscal-year contexts most filers omit start dates on.
func classifyDuration(start, end time.Time) statement.PeriodType {
	if start.IsZero() {
		return statement.PeriodAnnual
	}
	if end.Sub(start).Hours()/24 <= quarterlyMaxDays {
		return statement.PeriodQuarterly
	}
	return statement.PeriodAnnual
}

// parseXBRLDate parses the ISO date format used by XBRL period elements.
func parseXBRLDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
