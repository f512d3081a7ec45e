package xbrl

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/taxonomy"
)

// ParseInlineDocument extracts an income statement from an inline XBRL
// (iXBRL) filing, where facts are ix:nonFraction elements woven into the
// XHTML presentation and contexts live in the hidden ix:header section.
//
// Same boundary contract as ParseIncomeStatement: never errors, sets
// ParseError when the document cannot be loaded at all.
func (p *Parser) ParseInlineDocument(data []byte) (result *statement.IncomeStatement) {
	result = statement.NewIncomeStatement()

	defer func() {
		if r := recover(); r != nil {
			empty := statement.NewIncomeStatement()
			empty.ParseError = fmt.Sprintf("panic during inline parse: %v", r)
			result = empty
		}
	}()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		result.ParseError = fmt.Sprintf("load inline document: %v", err)
		return result
	}

	result.Ticker, result.CompanyName = inlineEntityInfo(doc)

	contexts, contextStats := inlineContexts(doc)
	facts, factStats := p.inlineFacts(doc)

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

// inlineContexts pulls xbrli:context elements out of the hidden header.
// The HTML parser lowercases tag and attribute names, so selectors and
// attribute lookups here are all lowercase.
func inlineContexts(doc *goquery.Document) (map[string]statement.Period, statement.DropStats) {
	contexts := make(map[string]statement.Period)
	var stats statement.DropStats

	doc.Find(`xbrli\:context, context`).Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("id")
		if !ok || id == "" {
			stats.SkippedContexts++
			return
		}

		instant := strings.TrimSpace(sel.Find(`xbrli\:instant, instant`).First().Text())
		start := strings.TrimSpace(sel.Find(`xbrli\:startdate, startdate`).First().Text())
		end := strings.TrimSpace(sel.Find(`xbrli\:enddate, enddate`).First().Text())

		period, ok := classifyInline(id, instant, start, end)
		if !ok {
			stats.SkippedContexts++
			return
		}
		contexts[id] = period
	})

	return contexts, stats
}

func classifyInline(id, instant, start, end string) (statement.Period, bool) {
	if instant != "" {
		date, err := parseXBRLDate(instant)
		if err != nil {
			return statement.Period{}, false
		}
		return statement.Period{ID: id, Type: statement.PeriodInstant, PeriodEnd: date}, true
	}
	if end == "" {
		return statement.Period{}, false
	}
	endDate, err := parseXBRLDate(end)
	if err != nil {
		return statement.Period{}, false
	}
	var startDate time.Time
	if start != "" {
		if parsed, err := parseXBRLDate(start); err == nil {
			startDate = parsed
		}
	}
	return statement.Period{
		ID:          id,
		Type:        classifyDuration(startDate, endDate),
		PeriodStart: startDate,
		PeriodEnd:   endDate,
	}, true
}

// inlineFacts collects ix:nonFraction facts whose concept (after stripping
// the taxonomy prefix from the name attribute) is one we recognize. Scale
// and sign attributes are applied per the iXBRL transformation rules.
func (p *Parser) inlineFacts(doc *goquery.Document) (statement.FactSet, statement.DropStats) {
	recognized := make(map[string]bool, len(p.concepts))
	for _, concept := range p.concepts {
		recognized[concept] = true
	}

	facts := make(statement.FactSet)
	var stats statement.DropStats

	doc.Find(`ix\:nonfraction`).Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		concept := stripPrefix(name)
		if !recognized[concept] {
			return
		}

		contextRef, _ := sel.Attr("contextref")
		if contextRef == "" {
			stats.UnresolvedContexts++
			return
		}

		value, err := ParseNumericValue(sel.Text())
		if err != nil {
			stats.NonNumericFacts++
			return
		}

		if scale, ok := sel.Attr("scale"); ok {
			scaled, err := applyScale(value, scale)
			if err != nil {
				stats.NonNumericFacts++
				return
			}
			value = scaled
		}
		if sign, ok := sel.Attr("sign"); ok && sign == "-" {
			value = -value
		}

		unitRef, _ := sel.Attr("unitref")
		if facts[concept] == nil {
			facts[concept] = make(map[string]statement.Item)
		}
		facts[concept][contextRef] = statement.Item{
			Value: value,
			Unit:  normalizeUnit(unitRef),
		}
	})

	return facts, stats
}

func inlineEntityInfo(doc *goquery.Document) (ticker, companyName string) {
	doc.Find(`ix\:nonnumeric`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		switch stripPrefix(name) {
		case "TradingSymbol":
			if ticker == "" {
				ticker = strings.TrimSpace(sel.Text())
			}
		case "EntityRegistrantName":
			if companyName == "" {
				companyName = strings.TrimSpace(sel.Text())
			}
		}
		return ticker == "" || companyName == ""
	})
	return ticker, companyName
}

// stripPrefix drops the taxonomy namespace prefix from an inline fact name,
// turning "us-gaap:Revenues" into "Revenues".
func stripPrefix(name string) string {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// applyScale multiplies the value by 10^scale per the iXBRL transformation
// rules. A scale attribute that is not an integer makes the fact unusable,
// so the caller drops it rather than keeping a misscaled value.
func applyScale(value float64, scale string) (float64, error) {
	if scale == "" {
		return value, nil
	}
	n, err := strconv.Atoi(scale)
	if err != nil {
		return 0, fmt.Errorf("invalid scale %q: %w", scale, err)
	}
	return value * math.Pow10(n), nil
}
