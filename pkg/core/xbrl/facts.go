package xbrl

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"edgar_statements/pkg/core/statement"
)

// ExtractFacts walks every fact element whose local name is in the
// recognized income statement concept set and emits concept -> context id
// -> {value, unit} tuples.
//
// Extraction is best-effort: a fact whose text does not parse as a number
// is dropped without failing the document, and a fact without a contextRef
// is not a fact at all. Quality judgment is deferred to the validation
// engine.
func ExtractFacts(data []byte, concepts []string) (statement.FactSet, statement.DropStats) {
	recognized := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		recognized[c] = true
	}

	facts := make(statement.FactSet)
	var stats statement.DropStats

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		elem, ok := token.(xml.StartElement)
		if !ok || !recognized[elem.Name.Local] {
			continue
		}

		contextRef := attrValue(elem.Attr, "contextRef")
		if contextRef == "" {
			continue
		}
		unitRef := attrValue(elem.Attr, "unitRef")

		var text string
		if err := decoder.DecodeElement(&text, &elem); err != nil {
			stats.NonNumericFacts++
			continue
		}

		value, err := ParseNumericValue(text)
		if err != nil {
			stats.NonNumericFacts++
			continue
		}

		concept := elem.Name.Local
		if facts[concept] == nil {
			facts[concept] = make(map[string]statement.Item)
		}
		facts[concept][contextRef] = statement.Item{
			Value: value,
			Unit:  normalizeUnit(unitRef),
		}
	}

	return facts, stats
}

// ExtractEntityInfo pulls the ticker (dei:TradingSymbol) and company name
// (dei:EntityRegistrantName) from the document. Both are best-effort and
// default to the empty string; their absence never fails a parse.
func ExtractEntityInfo(data []byte) (ticker, companyName string) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		elem, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch elem.Name.Local {
		case "TradingSymbol":
			if ticker != "" {
				continue
			}
			var text string
			if decoder.DecodeElement(&text, &elem) == nil {
				ticker = strings.TrimSpace(text)
			}
		case "EntityRegistrantName":
			if companyName != "" {
				continue
			}
			var text string
			if decoder.DecodeElement(&text, &elem) == nil {
				companyName = strings.TrimSpace(text)
			}
		}

		if ticker != "" && companyName != "" {
			break
		}
	}
	return ticker, companyName
}

// ParseNumericValue converts XBRL fact text into a float64. Filers format
// values inconsistently: commas, leading dollar signs, and parentheses for
// negatives all occur in real filings.
func ParseNumericValue(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}
	cleaned = strings.TrimPrefix(cleaned, "$")

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		val = -val
	}
	return val, nil
}

// normalizeUnit maps a unitRef onto the unit vocabulary used downstream.
// SEC filings reference units like "usd", "USD", "usdPerShare"; an absent
// unitRef defaults to USD.
func normalizeUnit(unitRef string) string {
	if unitRef == "" {
		return defaultUnit
	}
	if strings.ToUpper(unitRef) == "USD" {
		return defaultUnit
	}
	return unitRef
}

// attrValue returns the value of the named attribute, ignoring namespace.
func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
