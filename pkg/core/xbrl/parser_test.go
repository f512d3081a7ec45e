package xbrl

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"edgar_statements/pkg/core/statement"
)

func quarterlyDoc(quarters int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>
<xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance" xmlns:us-gaap="http://fasb.org/us-gaap/2024" xmlns:dei="http://xbrl.sec.gov/dei/2024">
  <dei:TradingSymbol contextRef="c1">ACME</dei:TradingSymbol>
  <dei:EntityRegistrantName contextRef="c1">Acme Corporation</dei:EntityRegistrantName>
`)
	for i := 0; i < quarters; i++ {
		month := 3 * (i + 1)
		fmt.Fprintf(&b, `  <xbrli:context id="c%d">
    <xbrli:period>
      <xbrli:startDate>2024-%02d-01</xbrli:startDate>
      <xbrli:endDate>2024-%02d-28</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <us-gaap:Revenues contextRef="c%d" unitRef="usd">%d</us-gaap:Revenues>
  <us-gaap:NetIncomeLoss contextRef="c%d" unitRef="usd">%d</us-gaap:NetIncomeLoss>
`, i+1, month-2, month, i+1, (i+1)*1000, i+1, (i+1)*100)
	}
	b.WriteString("</xbrl>")
	return []byte(b.String())
}

func TestParseIncomeStatementQuarterlyPeriods(t *testing.T) {
	parser := NewParser()

	for _, quarters := range []int{1, 2, 4} {
		result := parser.ParseIncomeStatement(quarterlyDoc(quarters))
		if result.ParseError != "" {
			t.Fatalf("%d quarters: unexpected parse error %q", quarters, result.ParseError)
		}
		if len(result.Periods) != quarters {
			t.Errorf("%d quarterly contexts should yield %d periods, got %d", quarters, quarters, len(result.Periods))
		}
		for key, record := range result.Periods {
			if record.PeriodType != statement.PeriodQuarterly {
				t.Errorf("period %s: type = %s, want quarterly", key, record.PeriodType)
			}
			if _, ok := record.Items["Revenues"]; !ok {
				t.Errorf("period %s: missing Revenues after normalization", key)
			}
		}
	}
}

func TestParseIncomeStatementEntityInfo(t *testing.T) {
	result := NewParser().ParseIncomeStatement(quarterlyDoc(1))
	if result.Ticker != "ACME" {
		t.Errorf("ticker = %q, want ACME", result.Ticker)
	}
	if result.CompanyName != "Acme Corporation" {
		t.Errorf("company name = %q, want Acme Corporation", result.CompanyName)
	}
}

func TestParseIncomeStatementIdempotent(t *testing.T) {
	parser := NewParser()
	doc := quarterlyDoc(3)

	first := parser.ParseIncomeStatement(doc)
	second := parser.ParseIncomeStatement(doc)

	if !reflect.DeepEqual(first.Periods, second.Periods) {
		t.Error("parsing the same document twice produced different periods")
	}
	if !reflect.DeepEqual(first.Drops, second.Drops) {
		t.Error("parsing the same document twice produced different drop stats")
	}
}

func TestParseIncomeStatementEmptyDocument(t *testing.T) {
	result := NewParser().ParseIncomeStatement([]byte(`<?xml version="1.0"?><xbrl></xbrl>`))
	if result.ParseError != "" {
		t.Fatalf("well-formed empty document should not set ParseError, got %q", result.ParseError)
	}
	if len(result.Periods) != 0 {
		t.Errorf("empty document should yield zero periods, got %d", len(result.Periods))
	}
	if result.Periods == nil {
		t.Error("Periods map should be initialized even when empty")
	}
}

func TestParseIncomeStatementMalformed(t *testing.T) {
	inputs := [][]byte{
		[]byte(`<xbrl><unclosed>`),
		[]byte(`not xml at all <<<`),
		[]byte(`<xbrl><a></b></xbrl>`),
	}

	parser := NewParser()
	for _, input := range inputs {
		result := parser.ParseIncomeStatement(input)
		if result.ParseError == "" {
			t.Errorf("malformed input %q should set ParseError", input)
		}
		if len(result.Periods) != 0 {
			t.Errorf("malformed input should yield empty statement, got %d periods", len(result.Periods))
		}
	}
}

func TestParseIncomeStatementUnresolvedContexts(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>
<xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance" xmlns:us-gaap="http://fasb.org/us-gaap/2024">
  <xbrli:context id="known">
    <xbrli:period>
      <xbrli:startDate>2024-01-01</xbrli:startDate>
      <xbrli:endDate>2024-03-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <us-gaap:Revenues contextRef="known" unitRef="usd">5000</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="ghost" unitRef="usd">9999</us-gaap:Revenues>
</xbrl>`)

	result := NewParser().ParseIncomeStatement(doc)
	if len(result.Periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(result.Periods))
	}
	if result.Drops.UnresolvedContexts != 1 {
		t.Errorf("fact with unknown contextRef should count as unresolved, got %d", result.Drops.UnresolvedContexts)
	}
	for _, record := range result.Periods {
		if record.Items["Revenues"].Value != 5000 {
			t.Errorf("Revenues = %v, want 5000", record.Items["Revenues"].Value)
		}
	}
}
