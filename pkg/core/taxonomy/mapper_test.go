package taxonomy

import (
	"testing"
	"time"

	"edgar_statements/pkg/core/statement"
)

func TestStandardConcept(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Revenues", Revenues},
		{"SalesRevenueNet", Revenues},
		{"RevenueFromContractWithCustomerExcludingAssessedTax", Revenues},
		{"CostOfGoodsAndServicesSold", CostOfRevenue},
		{"SellingGeneralAndAdministrativeExpense", OperatingExpenses},
		{"ProfitLoss", NetIncomeLoss},
		{"EarningsPerShareDiluted", EPSDiluted},
		{"SubscriptionRevenue", "SubscriptionRevenue"},
		{"CloudServicesRevenue", "CloudRevenue"},
		{"TotallyMadeUpConcept", ""},
	}

	for _, tt := range tests {
		if got := StandardConcept(tt.raw); got != tt.want {
			t.Errorf("StandardConcept(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func testStatement(items map[string]statement.Item) *statement.IncomeStatement {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	key := statement.NewPeriodKey(end, statement.PeriodAnnual)
	return &statement.IncomeStatement{
		Ticker: "ACME",
		Periods: map[statement.PeriodKey]*statement.PeriodRecord{
			key: {
				PeriodEndDate: end.Format("2006-01-02"),
				PeriodType:    statement.PeriodAnnual,
				Currency:      "USD",
				Items:         items,
			},
		},
	}
}

func singlePeriod(t *testing.T, s *statement.IncomeStatement) *statement.PeriodRecord {
	t.Helper()
	if len(s.Periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(s.Periods))
	}
	for _, record := range s.Periods {
		return record
	}
	return nil
}

func TestNormalizeStatementMapsAliases(t *testing.T) {
	in := testStatement(map[string]statement.Item{
		"SalesRevenueNet":            {Value: 1000, Unit: "USD"},
		"CostOfGoodsAndServicesSold": {Value: 600, Unit: "USD"},
		"ProfitLoss":                 {Value: 150, Unit: "USD"},
	})

	out := NormalizeStatement(in)
	record := singlePeriod(t, out)

	if got := record.Items[Revenues].Value; got != 1000 {
		t.Errorf("Revenues = %v, want 1000", got)
	}
	if got := record.Items[CostOfRevenue].Value; got != 600 {
		t.Errorf("CostOfRevenue = %v, want 600", got)
	}
	if got := record.Items[NetIncomeLoss].Value; got != 150 {
		t.Errorf("NetIncomeLoss = %v, want 150", got)
	}
	if _, ok := record.Items["SalesRevenueNet"]; ok {
		t.Error("raw alias should not survive normalization")
	}
}

func TestNormalizeStatementSumsCollidingAliases(t *testing.T) {
	in := testStatement(map[string]statement.Item{
		"SellingGeneralAndAdministrativeExpense": {Value: 300, Unit: "USD"},
		"ResearchAndDevelopmentExpense":          {Value: 200, Unit: "USD"},
	})

	out := NormalizeStatement(in)
	record := singlePeriod(t, out)

	if got := record.Items[OperatingExpenses].Value; got != 500 {
		t.Errorf("colliding aliases should sum: got %v, want 500", got)
	}
}

func TestNormalizeStatementExtensions(t *testing.T) {
	in := testStatement(map[string]statement.Item{
		"Revenues":           {Value: 1000, Unit: "USD"},
		"AcmeWidgetRevenue":  {Value: 400, Unit: "USD"},
		"AnotherCustomThing": {Value: 5, Unit: "USD"},
	})

	out := NormalizeStatement(in)
	record := singlePeriod(t, out)

	if len(record.Items) != 1 {
		t.Errorf("only mapped concepts belong in Items, got %d", len(record.Items))
	}
	if got := record.Extensions["AcmeWidgetRevenue"].Value; got != 400 {
		t.Errorf("unmapped concept should land in Extensions: got %v", got)
	}
	if len(record.Extensions) != 2 {
		t.Errorf("expected 2 extensions, got %d", len(record.Extensions))
	}
}

func TestNormalizeStatementDoesNotMutateInput(t *testing.T) {
	in := testStatement(map[string]statement.Item{
		"SalesRevenueNet": {Value: 1000, Unit: "USD"},
	})

	_ = NormalizeStatement(in)

	record := singlePeriod(t, in)
	if _, ok := record.Items["SalesRevenueNet"]; !ok {
		t.Error("input statement was mutated")
	}
}
