package statement

import (
	"math"
	"testing"
	"time"
)

func addPeriod(s *IncomeStatement, endDate string, items map[string]float64) {
	end, _ := time.Parse("2006-01-02", endDate)
	key := NewPeriodKey(end, PeriodQuarterly)
	record := &PeriodRecord{
		PeriodEndDate: endDate,
		PeriodType:    PeriodQuarterly,
		Currency:      "USD",
		Items:         make(map[string]Item),
	}
	for concept, value := range items {
		record.Items[concept] = Item{Value: value, Unit: "USD"}
	}
	s.Periods[key] = record
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMetricsRevenueGrowth(t *testing.T) {
	s := NewIncomeStatement()
	addPeriod(s, "2024-03-31", map[string]float64{"Revenues": 1000})
	addPeriod(s, "2024-06-30", map[string]float64{"Revenues": 1100})
	addPeriod(s, "2024-09-30", map[string]float64{"Revenues": 990})

	m := ComputeMetrics(s)
	if len(m.RevenueGrowth) != 2 {
		t.Fatalf("expected 2 growth entries, got %d", len(m.RevenueGrowth))
	}
	if !approx(m.RevenueGrowth[0].GrowthRate, 10) {
		t.Errorf("Q2 growth = %v, want 10", m.RevenueGrowth[0].GrowthRate)
	}
	if !approx(m.RevenueGrowth[1].GrowthRate, -10) {
		t.Errorf("Q3 growth = %v, want -10", m.RevenueGrowth[1].GrowthRate)
	}
}

func TestComputeMetricsMargins(t *testing.T) {
	s := NewIncomeStatement()
	addPeriod(s, "2024-03-31", map[string]float64{
		"Revenues":            1000,
		"GrossProfit":         400,
		"OperatingIncomeLoss": 250,
		"NetIncomeLoss":       150,
		"OperatingExpenses":   150,
	})

	m := ComputeMetrics(s)
	if len(m.ProfitMargins) != 1 {
		t.Fatalf("expected 1 margin entry, got %d", len(m.ProfitMargins))
	}
	margins := m.ProfitMargins[0].Margins
	if !approx(margins["gross_margin"], 40) {
		t.Errorf("gross margin = %v, want 40", margins["gross_margin"])
	}
	if !approx(margins["operating_margin"], 25) {
		t.Errorf("operating margin = %v, want 25", margins["operating_margin"])
	}
	if !approx(margins["net_margin"], 15) {
		t.Errorf("net margin = %v, want 15", margins["net_margin"])
	}

	if len(m.OperatingEfficiency) != 1 {
		t.Fatalf("expected 1 efficiency entry, got %d", len(m.OperatingEfficiency))
	}
	if !approx(m.OperatingEfficiency[0].OpexToRevenue, 15) {
		t.Errorf("opex ratio = %v, want 15", m.OperatingEfficiency[0].OpexToRevenue)
	}
}

func TestComputeMetricsSkipsGaps(t *testing.T) {
	s := NewIncomeStatement()
	addPeriod(s, "2024-03-31", map[string]float64{"NetIncomeLoss": 150})
	addPeriod(s, "2024-06-30", map[string]float64{"Revenues": 0, "GrossProfit": 10})
	addPeriod(s, "2024-09-30", map[string]float64{"Revenues": 500})

	m := ComputeMetrics(s)
	if len(m.RevenueGrowth) != 0 {
		t.Errorf("missing or zero revenue should produce no growth entries, got %d", len(m.RevenueGrowth))
	}
	if len(m.ProfitMargins) != 0 {
		t.Errorf("periods without both revenue and a margin input should be skipped, got %d", len(m.ProfitMargins))
	}
}

func TestComputeMetricsEmptyStatement(t *testing.T) {
	m := ComputeMetrics(NewIncomeStatement())
	if m == nil {
		t.Fatal("metrics should never be nil")
	}
	if len(m.RevenueGrowth)+len(m.ProfitMargins)+len(m.OperatingEfficiency) != 0 {
		t.Error("empty statement should produce empty metric slices")
	}
}
