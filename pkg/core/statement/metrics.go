package statement

// DerivedMetrics holds ratios computed from the aggregated periods. These
// are presentation helpers layered on top of the raw statement; gaps in the
// underlying items simply produce fewer metric entries.
type DerivedMetrics struct {
	RevenueGrowth       []GrowthMetric     `json:"revenue_growth"`
	ProfitMargins       []MarginMetric     `json:"profit_margins"`
	OperatingEfficiency []EfficiencyMetric `json:"operating_efficiency"`
}

// GrowthMetric is period-over-period revenue growth.
type GrowthMetric struct {
	CurrentPeriod  PeriodKey `json:"current_period"`
	PreviousPeriod PeriodKey `json:"previous_period"`
	GrowthRate     float64   `json:"growth_rate"`
	Unit           string    `json:"unit"`
}

// MarginMetric holds the margin percentages available for one period.
type MarginMetric struct {
	Period  PeriodKey          `json:"period"`
	Margins map[string]float64 `json:"margins"`
	Unit    string             `json:"unit"`
}

// EfficiencyMetric is the opex-to-revenue ratio for one period.
type EfficiencyMetric struct {
	Period        PeriodKey `json:"period"`
	OpexToRevenue float64   `json:"opex_to_revenue"`
	Unit          string    `json:"unit"`
}

// ComputeMetrics derives growth, margin, and efficiency metrics from the
// statement's periods. The receiver is not mutated; callers attach the
// result to the statement themselves.
func ComputeMetrics(s *IncomeStatement) *DerivedMetrics {
	m := &DerivedMetrics{
		RevenueGrowth:       []GrowthMetric{},
		ProfitMargins:       []MarginMetric{},
		OperatingEfficiency: []EfficiencyMetric{},
	}

	keys := s.SortedKeys()

	// Period-over-period revenue growth across chronologically adjacent
	// periods with revenue on both sides.
	for i := 1; i < len(keys); i++ {
		prev, okPrev := itemValue(s.Periods[keys[i-1]], "Revenues")
		cur, okCur := itemValue(s.Periods[keys[i]], "Revenues")
		if !okPrev || !okCur || prev == 0 {
			continue
		}
		m.RevenueGrowth = append(m.RevenueGrowth, GrowthMetric{
			CurrentPeriod:  keys[i],
			PreviousPeriod: keys[i-1],
			GrowthRate:     (cur - prev) / prev * 100,
			Unit:           "%",
		})
	}

	for _, key := range keys {
		record := s.Periods[key]
		revenue, ok := itemValue(record, "Revenues")
		if !ok || revenue == 0 {
			continue
		}

		margins := make(map[string]float64)
		if gp, ok := itemValue(record, "GrossProfit"); ok {
			margins["gross_margin"] = gp / revenue * 100
		}
		if oi, ok := itemValue(record, "OperatingIncomeLoss"); ok {
			margins["operating_margin"] = oi / revenue * 100
		}
		if ni, ok := itemValue(record, "NetIncomeLoss"); ok {
			margins["net_margin"] = ni / revenue * 100
		}
		if len(margins) > 0 {
			m.ProfitMargins = append(m.ProfitMargins, MarginMetric{
				Period:  key,
				Margins: margins,
				Unit:    "%",
			})
		}

		if opex, ok := itemValue(record, "OperatingExpenses"); ok {
			m.OperatingEfficiency = append(m.OperatingEfficiency, EfficiencyMetric{
				Period:        key,
				OpexToRevenue: opex / revenue * 100,
				Unit:          "%",
			})
		}
	}

	return m
}

func itemValue(record *PeriodRecord, concept string) (float64, bool) {
	if record == nil {
		return 0, false
	}
	item, ok := record.Items[concept]
	return item.Value, ok
}
