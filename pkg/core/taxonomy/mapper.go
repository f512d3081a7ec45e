// Package taxonomy maps raw US-GAAP concept names (and common company
// extension tags) onto the canonical income statement vocabulary.
package taxonomy

import "edgar_statements/pkg/core/statement"

// Canonical concept names. Validation and rendering key off these; raw
// taxonomy names never leave this package.
const (
	Revenues            = "Revenues"
	CostOfRevenue       = "CostOfRevenue"
	GrossProfit         = "GrossProfit"
	OperatingExpenses   = "OperatingExpenses"
	OperatingIncomeLoss = "OperatingIncomeLoss"
	IncomeBeforeTax     = "IncomeBeforeTax"
	IncomeTaxExpense    = "IncomeTaxExpenseBenefit"
	NetIncomeLoss       = "NetIncomeLoss"
	EPSBasic            = "EarningsPerShareBasic"
	EPSDiluted          = "EarningsPerShareDiluted"
)

// CanonicalOrder is the presentation order of the canonical vocabulary,
// top line to bottom line.
var CanonicalOrder = []string{
	Revenues,
	CostOfRevenue,
	GrossProfit,
	OperatingExpenses,
	OperatingIncomeLoss,
	IncomeBeforeTax,
	IncomeTaxExpense,
	NetIncomeLoss,
	EPSBasic,
	EPSDiluted,
}

// incomeStatementMapping maps raw US-GAAP tags onto canonical names.
var incomeStatementMapping = map[string]string{
	// Revenue concepts
	"Revenues":        Revenues,
	"Revenue":         Revenues,
	"SalesRevenueNet": Revenues,
	"RevenueFromContractWithCustomerExcludingAssessedTax": Revenues,
	"RevenueFromContractWithCustomer":                     Revenues,

	// Cost of revenue concepts
	"CostOfRevenue":              CostOfRevenue,
	"CostOfGoodsAndServicesSold": CostOfRevenue,
	"CostOfGoodsSold":            CostOfRevenue,
	"CostOfServices":             CostOfRevenue,

	"GrossProfit": GrossProfit,

	// Operating expense concepts
	"OperatingExpenses":                          OperatingExpenses,
	"SellingGeneralAndAdministrativeExpense":     OperatingExpenses,
	"ResearchAndDevelopmentExpense":              OperatingExpenses,

	// Operating income concepts
	"OperatingIncomeLoss":          OperatingIncomeLoss,
	"IncomeLossFromOperations":     OperatingIncomeLoss,

	// Pre-tax and tax concepts
	"IncomeLossFromContinuingOperationsBeforeIncomeTaxes": IncomeBeforeTax,
	"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest": IncomeBeforeTax,
	"IncomeTaxExpenseBenefit": IncomeTaxExpense,

	// Net income concepts
	"NetIncomeLoss": NetIncomeLoss,
	"ProfitLoss":    NetIncomeLoss,

	// EPS concepts
	"EarningsPerShareBasic":   EPSBasic,
	"EarningsPerShareDiluted": EPSDiluted,
}

// techSectorMapping covers extension tags common among technology filers.
// Deep custom-taxonomy mapping is out of scope; unmapped tags are carried
// in the period's extension map, never dropped.
var techSectorMapping = map[string]string{
	"CloudServicesRevenue":              "CloudRevenue",
	"HostedSoftwareAndSolutionsRevenue": "CloudRevenue",
	"SoftwareAsAServiceRevenue":         "CloudRevenue",
	"SubscriptionRevenue":               "SubscriptionRevenue",
	"RecurringRevenue":                  "SubscriptionRevenue",
	"HardwareRevenue":                   "HardwareRevenue",
	"ProductRevenue":                    "HardwareRevenue",
}

// StandardConcept returns the canonical name for a raw concept, or "" when
// no mapping exists.
func StandardConcept(concept string) string {
	if std, ok := incomeStatementMapping[concept]; ok {
		return std
	}
	if std, ok := techSectorMapping[concept]; ok {
		return std
	}
	return ""
}

// NormalizeStatement rewrites every period's items onto the canonical
// vocabulary and returns a new statement; the input is not mutated.
//
// When two raw aliases in the same period map to the same canonical name
// (a filer tagging both SalesRevenueNet and a contract-revenue breakdown),
// their values are summed. Concepts with no mapping move to the period's
// extension map.
func NormalizeStatement(in *statement.IncomeStatement) *statement.IncomeStatement {
	out := &statement.IncomeStatement{
		Ticker:      in.Ticker,
		CompanyName: in.CompanyName,
		Periods:     make(map[statement.PeriodKey]*statement.PeriodRecord, len(in.Periods)),
		Drops:       in.Drops,
		ParseError:  in.ParseError,
	}

	for key, record := range in.Periods {
		mapped := &statement.PeriodRecord{
			PeriodEndDate: record.PeriodEndDate,
			PeriodType:    record.PeriodType,
			Currency:      record.Currency,
			Items:         make(map[string]statement.Item, len(record.Items)),
		}

		for concept, item := range record.Items {
			std := StandardConcept(concept)
			if std == "" {
				if mapped.Extensions == nil {
					mapped.Extensions = make(map[string]statement.Item)
				}
				mapped.Extensions[concept] = item
				continue
			}

			if existing, ok := mapped.Items[std]; ok {
				existing.Value += item.Value
				mapped.Items[std] = existing
			} else {
				mapped.Items[std] = item
			}
		}

		// Extensions already collected on the input pass through untouched.
		for concept, item := range record.Extensions {
			if mapped.Extensions == nil {
				mapped.Extensions = make(map[string]statement.Item)
			}
			mapped.Extensions[concept] = item
		}

		out.Periods[key] = mapped
	}

	return out
}
