// Package xbrl parses XBRL instance documents from SEC EDGAR filings and
// extracts standardized income statement data.
//
// Parsing is best-effort by design: malformed contexts and non-numeric
// facts are dropped silently, and quality judgment over the accumulated
// result belongs to the validate package.
package xbrl

// quarterlyMaxDays is the elapsed-day split between quarterly and annual
// duration contexts. A ~90 day span classifies as quarterly, a ~365 day
// span as annual.
const quarterlyMaxDays = 100

// defaultUnit is assumed when a fact carries no unitRef.
const defaultUnit = "USD"

// incomeStatementConcepts is the fixed set of US-GAAP income statement
// concepts recognized by the fact extractor. Company extension tags outside
// this list are not extracted; the gap shows up as a validation warning.
var incomeStatementConcepts = []string{
	"Revenues",
	"Revenue",
	"SalesRevenueNet",
	"RevenueFromContractWithCustomerExcludingAssessedTax",
	"RevenueFromContractWithCustomer",
	"CostOfRevenue",
	"CostOfGoodsAndServicesSold",
	"CostOfGoodsSold",
	"CostOfServices",
	"GrossProfit",
	"OperatingExpenses",
	"SellingGeneralAndAdministrativeExpense",
	"ResearchAndDevelopmentExpense",
	"OperatingIncomeLoss",
	"IncomeLossFromContinuingOperationsBeforeIncomeTaxes",
	"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	"IncomeTaxExpenseBenefit",
	"NetIncomeLoss",
	"ProfitLoss",
	"EarningsPerShareBasic",
	"EarningsPerShareDiluted",
}

// RecognizedConcepts returns a copy of the recognized concept list.
func RecognizedConcepts() []string {
	out := make([]string, len(incomeStatementConcepts))
	copy(out, incomeStatementConcepts)
	return out
}
