// Package statement defines the canonical income statement model and the
// period aggregation that builds it from resolved XBRL contexts and facts.
package statement

import (
	"fmt"
	"sort"
	"time"
)

// PeriodType classifies the reporting period of a context.
type PeriodType string

const (
	// PeriodInstant is a point-in-time context (balance sheet style).
	PeriodInstant PeriodType = "instant"
	// PeriodQuarterly is a duration context spanning roughly one quarter.
	PeriodQuarterly PeriodType = "quarterly"
	// PeriodAnnual is a duration context spanning roughly a year.
	PeriodAnnual PeriodType = "annual"
)

// Period is the resolved reporting period of one XBRL context.
// Immutable once parsed.
type Period struct {
	ID          string     `json:"id"`
	Type        PeriodType `json:"period_type"`
	PeriodEnd   time.Time  `json:"period_end"`
	PeriodStart time.Time  `json:"period_start,omitempty"` // durations only
}

// Item is a single line item value with its unit.
type Item struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FactSet maps concept name -> context id -> extracted value.
type FactSet map[string]map[string]Item

// DropStats counts elements discarded during best-effort extraction.
// Extraction never fails on a single bad element; gaps are surfaced later
// by the validation engine.
type DropStats struct {
	NonNumericFacts    int `json:"non_numeric_facts,omitempty"`
	UnresolvedContexts int `json:"unresolved_contexts,omitempty"`
	SkippedContexts    int `json:"skipped_contexts,omitempty"`
}

// PeriodKey identifies one fiscal period: end date plus period type.
// Derived deterministically so repeated parses of the same document are
// idempotent, and so distinct contexts covering the same period merge.
type PeriodKey string

// NewPeriodKey builds the key for a period end date and type.
func NewPeriodKey(end time.Time, periodType PeriodType) PeriodKey {
	return PeriodKey(fmt.Sprintf("%s|%s", end.Format("2006-01-02"), periodType))
}

// PeriodRecord holds all line items reported for one fiscal period.
type PeriodRecord struct {
	PeriodEndDate string     `json:"period_end_date"`
	PeriodType    PeriodType `json:"period_type"`
	Currency      string     `json:"currency"`
	// Items is keyed by canonical concept name after normalization
	// (raw concept name before).
	Items map[string]Item `json:"items"`
	// Extensions carries concepts outside the canonical vocabulary.
	// They are preserved for inspection but excluded from validation.
	Extensions map[string]Item `json:"extensions,omitempty"`
}

// IncomeStatement is the top-level parse result.
//
// An empty Periods map combined with a non-empty ParseError means the
// document failed to parse; an empty map with no ParseError means the
// document genuinely contained no usable periods. Callers must not treat
// the two the same way.
type IncomeStatement struct {
	Ticker      string                      `json:"ticker"`
	CompanyName string                      `json:"company_name"`
	Periods     map[PeriodKey]*PeriodRecord `json:"periods"`
	Metrics     *DerivedMetrics             `json:"metrics,omitempty"`
	Drops       DropStats                   `json:"drop_stats,omitempty"`
	ParseError  string                      `json:"parse_error,omitempty"`
}

// NewIncomeStatement returns an empty statement shell.
func NewIncomeStatement() *IncomeStatement {
	return &IncomeStatement{Periods: make(map[PeriodKey]*PeriodRecord)}
}

// SortedKeys returns the period keys in chronological order. Key strings
// start with the ISO end date, so lexical order is date order.
func (s *IncomeStatement) SortedKeys() []PeriodKey {
	keys := make([]PeriodKey, 0, len(s.Periods))
	for k := range s.Periods {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Aggregate joins resolved periods with extracted facts on context id and
// produces the statement's period mapping.
//
// Tuples whose context id does not resolve are dropped and counted. A later
// fact with the same concept and period overwrites an earlier one
// (last-write-wins); conflicts beyond that are the validation engine's
// problem. Distinct contexts that map to the same end-date+type key merge
// their facts intentionally.
func Aggregate(periods map[string]Period, facts FactSet) (map[PeriodKey]*PeriodRecord, int) {
	records := make(map[PeriodKey]*PeriodRecord)
	dropped := 0

	// Deterministic iteration keeps last-write-wins reproducible.
	concepts := make([]string, 0, len(facts))
	for concept := range facts {
		concepts = append(concepts, concept)
	}
	sort.Strings(concepts)

	for _, concept := range concepts {
		byContext := facts[concept]
		contextIDs := make([]string, 0, len(byContext))
		for id := range byContext {
			contextIDs = append(contextIDs, id)
		}
		sort.Strings(contextIDs)

		for _, contextID := range contextIDs {
			period, ok := periods[contextID]
			if !ok {
				dropped++
				continue
			}

			key := NewPeriodKey(period.PeriodEnd, period.Type)
			record, ok := records[key]
			if !ok {
				record = &PeriodRecord{
					PeriodEndDate: period.PeriodEnd.Format("2006-01-02"),
					PeriodType:    period.Type,
					Currency:      "USD",
					Items:         make(map[string]Item),
				}
				records[key] = record
			}

			record.Items[concept] = byContext[contextID]
		}
	}

	return records, dropped
}
