package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"edgar_statements/pkg/core/statement"
)

type fakeProvider struct {
	name   string
	result *statement.IncomeStatement
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) IncomeStatement(_ context.Context, _ Request) (*statement.IncomeStatement, error) {
	f.calls++
	return f.result, f.err
}

func statementWithPeriods(ticker string) *statement.IncomeStatement {
	s := statement.NewIncomeStatement()
	s.Ticker = ticker
	end, _ := time.Parse("2006-01-02", "2024-03-31")
	s.Periods[statement.NewPeriodKey(end, statement.PeriodQuarterly)] = &statement.PeriodRecord{
		PeriodEndDate: "2024-03-31",
		PeriodType:    statement.PeriodQuarterly,
		Currency:      "USD",
		Items: map[string]statement.Item{
			"Revenues": {Value: 1000, Unit: "USD"},
		},
	}
	return s
}

func TestSelectorPrefersLocalData(t *testing.T) {
	local := &fakeProvider{name: "local", result: statementWithPeriods("ACME")}
	remote := &fakeProvider{name: "edgar", result: statementWithPeriods("ACME")}

	selector := NewSelector().WithLocal(local).Register(remote, PriorityHigh, 90)

	_, source, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("IncomeStatement: %v", err)
	}
	if source != "local" {
		t.Errorf("source = %q, want local", source)
	}
	if remote.calls != 0 {
		t.Errorf("remote should not be consulted when local data exists, called %d times", remote.calls)
	}
}

func TestSelectorSkipsEmptyLocal(t *testing.T) {
	local := &fakeProvider{name: "local", result: statement.NewIncomeStatement()}
	remote := &fakeProvider{name: "edgar", result: statementWithPeriods("ACME")}

	selector := NewSelector().WithLocal(local).Register(remote, PriorityHigh, 90)

	_, source, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("IncomeStatement: %v", err)
	}
	if source != "edgar" {
		t.Errorf("source = %q, want edgar", source)
	}
}

func TestSelectorPriorityOrder(t *testing.T) {
	low := &fakeProvider{name: "low", result: statementWithPeriods("ACME")}
	high := &fakeProvider{name: "high", result: statementWithPeriods("ACME")}

	selector := NewSelector().
		Register(low, PriorityLow, 100).
		Register(high, PriorityHigh, 50)

	_, source, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("IncomeStatement: %v", err)
	}
	if source != "high" {
		t.Errorf("source = %q, want high", source)
	}
	if low.calls != 0 {
		t.Error("lower-priority provider consulted unnecessarily")
	}
}

func TestSelectorCompletenessBreaksTies(t *testing.T) {
	sparse := &fakeProvider{name: "sparse", result: statementWithPeriods("ACME")}
	complete := &fakeProvider{name: "complete", result: statementWithPeriods("ACME")}

	selector := NewSelector().
		Register(sparse, PriorityHigh, 65).
		Register(complete, PriorityHigh, 85)

	_, source, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("IncomeStatement: %v", err)
	}
	if source != "complete" {
		t.Errorf("source = %q, want complete", source)
	}
}

func TestSelectorFallsThroughOnFailure(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("rate limited")}
	empty := &fakeProvider{name: "empty", result: statement.NewIncomeStatement()}
	working := &fakeProvider{name: "working", result: statementWithPeriods("ACME")}

	selector := NewSelector().
		Register(failing, PriorityHigh, 90).
		Register(empty, PriorityMedium, 80).
		Register(working, PriorityLow, 70)

	_, source, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("IncomeStatement: %v", err)
	}
	if source != "working" {
		t.Errorf("source = %q, want working", source)
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Error("earlier providers should each be tried once")
	}
}

func TestSelectorAllFail(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("down")}
	selector := NewSelector().Register(failing, PriorityHigh, 90)

	if _, _, err := selector.IncomeStatement(context.Background(), Request{Ticker: "ACME"}); err == nil {
		t.Error("expected error when every provider fails")
	}
}

func TestSelectorNoProviders(t *testing.T) {
	_, _, err := NewSelector().IncomeStatement(context.Background(), Request{Ticker: "ACME"})
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("err = %v, want ErrNoProviders", err)
	}
}
