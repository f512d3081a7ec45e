// Package provider abstracts income statement data sources: SEC EDGAR
// filings, local files, and third-party financial APIs, with a selector
// that picks the best available source per ticker.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"edgar_statements/pkg/core/statement"
)

// Priority orders providers when several can serve a ticker.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Request narrows what a caller wants from a provider.
type Request struct {
	Ticker string
	Period statement.PeriodType // quarterly or annual; quarterly when zero
	Limit  int                  // max periods; provider default when zero
}

// Provider is one source of income statement data.
type Provider interface {
	// Name identifies the provider in logs and selection results.
	Name() string
	// IncomeStatement fetches and normalizes the statement for a ticker.
	IncomeStatement(ctx context.Context, req Request) (*statement.IncomeStatement, error)
}

// ErrNoProviders is returned when the selector has nothing to ask.
var ErrNoProviders = errors.New("no data providers available")

// registration pairs a provider with its selection weights.
type registration struct {
	provider     Provider
	priority     Priority
	completeness int // rough share of canonical fields the source covers
}

// Selector picks among registered providers. Local data wins outright when
// it exists and has periods; otherwise providers are tried in priority
// order (completeness breaking ties), falling through on error or empty
// result.
type Selector struct {
	local   Provider
	entries []registration
}

// NewSelector builds an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// WithLocal registers the local-data provider consulted before any remote
// source.
func (s *Selector) WithLocal(p Provider) *Selector {
	s.local = p
	return s
}

// Register adds a remote provider with its selection weights.
func (s *Selector) Register(p Provider, priority Priority, completeness int) *Selector {
	s.entries = append(s.entries, registration{provider: p, priority: priority, completeness: completeness})
	return s
}

// ranked returns remote providers in selection order.
func (s *Selector) ranked() []Provider {
	entries := make([]registration, len(s.entries))
	copy(entries, s.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].completeness > entries[j].completeness
	})

	providers := make([]Provider, len(entries))
	for i, entry := range entries {
		providers[i] = entry.provider
	}
	return providers
}

// IncomeStatement resolves the request against the best available source.
// The second return names the provider that answered.
func (s *Selector) IncomeStatement(ctx context.Context, req Request) (*statement.IncomeStatement, string, error) {
	if s.local != nil {
		result, err := s.local.IncomeStatement(ctx, req)
		if err == nil && result != nil && len(result.Periods) > 0 {
			log.Printf("[PROVIDER] Using local data for %s", req.Ticker)
			return result, s.local.Name(), nil
		}
	}

	providers := s.ranked()
	if len(providers) == 0 && s.local == nil {
		return nil, "", ErrNoProviders
	}

	var lastErr error
	for _, p := range providers {
		result, err := p.IncomeStatement(ctx, req)
		if err != nil {
			log.Printf("[PROVIDER] %s failed for %s: %v", p.Name(), req.Ticker, err)
			lastErr = err
			continue
		}
		if result == nil || len(result.Periods) == 0 {
			log.Printf("[PROVIDER] %s returned no periods for %s, trying next", p.Name(), req.Ticker)
			continue
		}
		log.Printf("[PROVIDER] Selected %s for %s", p.Name(), req.Ticker)
		return result, p.Name(), nil
	}

	if lastErr != nil {
		return nil, "", fmt.Errorf("all providers failed for %s: %w", req.Ticker, lastErr)
	}
	return nil, "", fmt.Errorf("no provider had income statement data for %s", req.Ticker)
}
