package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/cratedig/internal/domain/credit"
)

// Chain executes filters in sequence. A configured chain is read-only and
// safe for concurrent use.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Build creates a chain from the enabled filters and their settings, keyed by
// filter name. Filters are added in name order.
func Build(enabled map[string]map[string]any) (*Chain, error) {
	chain := NewChain()
	for _, name := range Names() {
		settings, ok := enabled[name]
		if !ok {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(settings); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("filter enabled: %s", name)
	}

	for name := range enabled {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the entry.
func (c *Chain) Execute(ctx context.Context, entry credit.ListingEntry, kept []credit.ListingEntry) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, entry, kept)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns the entries accepted by every filter, in input order.
func (c *Chain) Apply(ctx context.Context, entries []credit.ListingEntry) []credit.ListingEntry {
	if len(c.filters) == 0 {
		return entries
	}

	kept := make([]credit.ListingEntry, 0, len(entries))
	for _, entry := range entries {
		result := c.Execute(ctx, entry, kept)
		if !result.Accepted {
			zlog.Debug().Str("code", result.Code).Msgf("entry dropped: %s", entry.Label())
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
