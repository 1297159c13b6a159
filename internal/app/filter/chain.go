package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the candidate.
func (c *Chain) Execute(ctx context.Context, candidate video.Content, existing []video.Record) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, candidate, existing)
		if !result.Accepted {
			zlog.Debug().Msgf("filter: rejected: filter=%s file=%s code=%s", f.Name(), candidate.FileName, result.Code)
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// SettingsSource reports which registered filters are enabled and their
// settings.
type SettingsSource interface {
	IsFilterEnabled(name string) bool
	FilterSettings(name string) map[string]any
}

// BuildChain creates the import chain. The duplicate filter always runs
// first; registered filters follow in name order when enabled.
func BuildChain(src SettingsSource) (*Chain, error) {
	chain := NewChain()
	chain.Add(NewDuplicateFilter())

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !src.IsFilterEnabled(name) {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(src.FilterSettings(name)); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("filter: enabled: %s", name)
	}
	return chain, nil
}
