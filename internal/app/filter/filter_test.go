package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/cratedig/internal/domain/credit"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"duplicate_entry_filter",
		"empty_field_filter",
		"entry_limit_filter",
	}, Names())

	for name, factory := range GetRegistered() {
		f := factory()
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.Description())
		assert.NotEmpty(t, f.ReturnCodes())
	}
}

func TestBuild(t *testing.T) {
	chain, err := Build(map[string]map[string]any{
		"entry_limit_filter":     {"max_entries": 2},
		"duplicate_entry_filter": nil,
	})
	require.NoError(t, err)
	require.Len(t, chain.Filters(), 2)
	assert.Equal(t, "duplicate_entry_filter", chain.Filters()[0].Name())
	assert.Equal(t, "entry_limit_filter", chain.Filters()[1].Name())
}

func TestBuild_UnknownFilter(t *testing.T) {
	_, err := Build(map[string]map[string]any{"no_such_filter": nil})
	assert.Error(t, err)
}

func TestBuild_InvalidSettings(t *testing.T) {
	_, err := Build(map[string]map[string]any{
		"entry_limit_filter": {"max_entries": -3},
	})
	assert.Error(t, err)
}

func TestChain_EmptyKeepsEverything(t *testing.T) {
	entries := []credit.ListingEntry{
		{Title: "A", Artist: "X"},
		{Title: "A", Artist: "X"},
		{Title: "", Artist: ""},
	}

	assert.Equal(t, entries, NewChain().Apply(context.Background(), entries))
}

func TestChain_Apply(t *testing.T) {
	chain := NewChain()
	chain.Add(&EmptyFieldFilter{})
	chain.Add(NewDuplicateEntryFilter())
	limit := NewEntryLimitFilter()
	require.NoError(t, limit.ValidateConfig(map[string]any{"max_entries": 3}))
	chain.Add(limit)

	entries := []credit.ListingEntry{
		{Title: "Bohemian Rhapsody", Artist: "Queen"},
		{Title: "", Artist: "Queen"},
		{Title: "Bohemian Rhapsody - 2011 Remaster", Artist: "queen"},
		{Title: "Yesterday", Artist: "The Beatles"},
		{Title: "Yesterday", Artist: "Paul McCartney"},
		{Title: "Let It Be", Artist: "The Beatles"},
	}

	kept := chain.Apply(context.Background(), entries)

	assert.Equal(t, []credit.ListingEntry{
		{Title: "Bohemian Rhapsody", Artist: "Queen"},
		{Title: "Yesterday", Artist: "The Beatles"},
		{Title: "Yesterday", Artist: "Paul McCartney"},
	}, kept)
}

func TestChain_ExecuteStopsAtFirstReject(t *testing.T) {
	chain := NewChain()
	chain.Add(&EmptyFieldFilter{})
	chain.Add(NewDuplicateEntryFilter())

	kept := []credit.ListingEntry{{Title: "A", Artist: "X"}}
	result := chain.Execute(context.Background(), credit.ListingEntry{Title: "A"}, kept)

	assert.False(t, result.Accepted)
	assert.Equal(t, "empty_field", result.Code)
}
