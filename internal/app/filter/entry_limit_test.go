package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/cratedig/internal/domain/credit"
)

func TestEntryLimitFilter_Check(t *testing.T) {
	f := NewEntryLimitFilter()
	f.config = &EntryLimitConfig{MaxEntries: 2}

	one := []credit.ListingEntry{{Title: "a", Artist: "x"}}
	two := append(one, credit.ListingEntry{Title: "b", Artist: "x"})

	assert.True(t, f.Check(context.Background(), credit.ListingEntry{}, nil).Accepted)
	assert.True(t, f.Check(context.Background(), credit.ListingEntry{}, one).Accepted)

	result := f.Check(context.Background(), credit.ListingEntry{}, two)
	assert.False(t, result.Accepted)
	assert.Equal(t, "entry_limit", result.Code)
}

func TestEntryLimitFilter_Unconfigured(t *testing.T) {
	kept := make([]credit.ListingEntry, 1000)
	assert.True(t, NewEntryLimitFilter().Check(context.Background(), credit.ListingEntry{}, kept).Accepted)
}

func TestEntryLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		wantMax  int
		wantErr  bool
	}{
		{
			name:     "Valid config",
			settings: map[string]interface{}{"max_entries": 10},
			wantMax:  10,
		},
		{
			name:     "Empty settings (uses default)",
			settings: map[string]interface{}{},
			wantMax:  20,
		},
		{
			name:     "Nil settings (uses default)",
			settings: nil,
			wantMax:  20,
		},
		{
			name:     "Invalid negative",
			settings: map[string]interface{}{"max_entries": -1},
			wantErr:  true,
		},
		{
			name:     "Invalid too large",
			settings: map[string]interface{}{"max_entries": 1000},
			wantErr:  true,
		},
		{
			name:     "Invalid type",
			settings: map[string]interface{}{"max_entries": "many"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewEntryLimitFilter()
			err := f.ValidateConfig(tt.settings)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMax, f.config.MaxEntries)
		})
	}
}
