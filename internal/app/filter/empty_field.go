package filter

import (
	"context"
	"strings"

	"github.com/osa030/cratedig/internal/domain/credit"
)

// EmptyFieldFilter drops entries whose title or artist card was blank.
type EmptyFieldFilter struct{}

func (f *EmptyFieldFilter) Name() string {
	return "empty_field_filter"
}

func (f *EmptyFieldFilter) Description() string {
	return "Drops entries with an empty title or artist"
}

func (f *EmptyFieldFilter) ReturnCodes() []string {
	return []string{"empty_field"}
}

func (f *EmptyFieldFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *EmptyFieldFilter) Check(ctx context.Context, entry credit.ListingEntry, kept []credit.ListingEntry) Result {
	if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Artist) == "" {
		return Reject("empty_field")
	}
	return Accept()
}

func init() {
	Register("empty_field_filter", func() Filter {
		return &EmptyFieldFilter{}
	})
}
