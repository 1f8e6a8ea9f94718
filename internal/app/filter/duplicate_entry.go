package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/cratedig/internal/domain/credit"
)

// DuplicateEntryFilter drops listing entries that repeat an earlier one.
// Detects:
// - Remasters, edits and live versions (normalized title + same artist)
// Excludes:
// - Cover songs (same title but different artist)
// - Remixes
type DuplicateEntryFilter struct{}

// NewDuplicateEntryFilter creates a new duplicate entry filter.
func NewDuplicateEntryFilter() *DuplicateEntryFilter {
	return &DuplicateEntryFilter{}
}

// Name returns the filter name.
func (f *DuplicateEntryFilter) Name() string {
	return "duplicate_entry_filter"
}

// Description returns the filter description.
func (f *DuplicateEntryFilter) Description() string {
	return "Drops repeated songs on a listing page (remasters included). Covers by other artists are kept"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateEntryFilter) ReturnCodes() []string {
	return []string{"duplicate_entry"}
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateEntryFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

// Check rejects entry when an equivalent entry was already kept.
func (f *DuplicateEntryFilter) Check(ctx context.Context, entry credit.ListingEntry, kept []credit.ListingEntry) Result {
	title := normalizeTitle(entry.Title)
	for _, prev := range kept {
		if normalizeTitle(prev.Title) == title && isSameArtist(prev, entry) {
			return Reject("duplicate_entry")
		}
	}
	return Accept()
}

var (
	remasterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),      // "- 2011 Remaster"
		regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),     // "(Remastered 2023)"
		regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),     // "[Remastered]"
		regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`), // "- Remastered"
		regexp.MustCompile(`\s*\(.*?remaster.*?\)`),              // "(Any Remaster text)"
		regexp.MustCompile(`\s*\[.*?remaster.*?\]`),              // "[Any Remaster text]"
	}
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*\(.*?version\)`),        // "(Single Version)"
		regexp.MustCompile(`\s*\(.*?edit\)`),           // "(Radio Edit)"
		regexp.MustCompile(`\s*-\s*live$`),             // "- Live"
		regexp.MustCompile(`\s*\(live\)`),              // "(Live)"
		regexp.MustCompile(`\s*-?\s*radio\s+edit`),     // "- Radio Edit"
		regexp.MustCompile(`\s*-?\s*single\s+version`), // "- Single Version"
	}
	spaceRun = regexp.MustCompile(`\s+`)
)

// normalizeTitle removes remaster information and version details.
func normalizeTitle(name string) string {
	normalized := strings.ToLower(name)

	for _, pattern := range remasterPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}
	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(normalized)
	normalized = spaceRun.ReplaceAllString(normalized, " ")

	// Remove trailing dashes
	return strings.TrimRight(normalized, " -")
}

// isSameArtist compares credited artists, case-insensitive.
func isSameArtist(a, b credit.ListingEntry) bool {
	if a.Artist == "" || b.Artist == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Artist), strings.TrimSpace(b.Artist))
}

func init() {
	Register("duplicate_entry_filter", func() Filter {
		return NewDuplicateEntryFilter()
	})
}
