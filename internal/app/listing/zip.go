package listing

import "github.com/osa030/cratedig/internal/domain/credit"

// Zip pairs titles and artists by position. The result has the length of the
// shorter input; unmatched trailing items are dropped.
func Zip(titles, artists []string) []credit.ListingEntry {
	n := min(len(titles), len(artists))
	entries := make([]credit.ListingEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, credit.ListingEntry{Title: titles[i], Artist: artists[i]})
	}
	return entries
}
