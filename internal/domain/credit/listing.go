package credit

import "github.com/osa030/cratedig/internal/domain/track"

// ReconciledEntry is a ListingEntry matched (or not) against the catalog.
type ReconciledEntry struct {
	ListingEntry
	Resolved   bool         // Catalog returned a match
	Track      *track.Track // Matched catalog track (nil when unresolved)
	Similarity float64      // Text similarity of the match, 0..1 (display only)
}

// Link returns the external catalog link of the match, or "" when unresolved.
func (e *ReconciledEntry) Link() string {
	if !e.Resolved || e.Track == nil {
		return ""
	}
	return e.Track.URL
}

// Listing groups the reconciled songs found on one producer's listing page.
type Listing struct {
	Producer   string            // Producer name as extracted
	ProducerID string            // Normalized listing identifier
	Entries    []ReconciledEntry // Reconciled entries in page order
}

// ResolvedCount returns the number of entries with a catalog match.
func (l *Listing) ResolvedCount() int {
	n := 0
	for _, e := range l.Entries {
		if e.Resolved {
			n++
		}
	}
	return n
}

// Links returns the catalog links of all resolved entries in page order.
func (l *Listing) Links() []string {
	links := make([]string, 0, len(l.Entries))
	for i := range l.Entries {
		if link := l.Entries[i].Link(); link != "" {
			links = append(links, link)
		}
	}
	return links
}
