// Package credit provides the production-credit domain entities.
package credit

import "strings"

// SongRef is a metadata provider's canonical match for a title/artist pair.
type SongRef struct {
	ID     int    // Provider song ID
	Title  string // Canonical title
	Artist string // Canonical primary artist
	URL    string // Provider page URL (optional)
}

// SongDescription is the free-text description of one song plus the
// provider's structured producer credits, in provider order.
// Immutable once fetched.
type SongDescription struct {
	Song            SongRef
	Description     string
	ProducerCredits []string
}

// HasCredits reports whether structured producer credits are present.
func (d *SongDescription) HasCredits() bool {
	return len(d.ProducerCredits) > 0
}

// ListingEntry is one (title, artist) pair scraped from a producer's listing page.
type ListingEntry struct {
	Title  string
	Artist string
}

// Query returns the free-text catalog query for the entry.
func (e ListingEntry) Query() string {
	return strings.TrimSpace(e.Title + " " + e.Artist)
}

// Label renders the entry as "<title> by <artist>".
func (e ListingEntry) Label() string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Title + " by " + e.Artist
}
