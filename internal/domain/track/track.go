// Package track provides the catalog Track entity.
package track

import (
	"strings"
	"time"
)

// Track represents a track returned by the catalog search provider.
// Contains only information retrieved from the catalog; read-only once fetched.
type Track struct {
	ID          string        // Catalog (Spotify) track ID
	Name        string        // Track title
	Artists     []string      // Artist names, primary artist first
	Album       string        // Album name
	AlbumArtURL string        // Album art URL
	Duration    time.Duration // Track duration
	URL         string        // External link to the track
	Popularity  int           // Popularity score (0-100)
	Explicit    bool          // Explicit content flag
}

// PrimaryArtist returns the first credited artist, or an empty string.
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Label renders the track as "<name> by <primary artist>".
// Tracks without artists render as the bare name.
func (t *Track) Label() string {
	artist := t.PrimaryArtist()
	if artist == "" {
		return t.Name
	}
	return t.Name + " by " + artist
}

// SearchText returns the free-text catalog query for this track.
func (t *Track) SearchText() string {
	return strings.TrimSpace(t.Name + " " + t.PrimaryArtist())
}
