package finder

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/cratedig/internal/app/extract"
	"github.com/osa030/cratedig/internal/app/query"
	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// Outcome is the message code describing how a run ended.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeInvalidQuery  Outcome = "invalid_query"
	OutcomeTrackNotFound Outcome = "track_not_found"
	OutcomeCatalogError  Outcome = "catalog_error"
	OutcomeSongNotFound  Outcome = "song_not_found"
	OutcomeNoProducers   Outcome = "no_producers"
)

// Message codes for empty states inside a successful run.
const (
	CodeNoSongs      = "no_songs"       // producer listing had no entries
	CodeNotOnCatalog = "not_on_catalog" // listing entry has no catalog match
)

var (
	// ErrTrackNotFound is returned when the catalog has no match for the query.
	ErrTrackNotFound = errors.New("track not found on catalog")
	// ErrSongNotFound is returned when the metadata provider is unreachable
	// or has no match for the seed track.
	ErrSongNotFound = errors.New("song not found on metadata provider")
	// ErrNoProducers is returned when no producer could be extracted.
	ErrNoProducers = errors.New("no producers found")
)

// Section is the reconciled listing of one producer.
type Section struct {
	credit.Listing
	URL  string // listing page
	Code string // CodeNoSongs when the listing was empty, else ""
}

// Empty reports whether the producer's listing had no entries.
func (s *Section) Empty() bool {
	return s.Code == CodeNoSongs
}

// EntryCode returns the message code for a reconciled entry, or "" when it
// resolved.
func EntryCode(e *credit.ReconciledEntry) string {
	if e.Resolved {
		return ""
	}
	return CodeNotOnCatalog
}

// Result is the outcome of one search run. Sections are in extraction order.
type Result struct {
	RunID          string
	Query          query.Query
	Outcome        Outcome
	Err            error
	Seed           *track.Track
	Song           *credit.SongRef
	Producers      []string
	ProducerSource extract.Source
	Sections       []Section
	Elapsed        time.Duration
}

// OK reports whether the run reached the producer search stage.
func (r *Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func (r *Result) fail(outcome Outcome, err error) *Result {
	r.Outcome = outcome
	r.Err = err
	return r
}
