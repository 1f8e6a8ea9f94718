package finder

import (
	"context"

	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// EventType represents a search progress event type.
type EventType int

const (
	EventSeedResolved    EventType = iota // Seed track found on the catalog
	EventSongResolved                     // Seed song found on the metadata provider
	EventProducersFound                   // Producer names extracted
	EventProducerStarted                  // A producer's listing search started
	EventProducerDone                     // A producer's section is complete
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventSeedResolved:
		return "seed_resolved"
	case EventSongResolved:
		return "song_resolved"
	case EventProducersFound:
		return "producers_found"
	case EventProducerStarted:
		return "producer_started"
	case EventProducerDone:
		return "producer_done"
	default:
		return "unknown"
	}
}

// Event represents a search progress event.
type Event struct {
	RunID     string
	Type      EventType
	Seed      *track.Track    // EventSeedResolved
	Song      *credit.SongRef // EventSongResolved
	Producers []string        // EventProducersFound
	Index     int             // producer position for producer events
	Producer  string          // producer events
	Section   *Section        // EventProducerDone
}

// emit sends ev unless progress is nil or ctx is done.
func emit(ctx context.Context, progress chan<- Event, ev Event) {
	if progress == nil {
		return
	}
	select {
	case progress <- ev:
	case <-ctx.Done():
	}
}
