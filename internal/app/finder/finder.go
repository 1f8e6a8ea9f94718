// Package finder orchestrates a producer search: it resolves the seed track,
// extracts its producers and reconciles each producer's listing against the
// catalog.
package finder

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/cratedig/internal/app/extract"
	"github.com/osa030/cratedig/internal/app/listing"
	"github.com/osa030/cratedig/internal/app/query"
	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// CatalogSearcher searches the track catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, searchType string, limit int) ([]track.Track, error)
}

// LinkResolver is optionally implemented by a CatalogSearcher to turn a pasted
// catalog link into a track. It returns nil, nil for input that is not a link.
type LinkResolver interface {
	LookupLink(ctx context.Context, input string) (*track.Track, error)
}

// SongMetadata is the song metadata provider.
type SongMetadata interface {
	SearchSong(ctx context.Context, title, artist string) (*credit.SongRef, error)
	GetSong(ctx context.Context, id int) (*credit.SongDescription, error)
}

// ListingSource scrapes producer listing pages.
type ListingSource interface {
	URL(producerID string) string
	FetchListing(ctx context.Context, producerID string) []credit.ListingEntry
}

// EntryResolver reconciles listing entries against the catalog.
type EntryResolver interface {
	Resolve(ctx context.Context, entries []credit.ListingEntry) []credit.ReconciledEntry
}

// EntryFilter drops listing entries before reconciliation.
type EntryFilter interface {
	Apply(ctx context.Context, entries []credit.ListingEntry) []credit.ListingEntry
}

// Config represents finder configuration.
type Config struct {
	Workers         int // producers searched at once
	SuggestionLimit int
}

// Deps are the collaborators of a Finder. Filter is optional.
type Deps struct {
	Catalog  CatalogSearcher
	Metadata SongMetadata
	Listings ListingSource
	Resolver EntryResolver
	Filter   EntryFilter
}

// Finder runs producer searches. Safe for concurrent use.
type Finder struct {
	cfg  Config
	deps Deps
}

// New creates a new finder.
func New(cfg Config, deps Deps) *Finder {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = 5
	}
	return &Finder{cfg: cfg, deps: deps}
}

// Suggest returns catalog matches for raw as-typed input. A pasted catalog
// link resolves to that single track when the catalog supports it.
func (f *Finder) Suggest(ctx context.Context, raw string) ([]track.Track, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []track.Track{}, nil
	}

	if lr, ok := f.deps.Catalog.(LinkResolver); ok {
		t, err := lr.LookupLink(ctx, raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve track link")
		}
		if t != nil {
			return []track.Track{*t}, nil
		}
	}

	tracks, err := f.deps.Catalog.Search(ctx, raw, "track", f.cfg.SuggestionLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch suggestions")
	}
	return tracks, nil
}

// Labels renders tracks as "<track> by <artist>" queries.
func Labels(tracks []track.Track) []string {
	labels := make([]string, 0, len(tracks))
	for i := range tracks {
		labels = append(labels, query.Format(tracks[i].Name, tracks[i].PrimaryArtist()))
	}
	return labels
}

// Run performs a full search for raw. It never returns an error: failures
// are reported through Result.Outcome and Result.Err. Progress events are
// sent on progress when it is non-nil; Run does not close it.
func (f *Finder) Run(ctx context.Context, raw string, progress chan<- Event) *Result {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := zlog.With().Str("run_id", res.RunID).Logger()

	f.run(ctx, logger, raw, res, progress)

	res.Elapsed = time.Since(start)
	ev := logger.Info()
	if res.Err != nil {
		ev = logger.Warn().Err(res.Err)
	}
	ev.Str("outcome", string(res.Outcome)).
		Int("producers", len(res.Producers)).
		Dur("elapsed", res.Elapsed).
		Msg("search finished")
	return res
}

func (f *Finder) run(ctx context.Context, logger zerolog.Logger, raw string, res *Result, progress chan<- Event) {
	q, err := query.Parse(raw)
	if err != nil {
		res.fail(OutcomeInvalidQuery, err)
		return
	}
	res.Query = q
	logger.Info().Str("query", q.String()).Msg("search started")

	tracks, err := f.deps.Catalog.Search(ctx, q.SearchText(), "track", 1)
	if err != nil {
		res.fail(OutcomeCatalogError, errors.Wrap(err, "catalog search failed"))
		return
	}
	if len(tracks) == 0 {
		res.fail(OutcomeTrackNotFound, errors.Wrapf(ErrTrackNotFound, "%s", q))
		return
	}
	seed := tracks[0]
	res.Seed = &seed
	emit(ctx, progress, Event{RunID: res.RunID, Type: EventSeedResolved, Seed: res.Seed})

	desc, err := f.describe(ctx, &seed)
	if err != nil {
		res.fail(OutcomeSongNotFound, err)
		return
	}
	res.Song = &desc.Song
	emit(ctx, progress, Event{RunID: res.RunID, Type: EventSongResolved, Song: res.Song})

	extracted := extract.Extract(desc.Description, desc.ProducerCredits)
	res.ProducerSource = extracted.Source
	if !extracted.Found() {
		res.fail(OutcomeNoProducers, errors.Wrapf(ErrNoProducers, "song %d", desc.Song.ID))
		return
	}
	res.Producers = extracted.Names
	logger.Info().
		Strs("producers", res.Producers).
		Str("source", extracted.Source.String()).
		Msg("producers extracted")
	emit(ctx, progress, Event{RunID: res.RunID, Type: EventProducersFound, Producers: res.Producers})

	res.Sections = f.searchProducers(ctx, res.RunID, res.Producers, progress)
	res.Outcome = OutcomeSuccess
}

// describe fetches the seed's description. Every failure is ErrSongNotFound.
func (f *Finder) describe(ctx context.Context, seed *track.Track) (*credit.SongDescription, error) {
	ref, err := f.deps.Metadata.SearchSong(ctx, seed.Name, seed.PrimaryArtist())
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "metadata search failed"), ErrSongNotFound)
	}
	if ref == nil {
		return nil, errors.Wrapf(ErrSongNotFound, "%s", seed.Label())
	}

	desc, err := f.deps.Metadata.GetSong(ctx, ref.ID)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to fetch song %d", ref.ID), ErrSongNotFound)
	}
	if desc == nil {
		return nil, errors.Wrapf(ErrSongNotFound, "song %d", ref.ID)
	}
	return desc, nil
}

// searchProducers runs one listing search per producer on a bounded pool.
// Sections keep extraction order regardless of completion order.
func (f *Finder) searchProducers(ctx context.Context, runID string, names []string, progress chan<- Event) []Section {
	sections := make([]Section, len(names))

	var g errgroup.Group
	g.SetLimit(f.cfg.Workers)
	for i, name := range names {
		g.Go(func() error {
			emit(ctx, progress, Event{RunID: runID, Type: EventProducerStarted, Index: i, Producer: name})

			section := f.searchProducer(ctx, name)
			sections[i] = section

			emit(ctx, progress, Event{RunID: runID, Type: EventProducerDone, Index: i, Producer: name, Section: &section})
			return nil
		})
	}
	_ = g.Wait()

	return sections
}

func (f *Finder) searchProducer(ctx context.Context, name string) Section {
	id := listing.NormalizeID(name)
	section := Section{
		Listing: credit.Listing{Producer: name, ProducerID: id},
		URL:     f.deps.Listings.URL(id),
	}

	entries := f.deps.Listings.FetchListing(ctx, id)
	if f.deps.Filter != nil {
		entries = f.deps.Filter.Apply(ctx, entries)
	}
	if len(entries) == 0 {
		section.Code = CodeNoSongs
		return section
	}

	section.Entries = f.deps.Resolver.Resolve(ctx, entries)
	zlog.Debug().
		Str("producer", name).
		Int("entries", len(section.Entries)).
		Int("resolved", section.ResolvedCount()).
		Msg("producer section complete")
	return section
}
