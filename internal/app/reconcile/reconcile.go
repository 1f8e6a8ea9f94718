// Package reconcile matches scraped listing entries against the catalog.
package reconcile

import (
	"context"
	"strings"

	"github.com/agext/levenshtein"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// CatalogSearcher is the catalog search used for reconciliation.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, searchType string, limit int) ([]track.Track, error)
}

// Reconciler resolves listing entries to catalog tracks.
type Reconciler struct {
	catalog CatalogSearcher
	workers int
}

// New creates a new reconciler resolving up to workers entries at once.
func New(catalog CatalogSearcher, workers int) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	return &Reconciler{catalog: catalog, workers: workers}
}

// Resolve looks up every entry with a single-result catalog search.
// The output has one element per input, in input order. Search failures and
// empty results leave the entry unresolved and never abort the batch.
func (r *Reconciler) Resolve(ctx context.Context, entries []credit.ListingEntry) []credit.ReconciledEntry {
	out := make([]credit.ReconciledEntry, len(entries))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, entry := range entries {
		g.Go(func() error {
			out[i] = r.resolveOne(ctx, entry)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (r *Reconciler) resolveOne(ctx context.Context, entry credit.ListingEntry) credit.ReconciledEntry {
	result := credit.ReconciledEntry{ListingEntry: entry}

	q := entry.Query()
	tracks, err := r.catalog.Search(ctx, q, "track", 1)
	if err != nil {
		zlog.Warn().Err(err).Str("query", q).Msg("catalog lookup failed")
		return result
	}
	if len(tracks) == 0 {
		zlog.Debug().Str("query", q).Msg("not on catalog")
		return result
	}

	t := tracks[0]
	result.Resolved = true
	result.Track = &t
	result.Similarity = Similarity(entry, &t)
	return result
}

// Similarity scores how closely a catalog track matches a listing entry,
// from 0 (unrelated) to 1 (identical ignoring case).
func Similarity(entry credit.ListingEntry, t *track.Track) float64 {
	return levenshtein.Similarity(
		strings.ToLower(entry.Query()),
		strings.ToLower(t.SearchText()),
		nil,
	)
}
