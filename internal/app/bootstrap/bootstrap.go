// Package bootstrap builds the search pipeline from configuration.
package bootstrap

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/cratedig/internal/app/filter"
	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/app/listing"
	"github.com/osa030/cratedig/internal/app/reconcile"
	"github.com/osa030/cratedig/internal/infra/config"
	"github.com/osa030/cratedig/internal/infra/genius"
	"github.com/osa030/cratedig/internal/infra/spotify"
	"github.com/osa030/cratedig/internal/infra/webpage"
)

// NewFinder creates the provider clients, the listing scraper, the filter
// chain and the reconciler, and wires them into a Finder.
func NewFinder(ctx context.Context, cfg *config.Config) (*finder.Finder, error) {
	chain, err := filter.Build(cfg.EnabledFilters())
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter config")
	}

	catalog, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		Market:       cfg.Spotify.Market,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Spotify client")
	}

	metadata, err := genius.New(genius.Config{
		AccessToken: cfg.Genius.AccessToken,
		MaxRetries:  cfg.Genius.MaxRetries,
		Timeout:     cfg.GeniusTimeout(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Genius client")
	}

	fetcher := webpage.New(webpage.Config{
		UserAgent: cfg.Listing.UserAgent,
		Timeout:   cfg.ListingTimeout(),
	})
	scraper := listing.New(fetcher, listing.Config{
		BaseURL:       cfg.Listing.BaseURL,
		Delay:         cfg.ListingDelay(),
		MaxConcurrent: cfg.Listing.MaxConcurrent,
	})

	deps := finder.Deps{
		Catalog:  catalog,
		Metadata: metadata,
		Listings: scraper,
		Resolver: reconcile.New(catalog, cfg.Search.ReconcileWorkers),
	}
	if len(chain.Filters()) > 0 {
		deps.Filter = chain
	}

	return finder.New(finder.Config{
		Workers:         cfg.Search.Workers,
		SuggestionLimit: cfg.Search.SuggestionLimit,
	}, deps), nil
}
