// Package listing scrapes a producer's song listing page into title/artist
// entries.
package listing

import (
	"context"
	"net/url"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osa030/cratedig/internal/domain/credit"
)

const (
	// DefaultBaseURL is the listing page root; the producer ID is appended.
	DefaultBaseURL = "https://genius.com/artists"

	titleClass  = "mini_card-title"
	artistClass = "mini_card-subtitle"
)

// DocumentFetcher retrieves a parsed HTML document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*html.Node, error)
}

// Config represents scraper configuration.
type Config struct {
	BaseURL       string
	Delay         time.Duration // wait before every request to a host
	MaxConcurrent int           // simultaneous requests per host
}

// Scraper fetches listing pages. Safe for concurrent use.
type Scraper struct {
	fetcher DocumentFetcher
	baseURL string
	gates   *hostGates
}

// New creates a new scraper.
func New(fetcher DocumentFetcher, cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Scraper{
		fetcher: fetcher,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		gates:   newHostGates(cfg.Delay, cfg.MaxConcurrent),
	}
}

// NormalizeID converts a producer name into its listing page identifier:
// lowercased, spaces replaced by hyphens.
func NormalizeID(name string) string {
	lower := cases.Lower(language.Und).String(name)
	return strings.ReplaceAll(lower, " ", "-")
}

// URL returns the listing page URL for a producer ID. The ID is escaped as a
// single path segment.
func (s *Scraper) URL(producerID string) string {
	return s.baseURL + "/" + url.PathEscape(producerID)
}

// FetchListing returns the (title, artist) pairs on the producer's listing
// page. Failures are logged and yield an empty listing.
func (s *Scraper) FetchListing(ctx context.Context, producerID string) []credit.ListingEntry {
	pageURL := s.URL(producerID)
	logger := zlog.With().Str("producer", producerID).Str("url", pageURL).Logger()

	release, err := s.gates.acquire(ctx, hostOf(pageURL))
	if err != nil {
		logger.Warn().Err(err).Msg("listing request cancelled")
		return nil
	}
	defer release()

	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch listing page")
		return nil
	}

	titles := collectText(doc, titleClass)
	artists := collectText(doc, artistClass)
	if len(titles) != len(artists) {
		logger.Warn().
			Int("titles", len(titles)).
			Int("artists", len(artists)).
			Msg("title/artist count mismatch, truncating to shorter list")
	}

	entries := Zip(titles, artists)
	if len(entries) == 0 {
		logger.Info().Msg("no cards found")
		return nil
	}

	logger.Debug().Int("entries", len(entries)).Msg("listing scraped")
	return entries
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

// collectText returns the stripped text of every div carrying class, in
// document order.
func collectText(doc *html.Node, class string) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, class) {
			out = append(out, strippedText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if doc != nil {
		walk(doc)
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, field := range strings.Fields(attr.Val) {
			if field == class {
				return true
			}
		}
	}
	return false
}

// strippedText joins every descendant text node, each trimmed, with no
// separator.
func strippedText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
