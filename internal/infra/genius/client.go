// Package genius provides a client for the Genius song metadata API.
package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/osa030/cratedig/internal/domain/credit"
)

// Client is a Genius API client. Safe for concurrent use.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	retryDelay  time.Duration
}

// Config represents Genius client configuration.
type Config struct {
	AccessToken string
	MaxRetries  int
	Timeout     time.Duration
}

type apiMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type apiArtist struct {
	Name string `json:"name"`
}

type apiSong struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	PrimaryArtist apiArtist `json:"primary_artist"`
	Description   struct {
		Plain string `json:"plain"`
	} `json:"description"`
	ProducerArtists []apiArtist `json:"producer_artists"`
}

// SearchResponse represents the response from GET /search.
type SearchResponse struct {
	Meta     apiMeta `json:"meta"`
	Response struct {
		Hits []struct {
			Type   string  `json:"type"`
			Result apiSong `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// SongResponse represents the response from GET /songs/{id}.
type SongResponse struct {
	Meta     apiMeta `json:"meta"`
	Response struct {
		Song apiSong `json:"song"`
	} `json:"response"`
}

// New creates a new Genius client.
func New(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("genius access token is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     "https://api.genius.com",
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxRetries:  cfg.MaxRetries,
		retryDelay:  time.Second,
	}, nil
}

// SearchSong finds the canonical song for a title/artist pair.
// Returns nil, nil when nothing matches.
// Reference: https://docs.genius.com/#search-h2
func (c *Client) SearchSong(ctx context.Context, title, artist string) (*credit.SongRef, error) {
	if title == "" {
		return nil, errors.New("song title is required")
	}

	params := url.Values{}
	params.Set("q", strings.TrimSpace(title+" "+artist))

	var response SearchResponse
	if err := c.get(ctx, "/search", params, &response); err != nil {
		return nil, errors.Wrap(err, "failed to search songs")
	}

	var first, best *apiSong
	want := normalizeTitle(title)
	for i := range response.Response.Hits {
		hit := &response.Response.Hits[i]
		if hit.Type != "song" {
			continue
		}
		if first == nil {
			first = &hit.Result
		}
		if normalizeTitle(hit.Result.Title) == want {
			best = &hit.Result
			break
		}
	}
	if best == nil {
		best = first
	}
	if best == nil {
		zlog.Debug().Str("query", params.Get("q")).Msg("genius: no song hits")
		return nil, nil
	}

	ref := toSongRef(best)
	zlog.Debug().Int("song_id", ref.ID).Msgf("genius: matched %s by %s", ref.Title, ref.Artist)
	return &ref, nil
}

// GetSong retrieves the plain-text description and producer credits of a song.
// Reference: https://docs.genius.com/#songs-h2
func (c *Client) GetSong(ctx context.Context, id int) (*credit.SongDescription, error) {
	if id <= 0 {
		return nil, errors.Newf("invalid song id %d", id)
	}

	params := url.Values{}
	params.Set("text_format", "plain")

	var response SongResponse
	if err := c.get(ctx, fmt.Sprintf("/songs/%d", id), params, &response); err != nil {
		return nil, errors.Wrapf(err, "failed to get song %d", id)
	}

	song := &response.Response.Song
	credits := make([]string, 0, len(song.ProducerArtists))
	for _, p := range song.ProducerArtists {
		credits = append(credits, p.Name)
	}

	return &credit.SongDescription{
		Song:            toSongRef(song),
		Description:     song.Description.Plain,
		ProducerCredits: credits,
	}, nil
}

func toSongRef(s *apiSong) credit.SongRef {
	return credit.SongRef{
		ID:     s.ID,
		Title:  s.Title,
		Artist: s.PrimaryArtist.Name,
		URL:    s.URL,
	}
}

// get performs an authorized GET and decodes the JSON body into out.
// Transport failures, 429 and 5xx responses are retried.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		retryable, err := c.do(ctx, reqURL, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			break
		}

		zlog.Debug().Err(err).Int("attempt", attempt).Str("path", path).Msg("genius: retrying")
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "retry aborted")
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, reqURL string, out any) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Meta apiMeta `json:"meta"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &apiError) == nil && apiError.Meta.Message != "" {
			msg = apiError.Meta.Message
		}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, errors.Newf("genius API error %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, errors.Wrap(err, "failed to parse response")
	}
	return false, nil
}

// normalizeTitle case-folds and drops everything but letters and digits.
func normalizeTitle(s string) string {
	s = cases.Fold().String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
