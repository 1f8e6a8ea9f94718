package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := newClient(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")), "")
	c.retryDelay = time.Millisecond
	return c
}

const searchResponse = `{
	"tracks": {
		"items": [
			{
				"id": "3n3Ppam7vgaVa1iaRUc9Lp",
				"name": "Essence",
				"artists": [{"name": "Wizkid"}, {"name": "Tems"}],
				"album": {"name": "Made in Lagos", "images": [{"url": "https://img.test/cover.jpg"}]},
				"duration_ms": 248000,
				"popularity": 71,
				"explicit": true,
				"external_urls": {"spotify": "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp"}
			}
		],
		"limit": 1,
		"total": 1
	}
}`

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Essence Wizkid", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchResponse)
	})

	tracks, err := c.Search(context.Background(), "Essence Wizkid", "track", 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	got := tracks[0]
	assert.Equal(t, "3n3Ppam7vgaVa1iaRUc9Lp", got.ID)
	assert.Equal(t, "Essence", got.Name)
	assert.Equal(t, []string{"Wizkid", "Tems"}, got.Artists)
	assert.Equal(t, "Made in Lagos", got.Album)
	assert.Equal(t, "https://img.test/cover.jpg", got.AlbumArtURL)
	assert.Equal(t, 248*time.Second, got.Duration)
	assert.Equal(t, "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp", got.URL)
	assert.Equal(t, 71, got.Popularity)
	assert.True(t, got.Explicit)
}

func TestSearch_NoTracks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracks": {"items": [], "total": 0}}`)
	})

	tracks, err := c.Search(context.Background(), "nothing matches", "track", 1)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newClient(spotify.New(http.DefaultClient), "")

	_, err := c.Search(context.Background(), "", "track", 1)
	assert.Error(t, err)
}

func TestSearch_UnsupportedType(t *testing.T) {
	c := newClient(spotify.New(http.DefaultClient), "")

	for _, searchType := range []string{"album", "artist", "playlist"} {
		_, err := c.Search(context.Background(), "Essence Wizkid", searchType, 1)
		require.Error(t, err, searchType)
		assert.Contains(t, err.Error(), "unsupported search type")
	}
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"error": {"status": 502, "message": "bad gateway"}}`)
			return
		}
		fmt.Fprint(w, searchResponse)
	})

	tracks, err := c.Search(context.Background(), "Essence Wizkid", "track", 1)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"status": 400, "message": "bad request"}}`)
	})

	_, err := c.Search(context.Background(), "Essence Wizkid", "track", 1)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConvertTrack_FallbackURL(t *testing.T) {
	ft := &spotify.FullTrack{}
	ft.ID = "abc123"
	ft.Name = "Untitled"

	got := convertTrack(ft)
	assert.Equal(t, "https://open.spotify.com/track/abc123", got.URL)
	assert.Empty(t, got.Artists)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id"})
	assert.Error(t, err)

	c, err := New(context.Background(), Config{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestExtractTrackID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Spotify URI format",
			input:    "spotify:track:3n3Ppam7vgaVa1iaRUc9Lp",
			expected: "3n3Ppam7vgaVa1iaRUc9Lp",
		},
		{
			name:     "Spotify URL format",
			input:    "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp",
			expected: "3n3Ppam7vgaVa1iaRUc9Lp",
		},
		{
			name:     "Localized URL with query params",
			input:    "https://open.spotify.com/intl-ja/track/3n3Ppam7vgaVa1iaRUc9Lp?si=abc123",
			expected: "3n3Ppam7vgaVa1iaRUc9Lp",
		},
		{
			name:     "Plain track ID",
			input:    "3n3Ppam7vgaVa1iaRUc9Lp",
			expected: "3n3Ppam7vgaVa1iaRUc9Lp",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTrackID(tt.input))
		})
	}
}

func TestIsTrackLink(t *testing.T) {
	assert.True(t, IsTrackLink("spotify:track:abc"))
	assert.True(t, IsTrackLink(" https://open.spotify.com/track/abc?si=1 "))
	assert.False(t, IsTrackLink("https://open.spotify.com/playlist/abc"))
	assert.False(t, IsTrackLink("Essence by Wizkid"))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "api rate limit",
			err:      spotify.Error{Status: 429, Message: "API rate limit exceeded"},
			expected: true,
		},
		{
			name:     "api server error",
			err:      spotify.Error{Status: 503, Message: "service unavailable"},
			expected: true,
		},
		{
			name:     "api not found",
			err:      spotify.Error{Status: 404, Message: "non existing id"},
			expected: false,
		},
		{
			name:     "rate limit text",
			err:      errors.New("rate limit exceeded"),
			expected: true,
		},
		{
			name:     "server error 502",
			err:      errors.New("502 Bad Gateway"),
			expected: true,
		},
		{
			name:     "client error 400",
			err:      errors.New("400 Bad Request"),
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryable(tt.err))
		})
	}
}

func TestLookupLink(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tracks/3n3Ppam7vgaVa1iaRUc9Lp", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "3n3Ppam7vgaVa1iaRUc9Lp", "name": "Essence", "artists": [{"name": "Wizkid"}]}`)
	})

	got, err := c.LookupLink(context.Background(), "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp?si=x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Essence by Wizkid", got.Label())

	none, err := c.LookupLink(context.Background(), "Essence by Wizkid")
	assert.NoError(t, err)
	assert.Nil(t, none)
}
