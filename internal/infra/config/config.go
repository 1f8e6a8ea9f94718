// Package config provides configuration loading from YAML files and the
// environment.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Spotify  SpotifyConfig           `yaml:"spotify"`
	Genius   GeniusConfig            `yaml:"genius"`
	Listing  ListingConfig           `yaml:"listing"`
	Search   SearchConfig            `yaml:"search"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
}

// ServerConfig represents RPC server configuration.
type ServerConfig struct {
	Addr  string `yaml:"addr" default:":8080"`
	Token string `yaml:"token"` // optional bearer token for RPC calls
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token"`
	RedirectURI  string `yaml:"redirect_uri" default:"http://127.0.0.1:8888/callback" validate:"omitempty,url"`
	Market       string `yaml:"market" validate:"omitempty,len=2"`
}

// GeniusConfig represents Genius API configuration.
type GeniusConfig struct {
	AccessToken string `yaml:"access_token" validate:"required"`
	MaxRetries  int    `yaml:"max_retries" default:"3" validate:"gte=1,lte=10"`
	TimeoutSec  int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// ListingConfig represents producer listing page scraping configuration.
type ListingConfig struct {
	BaseURL       string `yaml:"base_url" default:"https://genius.com/artists" validate:"url"`
	UserAgent     string `yaml:"user_agent"`
	DelayMs       int    `yaml:"delay_ms" default:"1000" validate:"gte=0,lte=60000"`
	MaxConcurrent int    `yaml:"max_concurrent" default:"1" validate:"gte=1,lte=8"`
	TimeoutSec    int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// SearchConfig represents search pipeline configuration.
type SearchConfig struct {
	Workers          int `yaml:"workers" default:"3" validate:"gte=1,lte=16"`
	ReconcileWorkers int `yaml:"reconcile_workers" default:"4" validate:"gte=1,lte=16"`
	SuggestionLimit  int `yaml:"suggestion_limit" default:"5" validate:"gte=1,lte=20"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success       string `yaml:"success" default:"Found the producers behind your song"`
	DefaultError  string `yaml:"default_error" default:"Something went wrong, please try again"`
	InvalidQuery  string `yaml:"invalid_query" default:"Please use the format: Track by Artist"`
	TrackNotFound string `yaml:"track_not_found" default:"That track was not found on Spotify"`
	CatalogError  string `yaml:"catalog_error" default:"Spotify could not be reached, please try again"`
	SongNotFound  string `yaml:"song_not_found" default:"That song was not found on Genius"`
	NoProducers   string `yaml:"no_producers" default:"No producers are credited for this song"`
	NoSongs       string `yaml:"no_songs" default:"No songs found on this producer's page"`
	NotOnCatalog  string `yaml:"not_on_catalog" default:"Not on Spotify"`
}

// Load loads configuration from an optional YAML file.
// An empty path skips the file. Environment variables take precedence over
// file values for credentials.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("REDIRECT_URI"); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv("GENIUS_ACCESS_TOKEN"); v != "" {
		c.Genius.AccessToken = v
	}
	if v := os.Getenv("CRATEDIG_API_TOKEN"); v != "" {
		c.Server.Token = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "invalid_query":
		return c.Messages.InvalidQuery
	case "track_not_found":
		return c.Messages.TrackNotFound
	case "catalog_error":
		return c.Messages.CatalogError
	case "song_not_found":
		return c.Messages.SongNotFound
	case "no_producers":
		return c.Messages.NoProducers
	case "no_songs":
		return c.Messages.NoSongs
	case "not_on_catalog":
		return c.Messages.NotOnCatalog
	default:
		return c.Messages.DefaultError
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// EnabledFilters returns the settings of every enabled filter, keyed by name.
func (c *Config) EnabledFilters() map[string]map[string]any {
	enabled := make(map[string]map[string]any)
	for name, f := range c.Filters {
		if f.Enabled {
			enabled[name] = f.Settings
		}
	}
	return enabled
}

// ListingDelay returns the pre-request delay for listing pages.
func (c *Config) ListingDelay() time.Duration {
	return time.Duration(c.Listing.DelayMs) * time.Millisecond
}

// ListingTimeout returns the listing page request timeout.
func (c *Config) ListingTimeout() time.Duration {
	return time.Duration(c.Listing.TimeoutSec) * time.Second
}

// GeniusTimeout returns the Genius API request timeout.
func (c *Config) GeniusTimeout() time.Duration {
	return time.Duration(c.Genius.TimeoutSec) * time.Second
}
