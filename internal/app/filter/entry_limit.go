package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/cratedig/internal/domain/credit"
)

// EntryLimitConfig represents the configuration for EntryLimitFilter.
type EntryLimitConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" default:"20" validate:"gte=1,lte=500"`
}

// EntryLimitFilter caps the number of entries reconciled per listing.
type EntryLimitFilter struct {
	config *EntryLimitConfig
}

// NewEntryLimitFilter creates a new entry limit filter.
func NewEntryLimitFilter() *EntryLimitFilter {
	return &EntryLimitFilter{}
}

func (f *EntryLimitFilter) Name() string {
	return "entry_limit_filter"
}

func (f *EntryLimitFilter) Description() string {
	return "Keeps at most max_entries songs per producer listing"
}

func (f *EntryLimitFilter) ReturnCodes() []string {
	return []string{"entry_limit"}
}

func (f *EntryLimitFilter) ValidateConfig(settings map[string]any) error {
	var config EntryLimitConfig

	// Decode map[string]any to struct using mapstructure
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	// Set defaults
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.config = &config
	zlog.Info().Msgf("entry limit filter config: %+v", config)
	return nil
}

func (f *EntryLimitFilter) Check(ctx context.Context, entry credit.ListingEntry, kept []credit.ListingEntry) Result {
	// If config is not set, accept all entries
	if f.config == nil {
		return Accept()
	}
	if len(kept) >= f.config.MaxEntries {
		return Reject("entry_limit")
	}
	return Accept()
}

func init() {
	Register("entry_limit_filter", func() Filter {
		return NewEntryLimitFilter()
	})
}
