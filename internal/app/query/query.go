// Package query parses free-text "<track> by <artist>" queries.
package query

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Separator is the literal that splits a query into track and artist.
// It is matched case-insensitively.
const Separator = " by "

var (
	// ErrInvalidQuery marks every error returned by Parse.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrMissingSeparator is returned when the query has no " by " separator.
	ErrMissingSeparator = errors.Mark(errors.New("query must use the format \"<track> by <artist>\""), ErrInvalidQuery)

	// ErrMissingArtist is returned when either side of the separator is blank.
	ErrMissingArtist = errors.Mark(errors.New("query must name both a track and an artist"), ErrInvalidQuery)
)

// InputError describes a user-correctable query problem.
type InputError struct {
	Raw string
	err error
}

func (e *InputError) Error() string {
	return e.err.Error()
}

func (e *InputError) Unwrap() error {
	return e.err
}

// Query is a parsed track/artist pair. Both fields are non-empty.
type Query struct {
	Track  string
	Artist string
}

// String renders the query back in "<track> by <artist>" form.
func (q Query) String() string {
	return Format(q.Track, q.Artist)
}

// SearchText returns the catalog search text for the query.
func (q Query) SearchText() string {
	return q.Track + " " + q.Artist
}

// Parse splits raw on the first case-insensitive " by ".
// Artist names may themselves contain "by", so later occurrences are kept
// in the artist field.
func Parse(raw string) (Query, error) {
	idx := indexFold(raw, Separator)
	if idx < 0 {
		return Query{}, &InputError{Raw: raw, err: ErrMissingSeparator}
	}

	q := Query{
		Track:  strings.TrimSpace(raw[:idx]),
		Artist: strings.TrimSpace(raw[idx+len(Separator):]),
	}
	if q.Track == "" || q.Artist == "" {
		return Query{}, &InputError{Raw: raw, err: ErrMissingArtist}
	}
	return q, nil
}

// Format renders a track/artist pair as a query.
func Format(track, artist string) string {
	return track + Separator + artist
}

// indexFold returns the byte index of the first ASCII case-insensitive
// occurrence of sep in s, or -1.
func indexFold(s, sep string) int {
	n := len(sep)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], sep) {
			return i
		}
	}
	return -1
}
