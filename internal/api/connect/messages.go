package connect

import (
	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// SuggestRequest asks for catalog matches of as-typed input.
type SuggestRequest struct {
	Query string `json:"query"`
}

// SuggestResponse lists matches rendered as "<track> by <artist>".
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is one catalog match.
type Suggestion struct {
	Label string     `json:"label"`
	Track *TrackInfo `json:"track"`
}

// SearchRequest starts a producer search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchEvent is one message of the Search stream. The last message of a
// stream has Type "finished" and carries the outcome.
type SearchEvent struct {
	RunID     string       `json:"run_id"`
	Type      string       `json:"type"`
	Seed      *TrackInfo   `json:"seed,omitempty"`
	Song      *SongInfo    `json:"song,omitempty"`
	Producers []string     `json:"producers,omitempty"`
	Index     int          `json:"index"`
	Producer  string       `json:"producer,omitempty"`
	Section   *SectionInfo `json:"section,omitempty"`
	Outcome   string       `json:"outcome,omitempty"`
	Message   string       `json:"message,omitempty"`
	ElapsedMs int64        `json:"elapsed_ms,omitempty"`
}

// EventFinished is the Type of the final stream message.
const EventFinished = "finished"

// TrackInfo is a catalog track.
type TrackInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
	Album   string   `json:"album,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// SongInfo is the metadata provider's song.
type SongInfo struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
}

// SectionInfo is one producer's reconciled listing.
type SectionInfo struct {
	Producer   string      `json:"producer"`
	ProducerID string      `json:"producer_id"`
	URL        string      `json:"url"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Entries    []EntryInfo `json:"entries"`
}

// EntryInfo is one listing entry and its catalog match.
type EntryInfo struct {
	Title      string     `json:"title"`
	Artist     string     `json:"artist"`
	Resolved   bool       `json:"resolved"`
	Code       string     `json:"code,omitempty"`
	Message    string     `json:"message,omitempty"`
	Track      *TrackInfo `json:"track,omitempty"`
	Similarity float64    `json:"similarity,omitempty"`
}

func toTrackInfo(t *track.Track) *TrackInfo {
	if t == nil {
		return nil
	}
	return &TrackInfo{
		ID:      t.ID,
		Name:    t.Name,
		Artists: t.Artists,
		Album:   t.Album,
		URL:     t.URL,
	}
}

func toSongInfo(s *credit.SongRef) *SongInfo {
	if s == nil {
		return nil
	}
	return &SongInfo{ID: s.ID, Title: s.Title, Artist: s.Artist, URL: s.URL}
}

func toSectionInfo(s *finder.Section, messages MessageSource) *SectionInfo {
	if s == nil {
		return nil
	}
	info := &SectionInfo{
		Producer:   s.Producer,
		ProducerID: s.ProducerID,
		URL:        s.URL,
		Code:       s.Code,
		Entries:    make([]EntryInfo, 0, len(s.Entries)),
	}
	if s.Code != "" {
		info.Message = messages.GetMessage(s.Code)
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		entry := EntryInfo{
			Title:      e.Title,
			Artist:     e.Artist,
			Resolved:   e.Resolved,
			Code:       finder.EntryCode(e),
			Track:      toTrackInfo(e.Track),
			Similarity: e.Similarity,
		}
		if entry.Code != "" {
			entry.Message = messages.GetMessage(entry.Code)
		}
		info.Entries = append(info.Entries, entry)
	}
	return info
}

func toSearchEvent(ev finder.Event, messages MessageSource) *SearchEvent {
	return &SearchEvent{
		RunID:     ev.RunID,
		Type:      ev.Type.String(),
		Seed:      toTrackInfo(ev.Seed),
		Song:      toSongInfo(ev.Song),
		Producers: ev.Producers,
		Index:     ev.Index,
		Producer:  ev.Producer,
		Section:   toSectionInfo(ev.Section, messages),
	}
}
