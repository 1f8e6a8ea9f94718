package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

type fakeSearcher struct {
	tracks     []track.Track
	suggestErr error
	events     []finder.Event
	result     *finder.Result
	block      bool // Run waits for cancellation
	queries    chan string
}

func (f *fakeSearcher) Suggest(ctx context.Context, raw string) ([]track.Track, error) {
	return f.tracks, f.suggestErr
}

func (f *fakeSearcher) Run(ctx context.Context, raw string, progress chan<- finder.Event) *finder.Result {
	if f.queries != nil {
		f.queries <- raw
	}
	for _, ev := range f.events {
		select {
		case progress <- ev:
		case <-ctx.Done():
			return f.result
		}
	}
	if f.block {
		<-ctx.Done()
	}
	return f.result
}

type fakeMessages map[string]string

func (m fakeMessages) GetMessage(code string) string {
	if msg, ok := m[code]; ok {
		return msg
	}
	return "default"
}

var testMessages = fakeMessages{
	"success":        "All done",
	"invalid_query":  "Use Track by Artist",
	"catalog_error":  "Spotify is down",
	"no_producers":   "No producers credited",
	"no_songs":       "No songs found",
	"not_on_catalog": "Not on Spotify",
}

func newTestModel(s Searcher) *Model {
	m := NewModel(context.Background(), s, testMessages)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// drain feeds the search pump into the model until the search finishes.
func drain(t *testing.T, m *Model) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for m.running {
		msgCh := make(chan tea.Msg, 1)
		go func() { msgCh <- waitForProgress(m.searchSeq, m.progress, m.done)() }()
		select {
		case msg := <-msgCh:
			m.Update(msg)
		case <-deadline:
			t.Fatal("search did not finish")
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_InvalidQueryStaysInline(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.input.SetValue("Essence")

	_, cmd := m.Update(keyPress("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, InputView, m.view)
	assert.Equal(t, "Use Track by Artist", m.inputErr)
	assert.Contains(t, m.View(), "Use Track by Artist")
}

func TestModel_TypingSchedulesSuggestions(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	before := m.suggestSeq

	_, cmd := m.Update(keyPress("e"))

	assert.Equal(t, "e", m.input.Value())
	assert.Greater(t, m.suggestSeq, before)
	assert.NotNil(t, cmd)
}

func TestModel_Suggestions(t *testing.T) {
	searcher := &fakeSearcher{tracks: []track.Track{
		{ID: "t1", Name: "Essence", Artists: []string{"Wizkid", "Tems"}},
		{ID: "t2", Name: "Essence (Remix)", Artists: []string{"Wizkid", "Justin Bieber"}},
	}}
	m := newTestModel(searcher)
	m.input.SetValue("essence")

	_, cmd := m.Update(debounceMsg{seq: m.suggestSeq})
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, []string{"Essence by Wizkid", "Essence (Remix) by Wizkid"}, m.labels)
	assert.Equal(t, -1, m.cursor)
	assert.Contains(t, m.View(), "Essence (Remix) by Wizkid")
}

func TestModel_StaleSuggestionsDropped(t *testing.T) {
	m := newTestModel(&fakeSearcher{})

	_, cmd := m.Update(debounceMsg{seq: m.suggestSeq - 1})
	assert.Nil(t, cmd)

	m.Update(suggestionsMsg{seq: m.suggestSeq - 1, tracks: []track.Track{{Name: "Old"}}})
	assert.Empty(t, m.labels)
}

func TestModel_SuggestionError(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.Update(suggestionsMsg{seq: m.suggestSeq, err: errors.New("boom")})

	assert.Empty(t, m.labels)
	assert.Equal(t, "Spotify is down", m.suggestErr)
}

func TestModel_CursorWraps(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.Update(suggestionsMsg{seq: m.suggestSeq, tracks: []track.Track{
		{Name: "A", Artists: []string{"X"}},
		{Name: "B", Artists: []string{"Y"}},
	}})

	m.Update(keyPress("down"))
	assert.Equal(t, 0, m.cursor)
	m.Update(keyPress("down"))
	assert.Equal(t, 1, m.cursor)
	m.Update(keyPress("down"))
	assert.Equal(t, -1, m.cursor)
	m.Update(keyPress("up"))
	assert.Equal(t, 1, m.cursor)
}

func TestModel_TabCompletesSuggestion(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.input.SetValue("ess")
	m.Update(suggestionsMsg{seq: m.suggestSeq, tracks: []track.Track{
		{Name: "Essence", Artists: []string{"Wizkid"}},
	}})

	m.Update(keyPress("down"))
	m.Update(keyPress("tab"))

	assert.Equal(t, "Essence by Wizkid", m.input.Value())
	assert.Empty(t, m.labels)
	assert.Equal(t, InputView, m.view)
}

func TestModel_EnterSearchesSelectedSuggestion(t *testing.T) {
	searcher := &fakeSearcher{
		queries: make(chan string, 1),
		result:  &finder.Result{Outcome: finder.OutcomeNoProducers},
	}
	m := newTestModel(searcher)
	m.input.SetValue("ess")
	m.Update(suggestionsMsg{seq: m.suggestSeq, tracks: []track.Track{
		{Name: "Essence", Artists: []string{"Wizkid"}},
	}})

	m.Update(keyPress("down"))
	_, cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)

	assert.Equal(t, ResultView, m.view)
	assert.Equal(t, "Essence by Wizkid", <-searcher.queries)

	drain(t, m)
	assert.Contains(t, m.View(), "No producers credited")
}

func TestModel_SearchRendersSections(t *testing.T) {
	seed := &track.Track{ID: "s", Name: "Essence", Artists: []string{"Wizkid"}, URL: "https://open.spotify.com/track/s"}
	p2j := &finder.Section{
		Listing: credit.Listing{
			Producer:   "P2J",
			ProducerID: "p2j",
			Entries: []credit.ReconciledEntry{
				{
					ListingEntry: credit.ListingEntry{Title: "Come Closer", Artist: "Wizkid"},
					Resolved:     true,
					Track:        &track.Track{ID: "c", URL: "https://open.spotify.com/track/c"},
				},
				{ListingEntry: credit.ListingEntry{Title: "Rare Demo", Artist: "Unknown"}},
			},
		},
		URL: "https://genius.com/artists/p2j",
	}
	legendury := &finder.Section{
		Listing: credit.Listing{Producer: "Legendury Beatz", ProducerID: "legendury-beatz"},
		Code:    finder.CodeNoSongs,
	}

	searcher := &fakeSearcher{
		events: []finder.Event{
			{Type: finder.EventSeedResolved, Seed: seed},
			{Type: finder.EventSongResolved, Song: &credit.SongRef{ID: 1, Title: "Essence", Artist: "Wizkid"}},
			{Type: finder.EventProducersFound, Producers: []string{"P2J", "Legendury Beatz"}},
			{Type: finder.EventProducerStarted, Index: 1, Producer: "Legendury Beatz"},
			{Type: finder.EventProducerDone, Index: 1, Producer: "Legendury Beatz", Section: legendury},
		},
		block: true,
	}
	m := newTestModel(searcher)
	m.input.SetValue("Essence by Wizkid")
	m.Update(keyPress("enter"))

	// Consume the five events; the search stays blocked.
	for range 5 {
		m.Update(waitForProgress(m.searchSeq, m.progress, m.done)())
	}

	body := m.renderBody()
	assert.True(t, m.running)
	assert.Contains(t, body, "https://open.spotify.com/track/s")
	assert.Contains(t, body, "Producers: P2J, Legendury Beatz")
	assert.Contains(t, body, "waiting")
	assert.Contains(t, body, "No songs found")
	assert.Contains(t, m.statusText(), "(1/2)")

	m.applyEvent(finder.Event{Type: finder.EventProducerDone, Index: 0, Section: p2j})
	body = m.renderBody()
	assert.Contains(t, body, "P2J (1/2 on Spotify)")
	assert.Contains(t, body, "Come Closer by Wizkid")
	assert.Contains(t, body, "https://open.spotify.com/track/c")
	assert.Contains(t, body, "Rare Demo by Unknown")
	assert.Contains(t, body, "Not on Spotify")

	m.Update(keyPress("esc"))
	assert.Equal(t, InputView, m.view)
	assert.False(t, m.running)
}

func TestModel_StaleProgressDropped(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.searchSeq = 3

	_, cmd := m.Update(progressMsg{search: 2, event: finder.Event{Type: finder.EventProducersFound, Producers: []string{"X"}}})
	assert.Nil(t, cmd)
	assert.Nil(t, m.producers)

	m.Update(searchDoneMsg{search: 2, result: &finder.Result{Outcome: finder.OutcomeSuccess}})
	assert.Nil(t, m.result)
}

func TestModel_FinishUsesResultSections(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.running = true
	m.finish(&finder.Result{
		Outcome:   finder.OutcomeSuccess,
		Producers: []string{"Sarz"},
		Sections: []finder.Section{{
			Listing: credit.Listing{Producer: "Sarz", ProducerID: "sarz"},
			Code:    finder.CodeNoSongs,
		}},
	})
	m.view = ResultView

	assert.False(t, m.running)
	require.Len(t, m.sections, 1)
	assert.Contains(t, m.renderBody(), "No songs found")
	assert.Contains(t, m.View(), "All done")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
