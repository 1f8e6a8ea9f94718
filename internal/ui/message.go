package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/domain/track"
)

var (
	_ tea.Msg = debounceMsg{}
	_ tea.Msg = suggestionsMsg{}
	_ tea.Msg = progressMsg{}
	_ tea.Msg = searchDoneMsg{}
)

// debounceMsg fires after a typing pause. seq identifies the input revision.
type debounceMsg struct {
	seq int
}

// suggestionsMsg carries catalog suggestions for input revision seq.
type suggestionsMsg struct {
	seq    int
	tracks []track.Track
	err    error
}

// progressMsg carries one progress event of search number search.
type progressMsg struct {
	search int
	event  finder.Event
}

// searchDoneMsg carries the result of search number search.
type searchDoneMsg struct {
	search int
	result *finder.Result
}
