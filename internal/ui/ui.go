package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/app/query"
	"github.com/osa030/cratedig/internal/domain/credit"
	"github.com/osa030/cratedig/internal/domain/track"
)

// suggestDelay is the typing pause before suggestions are fetched.
const suggestDelay = 300 * time.Millisecond

// headerHeight is the number of rows above and below the results viewport.
const headerHeight = 7

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	ResultView
)

// Searcher runs suggestions and producer searches.
type Searcher interface {
	Suggest(ctx context.Context, raw string) ([]track.Track, error)
	Run(ctx context.Context, raw string, progress chan<- finder.Event) *finder.Result
}

// MessageSource maps message codes to user-facing text.
type MessageSource interface {
	GetMessage(code string) string
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	searcher Searcher
	messages MessageSource
	view     ViewState
	width    int
	height   int
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	// suggestions
	suggestSeq  int
	suggestions []track.Track
	labels      []string
	cursor      int // -1 when no suggestion is highlighted
	inputErr    string
	suggestErr  string

	// current search
	searchSeq int
	cancel    context.CancelFunc
	progress  <-chan finder.Event
	done      <-chan *finder.Result
	running   bool
	query     string
	seed      *track.Track
	song      *credit.SongRef
	producers []string
	started   []bool
	sections  []*finder.Section
	result    *finder.Result
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, searcher Searcher, messages MessageSource) *Model {
	input := textinput.New()
	input.Placeholder = "Essence by Wizkid"
	input.Prompt = "> "
	input.CharLimit = 200
	input.Focus()

	return &Model{
		ctx:      ctx,
		searcher: searcher,
		messages: messages,
		view:     InputView,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
		cursor:   -1,
	}
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.viewport.Width = max(msg.Width-2, 0)
		m.viewport.Height = max(msg.Height-headerHeight, 0)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.stopSearch()
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case debounceMsg:
		if msg.seq != m.suggestSeq {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.seq, m.input.Value())

	case suggestionsMsg:
		if msg.seq != m.suggestSeq {
			return m, nil
		}
		m.setSuggestions(msg.tracks, msg.err)
		return m, nil

	case progressMsg:
		if msg.search != m.searchSeq {
			return m, nil
		}
		m.applyEvent(msg.event)
		m.refreshViewport()
		return m, waitForProgress(m.searchSeq, m.progress, m.done)

	case searchDoneMsg:
		if msg.search != m.searchSeq {
			return m, nil
		}
		m.finish(msg.result)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.input, cmd = m.input.Update(msg)
	case ResultView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		if len(m.labels) > 0 {
			m.cursor--
			if m.cursor < -1 {
				m.cursor = len(m.labels) - 1
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if len(m.labels) > 0 {
			m.cursor++
			if m.cursor >= len(m.labels) {
				m.cursor = -1
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.complete):
		if m.cursor >= 0 {
			m.input.SetValue(m.labels[m.cursor])
			m.input.CursorEnd()
			m.clearSuggestions()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		raw := m.input.Value()
		if m.cursor >= 0 {
			raw = m.labels[m.cursor]
		}
		return m, m.startSearch(raw)
	case key.Matches(msg, m.keys.back):
		return m, tea.Quit
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return m, cmd
	}

	m.inputErr = ""
	m.clearSuggestions()
	if strings.TrimSpace(m.input.Value()) == "" {
		return m, cmd
	}
	return m, tea.Batch(cmd, debounce(m.suggestSeq))
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.stopSearch()
		m.view = InputView
		m.input.Focus()
		m.input.CursorEnd()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) clearSuggestions() {
	m.suggestSeq++
	m.suggestions = nil
	m.labels = nil
	m.cursor = -1
	m.suggestErr = ""
}

func (m *Model) setSuggestions(tracks []track.Track, err error) {
	m.cursor = -1
	if err != nil {
		zlog.Warn().Err(err).Msg("suggestions failed")
		m.suggestions = nil
		m.labels = nil
		m.suggestErr = m.messages.GetMessage(string(finder.OutcomeCatalogError))
		return
	}
	m.suggestErr = ""
	m.suggestions = tracks
	m.labels = finder.Labels(tracks)
}

// startSearch validates raw and starts a search in the background. Invalid
// input is reported inline and keeps the input view.
func (m *Model) startSearch(raw string) tea.Cmd {
	q, err := query.Parse(raw)
	if err != nil {
		m.inputErr = m.messages.GetMessage(string(finder.OutcomeInvalidQuery))
		return nil
	}

	m.stopSearch()
	m.input.SetValue(q.String())
	m.input.Blur()
	m.clearSuggestions()
	m.inputErr = ""

	m.searchSeq++
	ctx, cancel := context.WithCancel(m.ctx)
	progress := make(chan finder.Event, 16)
	done := make(chan *finder.Result, 1)
	searcher := m.searcher
	go func() {
		res := searcher.Run(ctx, raw, progress)
		close(progress)
		done <- res
	}()

	m.cancel = cancel
	m.progress = progress
	m.done = done
	m.running = true
	m.query = q.String()
	m.seed = nil
	m.song = nil
	m.producers = nil
	m.started = nil
	m.sections = nil
	m.result = nil
	m.view = ResultView
	m.viewport.GotoTop()
	m.refreshViewport()

	return tea.Batch(m.spinner.Tick, waitForProgress(m.searchSeq, progress, done))
}

// stopSearch cancels the running search, if any. Its remaining messages are
// dropped as stale.
func (m *Model) stopSearch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.running {
		m.searchSeq++
		m.running = false
	}
}

func (m *Model) applyEvent(ev finder.Event) {
	switch ev.Type {
	case finder.EventSeedResolved:
		m.seed = ev.Seed
	case finder.EventSongResolved:
		m.song = ev.Song
	case finder.EventProducersFound:
		m.producers = ev.Producers
		m.started = make([]bool, len(ev.Producers))
		m.sections = make([]*finder.Section, len(ev.Producers))
	case finder.EventProducerStarted:
		if ev.Index >= 0 && ev.Index < len(m.started) {
			m.started[ev.Index] = true
		}
	case finder.EventProducerDone:
		if ev.Index >= 0 && ev.Index < len(m.sections) {
			m.sections[ev.Index] = ev.Section
		}
	}
}

func (m *Model) finish(res *finder.Result) {
	m.running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.result = res
	if res == nil {
		return
	}
	if res.Seed != nil {
		m.seed = res.Seed
	}
	if res.Song != nil {
		m.song = res.Song
	}
	if res.OK() {
		m.producers = res.Producers
		m.sections = make([]*finder.Section, len(res.Sections))
		for i := range res.Sections {
			m.sections[i] = &res.Sections[i]
		}
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderBody())
}

func debounce(seq int) tea.Cmd {
	return tea.Tick(suggestDelay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *Model) fetchSuggestions(seq int, raw string) tea.Cmd {
	ctx := m.ctx
	searcher := m.searcher
	return func() tea.Msg {
		tracks, err := searcher.Suggest(ctx, raw)
		return suggestionsMsg{seq: seq, tracks: tracks, err: err}
	}
}

func waitForProgress(seq int, progress <-chan finder.Event, done <-chan *finder.Result) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-progress
		if !ok {
			return searchDoneMsg{search: seq, result: <-done}
		}
		return progressMsg{search: seq, event: ev}
	}
}

func (m *Model) renderInput() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("cratedig"))
	b.WriteString("\n")
	b.WriteString(styles.help.Render(`Find the producers behind a song: "Track by Artist"`))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.inputErr != "" {
		b.WriteString(styles.err.Render(m.inputErr))
		b.WriteString("\n")
	}
	if m.suggestErr != "" {
		b.WriteString(styles.warn.Render(m.suggestErr))
		b.WriteString("\n")
	}
	for i, label := range m.labels {
		if i == m.cursor {
			b.WriteString(styles.selected.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.up, m.keys.down, m.keys.complete, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderResult() string {
	title := styles.title.Render(fmt.Sprintf("Producers behind %s", m.query))

	var status string
	switch {
	case m.running:
		status = m.spinner.View() + " " + m.statusText()
	case m.result == nil:
		status = styles.warn.Render("Search cancelled")
	case m.result.OK():
		status = styles.ok.Render("✓ " + m.messages.GetMessage(string(m.result.Outcome)))
	default:
		status = styles.err.Render(m.messages.GetMessage(string(m.result.Outcome)))
	}

	helpKeys := []key.Binding{m.keys.scroll, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", title, status, m.viewport.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) statusText() string {
	switch {
	case m.seed == nil:
		return "Searching Spotify..."
	case m.song == nil:
		return "Fetching the song description..."
	case m.producers == nil:
		return "Extracting producers..."
	}
	done := 0
	for _, s := range m.sections {
		if s != nil {
			done++
		}
	}
	return fmt.Sprintf("Searching producer listings (%d/%d)", done, len(m.producers))
}

// renderBody renders the scrollable results: seed, song and one section per
// producer in extraction order.
func (m *Model) renderBody() string {
	var b strings.Builder
	if m.seed != nil {
		b.WriteString(fmt.Sprintf("Spotify: %s", m.seed.Label()))
		if m.seed.URL != "" {
			b.WriteString("  " + styles.link.Render(m.seed.URL))
		}
		b.WriteString("\n")
	}
	if m.song != nil {
		b.WriteString(fmt.Sprintf("Genius:  %s by %s", m.song.Title, m.song.Artist))
		if m.song.URL != "" {
			b.WriteString("  " + styles.link.Render(m.song.URL))
		}
		b.WriteString("\n")
	}
	if len(m.producers) > 0 {
		b.WriteString(fmt.Sprintf("Producers: %s\n", strings.Join(m.producers, ", ")))
	}

	for i, name := range m.producers {
		b.WriteString("\n")
		var section *finder.Section
		if i < len(m.sections) {
			section = m.sections[i]
		}
		if section == nil {
			state := "waiting"
			if i < len(m.started) && m.started[i] {
				state = "searching..."
			}
			b.WriteString(styles.heading.Render(name) + " " + styles.help.Render(state) + "\n")
			continue
		}
		b.WriteString(renderSection(section, m.messages))
	}
	return b.String()
}

// renderSection renders one producer's listing with catalog links.
func renderSection(s *finder.Section, messages MessageSource) string {
	var b strings.Builder
	heading := s.Producer
	if !s.Empty() {
		heading = fmt.Sprintf("%s (%d/%d on Spotify)", s.Producer, s.ResolvedCount(), len(s.Entries))
	}
	b.WriteString(styles.heading.Render(heading))
	b.WriteString("\n")
	if s.URL != "" {
		b.WriteString("  " + styles.help.Render(s.URL) + "\n")
	}

	if s.Empty() {
		b.WriteString("  " + styles.warn.Render(messages.GetMessage(s.Code)) + "\n")
		return b.String()
	}

	for i := range s.Entries {
		e := &s.Entries[i]
		line := "  • " + e.Label()
		if link := e.Link(); link != "" {
			line += "  " + styles.link.Render(link)
		} else {
			line += "  " + styles.warn.Render(messages.GetMessage(finder.EntryCode(e)))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
