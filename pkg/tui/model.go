// Package tui is the interactive workspace: a folder and note sidebar, a
// split raw/preview editor with synchronized scrolling, comments and the
// month calendar.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/gonote/gonote/internal/calendar"
	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/workspace"
	"github.com/gonote/gonote/pkg/tui/keymap"
)

const (
	sidebarWidth  = 30
	tickInterval  = time.Second
	statusTimeout = 3 * time.Second
)

// Focus identifies the widget receiving keys
type Focus int

const (
	FocusSidebar Focus = iota
	FocusSearch
	FocusTitle
	FocusBody
	FocusPreview
	FocusComment
)

// TickMsg refreshes the sync indicator and reminders
type TickMsg time.Time

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

// PolishDoneMsg reports the end of an AI polish request
type PolishDoneMsg struct {
	Body string
	Err  error
}

// Options configures the TUI model
type Options struct {
	Store    *workspace.Store
	Editor   *editor.Editor
	Keymap   *keymap.Registry
	Clock    clock.Clock
	Location *time.Location
	Logger   zerolog.Logger

	UserID   string
	Username string

	// Pending reports queued remote writes; may be nil
	Pending func() int
	// Polish runs the AI polish service over text; may be nil
	Polish func(ctx context.Context, text string) (string, error)
	// PolishTimeout bounds one polish request
	PolishTimeout time.Duration
}

// Model is the bubbletea model of the workspace
type Model struct {
	store   *workspace.Store
	ed      *editor.Editor
	keys    *keymap.Registry
	clock   clock.Clock
	loc     *time.Location
	log     zerolog.Logger
	userID  string
	user    string
	pending func() int
	polish  func(ctx context.Context, text string) (string, error)
	timeout time.Duration

	width, height int
	focus         Focus
	showHelp      bool
	busy          bool

	search  textinput.Model
	title   textinput.Model
	comment textinput.Model
	body    textarea.Model
	raw     viewport.Model
	preview viewport.Model

	// draft mirrors the editor draft for rendering
	draft    editor.Draft
	rendered string

	scroll  editor.ScrollSync
	last    [2]int
	editOff int

	nav *calendar.Navigator

	status    string
	statusErr bool
}

// New creates the model and opens the store's active note
func New(opts Options) Model {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	keys := opts.Keymap
	if keys == nil {
		keys = keymap.NewRegistry()
		keymap.RegisterDefaults(keys)
	}
	timeout := opts.PolishTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/ "
	search.CharLimit = 200
	search.SetValue(opts.Store.State().Query)

	title := textinput.New()
	title.Placeholder = "Untitled"
	title.Prompt = ""
	title.CharLimit = 200

	comment := textinput.New()
	comment.Placeholder = "Add a comment"
	comment.Prompt = "💬 "

	// Must set width before any Update/View calls to avoid zero-width panics.
	body := textarea.New()
	body.Placeholder = "Start writing..."
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.SetWidth(40)
	body.SetHeight(10)

	m := Model{
		store:   opts.Store,
		ed:      opts.Editor,
		keys:    keys,
		clock:   c,
		loc:     loc,
		log:     opts.Logger,
		userID:  opts.UserID,
		user:    opts.Username,
		pending: opts.Pending,
		polish:  opts.Polish,
		timeout: timeout,
		search:  search,
		title:   title,
		comment: comment,
		body:    body,
		raw:     viewport.New(40, 10),
		preview: viewport.New(40, 10),
		scroll:  editor.ScrollSync{Mode: editor.ModeSplit},
		nav:     calendar.NewNavigator(c.Now(), loc),
	}
	m.openActive()
	m.remind()
	return m
}

// Init starts the refresh tick
func (m Model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return ClearStatusMsg{} })
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		m.remind()
		return m, m.scheduleTick()

	case ClearStatusMsg:
		m.status, m.statusErr = "", false
		return m, nil

	case PolishDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Str("note", m.ed.NoteID()).Msg("polish failed")
			m.setError("Polish failed: " + msg.Err.Error())
			return m, clearStatusLater()
		}
		m.ed.SetBody(msg.Body)
		m.body.SetValue(msg.Body)
		m.raw.SetContent(msg.Body)
		m.refreshDraft()
		m.renderPreview(false)
		m.setStatus("Polished, saved when you leave the note")
		return m, clearStatusLater()

	case tea.MouseMsg:
		if m.inCalendar() || m.scroll.Mode == editor.ModeEdit {
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		m.syncScroll()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// cursor blink and other widget messages go to the focused input
	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.context()
	if m.busy {
		if cmd, ok := m.keys.Lookup(msg, ctx); ok && cmd == keymap.CmdQuit {
			return m.execute(cmd)
		}
		return m, nil
	}
	if ctx.TextContext() && keymap.IsPrintable(msg) {
		return m.updateInput(msg)
	}
	cmd, ok := m.keys.Lookup(msg, ctx)
	if !ok {
		if ctx.TextContext() {
			return m.updateInput(msg)
		}
		return m, nil
	}
	return m.execute(cmd)
}

// updateInput forwards msg to the focused text widget
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusSearch:
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.store.State().Query {
			m.store.SetQuery(m.search.Value())
			m.selectVisible()
		}
	case FocusTitle:
		m.title, cmd = m.title.Update(msg)
		m.ed.SetTitle(m.title.Value())
	case FocusBody:
		m.body, cmd = m.body.Update(msg)
		if m.body.Value() != m.draft.Body {
			m.ed.SetBody(m.body.Value())
			m.draft.Body = m.body.Value()
			m.raw.SetContent(m.draft.Body)
			m.renderPreview(false)
		}
		m.trackEditOffset()
		m.syncScroll()
	case FocusComment:
		m.comment, cmd = m.comment.Update(msg)
	}
	return m, cmd
}

// context returns the keymap context for the current focus
func (m Model) context() keymap.Context {
	if m.inCalendar() {
		return keymap.ContextCalendar
	}
	switch m.focus {
	case FocusSearch:
		return keymap.ContextSearch
	case FocusTitle:
		return keymap.ContextTitle
	case FocusBody:
		return keymap.ContextEditor
	case FocusPreview:
		return keymap.ContextPreview
	case FocusComment:
		return keymap.ContextComment
	}
	return keymap.ContextSidebar
}

func (m Model) inCalendar() bool {
	return m.store.State().View == models.ViewCalendar
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

// resize lays the panes out for the current window size
func (m *Model) resize() {
	mainW := max(m.width-sidebarWidth-2, 20)
	// title, comments, comment input, status and help lines plus borders
	paneH := max(m.height-8, 3)

	m.search.Width = sidebarWidth - 4
	m.title.Width = mainW - 4
	m.comment.Width = mainW - 6

	paneW := mainW - 2
	if m.scroll.Mode == editor.ModeSplit {
		paneW = (mainW - 4) / 2
	}
	m.body.SetWidth(paneW)
	m.body.SetHeight(paneH)
	m.raw.Width, m.raw.Height = paneW, paneH
	m.preview.Width, m.preview.Height = paneW, paneH
	m.renderPreview(true)
	m.trackEditOffset()
	m.resetScrollBaseline()
}

// refreshDraft copies the editor draft for rendering
func (m *Model) refreshDraft() {
	m.draft = m.ed.Draft()
}
