package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonote/gonote/internal/calendar"
	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/pkg/tui/keymap"
)

// execute runs a keymap command
func (m Model) execute(cmd keymap.Command) (tea.Model, tea.Cmd) {
	var out tea.Cmd
	switch cmd {
	case keymap.CmdQuit:
		m.focusTo(FocusSidebar)
		m.saveDraft()
		return m, tea.Quit
	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp

	case keymap.CmdCursorDown:
		m.moveCursor(1)
	case keymap.CmdCursorUp:
		m.moveCursor(-1)
	case keymap.CmdCursorTop:
		m.selectAt(0)
	case keymap.CmdCursorBottom:
		m.selectAt(len(m.store.Filtered()) - 1)
	case keymap.CmdNextFolder:
		m.cycleFolder(1)
	case keymap.CmdPrevFolder:
		m.cycleFolder(-1)

	case keymap.CmdOpenNote, keymap.CmdEditBody:
		out = m.focusTo(FocusBody)
	case keymap.CmdEditTitle:
		out = m.focusTo(FocusTitle)
	case keymap.CmdSearch:
		out = m.focusTo(FocusSearch)
	case keymap.CmdFocusPreview:
		if m.scroll.Mode != editor.ModeEdit {
			out = m.focusTo(FocusPreview)
		}
	case keymap.CmdNewNote:
		out = m.newNote()
	case keymap.CmdDeleteNote:
		m.deleteNote()
	case keymap.CmdCycleMode:
		m.cycleMode()
	case keymap.CmdTogglePublic:
		m.togglePublic()
	case keymap.CmdComment:
		out = m.startComment()
	case keymap.CmdPolish:
		out = m.startPolish()
	case keymap.CmdCalendar:
		m.toggleCalendar()

	case keymap.CmdConfirm:
		out = m.confirm()
	case keymap.CmdCancel:
		out = m.cancel()

	case keymap.CmdScrollDown:
		m.preview.SetYOffset(m.preview.YOffset + 1)
	case keymap.CmdScrollUp:
		m.preview.SetYOffset(m.preview.YOffset - 1)
	case keymap.CmdPageDown:
		m.preview.SetYOffset(m.preview.YOffset + m.preview.Height)
	case keymap.CmdPageUp:
		m.preview.SetYOffset(m.preview.YOffset - m.preview.Height)

	case keymap.CmdPrevMonth:
		m.nav.Prev()
	case keymap.CmdNextMonth:
		m.nav.Next()
	case keymap.CmdToday:
		m.nav.Today(m.clock.Now())
	}

	m.syncScroll()
	if m.status != "" {
		out = tea.Batch(out, clearStatusLater())
	}
	return m, out
}

// focusTo moves keyboard focus. Leaving the title or body commits the
// draft.
func (m *Model) focusTo(f Focus) tea.Cmd {
	if m.focus == f {
		return nil
	}
	if (f == FocusTitle || f == FocusBody) && m.ed.NoteID() == "" {
		m.setError("No note selected")
		return nil
	}

	switch m.focus {
	case FocusSearch:
		m.search.Blur()
	case FocusTitle:
		m.title.Blur()
	case FocusBody:
		m.raw.SetYOffset(m.editOff)
		m.body.Blur()
	case FocusComment:
		m.comment.Blur()
		m.comment.SetValue("")
	}
	if m.focus == FocusTitle || m.focus == FocusBody {
		m.commit()
	}

	m.focus = f
	var cmd tea.Cmd
	switch f {
	case FocusSearch:
		cmd = m.search.Focus()
	case FocusTitle:
		cmd = m.title.Focus()
	case FocusBody:
		m.editOff = m.raw.YOffset
		cmd = m.body.Focus()
		m.trackEditOffset()
	case FocusComment:
		cmd = m.comment.Focus()
	}
	m.resetScrollBaseline()
	return cmd
}

// commit writes the full draft to the store, changed or not, so every
// blur stamps updatedAt
func (m *Model) commit() {
	m.ed.SetTitle(m.title.Value())
	m.ed.SetBody(m.body.Value())
	dirty := m.ed.Dirty()
	if _, err := m.ed.Blur(); err != nil {
		m.log.Error().Err(err).Str("note", m.ed.NoteID()).Msg("commit draft")
		m.setError(err.Error())
		return
	}
	m.refreshDraft()
	if dirty {
		m.setStatus("Saved")
	}
}

// saveDraft commits a draft changed outside the editor, such as a polish
// result, before the note is closed
func (m *Model) saveDraft() {
	if m.focus == FocusTitle || m.focus == FocusBody || !m.ed.Dirty() {
		return
	}
	m.commit()
}

// openActive loads the store's active note into the editor and widgets
func (m *Model) openActive() {
	m.ed.Open(m.store.ActiveNote())
	m.refreshDraft()
	m.title.SetValue(m.draft.Title)
	m.body.SetValue(m.draft.Body)
	m.cursorToTop()
	m.raw.SetContent(m.draft.Body)
	m.raw.GotoTop()
	m.editOff = 0
	m.renderPreview(true)
	m.preview.GotoTop()
	m.resetScrollBaseline()
}

// cursorToTop moves the textarea cursor to the first line
func (m *Model) cursorToTop() {
	focused := m.body.Focused()
	if !focused {
		m.body.Focus()
	}
	m.body, _ = m.body.Update(tea.KeyMsg{Type: tea.KeyCtrlHome})
	if !focused {
		m.body.Blur()
	}
}

// cursor returns the index of the active note in the visible list, -1 if
// it is filtered out
func (m Model) cursor() int {
	id := m.store.State().ActiveNoteID
	return slices.IndexFunc(m.store.Filtered(), func(n models.Note) bool { return n.ID == id })
}

func (m *Model) moveCursor(delta int) {
	m.selectAt(m.cursor() + delta)
}

// selectAt opens the i-th visible note, clamped to the list
func (m *Model) selectAt(i int) {
	notes := m.store.Filtered()
	if len(notes) == 0 {
		return
	}
	i = min(max(i, 0), len(notes)-1)
	if notes[i].ID == m.ed.NoteID() {
		return
	}
	m.saveDraft()
	if err := m.store.SetActiveNote(notes[i].ID); err != nil {
		m.setError(err.Error())
		return
	}
	m.openActive()
}

// selectVisible keeps the selection inside the visible list
func (m *Model) selectVisible() {
	if m.cursor() < 0 {
		m.selectAt(0)
	}
}

func (m *Model) cycleFolder(delta int) {
	folders := m.store.Folders()
	if len(folders) == 0 {
		return
	}
	active := m.store.State().ActiveFolderID
	i := slices.IndexFunc(folders, func(f models.Folder) bool { return f.ID == active })
	next := folders[(i+delta+len(folders))%len(folders)]
	if err := m.store.SetActiveFolder(next.ID); err != nil {
		m.setError(err.Error())
		return
	}
	m.selectVisible()
}

func (m *Model) newNote() tea.Cmd {
	m.saveDraft()
	if _, err := m.store.CreateNote(m.store.State().ActiveFolderID); err != nil {
		m.setError(err.Error())
		return nil
	}
	m.openActive()
	return m.focusTo(FocusTitle)
}

func (m *Model) deleteNote() {
	id := m.ed.NoteID()
	if id == "" {
		return
	}
	title := m.draft.Title
	if err := m.store.DeleteNote(id); err != nil {
		m.setError(err.Error())
		return
	}
	m.openActive()
	m.setStatus(fmt.Sprintf("Deleted %q", (&models.Note{Title: title}).DisplayTitle()))
}

func (m *Model) cycleMode() {
	switch m.scroll.Mode {
	case editor.ModeEdit:
		m.scroll.Mode = editor.ModeSplit
	case editor.ModeSplit:
		m.scroll.Mode = editor.ModePreview
	default:
		m.scroll.Mode = editor.ModeEdit
	}
	if m.scroll.Mode == editor.ModeEdit && m.focus == FocusPreview {
		m.focusTo(FocusSidebar)
	}
	m.resize()
}

func (m *Model) togglePublic() {
	cfg, err := m.ed.TogglePublicShare()
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.refreshDraft()
	if cfg.IsPublic {
		m.setStatus("Public link: " + cfg.URL)
	} else {
		m.setStatus("Public link disabled")
	}
}

// startComment opens the comment input. From the editor the cursor line
// becomes the quoted excerpt.
func (m *Model) startComment() tea.Cmd {
	if m.ed.NoteID() == "" {
		m.setError("No note selected")
		return nil
	}
	if m.focus == FocusBody {
		m.ed.SetBody(m.body.Value())
		start, end := lineSpan(m.body.Value(), m.body.Line())
		m.ed.Select(start, end)
	} else {
		m.ed.Select(0, 0)
	}
	m.ed.SetQuote()
	return m.focusTo(FocusComment)
}

// lineSpan returns the rune offsets of line row in body
func lineSpan(body string, row int) (start, end int) {
	lines := strings.Split(body, "\n")
	if row < 0 || row >= len(lines) {
		return 0, 0
	}
	for _, l := range lines[:row] {
		start += len([]rune(l)) + 1
	}
	return start, start + len([]rune(lines[row]))
}

func (m *Model) submitComment() {
	c, err := m.ed.SubmitComment(m.comment.Value())
	if err != nil {
		m.setError(err.Error())
		return
	}
	if c != nil {
		m.refreshDraft()
		m.setStatus("Comment posted")
	}
}

func (m *Model) startPolish() tea.Cmd {
	if m.ed.NoteID() == "" {
		m.setError("No note selected")
		return nil
	}
	if m.polish == nil {
		m.setError(editor.ErrNoPolisher.Error())
		return nil
	}
	m.saveDraft()
	m.busy = true
	m.setStatus("Polishing...")

	polish, text, timeout := m.polish, m.body.Value(), m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := polish(ctx, text)
		return PolishDoneMsg{Body: out, Err: err}
	}
}

func (m *Model) toggleCalendar() {
	if m.inCalendar() {
		m.store.SetView(models.ViewNotes)
		return
	}
	m.focusTo(FocusSidebar)
	m.nav.Today(m.clock.Now())
	m.store.SetView(models.ViewCalendar)
}

// confirm handles enter in a text input
func (m *Model) confirm() tea.Cmd {
	switch m.focus {
	case FocusSearch:
		m.store.SetQuery(m.search.Value())
		m.selectVisible()
		return m.focusTo(FocusSidebar)
	case FocusTitle:
		return m.focusTo(FocusBody)
	case FocusComment:
		m.submitComment()
		return m.focusTo(FocusSidebar)
	}
	return nil
}

// cancel handles esc: inputs close, drafts are committed
func (m *Model) cancel() tea.Cmd {
	return m.focusTo(FocusSidebar)
}

// remind raises a reminder notification for today's events that list the
// session user
func (m *Model) remind() {
	if m.userID == "" {
		return
	}
	now := m.clock.Now()
	for _, e := range m.store.Events() {
		if calendar.Countdown(e, now, m.loc) != 0 || !slices.Contains(e.NotifyUsers, m.userID) {
			continue
		}
		day := now.In(m.loc).Format("2006-01-02")
		if m.store.Notify(models.AppNotification{
			ID:        "reminder-" + e.ID + "-" + day,
			UserID:    m.userID,
			Title:     e.Title,
			Message:   "Today: " + e.Title,
			CreatedAt: clock.Millis(m.clock),
			Type:      models.NotificationReminder,
		}) {
			m.log.Debug().Str("event", e.ID).Msg("reminder raised")
		}
	}
}

// unread counts unread notifications of the session user
func (m Model) unread() int {
	n := 0
	for _, a := range m.store.Notifications(m.userID) {
		if !a.IsRead {
			n++
		}
	}
	return n
}
