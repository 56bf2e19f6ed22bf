package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gonote/gonote/internal/calendar"
	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/workspace"
)

// View renders the workspace
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var main string
	if m.inCalendar() {
		main = m.renderCalendar()
	} else {
		main = m.renderEditor()
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderStatusBar(), m.renderHelp())
}

func (m Model) panel(active bool) lipgloss.Style {
	if active {
		return activePanelStyle
	}
	return panelStyle
}

func (m Model) renderSidebar() string {
	innerW := sidebarWidth - 2
	innerH := max(m.height-4, 5)
	st := m.store.State()

	var b strings.Builder
	for _, f := range m.store.Folders() {
		line := fmt.Sprintf("  %s %s", f.Icon, f.Name)
		if f.ID == st.ActiveFolderID {
			line = activeFolderStyle.Render(fmt.Sprintf("▸ %s %s", f.Icon, f.Name))
		}
		b.WriteString(line + "\n")
	}

	if m.focus == FocusSearch {
		b.WriteString(m.search.View() + "\n")
	} else if st.Query != "" {
		b.WriteString(subtleStyle.Render("/ "+st.Query) + "\n")
	}
	b.WriteString(subtleStyle.Render(strings.Repeat("─", innerW)) + "\n")

	header := strings.Count(b.String(), "\n")
	visible := max(innerH-header, 1)
	notes := m.store.Filtered()
	cur := m.cursor()
	start := 0
	if cur >= visible {
		start = cur - visible + 1
	}
	if len(notes) == 0 {
		b.WriteString(subtleStyle.Render("No notes"))
	}
	for i := start; i < len(notes) && i < start+visible; i++ {
		b.WriteString(m.noteRow(&notes[i], i == cur, innerW) + "\n")
	}

	return m.panel(m.focus == FocusSidebar || m.focus == FocusSearch).
		Width(innerW).Height(innerH).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) noteRow(n *models.Note, selected bool, width int) string {
	mark := " "
	switch m.store.SyncStatus(n.ID).State {
	case workspace.Pending:
		mark = pendingMark
	case workspace.Failed:
		mark = failedMark
	}
	title := n.DisplayTitle()
	if c := len(n.Comments); c > 0 {
		title = fmt.Sprintf("%s %d💬", title, c)
	}
	title = ansi.Truncate(title, width-3, "…")
	if selected {
		return mark + " " + selectedRowStyle.Render(title)
	}
	return mark + " " + title
}

func (m Model) renderEditor() string {
	mainW := max(m.width-sidebarWidth-2, 20)

	var header string
	if m.focus == FocusTitle {
		header = m.title.View()
	} else {
		header = titleStyle.Render((&models.Note{Title: m.draft.Title}).DisplayTitle())
	}
	if m.ed.Dirty() {
		header += subtleStyle.Render(" •")
	}
	if m.draft.Share.IsPublic {
		header += "  " + publicStyle.Render("public")
	}
	header += "  " + subtleStyle.Render("["+string(m.scroll.Mode)+"]")

	var panes string
	switch m.scroll.Mode {
	case editor.ModeEdit:
		panes = m.rawPane()
	case editor.ModePreview:
		panes = m.previewPane()
	default:
		panes = lipgloss.JoinHorizontal(lipgloss.Top, m.rawPane(), " ", m.previewPane())
	}

	lines := []string{header, panes, m.renderComments(mainW - 2)}
	if m.focus == FocusComment {
		if q := m.ed.Quote(); q != "" {
			lines = append(lines, quoteStyle.Render("> "+ansi.Truncate(q, mainW-6, "…")))
		}
		lines = append(lines, m.comment.View())
	}

	active := m.focus == FocusTitle || m.focus == FocusBody || m.focus == FocusPreview || m.focus == FocusComment
	return m.panel(active).Width(mainW).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) rawPane() string {
	if m.focus == FocusBody {
		return m.body.View()
	}
	return m.raw.View()
}

func (m Model) previewPane() string {
	return m.preview.View()
}

func (m Model) renderComments(width int) string {
	comments := m.draft.Comments
	attach := ""
	if n := len(m.draft.Attachments); n > 0 {
		attach = fmt.Sprintf("  %d📎", n)
	}
	if len(comments) == 0 {
		return subtleStyle.Render("No comments" + attach)
	}
	last := comments[len(comments)-1]
	line := fmt.Sprintf("%d💬%s  %s: %s", len(comments), attach, last.Username, last.Content)
	return subtleStyle.Render(ansi.Truncate(line, width, "…"))
}

func (m Model) renderCalendar() string {
	mainW := max(m.width-sidebarWidth-2, 28)
	now := m.clock.Now().In(m.loc)
	events := m.store.Events()

	grid := calendar.Render(m.nav.Current, calendar.Grid(m.nav.Current, events, m.loc), now, mainW-2)

	var b strings.Builder
	b.WriteString(grid)
	b.WriteString("\n")
	month := calendar.InMonth(m.nav.Current, events, m.loc)
	if len(month) == 0 {
		b.WriteString(subtleStyle.Render("No events this month"))
	}
	for _, e := range month {
		b.WriteString(m.eventRow(e, now, mainW-2) + "\n")
	}
	return activePanelStyle.Width(mainW).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) eventRow(e models.CalendarEvent, now time.Time, width int) string {
	date := time.UnixMilli(e.Date).In(m.loc).Format("Mon 02")
	line := fmt.Sprintf("%s  %s", subtleStyle.Render(date), e.Title)
	if e.ShowCountdown {
		switch d := calendar.Countdown(e, now, m.loc); {
		case d == 0:
			line += "  " + bellStyle.Render("today")
		case d > 0:
			line += "  " + subtleStyle.Render(fmt.Sprintf("in %dd", d))
		}
	}
	if e.Recurrence != "" && e.Recurrence != models.RecurrenceNone {
		line += "  " + subtleStyle.Render("↻ "+string(e.Recurrence))
	}
	return ansi.Truncate(line, width, "…")
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.user != "" {
		parts = append(parts, panelTitleStyle.Render(m.user))
	}
	if id := m.ed.NoteID(); id != "" && !m.inCalendar() {
		parts = append(parts, output.FormatSyncStatus(m.store.SyncStatus(id)))
	}
	if m.pending != nil {
		if n := m.pending(); n > 0 {
			parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d queued", n)))
		}
	}
	if n := len(m.store.Unsynced()); n > 0 {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d unsynced", n)))
	}
	if n := m.unread(); n > 0 {
		parts = append(parts, bellStyle.Render(fmt.Sprintf("🔔 %d", n)))
	}
	if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	return statusBarStyle.Width(m.width).Render(ansi.Truncate(strings.Join(parts, "  "), m.width, "…"))
}

func (m Model) renderHelp() string {
	if !m.showHelp {
		hint := "?:help"
		if pending := m.keys.PendingKey(); pending != "" {
			hint = pending + "…"
		}
		return helpStyle.Render(hint)
	}
	return helpStyle.Width(m.width).Render(m.keys.FooterHelp(m.context()))
}
