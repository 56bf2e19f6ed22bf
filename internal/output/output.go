// Package output provides styled terminal output helpers (success, error,
// warning, note formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/workspace"
)

const defaultWidth = 80

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	publicStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	syncStyles   = map[workspace.SyncState]lipgloss.Style{
		workspace.Synced:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		workspace.Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		workspace.Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message to stderr
func Error(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("ERROR: "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Subtle renders s in the muted style
func Subtle(s string) string {
	return subtleStyle.Render(s)
}

// Title renders s in bold
func Title(s string) string {
	return titleStyle.Render(s)
}

// FormatSyncStatus formats a note's sync state with color. Failures carry
// the error message.
func FormatSyncStatus(st workspace.SyncStatus) string {
	label := "[" + st.State.String() + "]"
	if st.State == workspace.Failed && st.Err != nil {
		label = fmt.Sprintf("[sync failed: %v]", st.Err)
	}
	style, ok := syncStyles[st.State]
	if !ok {
		return label
	}
	return style.Render(label)
}

// FormatNoteShort formats a note on one line:
// id, title, folder, counts, public marker, updated time.
func FormatNoteShort(n *models.Note, now time.Time) string {
	var parts []string
	parts = append(parts, titleStyle.Render(n.ID))
	parts = append(parts, n.DisplayTitle())

	folder := n.FolderID
	if n.InFamilyPool() {
		folder = models.FamilyFolderID
	}
	parts = append(parts, subtleStyle.Render("["+folder+"]"))

	if c := len(n.Comments); c > 0 {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d💬", c)))
	}
	if a := len(n.Attachments); a > 0 {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d📎", a)))
	}
	if n.ShareConfig.IsPublic {
		parts = append(parts, publicStyle.Render("public"))
	}
	parts = append(parts, subtleStyle.Render(FormatTimeAgoFrom(time.UnixMilli(n.UpdatedAt), now)))

	return strings.Join(parts, "  ")
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	return FormatTimeAgoFrom(t, time.Now())
}

// FormatTimeAgoFrom is FormatTimeAgo relative to now.
func FormatTimeAgoFrom(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nCOMMENTS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// TerminalWidth returns the current terminal width or a fallback when unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultWidth
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}

	return fallback
}
