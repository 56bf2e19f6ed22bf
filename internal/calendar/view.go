package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	weekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	eventStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	systemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Render draws the month as a 7-column grid. Days with events carry a
// marker; today is highlighted.
func Render(month time.Time, cells []Cell, today time.Time, width int) string {
	colWidth := max(width/7, 4)

	var b strings.Builder
	b.WriteString(titleStyle.Render(month.Format("January 2006")))
	b.WriteString("\n")

	for _, w := range weekdays {
		b.WriteString(pad(weekdayStyle.Render(w), colWidth))
	}
	b.WriteString("\n")

	for i, c := range cells {
		b.WriteString(pad(renderCell(c, today, colWidth), colWidth))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	if len(cells)%7 != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(c Cell, today time.Time, width int) string {
	if c.Blank() {
		return ""
	}
	day := fmt.Sprintf("%2d", c.Day)
	if sameDay(c.Date, today) {
		day = todayStyle.Render(day)
	}
	if len(c.Events) == 0 {
		return day
	}
	marker := "•"
	if len(c.Events) > 1 {
		marker = fmt.Sprintf("•%d", len(c.Events))
	}
	style := eventStyle
	if c.Events[0].IsSystem {
		style = systemStyle
	}
	return ansi.Truncate(day+style.Render(marker), width-1, "")
}

// pad right-pads s to width display columns.
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
