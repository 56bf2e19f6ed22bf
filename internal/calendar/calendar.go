// Package calendar lays out a month grid of events. Recurrence tags are
// carried on events but never expanded: an event shows only on its
// stored date.
package calendar

import (
	"sort"
	"time"

	"github.com/gonote/gonote/internal/models"
)

// Cell is one slot in the month grid. Leading blanks have Day == 0.
type Cell struct {
	Day    int
	Date   time.Time
	Events []models.CalendarEvent
}

// Blank reports whether c is a leading blank.
func (c Cell) Blank() bool { return c.Day == 0 }

// FirstOfMonth returns midnight on the first day of t's month in loc.
func FirstOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// Grid returns the cells of month: one blank per weekday before the 1st
// (weeks start on Sunday), then one cell per day holding the events whose
// local date is that day.
func Grid(month time.Time, events []models.CalendarEvent, loc *time.Location) []Cell {
	if loc == nil {
		loc = time.Local
	}
	first := FirstOfMonth(month, loc)
	offset := int(first.Weekday())
	days := first.AddDate(0, 1, -1).Day()

	cells := make([]Cell, offset, offset+days)
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: d, Date: time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)})
	}

	for _, e := range events {
		t := time.UnixMilli(e.Date).In(loc)
		if t.Year() != first.Year() || t.Month() != first.Month() {
			continue
		}
		i := offset + t.Day() - 1
		cells[i].Events = append(cells[i].Events, e)
	}
	for i := range cells {
		evs := cells[i].Events
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].Date < evs[b].Date })
	}
	return cells
}

// InMonth returns the events dated in month, sorted by date.
func InMonth(month time.Time, events []models.CalendarEvent, loc *time.Location) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, c := range Grid(month, events, loc) {
		out = append(out, c.Events...)
	}
	return out
}

// Navigator tracks the displayed month.
type Navigator struct {
	Current time.Time
	Loc     *time.Location
}

// NewNavigator starts at the month containing now.
func NewNavigator(now time.Time, loc *time.Location) *Navigator {
	if loc == nil {
		loc = time.Local
	}
	return &Navigator{Current: FirstOfMonth(now, loc), Loc: loc}
}

// Next moves forward one month.
func (n *Navigator) Next() { n.Current = FirstOfMonth(n.Current, n.Loc).AddDate(0, 1, 0) }

// Prev moves back one month.
func (n *Navigator) Prev() { n.Current = FirstOfMonth(n.Current, n.Loc).AddDate(0, -1, 0) }

// Today resets to the month containing now.
func (n *Navigator) Today(now time.Time) { n.Current = FirstOfMonth(now, n.Loc) }

// Countdown returns whole days from now's date until the event's date.
// Past events are negative.
func Countdown(e models.CalendarEvent, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	day := func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	}
	return int(day(time.UnixMilli(e.Date)).Sub(day(now)).Hours() / 24)
}
