package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/models"
)

func at(y int, m time.Month, d, h int) int64 {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC).UnixMilli()
}

func TestGridLeadingBlanksAndDays(t *testing.T) {
	// March 2026 starts on a Sunday, April 2026 on a Wednesday.
	tests := []struct {
		month  time.Time
		blanks int
		days   int
	}{
		{time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 0, 31},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 3, 30},
		{time.Date(2028, 2, 10, 0, 0, 0, 0, time.UTC), 2, 29},
	}
	for _, tt := range tests {
		cells := Grid(tt.month, nil, time.UTC)
		if len(cells) != tt.blanks+tt.days {
			t.Errorf("%s: %d cells, want %d", tt.month.Format("2006-01"), len(cells), tt.blanks+tt.days)
			continue
		}
		for i := 0; i < tt.blanks; i++ {
			if !cells[i].Blank() {
				t.Errorf("%s: cell %d should be blank", tt.month.Format("2006-01"), i)
			}
		}
		if cells[tt.blanks].Day != 1 {
			t.Errorf("%s: first day cell = %d", tt.month.Format("2006-01"), cells[tt.blanks].Day)
		}
	}
}

func TestGridPlacesEventsByLocalDay(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "late", Title: "Late", Date: at(2026, 4, 10, 23)},
		{ID: "early", Title: "Early", Date: at(2026, 4, 10, 1)},
		{ID: "other-month", Date: at(2026, 5, 10, 9)},
		{ID: "weekly", Date: at(2026, 4, 2, 9), Recurrence: models.RecurrenceWeekly},
	}
	cells := Grid(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), events, time.UTC)

	day10 := cells[3+9]
	if len(day10.Events) != 2 || day10.Events[0].ID != "early" {
		t.Errorf("day 10 events = %+v", day10.Events)
	}

	count := 0
	for _, c := range cells {
		count += len(c.Events)
	}
	if count != 3 {
		t.Errorf("placed %d events, want 3 (weekly is not expanded, May excluded)", count)
	}

	// in UTC+9 the 23:00 UTC event falls on the 11th
	tokyo := time.FixedZone("JST", 9*3600)
	cells = Grid(time.Date(2026, 4, 1, 0, 0, 0, 0, tokyo), events, tokyo)
	if got := cells[3+10].Events; len(got) != 1 || got[0].ID != "late" {
		t.Errorf("day 11 in JST = %+v", got)
	}
}

func TestNavigator(t *testing.T) {
	n := NewNavigator(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), time.UTC)
	n.Next()
	if n.Current.Month() != time.February || n.Current.Day() != 1 {
		t.Errorf("Next from Jan 31 = %s", n.Current)
	}
	n.Prev()
	n.Prev()
	if n.Current.Year() != 2025 || n.Current.Month() != time.December {
		t.Errorf("Prev twice = %s", n.Current)
	}
	n.Today(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC))
	if n.Current.Month() != time.July {
		t.Errorf("Today = %s", n.Current)
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		date int64
		want int
	}{
		{at(2026, 4, 10, 1), 0},
		{at(2026, 4, 11, 1), 1},
		{at(2026, 5, 10, 0), 30},
		{at(2026, 4, 8, 0), -2},
	}
	for _, tt := range tests {
		if got := Countdown(models.CalendarEvent{Date: tt.date}, now, time.UTC); got != tt.want {
			t.Errorf("Countdown(%s) = %d, want %d", time.UnixMilli(tt.date).UTC(), got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	month := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	cells := Grid(month, []models.CalendarEvent{{Date: at(2026, 4, 10, 9)}}, time.UTC)
	out := Render(month, cells, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), 70)
	if !strings.Contains(out, "April 2026") || !strings.Contains(out, "Su") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "•") {
		t.Errorf("event marker missing:\n%s", out)
	}
	// title, weekday header and five week rows
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Errorf("got %d lines, want 7:\n%s", lines, out)
	}
}
