package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/syncq"
	"github.com/gonote/gonote/internal/workspace"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNotesRoundTripKeepsOrder(t *testing.T) {
	c := openTest(t)
	notes := models.SeedNotes(1000)
	notes[0], notes[1] = notes[1], notes[0]

	if err := c.SaveNotes(notes); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}
	got, err := c.LoadNotes()
	if err != nil {
		t.Fatalf("LoadNotes: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ideas-note" || got[1].ID != "welcome-note" {
		t.Fatalf("order = %v", []string{got[0].ID, got[1].ID})
	}
	if len(got[1].Comments) != 1 || got[1].ShareConfig.URL == "" {
		t.Errorf("nested fields lost: %+v", got[1])
	}

	if err := c.SaveNotes(notes[:1]); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.LoadNotes(); len(got) != 1 {
		t.Errorf("SaveNotes should replace, got %d notes", len(got))
	}
}

func TestEventsRoundTrip(t *testing.T) {
	c := openTest(t)
	events := []models.CalendarEvent{
		{ID: "b", Title: "Later", Date: 2000, NotifyUsers: []string{"u1"}},
		{ID: "a", Title: "Sooner", Date: 1000},
	}
	if err := c.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}
	got, err := c.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].NotifyUsers[0] != "u1" {
		t.Errorf("events = %+v", got)
	}
}

func TestStateRoundTrip(t *testing.T) {
	c := openTest(t)
	if _, ok, err := c.LoadState(); ok || err != nil {
		t.Fatalf("empty cache state = %v, %v", ok, err)
	}
	want := workspace.State{ActiveFolderID: "2", ActiveNoteID: "n1", View: models.ViewCalendar}
	if err := c.SaveState(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.LoadState()
	if err != nil || !ok || got != want {
		t.Errorf("LoadState = %+v, %v, %v", got, ok, err)
	}
}

func TestPendingLifecycle(t *testing.T) {
	c := openTest(t)
	c.clock = clock.Fake(time.UnixMilli(5000))

	n := &models.Note{ID: "n1", Title: "t"}
	if err := c.RecordFailure(syncq.Task{Kind: syncq.UpdateNote, NoteID: "n1", Note: n}, errors.New("HTTP Error 500")); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if err := c.RecordFailure(syncq.Task{Kind: syncq.DeleteEvent, EventID: "e1"}, errors.New("offline")); err != nil {
		t.Fatal(err)
	}

	pending, err := c.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending", len(pending))
	}
	first := pending[0]
	if first.Task.Kind != syncq.UpdateNote || first.Task.Note.Title != "t" || first.Error != "HTTP Error 500" || first.FailedAt != 5000 {
		t.Errorf("first = %+v", first)
	}

	if err := c.ClearPending(first.ID); err != nil {
		t.Fatalf("ClearPending: %v", err)
	}
	if pending, _ := c.Pending(); len(pending) != 1 || pending[0].Task.EventID != "e1" {
		t.Errorf("after clear = %+v", pending)
	}
	if err := c.ClearPending(); err != nil {
		t.Fatal(err)
	}
	if pending, _ := c.Pending(); len(pending) != 0 {
		t.Errorf("ClearPending() left %d", len(pending))
	}
}

func TestReset(t *testing.T) {
	c := openTest(t)
	c.SaveNotes(models.SeedNotes(1))
	c.SaveState(workspace.State{ActiveFolderID: "1"})
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if notes, _ := c.LoadNotes(); len(notes) != 0 {
		t.Errorf("notes left after reset: %d", len(notes))
	}
	if _, ok, _ := c.LoadState(); ok {
		t.Error("state left after reset")
	}
}

func TestResolveDropsFailuresForNote(t *testing.T) {
	c := openTest(t)
	c.RecordFailure(syncq.Task{Kind: syncq.UpdateNote, NoteID: "n1"}, errors.New("offline"))
	c.RecordFailure(syncq.Task{Kind: syncq.UpdateNote, NoteID: "n1"}, errors.New("offline"))
	c.RecordFailure(syncq.Task{Kind: syncq.UpdateNote, NoteID: "n2"}, errors.New("offline"))

	if err := c.Resolve(syncq.Task{Kind: syncq.UpdateNote, NoteID: "n1"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	pending, _ := c.Pending()
	if len(pending) != 1 || pending[0].Task.NoteID != "n2" {
		t.Errorf("pending = %+v", pending)
	}
}
