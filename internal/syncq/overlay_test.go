package syncq

import (
	"testing"

	"github.com/gonote/gonote/internal/models"
)

func TestOverlay(t *testing.T) {
	fetched := []models.Note{
		{ID: "a", Title: "server a"},
		{ID: "b", Title: "server b"},
	}
	tasks := []Task{
		{Kind: UpdateNote, NoteID: "a", Note: &models.Note{ID: "a", Title: "local a"}},
		{Kind: CreateNote, NoteID: "c", Note: &models.Note{ID: "c", Title: "local c"}},
		{Kind: DeleteNote, NoteID: "b"},
		{Kind: DeleteEvent, EventID: "e1"},
	}

	got := Overlay(fetched, tasks)
	if len(got) != 2 {
		t.Fatalf("got %d notes, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].Title != "local a" {
		t.Errorf("Overlay = %+v", got)
	}
	if fetched[0].Title != "server a" || len(fetched) != 2 {
		t.Error("Overlay modified its input")
	}
}

func TestOverlayNoTasks(t *testing.T) {
	fetched := []models.Note{{ID: "a"}}
	if got := Overlay(fetched, nil); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Overlay(nil) = %+v", got)
	}
}
