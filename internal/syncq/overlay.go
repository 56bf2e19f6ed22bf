package syncq

import "github.com/gonote/gonote/internal/models"

// Overlay applies unsynced local writes on top of notes fetched from the
// backend, in task order. Creates and updates replace the fetched copy (or
// are prepended when the backend has none); deletes remove it.
func Overlay(notes []models.Note, tasks []Task) []models.Note {
	out := append([]models.Note{}, notes...)
	index := func(id string) int {
		for i := range out {
			if out[i].ID == id {
				return i
			}
		}
		return -1
	}

	for _, t := range tasks {
		switch t.Kind {
		case CreateNote, UpdateNote:
			if t.Note == nil {
				continue
			}
			n := *t.Note.Clone()
			if i := index(n.ID); i >= 0 {
				out[i] = n
			} else {
				out = append([]models.Note{n}, out...)
			}
		case DeleteNote:
			if i := index(t.NoteID); i >= 0 {
				out = append(out[:i], out[i+1:]...)
			}
		}
	}
	return out
}
