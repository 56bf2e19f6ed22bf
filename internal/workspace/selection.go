package workspace

import (
	"fmt"

	"github.com/gonote/gonote/internal/models"
)

// Folders returns the folders, with the family pseudo-folder appended when
// the user belongs to a family.
func (s *Store) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.Folder{}, s.folders...)
	if s.familyID != "" {
		out = append(out, models.Folder{ID: models.FamilyFolderID, Name: "Family", Icon: "🏠", FamilyID: s.familyID})
	}
	return out
}

// State returns the current selection.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Restore applies a persisted selection, dropping references that no
// longer resolve.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ActiveFolderID == models.FamilyFolderID || s.folderIndex(st.ActiveFolderID) >= 0 {
		s.state.ActiveFolderID = st.ActiveFolderID
	}
	if s.indexOf(st.ActiveNoteID) >= 0 {
		s.state.ActiveNoteID = st.ActiveNoteID
	}
	if st.View == models.ViewCalendar || st.View == models.ViewNotes {
		s.state.View = st.View
	}
	s.state.Query = st.Query
}

// ActiveNote returns a copy of the active note, nil when nothing is selected.
func (s *Store) ActiveNote() *models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.state.ActiveNoteID); i >= 0 {
		return s.notes[i].Clone()
	}
	return nil
}

// SetActiveFolder switches the folder scope.
func (s *Store) SetActiveFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == models.FamilyFolderID {
		if s.familyID == "" {
			return ErrNoFamily
		}
	} else if s.folderIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}
	s.state.ActiveFolderID = id
	return nil
}

// SetActiveNote selects a note; an empty id clears the selection.
func (s *Store) SetActiveNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	s.state.ActiveNoteID = id
	return nil
}

// Navigate selects a note and switches to the folder scope it lives in.
// Unknown ids are ignored and report false.
func (s *Store) Navigate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.state.ActiveFolderID = scopeOf(s.notes[i])
	s.state.ActiveNoteID = id
	s.state.View = models.ViewNotes
	return true
}

// SetQuery sets the free-text search query.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	s.state.Query = q
	s.mu.Unlock()
}

// SetView switches between the notes list and the calendar.
func (s *Store) SetView(v models.View) {
	s.mu.Lock()
	s.state.View = v
	s.mu.Unlock()
}
