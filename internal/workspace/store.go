// Package workspace holds the canonical in-memory collections of the
// session: folders, notes (newest first), events and notifications, plus
// the active folder, note and view. Every read hands out copies so callers
// cannot write partially into the store.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/ids"
	"github.com/gonote/gonote/internal/models"
)

var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoFamily       = errors.New("not a member of any family")
)

// ChangeKind identifies a committed mutation
type ChangeKind string

const (
	NoteCreated  ChangeKind = "note_created"
	NoteUpdated  ChangeKind = "note_updated"
	NoteDeleted  ChangeKind = "note_deleted"
	EventCreated ChangeKind = "event_created"
	EventDeleted ChangeKind = "event_deleted"
)

// Change describes one committed mutation. Note and Event are copies.
type Change struct {
	Kind  ChangeKind
	Note  *models.Note
	Event *models.CalendarEvent
}

// State is the persisted selection of the workspace
type State struct {
	ActiveFolderID string      `json:"activeFolderId"`
	ActiveNoteID   string      `json:"activeNoteId"`
	View           models.View `json:"view"`
	Query          string      `json:"query,omitempty"`
}

// Store is the workspace store. It is safe for concurrent use: the sync
// worker's completion callbacks re-enter it from another goroutine.
type Store struct {
	mu            sync.RWMutex
	clock         clock.Clock
	familyID      string
	folders       []models.Folder
	notes         []*models.Note
	events        []models.CalendarEvent
	notifications []models.AppNotification
	state         State
	sync          map[string]SyncStatus
	listeners     []func(Change)
}

// New creates a store over the given folders. familyID is the session
// user's family, empty if none.
func New(c clock.Clock, folders []models.Folder, familyID string) *Store {
	if c == nil {
		c = clock.Real()
	}
	s := &Store{
		clock:    c,
		familyID: familyID,
		folders:  append([]models.Folder{}, folders...),
		sync:     make(map[string]SyncStatus),
		state:    State{View: models.ViewNotes},
	}
	if len(s.folders) > 0 {
		s.state.ActiveFolderID = s.folders[0].ID
	}
	return s
}

// Subscribe registers fn to be called after every committed change.
// Listeners run outside the store lock.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) emit(ch Change) {
	s.mu.RLock()
	listeners := append([]func(Change){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ch)
	}
}

// SetFamilyID updates the family the family pool belongs to.
func (s *Store) SetFamilyID(familyID string) {
	s.mu.Lock()
	s.familyID = familyID
	s.mu.Unlock()
}

// FamilyID returns the family id of the session user.
func (s *Store) FamilyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.familyID
}

// Load replaces the canonical notes after a bulk fetch. Sync status is
// reset to synced for every loaded note. The active note is kept if it
// survived, otherwise the first note in the active scope is selected.
func (s *Store) Load(notes []models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = s.notes[:0]
	s.sync = make(map[string]SyncStatus, len(notes))
	for i := range notes {
		s.notes = append(s.notes, notes[i].Clone())
	}
	if s.indexOf(s.state.ActiveNoteID) < 0 {
		s.state.ActiveNoteID = s.firstInScope(s.state.ActiveFolderID)
	}
}

// CreateNote creates an empty note in folderID (the active folder when
// empty) and makes it the active note. In the family pseudo-folder the
// note joins the family pool instead of a personal folder.
func (s *Store) CreateNote(folderID string) (*models.Note, error) {
	s.mu.Lock()
	if folderID == "" {
		folderID = s.state.ActiveFolderID
	}

	now := clock.Millis(s.clock)
	note := &models.Note{
		ID:          ids.TimeID(s.clock),
		FolderID:    folderID,
		Attachments: []models.Attachment{},
		Comments:    []models.Comment{},
		ShareConfig: models.DefaultShareConfig(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if folderID == models.FamilyFolderID {
		if s.familyID == "" {
			s.mu.Unlock()
			return nil, ErrNoFamily
		}
		note.FamilyID = s.familyID
	} else if s.folderIndex(folderID) < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
	}

	s.notes = append([]*models.Note{note}, s.notes...)
	s.state.ActiveFolderID = folderID
	s.state.ActiveNoteID = note.ID
	out := note.Clone()
	s.mu.Unlock()

	s.emit(Change{Kind: NoteCreated, Note: out.Clone()})
	return out, nil
}

// UpdateNote replaces the stored note with the same id. ID and CreatedAt
// are immutable; UpdatedAt becomes now but never moves backwards.
func (s *Store) UpdateNote(note *models.Note) (*models.Note, error) {
	if note == nil {
		return nil, ErrNoteNotFound
	}
	s.mu.Lock()
	i := s.indexOf(note.ID)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, note.ID)
	}

	prev := s.notes[i]
	next := note.Clone()
	next.CreatedAt = prev.CreatedAt
	next.UpdatedAt = max(clock.Millis(s.clock), prev.UpdatedAt, note.UpdatedAt)
	if next.Attachments == nil {
		next.Attachments = []models.Attachment{}
	}
	if next.Comments == nil {
		next.Comments = []models.Comment{}
	}
	s.notes[i] = next
	out := next.Clone()
	s.mu.Unlock()

	s.emit(Change{Kind: NoteUpdated, Note: out.Clone()})
	return out, nil
}

// DeleteNote removes a note. If it was active, selection falls back to the
// first remaining note in the deleted note's scope, or to no selection.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	deleted := s.notes[i]
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	delete(s.sync, id)
	if s.state.ActiveNoteID == id {
		s.state.ActiveNoteID = s.firstInScope(scopeOf(deleted))
	}
	s.mu.Unlock()

	s.emit(Change{Kind: NoteDeleted, Note: deleted.Clone()})
	return nil
}

// Note returns a copy of the note with id.
func (s *Store) Note(id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return s.notes[i].Clone(), nil
}

// Notes returns copies of every note in canonical order.
func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, *n.Clone())
	}
	return out
}

// FindByTitle returns the first note whose title equals title exactly.
func (s *Store) FindByTitle(title string) (*models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.Title == title {
			return n.Clone(), true
		}
	}
	return nil, false
}

// Filtered returns the notes in the active folder matching the active query.
func (s *Store) Filtered() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(s.state.ActiveFolderID, s.state.Query)
}

// Search returns the notes in folderID matching query. An empty folderID
// searches every note.
func (s *Store) Search(folderID, query string) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(folderID, query)
}

func (s *Store) filter(folderID, query string) []models.Note {
	var out []models.Note
	for _, n := range s.notes {
		if folderID != "" && !InScope(n, folderID) {
			continue
		}
		if !Matches(n, query) {
			continue
		}
		out = append(out, *n.Clone())
	}
	return out
}

// InScope reports whether n is listed under folderID. Family notes show only
// under the family pseudo-folder; other notes only under their own folder.
func InScope(n *models.Note, folderID string) bool {
	if folderID == models.FamilyFolderID {
		return n.InFamilyPool()
	}
	return !n.InFamilyPool() && n.FolderID == folderID
}

// Matches reports a case-insensitive substring hit in title or body.
func Matches(n *models.Note, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}

func scopeOf(n *models.Note) string {
	if n.InFamilyPool() {
		return models.FamilyFolderID
	}
	return n.FolderID
}

// firstInScope returns the first note id listed under folderID. Caller holds mu.
func (s *Store) firstInScope(folderID string) string {
	for _, n := range s.notes {
		if InScope(n, folderID) {
			return n.ID
		}
	}
	return ""
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) folderIndex(id string) int {
	for i, f := range s.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}
