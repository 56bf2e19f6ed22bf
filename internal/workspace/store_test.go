package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/models"
)

func newTestStore(t *testing.T, familyID string) (*Store, *clock.FakeClock) {
	t.Helper()
	fc := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s := New(fc, models.SeedFolders(), familyID)
	s.Load(models.SeedNotes(clock.Millis(fc)))
	return s, fc
}

func TestCreateNotePrependsAndActivates(t *testing.T) {
	s, _ := newTestStore(t, "")
	if err := s.SetActiveFolder("2"); err != nil {
		t.Fatal(err)
	}

	n, err := s.CreateNote("")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.Title != "" || n.Content != "" || n.FolderID != "2" {
		t.Errorf("new note = %+v", n)
	}
	if n.ShareConfig.IsPublic || n.ShareConfig.PublicPermission != models.PermissionRead {
		t.Errorf("share config = %+v, want private read", n.ShareConfig)
	}
	if got := s.Notes()[0].ID; got != n.ID {
		t.Errorf("first note = %s, want new note %s", got, n.ID)
	}
	if got := s.State().ActiveNoteID; got != n.ID {
		t.Errorf("active note = %s, want %s", got, n.ID)
	}
}

func TestCreateNoteIDsAreUnique(t *testing.T) {
	s, _ := newTestStore(t, "")
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n, err := s.CreateNote("1")
		if err != nil {
			t.Fatal(err)
		}
		if seen[n.ID] {
			t.Fatalf("duplicate id %s", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestCreateNoteInFamilyScope(t *testing.T) {
	s, _ := newTestStore(t, "fam-1")
	n, err := s.CreateNote(models.FamilyFolderID)
	if err != nil {
		t.Fatal(err)
	}
	if n.FamilyID != "fam-1" || n.FolderID != models.FamilyFolderID {
		t.Errorf("family note = %+v", n)
	}

	s.SetFamilyID("")
	if _, err := s.CreateNote(models.FamilyFolderID); !errors.Is(err, ErrNoFamily) {
		t.Errorf("err = %v, want ErrNoFamily", err)
	}
}

func TestCreateNoteUnknownFolder(t *testing.T) {
	s, _ := newTestStore(t, "")
	if _, err := s.CreateNote("nope"); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("err = %v, want ErrFolderNotFound", err)
	}
}

func TestUpdateNoteKeepsIdentityAndNeverRegresses(t *testing.T) {
	s, fc := newTestStore(t, "")
	before, _ := s.Note("welcome-note")

	edited := before.Clone()
	edited.Title = "Hello"
	edited.CreatedAt = 1
	fc.Advance(-time.Hour)

	got, err := s.UpdateNote(edited)
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got.CreatedAt != before.CreatedAt {
		t.Errorf("CreatedAt changed: %d -> %d", before.CreatedAt, got.CreatedAt)
	}
	if got.UpdatedAt < before.UpdatedAt {
		t.Errorf("UpdatedAt regressed: %d -> %d", before.UpdatedAt, got.UpdatedAt)
	}
	if got.Title != "Hello" {
		t.Errorf("Title = %q", got.Title)
	}

	fc.Advance(2 * time.Hour)
	got, _ = s.UpdateNote(got)
	if got.UpdatedAt != clock.Millis(fc) {
		t.Errorf("UpdatedAt = %d, want now %d", got.UpdatedAt, clock.Millis(fc))
	}
}

func TestUpdateNoteUnknown(t *testing.T) {
	s, _ := newTestStore(t, "")
	if _, err := s.UpdateNote(&models.Note{ID: "ghost"}); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("err = %v, want ErrNoteNotFound", err)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s, _ := newTestStore(t, "")
	n, _ := s.Note("welcome-note")
	n.Title = "mutated"
	n.Comments[0].Content = "mutated"

	again, _ := s.Note("welcome-note")
	if again.Title == "mutated" || again.Comments[0].Content == "mutated" {
		t.Error("store exposed its internal note")
	}
}

func TestDeleteActiveNoteFallsBackWithinScope(t *testing.T) {
	s, _ := newTestStore(t, "")
	a, _ := s.CreateNote("1")
	b, _ := s.CreateNote("1")
	if _, err := s.CreateNote("2"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActiveNote(b.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteNote(b.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if got := s.State().ActiveNoteID; got != a.ID {
		t.Errorf("active note = %s, want %s from the same folder", got, a.ID)
	}
	if _, err := s.Note(b.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("deleted note still present: %v", err)
	}
}

func TestDeleteLastNoteClearsSelection(t *testing.T) {
	s, _ := newTestStore(t, "")
	n, _ := s.CreateNote("2")
	if err := s.DeleteNote(n.ID); err != nil {
		t.Fatal(err)
	}
	if got := s.State().ActiveNoteID; got != "" {
		t.Errorf("active note = %q, want none", got)
	}
	if s.ActiveNote() != nil {
		t.Error("ActiveNote() should be nil")
	}
}

func TestFilteredScopesAndSearch(t *testing.T) {
	s, _ := newTestStore(t, "fam-1")
	fam, _ := s.CreateNote(models.FamilyFolderID)
	fam.Title = "Grocery list"
	fam.FolderID = "1"
	if _, err := s.UpdateNote(fam); err != nil {
		t.Fatal(err)
	}

	if err := s.SetActiveFolder("1"); err != nil {
		t.Fatal(err)
	}
	for _, n := range s.Filtered() {
		if n.FamilyID != "" {
			t.Errorf("family note %s listed in personal folder", n.ID)
		}
	}

	if err := s.SetActiveFolder(models.FamilyFolderID); err != nil {
		t.Fatal(err)
	}
	got := s.Filtered()
	if len(got) != 1 || got[0].ID != fam.ID {
		t.Errorf("family scope = %+v", got)
	}

	s.SetQuery("ROADMAP")
	if got := s.Search("", "ROADMAP"); len(got) != 1 || got[0].ID != "ideas-note" {
		t.Errorf("Search = %+v", got)
	}
	if got := s.Filtered(); len(got) != 0 {
		t.Errorf("query should filter family scope to nothing, got %d", len(got))
	}
}

func TestNavigateSwitchesFolder(t *testing.T) {
	s, _ := newTestStore(t, "")
	s.SetView(models.ViewCalendar)
	if !s.Navigate("ideas-note") {
		t.Fatal("Navigate returned false")
	}
	st := s.State()
	if st.ActiveFolderID != "3" || st.ActiveNoteID != "ideas-note" || st.View != models.ViewNotes {
		t.Errorf("state = %+v", st)
	}
	if s.Navigate("missing") {
		t.Error("Navigate to missing note should report false")
	}
}

func TestFindByTitleExact(t *testing.T) {
	s, _ := newTestStore(t, "")
	if n, ok := s.FindByTitle("Welcome to GoNote"); !ok || n.ID != "welcome-note" {
		t.Errorf("FindByTitle = %v, %v", n, ok)
	}
	if _, ok := s.FindByTitle("welcome to gonote"); ok {
		t.Error("FindByTitle should be case-sensitive")
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s, _ := newTestStore(t, "")
	var kinds []ChangeKind
	s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	n, _ := s.CreateNote("1")
	s.UpdateNote(n)
	s.DeleteNote(n.ID)

	want := []ChangeKind{NoteCreated, NoteUpdated, NoteDeleted}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestSyncStatus(t *testing.T) {
	s, _ := newTestStore(t, "")
	s.MarkPending("welcome-note")
	if st := s.SyncStatus("welcome-note"); st.State != Pending {
		t.Errorf("state = %v, want pending", st.State)
	}
	s.MarkFailed("welcome-note", errors.New("boom"))
	if st := s.SyncStatus("welcome-note"); st.State != Failed || st.Err == nil {
		t.Errorf("status = %+v", st)
	}
	if got := s.Unsynced(); len(got) != 1 {
		t.Errorf("Unsynced = %v", got)
	}
	s.MarkSynced("welcome-note")
	if st := s.SyncStatus("welcome-note"); st.State != Synced {
		t.Errorf("state = %v, want synced", st.State)
	}
}

func TestRestoreDropsDanglingReferences(t *testing.T) {
	s, _ := newTestStore(t, "")
	s.Restore(State{ActiveFolderID: "gone", ActiveNoteID: "gone", View: "bogus"})
	st := s.State()
	if st.ActiveFolderID != "1" || st.View != models.ViewNotes {
		t.Errorf("state = %+v", st)
	}
}

func TestEvents(t *testing.T) {
	s, _ := newTestStore(t, "")
	s.AddEvent(models.CalendarEvent{ID: "e1", Title: "Dentist", Date: 1000})
	ev := s.Events()
	if len(ev) != 1 || ev[0].Recurrence != models.RecurrenceNone || ev[0].Type != models.CalendarSolar {
		t.Fatalf("events = %+v", ev)
	}
	s.ReplaceEvent("e1", models.CalendarEvent{ID: "42", Title: "Dentist"})
	if err := s.RemoveEvent("42"); err != nil {
		t.Fatalf("RemoveEvent: %v", err)
	}
	if err := s.RemoveEvent("42"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestNotifyDropsDuplicateIDs(t *testing.T) {
	s, _ := newTestStore(t, "")
	n := models.AppNotification{ID: "reminder-e1", UserID: "u1", Title: "Dentist", Type: models.NotificationReminder}
	if !s.Notify(n) {
		t.Fatal("first Notify should be accepted")
	}
	if s.Notify(n) {
		t.Error("duplicate id should be dropped")
	}
	s.Notify(models.AppNotification{ID: "other", UserID: "u2"})

	got := s.Notifications("u1")
	if len(got) != 1 || got[0].ID != "reminder-e1" {
		t.Errorf("Notifications(u1) = %+v", got)
	}
}
