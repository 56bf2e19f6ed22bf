package syncq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/workspace"
)

type fakeRemote struct {
	mu      sync.Mutex
	calls   []string
	failFor map[Kind]error
	block   chan struct{}
}

func (f *fakeRemote) record(k Kind, id string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(k)+":"+id)
	return f.failFor[k]
}

func (f *fakeRemote) CreateNote(_ context.Context, n *models.Note) (*models.Note, error) {
	return n, f.record(CreateNote, n.ID)
}

func (f *fakeRemote) UpdateNote(_ context.Context, n *models.Note) (*models.Note, error) {
	return n, f.record(UpdateNote, n.ID)
}

func (f *fakeRemote) DeleteNote(_ context.Context, id string) error {
	return f.record(DeleteNote, id)
}

func (f *fakeRemote) CreateEvent(_ context.Context, e models.CalendarEvent) (*models.CalendarEvent, error) {
	if err := f.record(CreateEvent, e.ID); err != nil {
		return nil, err
	}
	e.ID = "srv-" + e.ID
	return &e, nil
}

func (f *fakeRemote) DeleteEvent(_ context.Context, id string) error {
	return f.record(DeleteEvent, id)
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

type memFailures struct {
	mu       sync.Mutex
	tasks    []Task
	resolved []Task
}

func (m *memFailures) Resolve(t Task) error {
	m.mu.Lock()
	m.resolved = append(m.resolved, t)
	m.mu.Unlock()
	return nil
}

func (m *memFailures) RecordFailure(t Task, _ error) error {
	m.mu.Lock()
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()
	return nil
}

func newStore() *workspace.Store {
	fc := clock.Fake(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	s := workspace.New(fc, models.SeedFolders(), "")
	s.Load(models.SeedNotes(clock.Millis(fc)))
	return s
}

func drain(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func TestWatchRunsTasksInOrder(t *testing.T) {
	store := newStore()
	remote := &fakeRemote{}
	q := New(remote, store, WithEventSink(store))
	defer q.Close()
	q.Watch(store)

	n, _ := store.CreateNote("1")
	n.Title = "x"
	store.UpdateNote(n)
	store.AddEvent(models.CalendarEvent{ID: "e1", Title: "Dentist"})
	store.DeleteNote(n.ID)
	drain(t, q)

	want := []string{"create_note:" + n.ID, "update_note:" + n.ID, "create_event:e1", "delete_note:" + n.ID}
	got := remote.Calls()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if ev := store.Events(); len(ev) != 1 || ev[0].ID != "srv-e1" {
		t.Errorf("events = %+v, want server id", ev)
	}
}

func TestFailureMarksNoteAndRecords(t *testing.T) {
	store := newStore()
	boom := errors.New("HTTP Error 500")
	remote := &fakeRemote{failFor: map[Kind]error{UpdateNote: boom}}
	failures := &memFailures{}
	q := New(remote, store, WithFailureSink(failures))
	defer q.Close()
	q.Watch(store)

	n, _ := store.Note("welcome-note")
	n.Title = "edited"
	store.UpdateNote(n)
	drain(t, q)

	st := store.SyncStatus("welcome-note")
	if st.State != workspace.Failed || !errors.Is(st.Err, boom) {
		t.Errorf("status = %+v", st)
	}
	if got, _ := store.Note("welcome-note"); got.Title != "edited" {
		t.Error("local state should survive a failed sync")
	}
	if len(failures.tasks) != 1 || failures.tasks[0].Kind != UpdateNote {
		t.Errorf("recorded failures = %+v", failures.tasks)
	}
	if q.Failed() != 1 {
		t.Errorf("Failed() = %d", q.Failed())
	}
}

func TestPendingUntilLastWriteLands(t *testing.T) {
	store := newStore()
	remote := &fakeRemote{block: make(chan struct{})}
	q := New(remote, store)
	defer q.Close()

	n, _ := store.Note("ideas-note")
	q.Enqueue(Task{Kind: UpdateNote, NoteID: n.ID, Note: n})
	q.Enqueue(Task{Kind: UpdateNote, NoteID: n.ID, Note: n})
	if st := store.SyncStatus(n.ID); st.State != workspace.Pending {
		t.Errorf("state = %v, want pending", st.State)
	}

	remote.block <- struct{}{}
	remote.block <- struct{}{}
	drain(t, q)
	if st := store.SyncStatus(n.ID); st.State != workspace.Synced {
		t.Errorf("state = %v, want synced", st.State)
	}
}

func TestDrainHonoursContext(t *testing.T) {
	store := newStore()
	remote := &fakeRemote{block: make(chan struct{})}
	q := New(remote, store)

	n, _ := store.Note("ideas-note")
	q.Enqueue(Task{Kind: UpdateNote, NoteID: n.ID, Note: n})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Drain = %v, want deadline exceeded", err)
	}
	close(remote.block)
	q.Close()
}

func TestCloseRecordsUnsentTasks(t *testing.T) {
	store := newStore()
	failures := &memFailures{}
	remote := &fakeRemote{block: make(chan struct{})}
	q := New(remote, store, WithFailureSink(failures))

	n, _ := store.Note("ideas-note")
	q.Enqueue(Task{Kind: UpdateNote, NoteID: n.ID, Note: n})
	q.Enqueue(Task{Kind: DeleteEvent, EventID: "e9"})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(remote.block)
	}()
	q.Close()

	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after Close", q.Pending())
	}
	if err := q.Enqueue(Task{Kind: DeleteNote, NoteID: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Enqueue after Close = %v", err)
	}
	if len(failures.tasks) == 0 {
		t.Error("unsent tasks should be recorded as failures")
	}
}

func TestSuccessResolvesOlderFailures(t *testing.T) {
	store := newStore()
	failures := &memFailures{}
	q := New(&fakeRemote{}, store, WithFailureSink(failures))
	defer q.Close()

	n, _ := store.Note("ideas-note")
	store.MarkFailed(n.ID, errors.New("offline"))
	q.Enqueue(Task{Kind: UpdateNote, NoteID: n.ID, Note: n})
	drain(t, q)

	if st := store.SyncStatus(n.ID); st.State != workspace.Synced {
		t.Errorf("state = %v, want synced", st.State)
	}
	if len(failures.resolved) != 1 || failures.resolved[0].NoteID != n.ID {
		t.Errorf("resolved = %+v", failures.resolved)
	}
}
