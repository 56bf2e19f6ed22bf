// Package syncq persists committed workspace changes to the backend. Local
// state is always applied first; writes run FIFO on one worker goroutine
// and their outcome is recorded as a per-note sync status. Failures are
// logged and kept for retry, never dropped.
package syncq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gonote/gonote/internal/models"
)

// ErrClosed marks tasks still queued when the queue shut down.
var ErrClosed = errors.New("sync queue closed")

// Kind is the remote operation a task performs.
type Kind string

const (
	CreateNote  Kind = "create_note"
	UpdateNote  Kind = "update_note"
	DeleteNote  Kind = "delete_note"
	CreateEvent Kind = "create_event"
	DeleteEvent Kind = "delete_event"
)

// Task is one remote write. Note and Event carry snapshots taken at commit.
type Task struct {
	Kind    Kind                  `json:"kind"`
	NoteID  string                `json:"noteId,omitempty"`
	Note    *models.Note          `json:"note,omitempty"`
	EventID string                `json:"eventId,omitempty"`
	Event   *models.CalendarEvent `json:"event,omitempty"`
}

func (t Task) String() string {
	if t.NoteID != "" {
		return fmt.Sprintf("%s %s", t.Kind, t.NoteID)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.EventID)
}

// Remote is the backend the queue writes to.
type Remote interface {
	CreateNote(ctx context.Context, n *models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	CreateEvent(ctx context.Context, e models.CalendarEvent) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

// StatusSink records per-note sync state.
type StatusSink interface {
	MarkPending(id string)
	MarkSynced(id string)
	MarkFailed(id string, err error)
}

// EventSink receives server-assigned event ids.
type EventSink interface {
	ReplaceEvent(oldID string, e models.CalendarEvent)
}

// FailureSink keeps failed tasks for a later retry. Resolve is called
// after a task succeeds so older failures for the same note or event are
// dropped.
type FailureSink interface {
	RecordFailure(t Task, cause error) error
	Resolve(t Task) error
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger for failures.
func WithLogger(l zerolog.Logger) Option { return func(q *Queue) { q.log = l } }

// WithFailureSink persists failed tasks.
func WithFailureSink(s FailureSink) Option { return func(q *Queue) { q.failures = s } }

// WithEventSink receives server event ids.
func WithEventSink(s EventSink) Option { return func(q *Queue) { q.events = s } }

// Queue runs remote writes on a single worker.
type Queue struct {
	remote   Remote
	status   StatusSink
	failures FailureSink
	events   EventSink
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	tasks   []Task
	pending int
	perNote map[string]int
	failed  int
	closed  bool
	waiters []chan struct{}

	wake chan struct{}
	done chan struct{}
}

// New starts a queue writing to remote.
func New(remote Remote, status StatusSink, opts ...Option) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		remote:  remote,
		status:  status,
		log:     zerolog.Nop(),
		ctx:     ctx,
		cancel:  cancel,
		perNote: make(map[string]int),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.run()
	return q
}

// Enqueue schedules t. Note tasks mark their note pending.
func (q *Queue) Enqueue(t Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.tasks = append(q.tasks, t)
	q.pending++
	if t.NoteID != "" {
		q.perNote[t.NoteID]++
	}
	q.mu.Unlock()

	if t.NoteID != "" && t.Kind != DeleteNote {
		q.status.MarkPending(t.NoteID)
	}
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued or running tasks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Failed returns how many tasks have failed since the queue started.
func (q *Queue) Failed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.failed
}

// Drain blocks until every queued task has finished or ctx is done.
func (q *Queue) Drain(ctx context.Context) error {
	q.mu.Lock()
	if q.pending == 0 {
		q.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.waiters = append(q.waiters, ch)
	q.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker. Tasks that never ran are recorded as failed
// with ErrClosed so they can be retried.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	<-q.done

	q.mu.Lock()
	left := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	for _, t := range left {
		q.fail(t, ErrClosed)
		q.finish(t)
	}
}

func (q *Queue) next() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		if q.ctx.Err() != nil {
			return
		}
		t, ok := q.next()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-q.ctx.Done():
				return
			}
		}
		if err := q.exec(t); err != nil {
			q.fail(t, err)
		} else {
			q.succeed(t)
		}
		q.finish(t)
	}
}

func (q *Queue) exec(t Task) error {
	switch t.Kind {
	case CreateNote:
		_, err := q.remote.CreateNote(q.ctx, t.Note)
		return err
	case UpdateNote:
		_, err := q.remote.UpdateNote(q.ctx, t.Note)
		return err
	case DeleteNote:
		return q.remote.DeleteNote(q.ctx, t.NoteID)
	case CreateEvent:
		created, err := q.remote.CreateEvent(q.ctx, *t.Event)
		if err == nil && q.events != nil && created != nil {
			q.events.ReplaceEvent(t.EventID, *created)
		}
		return err
	case DeleteEvent:
		return q.remote.DeleteEvent(q.ctx, t.EventID)
	}
	return fmt.Errorf("unknown task kind %q", t.Kind)
}

// settle returns how many other writes for noteID are still queued.
func (q *Queue) settle(noteID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.perNote[noteID] - 1
}

func (q *Queue) succeed(t Task) {
	q.log.Debug().Str("op", string(t.Kind)).Str("note", t.NoteID).Str("event", t.EventID).Msg("synced")
	if t.NoteID != "" && q.settle(t.NoteID) == 0 {
		q.status.MarkSynced(t.NoteID)
	}
	if q.failures != nil {
		if err := q.failures.Resolve(t); err != nil {
			q.log.Warn().Err(err).Str("task", t.String()).Msg("clear resolved failures")
		}
	}
}

func (q *Queue) fail(t Task, err error) {
	q.log.Error().Err(err).Str("op", string(t.Kind)).Str("note", t.NoteID).Str("event", t.EventID).Msg("sync failed")
	if t.NoteID != "" {
		q.status.MarkFailed(t.NoteID, err)
	}
	if q.failures != nil {
		if rerr := q.failures.RecordFailure(t, err); rerr != nil {
			q.log.Error().Err(rerr).Str("task", t.String()).Msg("record sync failure")
		}
	}
	q.mu.Lock()
	q.failed++
	q.mu.Unlock()
}

func (q *Queue) finish(t Task) {
	q.mu.Lock()
	q.pending--
	if t.NoteID != "" {
		if q.perNote[t.NoteID]--; q.perNote[t.NoteID] <= 0 {
			delete(q.perNote, t.NoteID)
		}
	}
	var waiters []chan struct{}
	if q.pending == 0 {
		waiters = q.waiters
		q.waiters = nil
	}
	q.mu.Unlock()
	for _, ch := range waiters {
		close(ch)
	}
}
