package syncq

import "github.com/gonote/gonote/internal/workspace"

// Watch turns every committed change in store into a queued task.
func (q *Queue) Watch(store *workspace.Store) {
	store.Subscribe(func(c workspace.Change) {
		if t, ok := TaskFor(c); ok {
			if err := q.Enqueue(t); err != nil {
				q.log.Warn().Err(err).Str("task", t.String()).Msg("change not queued")
			}
		}
	})
}

// TaskFor maps a workspace change to its remote write.
func TaskFor(c workspace.Change) (Task, bool) {
	switch c.Kind {
	case workspace.NoteCreated:
		return Task{Kind: CreateNote, NoteID: c.Note.ID, Note: c.Note}, true
	case workspace.NoteUpdated:
		return Task{Kind: UpdateNote, NoteID: c.Note.ID, Note: c.Note}, true
	case workspace.NoteDeleted:
		return Task{Kind: DeleteNote, NoteID: c.Note.ID}, true
	case workspace.EventCreated:
		return Task{Kind: CreateEvent, EventID: c.Event.ID, Event: c.Event}, true
	case workspace.EventDeleted:
		return Task{Kind: DeleteEvent, EventID: c.Event.ID}, true
	}
	return Task{}, false
}
