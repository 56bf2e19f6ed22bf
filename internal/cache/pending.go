package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/syncq"
)

// PendingTask is a failed sync task waiting for a retry.
type PendingTask struct {
	ID       int64
	Task     syncq.Task
	Error    string
	FailedAt int64
}

type pendingRow struct {
	ID       int64  `db:"id"`
	Kind     string `db:"kind"`
	NoteID   string `db:"note_id"`
	EventID  string `db:"event_id"`
	Task     string `db:"task"`
	Error    string `db:"error"`
	FailedAt int64  `db:"failed_at"`
}

// RecordFailure stores a failed task. It satisfies syncq.FailureSink.
func (c *Cache) RecordFailure(t syncq.Task, cause error) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err = c.db.NamedExec(`INSERT INTO pending (kind, note_id, event_id, task, error, failed_at)
		VALUES (:kind, :note_id, :event_id, :task, :error, :failed_at)`, pendingRow{
		Kind:     string(t.Kind),
		NoteID:   t.NoteID,
		EventID:  t.EventID,
		Task:     string(data),
		Error:    msg,
		FailedAt: clock.Millis(c.clock),
	})
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	return nil
}

// Resolve drops recorded failures superseded by the successful task t.
func (c *Cache) Resolve(t syncq.Task) error {
	var err error
	switch {
	case t.NoteID != "":
		_, err = c.db.Exec("DELETE FROM pending WHERE note_id = ?", t.NoteID)
	case t.EventID != "":
		_, err = c.db.Exec("DELETE FROM pending WHERE event_id = ?", t.EventID)
	}
	return err
}

// Pending returns failed tasks, oldest first.
func (c *Cache) Pending() ([]PendingTask, error) {
	var rows []pendingRow
	if err := c.db.Select(&rows, "SELECT id, kind, note_id, event_id, task, error, failed_at FROM pending ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}
	out := make([]PendingTask, 0, len(rows))
	for _, r := range rows {
		var t syncq.Task
		if err := json.Unmarshal([]byte(r.Task), &t); err != nil {
			return nil, fmt.Errorf("decode pending %d: %w", r.ID, err)
		}
		out = append(out, PendingTask{ID: r.ID, Task: t, Error: r.Error, FailedAt: r.FailedAt})
	}
	return out, nil
}

// ClearPending removes the given pending tasks, or all of them when no id
// is passed.
func (c *Cache) ClearPending(ids ...int64) error {
	if len(ids) == 0 {
		_, err := c.db.Exec("DELETE FROM pending")
		return err
	}
	query, args, err := sqlx.In("DELETE FROM pending WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(c.db.Rebind(query), args...)
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
