// Package cache keeps a local sqlite snapshot of the workspace between
// runs: the last fetched notes and events, the selection, and sync tasks
// that failed and are waiting for a retry.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/workspace"
)

const (
	dbFile        = "workspace.db"
	schemaVersion = 1
	stateKey      = "workspace"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	folder_id  TEXT NOT NULL DEFAULT '',
	family_id  TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL DEFAULT 0,
	data       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id   TEXT PRIMARY KEY,
	date INTEGER NOT NULL DEFAULT 0,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS pending (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	kind      TEXT NOT NULL,
	note_id   TEXT NOT NULL DEFAULT '',
	event_id  TEXT NOT NULL DEFAULT '',
	task      TEXT NOT NULL,
	error     TEXT NOT NULL DEFAULT '',
	failed_at INTEGER NOT NULL
);
`

// Cache wraps the sqlite connection
type Cache struct {
	db    *sqlx.DB
	clock clock.Clock
}

// Open opens (creating if needed) the cache in dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// one connection keeps PRAGMAs and writes on the same handle
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=500"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", schemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set schema version: %w", err)
	}

	return &Cache{db: db, clock: clock.Real()}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

type noteRow struct {
	ID        string `db:"id"`
	Position  int    `db:"position"`
	FolderID  string `db:"folder_id"`
	FamilyID  string `db:"family_id"`
	UpdatedAt int64  `db:"updated_at"`
	Data      string `db:"data"`
}

// SaveNotes replaces the cached notes, keeping their order.
func (c *Cache) SaveNotes(notes []models.Note) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes"); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	for i, n := range notes {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode note %s: %w", n.ID, err)
		}
		row := noteRow{ID: n.ID, Position: i, FolderID: n.FolderID, FamilyID: n.FamilyID, UpdatedAt: n.UpdatedAt, Data: string(data)}
		if _, err := tx.NamedExec(`INSERT INTO notes (id, position, folder_id, family_id, updated_at, data)
			VALUES (:id, :position, :folder_id, :family_id, :updated_at, :data)`, row); err != nil {
			return fmt.Errorf("insert note %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// LoadNotes returns the cached notes in saved order.
func (c *Cache) LoadNotes() ([]models.Note, error) {
	var rows []noteRow
	if err := c.db.Select(&rows, "SELECT id, position, folder_id, family_id, updated_at, data FROM notes ORDER BY position"); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	out := make([]models.Note, 0, len(rows))
	for _, r := range rows {
		var n models.Note
		if err := json.Unmarshal([]byte(r.Data), &n); err != nil {
			return nil, fmt.Errorf("decode note %s: %w", r.ID, err)
		}
		out = append(out, n)
	}
	return out, nil
}

type eventRow struct {
	ID   string `db:"id"`
	Date int64  `db:"date"`
	Data string `db:"data"`
}

// SaveEvents replaces the cached events.
func (c *Cache) SaveEvents(events []models.CalendarEvent) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		if _, err := tx.NamedExec("INSERT OR REPLACE INTO events (id, date, data) VALUES (:id, :date, :data)",
			eventRow{ID: e.ID, Date: e.Date, Data: string(data)}); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// LoadEvents returns the cached events by date.
func (c *Cache) LoadEvents() ([]models.CalendarEvent, error) {
	var rows []eventRow
	if err := c.db.Select(&rows, "SELECT id, date, data FROM events ORDER BY date, id"); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	out := make([]models.CalendarEvent, 0, len(rows))
	for _, r := range rows {
		var e models.CalendarEvent
		if err := json.Unmarshal([]byte(r.Data), &e); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", r.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveState stores the workspace selection.
func (c *Cache) SaveState(st workspace.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = c.db.Exec("INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)", stateKey, string(data))
	return err
}

// LoadState returns the stored selection. ok is false when none is stored.
func (c *Cache) LoadState() (st workspace.State, ok bool, err error) {
	var value string
	err = c.db.Get(&value, "SELECT value FROM state WHERE key = ?", stateKey)
	if err != nil {
		if isNoRows(err) {
			return st, false, nil
		}
		return st, false, err
	}
	if err := json.Unmarshal([]byte(value), &st); err != nil {
		return st, false, fmt.Errorf("decode state: %w", err)
	}
	return st, true, nil
}

// Reset empties every table. Used on logout.
func (c *Cache) Reset() error {
	for _, table := range []string{"notes", "events", "state", "pending"} {
		if _, err := c.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
