// Package journal implements the local review journal: an append-only
// SQLite record of the approval, save, and reset actions an operator takes
// against a site. The journal is the operator's own audit trail; the shared
// status cache never reads it, and clearing the cache does not touch it.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Recorded action kinds.
const (
	ActionApprove = "approve"
	ActionSave    = "save"
	ActionReset   = "reset"
)

// validActions is the set of recognized action values.
var validActions = map[string]bool{
	ActionApprove: true,
	ActionSave:    true,
	ActionReset:   true,
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS actions (
    entry_id TEXT PRIMARY KEY,
    image_index INTEGER NOT NULL,
    action TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);`

// Entry is one recorded operator action.
type Entry struct {
	EntryID    string    `json:"entry_id"`
	ImageIndex int       `json:"image_index"`
	Action     string    `json:"action"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Journal is an append-only action log backed by a SQLite file. Safe for
// concurrent use within one process.
type Journal struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open creates the journal directory if needed, opens (or creates) the
// journal database inside it, and ensures the schema exists.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends one action for one image and returns the new entry ID.
// Returns ErrUnknownAction for an unrecognized action kind.
func (j *Journal) Record(action string, imageIndex int) (string, error) {
	if !validActions[action] {
		return "", types.ErrUnknownAction
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return "", types.ErrJournalClosed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate entry id: %w", err)
	}
	_, err = j.db.Exec(
		"INSERT INTO actions (entry_id, image_index, action, recorded_at) VALUES (?, ?, ?, ?)",
		id.String(), imageIndex, action, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("record action: %w", err)
	}
	return id.String(), nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, types.ErrJournalClosed
	}

	rows, err := j.db.Query(
		"SELECT entry_id, image_index, action, recorded_at FROM actions ORDER BY recorded_at DESC, entry_id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(&e.EntryID, &e.ImageIndex, &e.Action, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}
	return entries, nil
}

// CountByAction returns how many entries exist per action kind.
func (j *Journal) CountByAction() (map[string]int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, types.ErrJournalClosed
	}

	rows, err := j.db.Query("SELECT action, COUNT(*) FROM actions GROUP BY action")
	if err != nil {
		return nil, fmt.Errorf("count journal actions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan journal count: %w", err)
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

// Close releases the database handle. Further calls return ErrJournalClosed.
// Idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
