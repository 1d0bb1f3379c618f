// Package savestore persists save envelopes in named slots backed by SQLite.
// Payloads are stored as the exact bytes the save package produced, so a
// slot written by an older build migrates on load rather than on write.
package savestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/autinyork/LowBorn/internal/engine"
	"github.com/autinyork/LowBorn/internal/save"
)

// ErrSlotNotFound is returned when a slot has no saved run.
var ErrSlotNotFound = errors.New("savestore: slot not found")

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	saved_at   TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store is a slot-keyed save database.
type Store struct {
	db *sql.DB
}

// SlotInfo describes one stored save without its payload.
type SlotInfo struct {
	Slot      string
	Version   int
	SavedAt   string
	UpdatedAt string
}

// Open opens (or creates) the save database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("savestore: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("savestore: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", filepath.Clean(path)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("savestore: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("savestore: ping db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("savestore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put writes raw envelope bytes into a slot, replacing any prior save. The
// version and save time are indexed out of the payload for listing.
func (s *Store) Put(ctx context.Context, slot string, raw []byte) error {
	if strings.TrimSpace(slot) == "" {
		return fmt.Errorf("savestore: empty slot name")
	}
	var probe struct {
		Version int    `json:"version"`
		SavedAt string `json:"savedAt"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("savestore: payload is not an envelope: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, version, saved_at, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		slot, probe.Version, probe.SavedAt, raw, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("savestore: write slot %q: %w", slot, err)
	}
	return nil
}

// Get returns the raw envelope bytes stored in a slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("savestore: read slot %q: %w", slot, err)
	}
	return payload, nil
}

// Delete removes a slot. Deleting a missing slot is not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("savestore: delete slot %q: %w", slot, err)
	}
	return nil
}

// List returns every stored slot, most recently written first.
func (s *Store) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, version, saved_at, updated_at
		FROM saves ORDER BY updated_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("savestore: list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Version, &info.SavedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("savestore: scan slot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// SaveRun encodes a snapshot and writes it into a slot.
func (s *Store) SaveRun(ctx context.Context, slot string, state *engine.RunState, now time.Time) error {
	raw, err := save.Encode(state, now)
	if err != nil {
		return err
	}
	return s.Put(ctx, slot, raw)
}

// LoadRun reads a slot and brings its snapshot to the current format. When
// the stored envelope was a legacy version, the migrated form is written
// back so the next load is direct.
func (s *Store) LoadRun(ctx context.Context, slot string) (*engine.RunState, error) {
	raw, err := s.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	result, err := save.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("savestore: slot %q: %w", slot, err)
	}
	if result.Migrated {
		upgraded, err := save.Encode(result.State, time.Now())
		if err == nil {
			if putErr := s.Put(ctx, slot, upgraded); putErr != nil {
				return nil, putErr
			}
		}
	}
	return result.State, nil
}
