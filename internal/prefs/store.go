// Package prefs remembers where playback was left so it can be resumed.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS playback_state (
  id         INTEGER PRIMARY KEY CHECK (id = 1),
  page       INTEGER NOT NULL,
  millis     INTEGER NOT NULL,
  score_path TEXT NOT NULL,
  midi_path  TEXT NOT NULL,
  updated_at INTEGER NOT NULL
)`

// State is the last playback session.
type State struct {
	Page      int
	Position  time.Duration
	ScorePath string
	MidiPath  string
	UpdatedAt time.Time
}

// Resumable reports whether s names both files needed to resume.
func (s State) Resumable() bool {
	return s.ScorePath != "" && s.MidiPath != ""
}

// Store persists State in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save replaces the stored state.
func (s *Store) Save(ctx context.Context, st State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.Page < 0 {
		return fmt.Errorf("page must not be negative")
	}
	updatedAt := st.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO playback_state (id, page, millis, score_path, midi_path, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   page = excluded.page,
		   millis = excluded.millis,
		   score_path = excluded.score_path,
		   midi_path = excluded.midi_path,
		   updated_at = excluded.updated_at`,
		st.Page,
		st.Position.Milliseconds(),
		st.ScorePath,
		st.MidiPath,
		updatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save playback state: %w", err)
	}
	return nil
}

// Load returns the stored state. The boolean is false when nothing has been
// saved yet.
func (s *Store) Load(ctx context.Context) (State, bool, error) {
	if err := ctx.Err(); err != nil {
		return State{}, false, err
	}
	var (
		st        State
		millis    int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT page, millis, score_path, midi_path, updated_at
		 FROM playback_state WHERE id = 1`,
	).Scan(&st.Page, &millis, &st.ScorePath, &st.MidiPath, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("load playback state: %w", err)
	}
	st.Position = time.Duration(millis) * time.Millisecond
	st.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return st, true, nil
}
