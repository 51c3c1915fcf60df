package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	core "github.com/kilianp07/depotplan/core/state"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists each half of the snapshot as its own row so that one
// corrupt value does not take the other down.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS planner_state (
        key TEXT PRIMARY KEY,
        value TEXT,
        saved_at INTEGER
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, saved_at FROM planner_state`)
	if err != nil {
		return core.Snapshot{}, err
	}
	defer func() { _ = rows.Close() }()
	var results, trips []byte
	var savedAt int64
	for rows.Next() {
		var key, value string
		var ts int64
		if err := rows.Scan(&key, &value, &ts); err != nil {
			return core.Snapshot{}, err
		}
		switch key {
		case core.KeyResults:
			results = []byte(value)
		case core.KeyTrips:
			trips = []byte(value)
		}
		if ts > savedAt {
			savedAt = ts
		}
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, err
	}
	snap := core.DecodeHalves(results, trips)
	if savedAt > 0 {
		snap.SavedAt = time.Unix(savedAt, 0).UTC()
	}
	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	results, err := marshalArray(snap.Results)
	if err != nil {
		return err
	}
	trips, err := marshalArray(snap.Trips)
	if err != nil {
		return err
	}
	ts := snap.SavedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO planner_state (key, value, saved_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at`
	for _, kv := range [][2]string{{core.KeyResults, results}, {core.KeyTrips, trips}} {
		if _, err := tx.ExecContext(ctx, upsert, kv[0], kv[1], ts.Unix()); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// SetRaw overwrites one half with an arbitrary value.
func (s *SQLiteStore) SetRaw(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO planner_state (key, value, saved_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value, time.Now().Unix())
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func marshalArray(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	if string(out) == "null" {
		return "[]", nil
	}
	return string(out), nil
}
