package wellness

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/ironquest/internal/models"
	_ "modernc.org/sqlite"
)

// StateDB is the sync CLI's local SQLite store: it remembers which days have
// already been synced and keeps the last successfully fetched snapshot so an
// offline run can still push a recent reading.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS synced_days (
		day       TEXT PRIMARY KEY,
		synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS last_snapshot (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		taken_at   TIMESTAMP NOT NULL,
		payload    TEXT NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state tables: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsSynced reports whether a day's wellness data has already been pushed.
func (s *StateDB) IsSynced(day time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM synced_days WHERE day = ?`,
		day.Format("2006-01-02"),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSynced records that a day's data was successfully pushed.
func (s *StateDB) MarkSynced(day time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO synced_days (day) VALUES (?)`,
		day.Format("2006-01-02"),
	)
	return err
}

// SaveSnapshot stores the most recent successfully fetched reading.
func (s *StateDB) SaveSnapshot(snap models.WellnessSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO last_snapshot (id, taken_at, payload) VALUES (1, ?, ?)`,
		snap.TakenAt, string(payload),
	)
	return err
}

// LastSnapshot returns the cached reading, or nil when none is stored.
func (s *StateDB) LastSnapshot() (*models.WellnessSnapshot, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM last_snapshot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.WellnessSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling cached snapshot: %w", err)
	}
	return &snap, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
