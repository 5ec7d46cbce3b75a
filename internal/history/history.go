// Package history keeps the cycle log and the last CI snapshot in a local
// sqlite file, so one-shot invocations can detect transitions across
// processes and the status command has something to show.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pr-radar/internal/model"
)

type Store struct {
	conn *sql.DB
	path string
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{
		conn: conn,
		path: path,
	}

	if err := initSchema(s); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Cycle is one completed refresh, successful or not.
type Cycle struct {
	ID                int64
	RanAt             time.Time
	AuthoredCount     int
	ReviewCount       int
	NotificationsSent int
	ErrorMessage      sql.NullString
	DurationMs        sql.NullInt64
}

func (s *Store) RecordCycle(c Cycle) error {
	var errMsg sql.NullString
	if c.ErrorMessage.Valid && c.ErrorMessage.String != "" {
		errMsg = c.ErrorMessage
	}

	_, err := s.conn.Exec(`
		INSERT INTO cycles (ran_at, authored_count, review_count, notifications_sent, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.RanAt.Format(time.RFC3339), c.AuthoredCount, c.ReviewCount,
		c.NotificationsSent, errMsg, c.DurationMs)
	if err != nil {
		return fmt.Errorf("recording cycle: %w", err)
	}
	return nil
}

func (s *Store) LastCycle() (*Cycle, error) {
	row := s.conn.QueryRow(`
		SELECT id, ran_at, authored_count, review_count, notifications_sent, error_message, duration_ms
		FROM cycles ORDER BY id DESC LIMIT 1`)

	var c Cycle
	var ranAt string

	err := row.Scan(&c.ID, &ranAt, &c.AuthoredCount, &c.ReviewCount,
		&c.NotificationsSent, &c.ErrorMessage, &c.DurationMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning cycle: %w", err)
	}

	c.RanAt, _ = time.Parse(time.RFC3339, ranAt)
	return &c, nil
}

// SaveSnapshot replaces the stored per-entity CI status map wholesale.
func (s *Store) SaveSnapshot(states map[string]model.CIStatus) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM snapshot`); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	for id, status := range states {
		if _, err := tx.Exec(`INSERT INTO snapshot (pr_id, ci_status) VALUES (?, ?)`, id, string(status)); err != nil {
			return fmt.Errorf("inserting snapshot row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored per-entity CI status map; empty when no
// cycle has run yet.
func (s *Store) LoadSnapshot() (map[string]model.CIStatus, error) {
	rows, err := s.conn.Query(`SELECT pr_id, ci_status FROM snapshot`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	states := make(map[string]model.CIStatus)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		states[id] = model.CIStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return states, nil
}
