package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// HistoryFileName is the SQLite database inside the data directory
const HistoryFileName = "history.db"

// Sortable as text; stored in UTC.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one completed workout
type Entry struct {
	ID          string
	CompletedAt time.Time
	Level       int
	Points      int
	Streak      int
}

// History is the local log of completed workouts.
type History struct {
	db *sql.DB
}

// OpenHistory opens (or creates) dir/history.db.
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, HistoryFileName))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workouts (
		id           TEXT PRIMARY KEY,
		completed_at TIMESTAMP NOT NULL,
		level        INTEGER NOT NULL,
		points       INTEGER NOT NULL,
		streak       INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating workouts table: %w", err)
	}

	return &History{db: db}, nil
}

// Add stores e, generating an ID when it has none, and returns what was
// stored.
func (h *History) Add(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO workouts (id, completed_at, level, points, streak) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CompletedAt.UTC().Format(historyTimeLayout), e.Level, e.Points, e.Streak,
	)
	if err != nil {
		return e, fmt.Errorf("inserting workout %s: %w", e.ID, err)
	}
	return e, nil
}

// Recent returns up to n workouts, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, completed_at, level, points, streak FROM workouts
		 ORDER BY completed_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var completedAt string
		if err := rows.Scan(&e.ID, &completedAt, &e.Level, &e.Points, &e.Streak); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if e.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
			return nil, fmt.Errorf("workout %s: bad completed_at %q: %w", e.ID, completedAt, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored workouts.
func (h *History) Count(ctx context.Context) (int, error) {
	var n int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting workouts: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}
