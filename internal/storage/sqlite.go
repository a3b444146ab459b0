// Package storage provides SQLite-based persistence for session results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-dodge/internal/session"
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Record is a stored session result.
type Record struct {
	ID int64
	session.Result
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			reason TEXT NOT NULL,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			peak_combo INTEGER NOT NULL DEFAULT 0,
			dodges INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			success_rate REAL NOT NULL DEFAULT 1,
			level INTEGER NOT NULL DEFAULT 1,
			difficulty REAL NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			ended_at_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_category ON sessions(category);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(category, score DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(ended_at_ms DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a concluded session.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r session.Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, category, reason, score, duration_ms, peak_combo, dodges, collisions,
		  success_rate, level, difficulty, frames, ended_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Category,
		r.Reason.String(),
		r.FinalScore,
		r.Duration.Milliseconds(),
		r.PeakCombo,
		r.Dodges,
		r.Collisions,
		r.SuccessRate,
		r.Level,
		r.Difficulty,
		int64(r.Frames),
		r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const recordColumns = `id, session_id, category, reason, score, duration_ms, peak_combo, dodges,
	collisions, success_rate, level, difficulty, frames, ended_at_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec        Record
		reason     string
		durationMS int64
		frames     int64
		endedAtMS  int64
		createdAt  any
	)
	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.Category,
		&reason,
		&rec.FinalScore,
		&durationMS,
		&rec.PeakCombo,
		&rec.Dodges,
		&rec.Collisions,
		&rec.SuccessRate,
		&rec.Level,
		&rec.Difficulty,
		&frames,
		&endedAtMS,
		&createdAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Reason, _ = session.ParseReason(reason)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Frames = uint64(frames)
	rec.EndedAt = time.UnixMilli(endedAtMS)
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (s *Store) queryRecords(query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// TopResults retrieves the top N results for a category.
// Results are ordered by score descending, earlier sessions first on ties.
func (s *Store) TopResults(category string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRecords(
		`SELECT `+recordColumns+`
		 FROM sessions
		 WHERE category = ?
		 ORDER BY score DESC, ended_at_ms ASC
		 LIMIT ?`,
		category, limit,
	)
}

// RecentResults retrieves the most recent results. An empty category
// matches every category.
func (s *Store) RecentResults(category string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRecords(
		`SELECT `+recordColumns+`
		 FROM sessions
		 WHERE ? = '' OR category = ?
		 ORDER BY ended_at_ms DESC, id DESC
		 LIMIT ?`,
		category, category, limit,
	)
}

// ResultBySessionID retrieves one result. Returns nil if not found.
func (s *Store) ResultBySessionID(sessionID string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT `+recordColumns+` FROM sessions WHERE session_id = ?`,
		sessionID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &rec, nil
}

// HighScore returns the highest score for a category.
// Returns 0 if no results exist.
func (s *Store) HighScore(category string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM sessions WHERE category = ?",
		category,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearResults deletes all results for a category.
func (s *Store) ClearResults(category string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE category = ?", category)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics for a category.
type Stats struct {
	Category        string
	Sessions        int
	BestScore       int
	AvgScore        float64
	BestCombo       int
	TotalDodges     int
	TotalCollisions int
	TotalDuration   time.Duration
	LastPlayed      time.Time
}

// SuccessRate returns dodges over all resolved projectiles, 1 with none.
func (st *Stats) SuccessRate() float64 {
	total := st.TotalDodges + st.TotalCollisions
	if total == 0 {
		return 1
	}
	return float64(st.TotalDodges) / float64(total)
}

const statsColumns = `COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
	COALESCE(MAX(peak_combo), 0), COALESCE(SUM(dodges), 0), COALESCE(SUM(collisions), 0),
	COALESCE(SUM(duration_ms), 0), COALESCE(MAX(ended_at_ms), 0)`

func scanStats(row scanner, st *Stats) error {
	var durationMS, lastMS int64
	err := row.Scan(&st.Sessions, &st.BestScore, &st.AvgScore, &st.BestCombo,
		&st.TotalDodges, &st.TotalCollisions, &durationMS, &lastMS)
	if err != nil {
		return err
	}
	st.TotalDuration = time.Duration(durationMS) * time.Millisecond
	if lastMS > 0 {
		st.LastPlayed = time.UnixMilli(lastMS)
	}
	return nil
}

// CategoryStats retrieves aggregated statistics for one category.
func (s *Store) CategoryStats(category string) (*Stats, error) {
	st := &Stats{Category: category}
	row := s.db.QueryRow(`SELECT `+statsColumns+` FROM sessions WHERE category = ?`, category)
	if err := scanStats(row, st); err != nil {
		return nil, fmt.Errorf("storage: cannot get category stats: %w", err)
	}
	return st, nil
}

// AllStats retrieves statistics for every category that has been played.
func (s *Store) AllStats() (map[string]*Stats, error) {
	rows, err := s.db.Query(`SELECT category, ` + statsColumns + ` FROM sessions GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*Stats)
	for rows.Next() {
		var (
			st                Stats
			durationMS, lastM int64
		)
		if err := rows.Scan(&st.Category, &st.Sessions, &st.BestScore, &st.AvgScore, &st.BestCombo,
			&st.TotalDodges, &st.TotalCollisions, &durationMS, &lastM); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.TotalDuration = time.Duration(durationMS) * time.Millisecond
		if lastM > 0 {
			st.LastPlayed = time.UnixMilli(lastM)
		}
		stats[st.Category] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
