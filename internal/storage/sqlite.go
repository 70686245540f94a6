// Package storage provides SQLite-based persistence for scaler sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Labrandor/DynamicDifficultyScaler/internal/sim"
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// SessionRecord is a saved session snapshot plus the engine's score.
type SessionRecord struct {
	ID        string
	State     dds.SessionState
	Points    float64
	Script    string // Script name the run came from, if any
	UpdatedAt time.Time
}

// RewardEntry is one scored milestone or time bonus.
type RewardEntry struct {
	ID          int64
	SessionID   string
	Step        int
	Kind        string
	Points      float64
	Elapsed     float64
	MinutesLeft float64
	Base        float64
	Scaled      float64
	Factor      float64
	CappedBy    string
	CreatedAt   time.Time
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

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
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
			id TEXT PRIMARY KEY,
			state_json TEXT NOT NULL,
			points REAL NOT NULL DEFAULT 0,
			script TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);

		CREATE TABLE IF NOT EXISTS rewards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			kind TEXT NOT NULL,
			points REAL NOT NULL,
			elapsed REAL NOT NULL,
			minutes_left REAL NOT NULL,
			base REAL NOT NULL,
			scaled REAL NOT NULL,
			factor REAL NOT NULL,
			capped_by TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rewards_session_id ON rewards(session_id);
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

// SaveSnapshot inserts or replaces the snapshot for state.ID.
func (s *Store) SaveSnapshot(ctx context.Context, state dds.SessionState, points float64, script string) error {
	if state.ID == "" {
		return errors.New("storage: snapshot has no session id")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state_json, points, script, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		   state_json = excluded.state_json,
		   points = excluded.points,
		   script = excluded.script,
		   updated_at = CURRENT_TIMESTAMP`,
		state.ID, string(data), points, script,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the saved session, or nil if none exists.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, state_json, points, script, updated_at FROM sessions WHERE id = ?`,
		id,
	)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return rec, nil
}

// RecentSessions returns the most recently updated sessions.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, state_json, points, script, updated_at
		 FROM sessions
		 ORDER BY updated_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// DeleteSession removes a session and its reward history.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rewards WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete rewards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	return tx.Commit()
}

// RecordReward appends one reward entry. Returns the ID of the inserted record.
func (s *Store) RecordReward(ctx context.Context, e RewardEntry) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rewards
		 (session_id, step, kind, points, elapsed, minutes_left, base, scaled, factor, capped_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Step, e.Kind, e.Points, e.Elapsed, e.MinutesLeft,
		e.Base, e.Scaled, e.Factor, e.CappedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save reward: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordStep implements sim.Recorder.
// Steps without a reward result are ignored.
func (s *Store) RecordStep(ctx context.Context, sessionID string, step sim.Step) error {
	if step.Result == nil {
		return nil
	}
	scaled := step.Result.ScaledMilestoneValue
	if step.Kind == sim.KindBonus {
		scaled = step.Result.ScaledTimeReward
	}
	_, err := s.RecordReward(ctx, RewardEntry{
		SessionID:   sessionID,
		Step:        step.Index,
		Kind:        string(step.Kind),
		Points:      step.Points,
		Elapsed:     step.Elapsed,
		MinutesLeft: step.MinutesLeft,
		Base:        step.Base,
		Scaled:      scaled,
		Factor:      step.Result.Factor,
		CappedBy:    string(step.Result.CappedBy),
	})
	return err
}

// Ensure Store implements Recorder
var _ sim.Recorder = (*Store)(nil)

// RewardHistory returns reward entries for a session in the order they were
// recorded, so resumed runs follow the runs before them.
// A limit of zero or less returns everything.
func (s *Store) RewardHistory(ctx context.Context, sessionID string, limit int) ([]RewardEntry, error) {
	query := `SELECT id, session_id, step, kind, points, elapsed, minutes_left, base, scaled, factor, capped_by, created_at
		 FROM rewards
		 WHERE session_id = ?
		 ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rewards: %w", err)
	}
	defer rows.Close()

	var entries []RewardEntry
	for rows.Next() {
		var e RewardEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Step, &e.Kind, &e.Points, &e.Elapsed,
			&e.MinutesLeft, &e.Base, &e.Scaled, &e.Factor, &e.CappedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	var rec SessionRecord
	var stateJSON string
	var updatedAt any
	if err := row.Scan(&rec.ID, &stateJSON, &rec.Points, &rec.Script, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", rec.ID, err)
	}
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// parseTime handles both time.Time and string datetime columns.
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
