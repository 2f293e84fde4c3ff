// Package store archives refinement sessions in SQLite so the research
// history stays queryable after the process exits.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS proof_sessions (
		id TEXT PRIMARY KEY,
		statement TEXT NOT NULL,
		domain TEXT,
		state TEXT NOT NULL,
		attempts INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		heuristic BOOLEAN DEFAULT FALSE,
		quality_score REAL,
		substance TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS proof_attempts (
		session_id TEXT NOT NULL,
		attempt_number INTEGER NOT NULL,
		theorem_name TEXT NOT NULL,
		declaration TEXT NOT NULL,
		proof TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		raw_error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, attempt_number),
		FOREIGN KEY (session_id) REFERENCES proof_sessions(id)
	);

	CREATE TABLE IF NOT EXISTS feedback_items (
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		item TEXT NOT NULL,
		PRIMARY KEY (session_id, position),
		FOREIGN KEY (session_id) REFERENCES proof_sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_statement ON proof_sessions(statement);
	CREATE INDEX IF NOT EXISTS idx_attempts_session ON proof_attempts(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SessionRecord is the archived summary of one refinement session.
type SessionRecord struct {
	ID           string
	Statement    string
	Domain       string
	State        string
	Attempts     int
	Success      bool
	Heuristic    bool
	QualityScore sql.NullFloat64
	Substance    string
	CreatedAt    time.Time
}

// AttemptRecord is one archived proof attempt.
type AttemptRecord struct {
	SessionID     string
	AttemptNumber int
	TheoremName   string
	Declaration   string
	Proof         string
	Success       bool
	RawError      string
}

func (s *Store) SaveSession(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO proof_sessions (id, statement, domain, state, attempts, success, heuristic, quality_score, substance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, normalizeText(rec.Statement), rec.Domain, rec.State, rec.Attempts,
		rec.Success, rec.Heuristic, rec.QualityScore, rec.Substance, rec.CreatedAt)
	return err
}

func (s *Store) SaveAttempt(ctx context.Context, rec AttemptRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO proof_attempts (session_id, attempt_number, theorem_name, declaration, proof, success, raw_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.AttemptNumber, rec.TheoremName, rec.Declaration,
		rec.Proof, rec.Success, rec.RawError)
	return err
}

func (s *Store) SaveFeedback(ctx context.Context, sessionID string, items []string) error {
	for i, item := range items {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO feedback_items (session_id, position, item) VALUES (?, ?, ?)`,
			sessionID, i, item)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListSessions returns archived sessions, most recent first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, statement, domain, state, attempts, success, heuristic, quality_score, substance, created_at
		 FROM proof_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.Statement, &r.Domain, &r.State, &r.Attempts,
			&r.Success, &r.Heuristic, &r.QualityScore, &r.Substance, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetAttempts returns the attempts of one session in order.
func (s *Store) GetAttempts(ctx context.Context, sessionID string) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, attempt_number, theorem_name, declaration, proof, success, raw_error
		 FROM proof_attempts WHERE session_id = ? ORDER BY attempt_number`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AttemptRecord
	for rows.Next() {
		var r AttemptRecord
		if err := rows.Scan(&r.SessionID, &r.AttemptNumber, &r.TheoremName,
			&r.Declaration, &r.Proof, &r.Success, &r.RawError); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// ArchiveStats summarises the session archive.
type ArchiveStats struct {
	TotalSessions  int
	Succeeded      int
	Exhausted      int
	Aborted        int
	TotalAttempts  int
	MeanQuality    float64
}

func (s *Store) Stats(ctx context.Context) (*ArchiveStats, error) {
	stats := &ArchiveStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN state = 'succeeded' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'exhausted_attempts' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'aborted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(attempts), 0),
			COALESCE(AVG(quality_score), 0)
		FROM proof_sessions`).Scan(
		&stats.TotalSessions,
		&stats.Succeeded,
		&stats.Exhausted,
		&stats.Aborted,
		&stats.TotalAttempts,
		&stats.MeanQuality,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ClearSessions removes all archived sessions, attempts, and feedback.
func (s *Store) ClearSessions(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM feedback_items`); err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM proof_attempts`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM proof_sessions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText applies NFC normalization so Unicode math symbols written
// in composed and decomposed form index to the same row.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
