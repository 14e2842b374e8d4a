package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/speakbetter/persona-coach/internal/types"
)

// SessionStore persists analysis sessions to SQLite for the history endpoint.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (and if needed creates) the session database.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		attempt_id TEXT NOT NULL UNIQUE,
		persona_id TEXT NOT NULL,
		wpm REAL NOT NULL,
		total_words INTEGER NOT NULL,
		total_fillers INTEGER NOT NULL,
		fillers_per_min REAL NOT NULL,
		overall REAL NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_persona_id ON sessions(persona_id);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// Save records one analysis session.
func (s *SessionStore) Save(session types.Session) error {
	query := `
	INSERT INTO sessions (attempt_id, persona_id, wpm, total_words, total_fillers, fillers_per_min, overall, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, session.AttemptID, session.PersonaID, session.WPM,
		session.TotalWords, session.TotalFillers, session.FillersPerMin,
		session.Overall, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get retrieves a session by attempt id.
func (s *SessionStore) Get(attemptID string) (types.Session, error) {
	query := `
	SELECT attempt_id, persona_id, wpm, total_words, total_fillers, fillers_per_min, overall, created_at
	FROM sessions WHERE attempt_id = ?
	`

	var session types.Session
	var createdAt time.Time
	err := s.db.QueryRow(query, attemptID).Scan(&session.AttemptID, &session.PersonaID,
		&session.WPM, &session.TotalWords, &session.TotalFillers,
		&session.FillersPerMin, &session.Overall, &createdAt)
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	session.CreatedAt = createdAt
	return session, nil
}

// List returns the most recent sessions, newest first.
func (s *SessionStore) List(limit int) ([]types.Session, error) {
	query := `
	SELECT attempt_id, persona_id, wpm, total_words, total_fillers, fillers_per_min, overall, created_at
	FROM sessions ORDER BY created_at DESC LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var session types.Session
		var createdAt time.Time
		if err := rows.Scan(&session.AttemptID, &session.PersonaID, &session.WPM,
			&session.TotalWords, &session.TotalFillers, &session.FillersPerMin,
			&session.Overall, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.CreatedAt = createdAt
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
