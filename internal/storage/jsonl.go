// Package storage persists analysis sessions: a SQLite store backing the
// history endpoint and an append-only JSONL log for offline analysis.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionLog appends session records as JSON lines to a file. Logging is
// best-effort: Append reports failures as errors but callers treat them as
// warnings, never failing the request over a log write.
type SessionLog struct {
	mu   sync.Mutex
	path string
}

// NewSessionLog creates a JSONL session logger writing to path.
func NewSessionLog(path string) *SessionLog {
	return &SessionLog{path: path}
}

// Append writes one record as a single JSON line, creating the parent
// directory on first use.
func (l *SessionLog) Append(record map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}
