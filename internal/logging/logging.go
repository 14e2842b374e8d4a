// Package logging configures the application logger and keeps a bounded
// in-memory ring of recent lines for the /logs endpoint.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// RingHook is a logrus hook that retains the last maxLines formatted entries.
type RingHook struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
}

// NewRingHook creates a hook retaining up to maxLines entries.
func NewRingHook(maxLines int) *RingHook {
	return &RingHook{
		lines:    make([]string, 0, maxLines),
		maxLines: maxLines,
	}
}

// Levels implements logrus.Hook.
func (h *RingHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *RingHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	if len(h.lines) > h.maxLines {
		h.lines = h.lines[len(h.lines)-h.maxLines:]
	}
	return nil
}

// Lines returns a copy of the retained log lines, oldest first.
func (h *RingHook) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// New builds the application logger with the ring hook attached.
func New(level string, maxLines int) (*logrus.Logger, *RingHook) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	hook := NewRingHook(maxLines)
	log.AddHook(hook)
	return log, hook
}
