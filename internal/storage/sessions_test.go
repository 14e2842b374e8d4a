package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakbetter/persona-coach/internal/types"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession(attemptID string, createdAt time.Time) types.Session {
	return types.Session{
		AttemptID:     attemptID,
		PersonaID:     "ted",
		WPM:           152.4,
		TotalWords:    320,
		TotalFillers:  5,
		FillersPerMin: 2.38,
		Overall:       0.931,
		CreatedAt:     createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Save(sampleSession("a1", now)))

	got, err := store.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AttemptID)
	assert.Equal(t, "ted", got.PersonaID)
	assert.InDelta(t, 152.4, got.WPM, 1e-9)
	assert.Equal(t, 320, got.TotalWords)
	assert.Equal(t, 5, got.TotalFillers)
	assert.InDelta(t, 2.38, got.FillersPerMin, 1e-9)
	assert.InDelta(t, 0.931, got.Overall, 1e-9)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("nope")
	assert.Error(t, err)
}

func TestSaveDuplicateAttemptID(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.Save(sampleSession("a1", now)))
	assert.Error(t, store.Save(sampleSession("a1", now)))
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, store.Save(sampleSession(id, base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a3", list[0].AttemptID)
	assert.Equal(t, "a1", list[2].AttemptID)

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListSurfacesScanErrors(t *testing.T) {
	store := newTestStore(t)

	// SQLite columns are dynamically typed, so a corrupt row can carry text
	// where an integer belongs; List must report it, not drop the row.
	_, err := store.db.Exec(`
	INSERT INTO sessions (attempt_id, persona_id, wpm, total_words, total_fillers, fillers_per_min, overall, created_at)
	VALUES ('bad', 'ted', 100.0, 'not-a-number', 0, 0.0, 0.5, ?)
	`, time.Now().UTC())
	require.NoError(t, err)

	_, err = store.List(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan session")
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t)
	list, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
