package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakbetter/persona-coach/internal/types"
)

const catalogYAML = `personas:
  - id: ted
    name: TED Speaker
    description: Inspiring, story-driven, calm but energetic.
    targets:
      wpm: [140, 170]
      maxFillersPerMin: 3
  - id: leader
    name: Confident Leader
    description: Authoritative, concise, decisive.
    targets:
      wpm: [130, 160]
      maxFillersPerMin: 2
`

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Len())

	ted, ok := catalog.Get("ted")
	require.True(t, ok)
	assert.Equal(t, "TED Speaker", ted.Name)
	assert.Equal(t, []float64{140, 170}, ted.Targets.WPM)
	assert.Equal(t, 3.0, ted.Targets.MaxFillersPerMin)

	_, ok = catalog.Get("missing")
	assert.False(t, ok)
}

func TestLoadCatalogErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadCatalog(writeCatalog(t, "personas: [\n"))
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := LoadCatalog(writeCatalog(t, "personas: []\n"))
		assert.Error(t, err)
	})
}

func TestCatalogListOrder(t *testing.T) {
	catalog := NewCatalog([]types.Persona{
		{ID: "b", Name: "B"},
		{ID: "a", Name: "A"},
		{ID: "c", Name: "C"},
	})

	var ids []string
	for _, p := range catalog.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestCatalogDuplicateIDs(t *testing.T) {
	catalog := NewCatalog([]types.Persona{
		{ID: "a", Name: "first"},
		{ID: "a", Name: "second"},
	})

	assert.Equal(t, 1, catalog.Len())
	p, _ := catalog.Get("a")
	assert.Equal(t, "second", p.Name)
}
