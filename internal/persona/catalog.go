// Package persona holds the target speaking-style profiles and the scorer
// that rates extracted metrics against them.
package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/speakbetter/persona-coach/internal/types"
)

// Catalog is a read-only set of personas loaded once at startup and injected
// into whatever needs lookups. It is safe for concurrent readers.
type Catalog struct {
	order    []string
	personas map[string]types.Persona
}

// NewCatalog builds a catalog from an explicit persona list, preserving order.
// Later duplicates of an id replace earlier ones.
func NewCatalog(personas []types.Persona) *Catalog {
	c := &Catalog{personas: make(map[string]types.Persona, len(personas))}
	for _, p := range personas {
		if _, exists := c.personas[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.personas[p.ID] = p
	}
	return c
}

// LoadCatalog reads a persona catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona catalog: %w", err)
	}

	var file struct {
		Personas []types.Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse persona catalog: %w", err)
	}
	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("persona catalog %s contains no personas", path)
	}

	return NewCatalog(file.Personas), nil
}

// Get returns the persona with the given id.
func (c *Catalog) Get(id string) (types.Persona, bool) {
	p, ok := c.personas[id]
	return p, ok
}

// List returns all personas in catalog order.
func (c *Catalog) List() []types.Persona {
	out := make([]types.Persona, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.personas[id])
	}
	return out
}

// Len returns the number of personas in the catalog.
func (c *Catalog) Len() int {
	return len(c.personas)
}
