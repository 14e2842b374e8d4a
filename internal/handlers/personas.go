package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/speakbetter/persona-coach/internal/persona"
)

// PersonasHandler serves the persona catalog
type PersonasHandler struct {
	catalog *persona.Catalog
}

// NewPersonasHandler creates a new personas handler
func NewPersonasHandler(catalog *persona.Catalog) *PersonasHandler {
	return &PersonasHandler{
		catalog: catalog,
	}
}

// Handle returns the available personas
func (h *PersonasHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"personas": h.catalog.List(),
	})
}
