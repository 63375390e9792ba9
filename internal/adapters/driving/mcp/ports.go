package mcp

import (
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Books lists books and reads parsed pages.
	Books driving.BookService

	// Exercises lists extracted exercises. Optional.
	Exercises driving.ExerciseService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Books == nil {
		return ErrMissingBookService
	}
	return nil
}
