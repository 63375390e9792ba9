// Package tui provides an interactive terminal browser for stored books and
// their parsed pages. It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Books lists books and their parsed pages.
	Books driving.BookService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(books driving.BookService) *Ports {
	return &Ports{Books: books}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Books == nil {
		return ErrMissingBookService
	}
	return nil
}
