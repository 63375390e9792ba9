// Package mcp provides an MCP (Model Context Protocol) server adapter for studydeck.
// It lets AI assistants read stored books, parsed pages and extracted exercises.
package mcp

import "errors"

// ErrMissingBookService is returned when the book service is not provided.
var ErrMissingBookService = errors.New("mcp: book service is required")
