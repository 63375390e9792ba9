package tui

import "errors"

// ErrMissingBookService is returned when the book service is not provided.
var ErrMissingBookService = errors.New("tui: book service is required")
