package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Book is a named source document with its raw content.
// A book is immutable once added; it can only be deleted as a whole.
type Book struct {
	// Name is the unique, user-assigned identifier.
	Name string

	// Content holds the original document bytes.
	Content []byte

	// PageCount is the number of pages detected when the book was added.
	// Zero means the count could not be determined.
	PageCount int

	// AddedAt records when the book was stored.
	AddedAt time.Time
}

// Stem returns the book name without directory or extension, used to
// name output artifacts.
func (b Book) Stem() string {
	return BookStem(b.Name)
}

// BookStem strips any directory and extension from a book name.
func BookStem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BookSummary is the listing view of a book without its content.
type BookSummary struct {
	Name        string
	PageCount   int
	ParsedPages int
	Exercises   int
	AddedAt     time.Time
}
