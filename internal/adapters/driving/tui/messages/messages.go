// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBooks lists the stored books.
	ViewBooks ViewType = iota
	// ViewPages lists the parsed pages of one book.
	ViewPages
	// ViewPageContent shows the text of one page.
	ViewPageContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBooks:
		return "books"
	case ViewPages:
		return "pages"
	case ViewPageContent:
		return "page_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BooksLoaded carries the book summaries from the service.
type BooksLoaded struct {
	Books []domain.BookSummary
	Err   error
}

// BookSelected signals a book was chosen from the list.
type BookSelected struct {
	Book domain.BookSummary
}

// PagesLoaded carries the parsed pages of a book.
type PagesLoaded struct {
	Book  string
	Pages []domain.ParsedPage
	Err   error
}

// PageSelected signals a page was chosen for reading.
type PageSelected struct {
	Page domain.ParsedPage
}
