package driven

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// BookStore persists books and their raw content.
type BookStore interface {
	// AddBook stores a new book. Returns a KindInvalidInput error if a book
	// with the same name already exists.
	AddBook(ctx context.Context, book domain.Book) error

	// GetBook retrieves a book with its content.
	// Returns a KindNotFound error if the book does not exist.
	GetBook(ctx context.Context, name string) (*domain.Book, error)

	// ListBookNames returns all book names in ascending order.
	ListBookNames(ctx context.Context) ([]string, error)

	// ListBooks returns a summary for every book in name order.
	ListBooks(ctx context.Context) ([]domain.BookSummary, error)

	// DeleteBookAndConnectedData removes the book, its parsed pages and its
	// exercises in one transaction. Deleting a missing book is a KindNotFound error.
	DeleteBookAndConnectedData(ctx context.Context, name string) error
}

// PageStore persists parsed pages.
type PageStore interface {
	// StoreParsedPage inserts or replaces the page keyed by (book, page number).
	StoreParsedPage(ctx context.Context, page domain.ParsedPage) error

	// IsPageParsed reports whether a page exists for (book, page number).
	// Callers must consult it before submitting a page for extraction.
	IsPageParsed(ctx context.Context, book string, pageNumber int) (bool, error)

	// GetParsedPage retrieves one page.
	// Returns a KindNotFound error if the page does not exist.
	GetParsedPage(ctx context.Context, book string, pageNumber int) (*domain.ParsedPage, error)

	// GetAllParsedPages returns every page of a book ordered by page number.
	GetAllParsedPages(ctx context.Context, book string) ([]domain.ParsedPage, error)

	// ClearBookPages deletes all pages of a book.
	ClearBookPages(ctx context.Context, book string) error
}

// ExerciseStore persists exercises and their ordered questions.
type ExerciseStore interface {
	// StoreExercise inserts the exercise and its questions in one transaction
	// and returns the assigned identifier.
	StoreExercise(ctx context.Context, exercise domain.StoredExercise) (int64, error)

	// GetExercises returns the exercises of a book ordered by page and id.
	// A nil page returns exercises for every page.
	GetExercises(ctx context.Context, book string, page *int) ([]domain.StoredExercise, error)

	// ClearPageExercises deletes the exercises of one page with their questions.
	ClearPageExercises(ctx context.Context, book string, pageNumber int) error
}
