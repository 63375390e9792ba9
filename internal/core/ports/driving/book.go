package driving

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// BookService manages stored books and their parsed pages.
type BookService interface {
	// Add reads the file at path and stores it under name.
	Add(ctx context.Context, path, name string) (*domain.Book, error)

	// List returns a summary of every stored book.
	List(ctx context.Context) ([]domain.BookSummary, error)

	// Describe returns a book summary together with its parsed pages.
	Describe(ctx context.Context, name string) (*BookDescription, error)

	// GetPage returns a single parsed page.
	GetPage(ctx context.Context, name string, page int) (*domain.ParsedPage, error)

	// ClearPages deletes all parsed pages of a book.
	ClearPages(ctx context.Context, name string) error

	// Delete removes a book and all connected data.
	Delete(ctx context.Context, name string) error
}

// BookDescription is the detail view of a book.
type BookDescription struct {
	Summary domain.BookSummary
	Pages   []domain.ParsedPage
}
