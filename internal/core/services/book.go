package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure BookService implements the interface.
var _ driving.BookService = (*BookService)(nil)

// BookService manages stored books and their parsed pages.
type BookService struct {
	books     driven.BookStore
	pages     driven.PageStore
	inspector driven.PageInspector
}

// NewBookService creates a book service. The inspector is optional; without
// it page counts are recorded as unknown.
func NewBookService(books driven.BookStore, pages driven.PageStore, inspector driven.PageInspector) *BookService {
	return &BookService{books: books, pages: pages, inspector: inspector}
}

// Add reads the document at path and stores it under name.
// An empty name uses the file's base name without extension.
func (s *BookService) Add(ctx context.Context, path, name string) (*domain.Book, error) {
	const op = "add book"

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.Errorf(domain.KindNotFound, op, "file %s not found", path)
		}
		return nil, domain.E(domain.KindInvalidInput, op, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.BookStem(path)
	}

	book := domain.Book{
		Name:    name,
		Content: content,
		AddedAt: time.Now().UTC(),
	}
	if s.inspector != nil {
		if n, err := s.inspector.PageCount(content); err != nil {
			logger.Warn("could not count pages of %s: %v", path, err)
		} else {
			book.PageCount = n
		}
	}

	if err := s.books.AddBook(ctx, book); err != nil {
		return nil, err
	}
	logger.Info("added book %q (%d bytes, %d pages)", name, len(content), book.PageCount)
	return &book, nil
}

// List returns a summary of every stored book.
func (s *BookService) List(ctx context.Context) ([]domain.BookSummary, error) {
	return s.books.ListBooks(ctx)
}

// Describe returns the summary of one book with its parsed pages.
func (s *BookService) Describe(ctx context.Context, name string) (*driving.BookDescription, error) {
	summary, err := s.summary(ctx, name)
	if err != nil {
		return nil, err
	}
	pages, err := s.pages.GetAllParsedPages(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get pages: %w", err)
	}
	return &driving.BookDescription{Summary: *summary, Pages: pages}, nil
}

// GetPage returns one parsed page of a book.
func (s *BookService) GetPage(ctx context.Context, name string, page int) (*domain.ParsedPage, error) {
	return s.pages.GetParsedPage(ctx, name, page)
}

// ClearPages deletes every parsed page of a stored book.
func (s *BookService) ClearPages(ctx context.Context, name string) error {
	if _, err := s.books.GetBook(ctx, name); err != nil {
		return err
	}
	return s.pages.ClearBookPages(ctx, name)
}

// Delete removes a book together with its pages and exercises.
func (s *BookService) Delete(ctx context.Context, name string) error {
	if err := s.books.DeleteBookAndConnectedData(ctx, name); err != nil {
		return err
	}
	logger.Info("deleted book %q", name)
	return nil
}

func (s *BookService) summary(ctx context.Context, name string) (*domain.BookSummary, error) {
	books, err := s.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].Name == name {
			return &books[i], nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "describe book", "book %q not found", name)
}
