package tui

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// MockBookService implements driving.BookService for testing.
type MockBookService struct {
	books []domain.BookSummary
	pages map[string][]domain.ParsedPage
	err   error
}

func (m *MockBookService) Add(_ context.Context, _, _ string) (*domain.Book, error) {
	return nil, m.err
}

func (m *MockBookService) List(_ context.Context) ([]domain.BookSummary, error) {
	return m.books, m.err
}

func (m *MockBookService) Describe(_ context.Context, name string) (*driving.BookDescription, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.BookDescription{Summary: domain.BookSummary{Name: name}, Pages: m.pages[name]}, nil
}

func (m *MockBookService) GetPage(_ context.Context, _ string, _ int) (*domain.ParsedPage, error) {
	return nil, m.err
}

func (m *MockBookService) ClearPages(_ context.Context, _ string) error { return m.err }

func (m *MockBookService) Delete(_ context.Context, _ string) error { return m.err }
