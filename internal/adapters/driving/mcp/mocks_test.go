package mcp

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// mockBookService is a mock implementation of driving.BookService.
type mockBookService struct {
	books []domain.BookSummary
	pages []domain.ParsedPage
	err   error
}

func (m *mockBookService) Add(_ context.Context, _, _ string) (*domain.Book, error) {
	return nil, m.err
}

func (m *mockBookService) List(_ context.Context) ([]domain.BookSummary, error) {
	return m.books, m.err
}

func (m *mockBookService) Describe(_ context.Context, name string) (*driving.BookDescription, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.BookDescription{Summary: domain.BookSummary{Name: name}, Pages: m.pages}, nil
}

func (m *mockBookService) GetPage(_ context.Context, name string, page int) (*domain.ParsedPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.pages {
		if m.pages[i].BookName == name && m.pages[i].PageNumber == page {
			return &m.pages[i], nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "get page", "page %d of %q not found", page, name)
}

func (m *mockBookService) ClearPages(_ context.Context, _ string) error { return m.err }

func (m *mockBookService) Delete(_ context.Context, _ string) error { return m.err }

// mockExerciseService is a mock implementation of driving.ExerciseService.
type mockExerciseService struct {
	exercises []domain.StoredExercise
	err       error
	gotPage   *int
}

func (m *mockExerciseService) Extract(_ context.Context, _ driving.ExtractRequest) (*driving.ExtractReport, error) {
	return nil, m.err
}

func (m *mockExerciseService) BuildPrompts(_ context.Context, _ driving.PromptsRequest) ([]string, error) {
	return nil, m.err
}

func (m *mockExerciseService) List(_ context.Context, _ string, page *int) ([]domain.StoredExercise, error) {
	m.gotPage = page
	return m.exercises, m.err
}
