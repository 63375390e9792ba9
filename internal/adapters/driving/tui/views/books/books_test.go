package books

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// MockBookService implements driving.BookService for testing.
type MockBookService struct {
	ListFunc     func(ctx context.Context) ([]domain.BookSummary, error)
	DescribeFunc func(ctx context.Context, name string) (*driving.BookDescription, error)
}

func (m *MockBookService) Add(_ context.Context, _, _ string) (*domain.Book, error) {
	return nil, nil
}

func (m *MockBookService) List(ctx context.Context) ([]domain.BookSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.BookSummary{}, nil
}

func (m *MockBookService) Describe(ctx context.Context, name string) (*driving.BookDescription, error) {
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, name)
	}
	return &driving.BookDescription{Summary: domain.BookSummary{Name: name}}, nil
}

func (m *MockBookService) GetPage(_ context.Context, _ string, _ int) (*domain.ParsedPage, error) {
	return nil, nil
}

func (m *MockBookService) ClearPages(_ context.Context, _ string) error { return nil }

func (m *MockBookService) Delete(_ context.Context, _ string) error { return nil }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(t *testing.T, books ...domain.BookSummary) *View {
	t.Helper()
	view := NewView(nil, nil, &MockBookService{})
	view.SetDimensions(80, 24)
	view, _ = view.Update(messages.BooksLoaded{Books: books})
	return view
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, &MockBookService{})

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Empty(t, view.Books())
}

func TestView_Init_LoadsBooks(t *testing.T) {
	mock := &MockBookService{
		ListFunc: func(_ context.Context) ([]domain.BookSummary, error) {
			return []domain.BookSummary{{Name: "grammar"}}, nil
		},
	}
	view := NewView(nil, nil, mock)

	cmd := view.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, view.View(), "Loading books...")

	loaded, ok := cmd().(messages.BooksLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)

	view, _ = view.Update(loaded)
	assert.Len(t, view.Books(), 1)
	assert.Contains(t, view.View(), "grammar")
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(nil, nil, nil)

	loaded, ok := view.Init()().(messages.BooksLoaded)

	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_LoadError(t *testing.T) {
	view := NewView(nil, nil, &MockBookService{})

	view, _ = view.Update(messages.BooksLoaded{Err: errors.New("db locked")})

	assert.Error(t, view.Err())
	assert.Contains(t, view.View(), "Error: db locked")
}

func TestView_EmptyState(t *testing.T) {
	view := loadedView(t)

	assert.Contains(t, view.View(), "No books yet")
}

func TestView_Navigation(t *testing.T) {
	view := loadedView(t, domain.BookSummary{Name: "a"}, domain.BookSummary{Name: "b"})

	view, _ = view.Update(keyRunes("j"))
	assert.Equal(t, 1, view.SelectedIndex())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.SelectedIndex(), "cursor stays on the last book")

	view, _ = view.Update(keyRunes("k"))
	assert.Equal(t, 0, view.SelectedIndex())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_SelectEmitsBookSelected(t *testing.T) {
	view := loadedView(t, domain.BookSummary{Name: "a"}, domain.BookSummary{Name: "b"})
	view, _ = view.Update(keyRunes("j"))

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.BookSelected)
	require.True(t, ok)
	assert.Equal(t, "b", selected.Book.Name)
}

func TestView_SelectWithoutBooks(t *testing.T) {
	view := loadedView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_QuitAndBack(t *testing.T) {
	view := loadedView(t)

	_, cmd := view.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_ReloadKeepsCursorInRange(t *testing.T) {
	view := loadedView(t, domain.BookSummary{Name: "a"}, domain.BookSummary{Name: "b"})
	view, _ = view.Update(keyRunes("j"))

	_, cmd := view.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	view, _ = view.Update(messages.BooksLoaded{Books: []domain.BookSummary{{Name: "a"}}})

	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_RenderShowsStats(t *testing.T) {
	view := loadedView(t,
		domain.BookSummary{Name: "grammar", PageCount: 120, ParsedPages: 40, Exercises: 7},
		domain.BookSummary{Name: "scan", ParsedPages: 2},
	)

	out := view.View()

	assert.Contains(t, out, "Books (2)")
	assert.Contains(t, out, "40/120 parsed, 7 exercises")
	assert.Contains(t, out, "2/? parsed, 0 exercises")
}

func TestWindow(t *testing.T) {
	start, end := window(0, 3, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	start, end = window(12, 20, 5)
	assert.Equal(t, 8, start)
	assert.Equal(t, 13, end)
}
