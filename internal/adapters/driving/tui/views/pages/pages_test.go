package pages

import (
	"context"
	"errors"
	"strings"
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

func samplePages(n int) []domain.ParsedPage {
	pages := make([]domain.ParsedPage, n)
	for i := range pages {
		pages[i] = domain.ParsedPage{BookName: "g", PageNumber: i * 2, Content: "\n  Lesson line\nmore"}
	}
	return pages
}

func loadedView(t *testing.T, pages []domain.ParsedPage) *View {
	t.Helper()
	view := NewView(nil, nil, &MockBookService{})
	view.SetDimensions(80, 24)
	_ = view.SetBook("g")
	view, _ = view.Update(messages.PagesLoaded{Book: "g", Pages: pages})
	return view
}

func TestView_SetBook_LoadsPages(t *testing.T) {
	mock := &MockBookService{
		DescribeFunc: func(_ context.Context, name string) (*driving.BookDescription, error) {
			assert.Equal(t, "g", name)
			return &driving.BookDescription{Pages: samplePages(2)}, nil
		},
	}
	view := NewView(nil, nil, mock)

	cmd := view.SetBook("g")

	require.NotNil(t, cmd)
	assert.Equal(t, "g", view.Book())
	assert.Contains(t, view.View(), "Loading pages...")

	loaded, ok := cmd().(messages.PagesLoaded)
	require.True(t, ok)
	view, _ = view.Update(loaded)
	assert.Len(t, view.Pages(), 2)
}

func TestView_SetBook_DescribeError(t *testing.T) {
	mock := &MockBookService{
		DescribeFunc: func(_ context.Context, _ string) (*driving.BookDescription, error) {
			return nil, domain.ErrNotFound
		},
	}
	view := NewView(nil, nil, mock)

	view, _ = view.Update(view.SetBook("gone")())

	assert.ErrorIs(t, view.Err(), domain.ErrNotFound)
	assert.Contains(t, view.View(), "Error:")
}

func TestView_IgnoresStaleLoad(t *testing.T) {
	view := loadedView(t, samplePages(1))

	view, _ = view.Update(messages.PagesLoaded{Book: "other", Pages: samplePages(5)})

	assert.Len(t, view.Pages(), 1)
}

func TestView_EmptyState(t *testing.T) {
	view := loadedView(t, nil)

	assert.Contains(t, view.View(), "No parsed pages. Run: studydeck book parse g")
}

func TestView_Navigation(t *testing.T) {
	view := loadedView(t, samplePages(30))

	view, _ = view.Update(keyRunes("j"))
	assert.Equal(t, 1, view.SelectedIndex())

	view, _ = view.Update(keyRunes("G"))
	assert.Equal(t, 29, view.SelectedIndex())
	assert.Equal(t, 29-view.visibleItemCount()+1, view.scrollOffset)

	view, _ = view.Update(keyRunes("g"))
	assert.Equal(t, 0, view.SelectedIndex())
	assert.Equal(t, 0, view.scrollOffset)
}

func TestView_SelectEmitsPageSelected(t *testing.T) {
	view := loadedView(t, samplePages(3))
	view, _ = view.Update(keyRunes("j"))

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.PageSelected)
	require.True(t, ok)
	assert.Equal(t, 2, selected.Page.PageNumber)
}

func TestView_BackGoesToBooks(t *testing.T) {
	view := loadedView(t, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewBooks}, cmd())
}

func TestView_Render(t *testing.T) {
	view := loadedView(t, samplePages(30))

	out := view.View()

	assert.Contains(t, out, "g - parsed pages (30)")
	assert.Contains(t, out, "Lesson line")
	assert.Contains(t, out, "of 30]")
}

func TestView_ErrorOccurred(t *testing.T) {
	view := loadedView(t, nil)

	view, _ = view.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, view.Err(), "boom")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Lesson one", firstLine("\n   \n  Lesson one  \nrest", 40))
	assert.Equal(t, "", firstLine(" \n\t", 40))
	assert.Equal(t, strings.Repeat("x", 7)+"...", firstLine(strings.Repeat("x", 20), 10))
}
