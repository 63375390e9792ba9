// Package books provides the book list view component for the TUI.
package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// View is the book list view.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	bookService driving.BookService

	books    []domain.BookSummary
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new book list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, bookService driving.BookService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:      s,
		keymap:      km,
		bookService: bookService,
	}
}

// Init loads the books.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadBooks()
}

func (v *View) loadBooks() tea.Cmd {
	svc := v.bookService
	return func() tea.Msg {
		if svc == nil {
			return messages.BooksLoaded{Err: fmt.Errorf("book service not available")}
		}
		books, err := svc.List(context.Background())
		return messages.BooksLoaded{Books: books, Err: err}
	}
}

// Update handles messages for the book list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BooksLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.books = msg.Books
			if v.selected >= len(v.books) {
				v.selected = max(len(v.books)-1, 0)
			}
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.books)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		if book := v.SelectedBook(); book != nil {
			b := *book
			return v, func() tea.Msg { return messages.BookSelected{Book: b} }
		}
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		return v, v.loadBooks()
	case key.Matches(msg, v.keymap.Quit), key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

// View renders the book list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Books (%d)", len(v.books))))
	b.WriteString("\n")
	b.WriteString(v.styles.Separator(v.width))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading books..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.books) == 0:
		b.WriteString(v.styles.Muted.Render("No books yet. Add one with: studydeck book add <file.pdf>"))
	default:
		start, end := window(v.selected, len(v.books), v.visibleItemCount())
		for i := start; i < end; i++ {
			b.WriteString(v.renderBook(i, &v.books[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] pages  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderBook(index int, book *domain.BookSummary) string {
	pages := "?"
	if book.PageCount > 0 {
		pages = fmt.Sprintf("%d", book.PageCount)
	}
	stats := fmt.Sprintf("%d/%s parsed, %d exercises", book.ParsedPages, pages, book.Exercises)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %s  %s", book.Name, stats))
	}
	return v.styles.Normal.Render("  "+book.Name+"  ") + v.styles.Badge.Render(stats)
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// window returns the slice bounds that keep selected visible.
func window(selected, total, visible int) (int, int) {
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	return start, min(start+visible, total)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Books returns the loaded books.
func (v *View) Books() []domain.BookSummary {
	return v.books
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedBook returns the book under the cursor, or nil.
func (v *View) SelectedBook() *domain.BookSummary {
	if v.selected < len(v.books) {
		return &v.books[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
