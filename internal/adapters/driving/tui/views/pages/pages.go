// Package pages provides the parsed page list view for one book.
package pages

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

// View is the page list view.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	bookService driving.BookService

	book         string
	pages        []domain.ParsedPage
	selected     int
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new page list view.
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

// SetBook switches to a book and loads its parsed pages.
func (v *View) SetBook(name string) tea.Cmd {
	v.book = name
	v.pages = nil
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadPages()
}

func (v *View) loadPages() tea.Cmd {
	svc, book := v.bookService, v.book
	return func() tea.Msg {
		if svc == nil {
			return messages.PagesLoaded{Book: book, Err: fmt.Errorf("book service not available")}
		}
		desc, err := svc.Describe(context.Background(), book)
		if err != nil {
			return messages.PagesLoaded{Book: book, Err: err}
		}
		return messages.PagesLoaded{Book: book, Pages: desc.Pages}
	}
}

// Update handles messages for the page list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PagesLoaded:
		// A late reply for a book the user already left.
		if msg.Book != v.book {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.pages = msg.Pages
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
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.pages)-1 {
			v.selected++
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Top):
		v.selected = 0
		v.adjustScroll()
	case key.Matches(msg, v.keymap.Bottom):
		v.selected = max(len(v.pages)-1, 0)
		v.adjustScroll()
	case key.Matches(msg, v.keymap.Select):
		if v.selected < len(v.pages) {
			page := v.pages[v.selected]
			return v, func() tea.Msg { return messages.PageSelected{Page: page} }
		}
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		return v, v.loadPages()
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewBooks} }
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the page list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s - parsed pages (%d)", v.book, len(v.pages))))
	b.WriteString("\n")
	b.WriteString(v.styles.Separator(v.width))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading pages..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.pages) == 0:
		b.WriteString(v.styles.Muted.Render("No parsed pages. Run: studydeck book parse " + v.book))
	default:
		visible := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.pages) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.renderPage(i, &v.pages[i]))
			b.WriteString("\n")
		}
		if len(v.pages) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.pages)),
				len(v.pages))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] read  [g/G] top/bottom  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderPage(index int, page *domain.ParsedPage) string {
	label := fmt.Sprintf("page %4d", page.PageNumber)
	preview := firstLine(page.Content, max(v.width-20, 10))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %s  %s", label, preview))
	}
	return "  " + v.styles.Badge.Render(label) + "  " + v.styles.Muted.Render(preview)
}

// firstLine returns the first non-blank line of s cut to limit runes.
func firstLine(s string, limit int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > limit {
			return string(runes[:limit-3]) + "..."
		}
		return line
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Book returns the name of the book being listed.
func (v *View) Book() string {
	return v.book
}

// Pages returns the loaded pages.
func (v *View) Pages() []domain.ParsedPage {
	return v.pages
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
