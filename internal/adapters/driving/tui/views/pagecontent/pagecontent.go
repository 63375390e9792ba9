// Package pagecontent provides the scrollable page text view for the TUI.
package pagecontent

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// reservedLines holds the title, separator, position line and help footer.
const reservedLines = 6

// View shows the text of one parsed page.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model

	page   *domain.ParsedPage
	width  int
	height int
}

// NewView creates a new page content view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 24-reservedLines),
		width:    80,
		height:   24,
	}
}

// SetPage shows page from the top.
func (v *View) SetPage(page domain.ParsedPage) {
	v.page = &page
	v.render()
	v.viewport.GotoTop()
}

// render wraps the page text to the current width.
func (v *View) render() {
	if v.page == nil {
		v.viewport.SetContent("")
		return
	}
	v.viewport.SetContent(v.styles.Reader.Width(max(v.width, 20)).Render(v.page.Content))
}

// Update handles scrolling and navigation.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewPages} }
		case key.Matches(msg, v.keymap.Top):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(msg, v.keymap.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the page content.
func (v *View) View() string {
	var b strings.Builder

	title := "Page"
	if v.page != nil {
		title = fmt.Sprintf("%s - page %d", v.page.BookName, v.page.PageNumber)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.styles.Separator(v.width))
	b.WriteString("\n")

	if v.page == nil || strings.TrimSpace(v.page.Content) == "" {
		b.WriteString(v.styles.Muted.Render("(No content)"))
	} else {
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.0f%%] %d lines",
			v.viewport.ScrollPercent()*100, v.viewport.TotalLineCount())))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions resizes the viewport and rewraps the text.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 1)
	v.render()
}

// Page returns the page being shown, or nil.
func (v *View) Page() *domain.ParsedPage {
	return v.page
}

// Offset returns the first visible line.
func (v *View) Offset() int {
	return v.viewport.YOffset
}

// AtBottom reports whether the last line is visible.
func (v *View) AtBottom() bool {
	return v.viewport.AtBottom()
}
