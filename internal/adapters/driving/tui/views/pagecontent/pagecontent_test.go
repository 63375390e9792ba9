package pagecontent

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studydeck/internal/core/domain"
)

func longPage(lines int) domain.ParsedPage {
	parts := make([]string, lines)
	for i := range parts {
		parts[i] = fmt.Sprintf("line %d", i)
	}
	return domain.ParsedPage{BookName: "g", PageNumber: 4, Content: strings.Join(parts, "\n")}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.Nil(t, view.Page())
	assert.Contains(t, view.View(), "(No content)")
}

func TestView_SetPage(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 20)

	view.SetPage(longPage(5))

	require.NotNil(t, view.Page())
	out := view.View()
	assert.Contains(t, out, "g - page 4")
	assert.Contains(t, out, "line 0")
	assert.Contains(t, out, "line 4")
}

func TestView_Scroll(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 16)
	view.SetPage(longPage(100))

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.Offset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.True(t, view.AtBottom())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, view.Offset())
}

func TestView_SetPageResetsScroll(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 16)
	view.SetPage(longPage(100))
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})

	view.SetPage(longPage(50))

	assert.Equal(t, 0, view.Offset())
}

func TestView_BackGoesToPages(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewPages}, cmd())
}

func TestView_BlankPage(t *testing.T) {
	view := NewView(nil, nil)

	view.SetPage(domain.ParsedPage{BookName: "g", Content: "  \n"})

	assert.Contains(t, view.View(), "(No content)")
}
