package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/views/books"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/views/pagecontent"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui/views/pages"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	booksView   *books.View
	pagesView   *pages.View
	contentView *pagecontent.View
	statusBar   *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where help returns to.
	previousView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		booksView:   books.NewView(s, km, ports.Books),
		pagesView:   pages.NewView(s, km, ports.Books),
		contentView: pagecontent.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewBooks,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("studydeck"),
		a.booksView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if key.Matches(msg, a.keymap.Back) || key.Matches(msg, a.keymap.Help) {
				a.switchTo(a.previousView)
			}
			return a, nil
		}
		if key.Matches(msg, a.keymap.Help) {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
			return a, nil
		}
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.BooksLoaded:
		a.booksView, cmd = a.booksView.Update(msg)
		a.reportLoad(msg.Err, fmt.Sprintf("%d books", len(msg.Books)))
		return a, cmd

	case messages.BookSelected:
		a.switchTo(messages.ViewPages)
		a.statusBar.SetState(status.StateLoading)
		return a, a.pagesView.SetBook(msg.Book.Name)

	case messages.PagesLoaded:
		a.pagesView, cmd = a.pagesView.Update(msg)
		if msg.Book == a.pagesView.Book() {
			a.reportLoad(msg.Err, fmt.Sprintf("%d parsed pages", len(msg.Pages)))
		}
		return a, cmd

	case messages.PageSelected:
		a.contentView.SetPage(msg.Page)
		a.switchTo(messages.ViewPageContent)
		return a, nil

	case messages.ErrorOccurred:
		a.reportLoad(msg.Err, "")
		return a, a.forward(msg)
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewBooks:
		a.booksView, cmd = a.booksView.Update(msg)
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
	case messages.ViewPageContent:
		a.contentView, cmd = a.contentView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) {
	a.currentView = view
	switch view {
	case messages.ViewPageContent:
		a.statusBar.SetHints(a.keymap.ReaderHelp())
	case messages.ViewBooks, messages.ViewPages:
		a.statusBar.SetHints(a.keymap.ListHelp())
	case messages.ViewHelp:
		a.statusBar.SetHints(nil)
	}
}

func (a *App) reportLoad(err error, summary string) {
	a.err = err
	if err != nil {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(err.Error())
		return
	}
	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetMessage(summary)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPages:
		body = a.pagesView.View()
	case messages.ViewPageContent:
		body = a.contentView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.booksView.View()
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// One line for the status bar.
	a.booksView.SetDimensions(width, height-1)
	a.pagesView.SetDimensions(width, height-1)
	a.contentView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
