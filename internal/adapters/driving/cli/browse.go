package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse books and parsed pages in the terminal",
	Long: `Launch the interactive terminal browser.

Controls:
  ↑/k, ↓/j   Navigate / scroll
  Enter      Open book or page
  PgUp/PgDn  Scroll page text
  g/G        Top / bottom
  r          Reload list
  Esc        Back
  ?          Toggle help
  q          Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(bookService))
	if err != nil {
		return fmt.Errorf("creating browser: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
