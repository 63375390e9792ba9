package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import and parse every PDF dropped into a directory",
	Long: `Watches dir and, once a new PDF has stopped changing, stores it as a book
named after the file and parses it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchSettle   time.Duration
	watchExisting bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "quiet period before a file is imported")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also import PDFs already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if bookService == nil || parseService == nil {
		return errors.New("book and parse services not configured")
	}

	w := watch.New(args[0], bookService, parseService, watch.Options{
		Settle:       watchSettle,
		ScanExisting: watchExisting,
	})
	defer w.Close()

	events, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
	for ev := range events {
		if ev.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", ev.Path, ev.Err)
			continue
		}
		fmt.Fprintf(out, "%s: stored as %q, %d parsed, %d skipped, %d empty of %d pages\n",
			ev.Path, ev.Book, ev.Report.Parsed, ev.Report.Skipped, ev.Report.Empty, ev.Report.TotalPages)
	}
	return nil
}
