package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flag values.
var (
	configDir string
	verbose   bool
)

// annotationStandalone marks commands that run without the service container.
const annotationStandalone = "standalone"

// Services holds the driving ports the commands call into.
type Services struct {
	Book     driving.BookService
	Parse    driving.ParseService
	Exercise driving.ExerciseService
	Deck     driving.DeckService
	Settings driving.SettingsService
}

// Options carries the global flag values to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases what the services hold open.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func() error, error)

// Services used by commands. Set directly by SetServices or built by the
// bootstrap function before a command runs.
var (
	bookService     driving.BookService
	parseService    driving.ParseService
	exerciseService driving.ExerciseService
	deckService     driving.DeckService
	settingsService driving.SettingsService

	bootstrap Bootstrap
	shutdown  func() error
)

var rootCmd = &cobra.Command{
	Use:   "studydeck",
	Short: "Turn scanned textbooks into flashcards and exercise prompts",
	Long: `studydeck stores textbooks, extracts the text of every page through an OCR
service, and drives a language model to produce flashcard decks and
teacher-style exercise prompts from the parsed pages.

Typical flow:
  studydeck book add grammar.pdf
  studydeck book parse grammar
  studydeck exercises extract grammar 10 20
  studydeck deck book grammar 10 20 --out decks`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default $STUDYDECK_CONFIG_DIR or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	bookService = s.Book
	parseService = s.Parse
	exerciseService = s.Exercise
	deckService = s.Deck
	settingsService = s.Settings
}

// SetBootstrap installs the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and releases the services
// afterwards.
func ExecuteContext(ctx context.Context) error {
	// cobra's Printf defaults to stderr; command output belongs on stdout.
	if rootCmd.OutOrStdout() == io.Writer(os.Stdout) {
		rootCmd.SetOut(os.Stdout)
	}
	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		if cerr := shutdown(); cerr != nil && err == nil {
			err = cerr
		}
		shutdown = nil
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationStandalone] == "true" || bootstrap == nil {
		return nil
	}

	services, closer, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(services)
	shutdown = closer
	if verbose {
		logger.SetVerbose(true)
	}
	return nil
}
