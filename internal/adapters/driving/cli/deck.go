package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// defaultDeckSize is the card count of a prompt deck when none is given.
const defaultDeckSize = 25

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Generate flashcard decks",
	Long:  `Generate CSV flashcard decks from parsed book pages or from a free-form request.`,
}

var deckBookCmd = &cobra.Command{
	Use:   "book [book] [start] [end]",
	Short: "Generate a deck from parsed pages",
	Long: `Generates grammar and vocabulary cards for every parsed page between start
and end (inclusive, 0-based). --prompt replaces both default prompts with
your own instructions. The deck is written to
<out>/<book>/deck_<book>_<start>-<end>.csv.`,
	Args: cobra.ExactArgs(3),
	RunE: runDeckBook,
}

var deckPromptCmd = &cobra.Command{
	Use:   "prompt [text] [count]",
	Short: "Generate a deck from a free-form request",
	Long: `Splits the request into topics and generates an even share of the cards
for each. The deck is written to <out>/deck_<first topic>_<count>.csv.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDeckPrompt,
}

// Flags.
var (
	deckOut    string
	deckLLM    string
	deckPrompt string
)

func init() {
	for _, c := range []*cobra.Command{deckBookCmd, deckPromptCmd} {
		c.Flags().StringVarP(&deckOut, "out", "o", ".", "output directory")
		c.Flags().StringVar(&deckLLM, "llm", "", "LLM profile to use (default profile if empty)")
	}
	deckBookCmd.Flags().StringVar(&deckPrompt, "prompt", "", "custom instructions replacing the default card prompts")

	deckCmd.AddCommand(deckBookCmd)
	deckCmd.AddCommand(deckPromptCmd)
	rootCmd.AddCommand(deckCmd)
}

func runDeckBook(cmd *cobra.Command, args []string) error {
	if deckService == nil {
		return errors.New("deck service not configured")
	}
	rng, err := parseRangeArgs(args[1], args[2])
	if err != nil {
		return err
	}

	var path string
	err = withSpinner(cmd.ErrOrStderr(), "generating cards", func() error {
		var err error
		path, err = deckService.FromBook(cmd.Context(), driving.BookDeckRequest{
			Book:         args[0],
			StartPage:    rng.From,
			EndPage:      rng.To,
			OutDir:       deckOut,
			CustomPrompt: deckPrompt,
			LLM:          deckLLM,
		})
		return err
	})
	if err != nil {
		return err
	}
	cmd.Printf("Deck written to %s\n", path)
	return nil
}

func runDeckPrompt(cmd *cobra.Command, args []string) error {
	if deckService == nil {
		return errors.New("deck service not configured")
	}
	count := defaultDeckSize
	if len(args) == 2 {
		n, err := parseCount(args[1])
		if err != nil {
			return err
		}
		count = n
	}

	var path string
	err := withSpinner(cmd.ErrOrStderr(), "generating cards", func() error {
		var err error
		path, err = deckService.FromPrompt(cmd.Context(), driving.PromptDeckRequest{
			Prompt: args[0],
			Count:  count,
			OutDir: deckOut,
			LLM:    deckLLM,
		})
		return err
	})
	if err != nil {
		return err
	}
	cmd.Printf("Deck written to %s\n", path)
	return nil
}
