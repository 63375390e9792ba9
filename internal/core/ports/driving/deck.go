package driving

import "context"

// DeckService generates flashcard decks.
type DeckService interface {
	// FromBook generates cards from a page range of a parsed book and
	// returns the written deck path.
	FromBook(ctx context.Context, req BookDeckRequest) (string, error)

	// FromPrompt generates cards for a free-form request and returns the
	// written deck path.
	FromPrompt(ctx context.Context, req PromptDeckRequest) (string, error)
}

// BookDeckRequest configures a deck built from book pages.
type BookDeckRequest struct {
	Book      string
	StartPage int
	EndPage   int
	OutDir    string

	// CustomPrompt replaces the default grammar and vocabulary prompts.
	CustomPrompt string

	LLM string
}

// PromptDeckRequest configures a deck built from a free-form request.
type PromptDeckRequest struct {
	Prompt string
	Count  int
	OutDir string
	LLM    string
}
