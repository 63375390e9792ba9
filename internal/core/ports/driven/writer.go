package driven

import "github.com/custodia-labs/studydeck/internal/core/domain"

// DeckWriter writes flashcards to a file.
type DeckWriter interface {
	// WriteDeck creates or replaces path with the cards, creating parent
	// directories as needed.
	WriteDeck(path string, cards []domain.Card) error
}

// PromptWriter writes rendered teacher prompts.
type PromptWriter interface {
	// WritePrompt creates or replaces path with content, creating parent
	// directories as needed.
	WritePrompt(path, content string) error
}
