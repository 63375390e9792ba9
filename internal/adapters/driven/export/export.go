// Package export writes generated artefacts to the filesystem: flashcard
// decks as CSV and teacher prompts as Markdown.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure the writers implement their interfaces.
var (
	_ driven.DeckWriter   = (*CSVDeckWriter)(nil)
	_ driven.PromptWriter = (*MarkdownPromptWriter)(nil)
)

// DeckHeader is the first row of every deck file.
var DeckHeader = []string{"front", "back", "notes", "tags"}

// TagSeparator joins card tags in the tags column, as Anki expects.
const TagSeparator = " "

// CSVDeckWriter writes decks in an Anki-importable CSV layout.
type CSVDeckWriter struct{}

// NewCSVDeckWriter creates a deck writer.
func NewCSVDeckWriter() *CSVDeckWriter {
	return &CSVDeckWriter{}
}

// WriteDeck replaces path with a header row and one row per card.
func (w *CSVDeckWriter) WriteDeck(path string, cards []domain.Card) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create deck directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create deck file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	cw := csv.NewWriter(buf)
	if err := cw.Write(DeckHeader); err != nil {
		return fmt.Errorf("write deck header: %w", err)
	}
	for _, c := range cards {
		if err := cw.Write([]string{c.Front, c.Back, c.Notes, strings.Join(c.Tags, TagSeparator)}); err != nil {
			return fmt.Errorf("write card: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush deck: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush deck: %w", err)
	}

	logger.Debug("wrote %d cards to %s", len(cards), path)
	return f.Close()
}

// MarkdownPromptWriter writes prompts as UTF-8 Markdown files.
type MarkdownPromptWriter struct{}

// NewMarkdownPromptWriter creates a prompt writer.
func NewMarkdownPromptWriter() *MarkdownPromptWriter {
	return &MarkdownPromptWriter{}
}

// WritePrompt replaces path with content and a trailing newline.
func (w *MarkdownPromptWriter) WritePrompt(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}

// ReadDeck parses a deck file written by CSVDeckWriter.
func ReadDeck(path string) ([]domain.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read deck: missing header")
	}

	cards := make([]domain.Card, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		c := domain.Card{Front: row[0], Back: row[1]}
		if len(row) > 2 {
			c.Notes = row[2]
		}
		if len(row) > 3 && row[3] != "" {
			c.Tags = strings.Split(row[3], TagSeparator)
		}
		cards = append(cards, c)
	}
	return cards, nil
}
