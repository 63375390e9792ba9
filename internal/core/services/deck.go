package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure DeckService implements the interface.
var _ driving.DeckService = (*DeckService)(nil)

// topicCardsUser is the user turn sent with each rendered topic prompt.
const topicCardsUser = "Generate the flashcards as specified above."

// DeckService generates flashcard decks from parsed pages or free-form requests.
type DeckService struct {
	books   driven.BookStore
	pages   driven.PageStore
	prompts driven.PromptStore
	writer  driven.DeckWriter
	llms    LLMSource
}

// NewDeckService creates a deck service.
func NewDeckService(
	books driven.BookStore,
	pages driven.PageStore,
	prompts driven.PromptStore,
	writer driven.DeckWriter,
	llms LLMSource,
) *DeckService {
	return &DeckService{
		books:   books,
		pages:   pages,
		prompts: prompts,
		writer:  writer,
		llms:    llms,
	}
}

// FromBook generates cards for every parsed page in the range. Each page is
// sent once per system prompt; pages whose generation fails are skipped.
func (s *DeckService) FromBook(ctx context.Context, req driving.BookDeckRequest) (string, error) {
	const op = "deck from book"

	rng := domain.PageRange{From: req.StartPage, To: req.EndPage}
	if err := rng.Validate(); err != nil {
		return "", err
	}
	pages, err := parsedPagesInRange(ctx, s.books, s.pages, req.Book, &rng)
	if err != nil {
		return "", err
	}

	systems, err := s.systemPrompts(req.CustomPrompt)
	if err != nil {
		return "", err
	}
	pageTmpl, err := s.prompts.Load(driven.PromptDeckPage)
	if err != nil {
		return "", fmt.Errorf("load page prompt: %w", err)
	}
	schema, err := schemaOf[domain.Deck]("deck")
	if err != nil {
		return "", err
	}

	llm, err := s.llms(req.LLM)
	if err != nil {
		return "", err
	}
	defer llm.Close()

	logger.Section("Deck Generation")
	var cards []domain.Card
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		user := render(pageTmpl, map[string]string{
			"content": page.Content,
			"page":    strconv.Itoa(page.PageNumber),
		})

		pageCards, err := cardsForPage(ctx, llm, schema, systems, user)
		if err != nil {
			logger.Warn("page %d: card generation failed, skipping: %v", page.PageNumber, err)
			continue
		}
		logger.Info("page %d: %d cards", page.PageNumber, len(pageCards))
		cards = append(cards, pageCards...)
	}

	if len(cards) == 0 {
		return "", domain.Errorf(domain.KindInvalidInput, op,
			"no cards generated for %s pages %d-%d", req.Book, req.StartPage, req.EndPage)
	}

	stem := domain.BookStem(req.Book)
	path := filepath.Join(req.OutDir, stem,
		fmt.Sprintf("deck_%s_%d-%d.csv", stem, req.StartPage, req.EndPage))
	if err := s.writer.WriteDeck(path, cards); err != nil {
		return "", err
	}
	logger.Info("wrote %d cards to %s", len(cards), path)
	return path, nil
}

// FromPrompt splits a free-form request into topics and generates a share
// of the requested cards for each.
func (s *DeckService) FromPrompt(ctx context.Context, req driving.PromptDeckRequest) (string, error) {
	const op = "deck from prompt"

	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.Errorf(domain.KindInvalidInput, op, "prompt is empty")
	}
	if req.Count <= 0 {
		return "", domain.Errorf(domain.KindInvalidInput, op, "card count must be positive, got %d", req.Count)
	}

	evaluation, err := s.prompts.Load(driven.PromptTopicEvaluation)
	if err != nil {
		return "", fmt.Errorf("load topic evaluation prompt: %w", err)
	}
	topicTmpl, err := s.prompts.Load(driven.PromptTopicCards)
	if err != nil {
		return "", fmt.Errorf("load topic cards prompt: %w", err)
	}
	topicSchema, err := schemaOf[domain.TopicList]("topics")
	if err != nil {
		return "", err
	}
	deckSchema, err := schemaOf[domain.Deck]("deck")
	if err != nil {
		return "", err
	}

	llm, err := s.llms(req.LLM)
	if err != nil {
		return "", err
	}
	defer llm.Close()

	list, err := askStructured[domain.TopicList](ctx, llm, topicSchema, evaluation, req.Prompt)
	if err != nil {
		return "", fmt.Errorf("evaluate topics: %w", err)
	}
	if len(list.Topics) == 0 {
		return "", domain.Errorf(domain.KindInvalidInput, op, "no topics found in request")
	}

	counts := domain.DistributeCards(req.Count, len(list.Topics))
	var cards []domain.Card
	for i, topic := range list.Topics {
		if counts[i] == 0 {
			continue
		}
		system := render(topicTmpl, map[string]string{
			"name":        topic.Name,
			"description": topic.Description,
			"level":       topic.DifficultyLevel,
			"count":       strconv.Itoa(counts[i]),
		})
		deck, err := askStructured[domain.Deck](ctx, llm, deckSchema, system, topicCardsUser)
		if err != nil {
			return "", fmt.Errorf("generate cards for topic %q: %w", topic.Name, err)
		}
		logger.Info("topic %q: %d cards", topic.Name, len(deck.Cards))
		cards = append(cards, deck.Cards...)
	}

	name := strings.ReplaceAll(strings.ToLower(list.Topics[0].Name), " ", "_")
	path := filepath.Join(req.OutDir, fmt.Sprintf("deck_%s_%d.csv", sanitiseFileName(name), req.Count))
	if err := s.writer.WriteDeck(path, cards); err != nil {
		return "", err
	}
	logger.Info("wrote %d cards to %s", len(cards), path)
	return path, nil
}

// systemPrompts returns the per-page system prompts: the custom prompt
// alone, or the grammar and words prompts.
func (s *DeckService) systemPrompts(custom string) ([]string, error) {
	if strings.TrimSpace(custom) != "" {
		return []string{custom}, nil
	}
	grammar, err := s.prompts.Load(driven.PromptDeckGrammar)
	if err != nil {
		return nil, fmt.Errorf("load grammar prompt: %w", err)
	}
	words, err := s.prompts.Load(driven.PromptDeckWords)
	if err != nil {
		return nil, fmt.Errorf("load words prompt: %w", err)
	}
	return []string{grammar, words}, nil
}

// cardsForPage runs one request per system prompt concurrently and returns
// the cards in prompt order. Any failure fails the page.
func cardsForPage(
	ctx context.Context,
	llm driven.LLMService,
	schema *replySchema,
	systems []string,
	user string,
) ([]domain.Card, error) {
	results := make([][]domain.Card, len(systems))
	g, gctx := errgroup.WithContext(ctx)
	for i, system := range systems {
		g.Go(func() error {
			deck, err := askStructured[domain.Deck](gctx, llm, schema, system, user)
			if err != nil {
				return err
			}
			results[i] = deck.Cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var cards []domain.Card
	for _, r := range results {
		cards = append(cards, r...)
	}
	return cards, nil
}
