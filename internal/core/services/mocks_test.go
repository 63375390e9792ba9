package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// chatCall records one Chat invocation.
type chatCall struct {
	System string
	User   string
	Opts   driven.ChatOptions
}

// mockLLM implements driven.LLMService. Replies come from respond, keyed
// on the system and user prompts. It is safe for concurrent use.
type mockLLM struct {
	respond func(system, user string) (string, error)
	pingErr error

	mu     sync.Mutex
	calls  []chatCall
	closed bool
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{})
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var call chatCall
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			call.System = msg.Content
		case driven.RoleUser:
			call.User = msg.Content
		}
	}
	call.Opts = opts

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.respond == nil {
		return "", errors.New("no reply scripted")
	}
	return m.respond(call.System, call.User)
}

func (m *mockLLM) ModelName() string { return "mock" }

func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }

func (m *mockLLM) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockLLM) Calls() []chatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]chatCall(nil), m.calls...)
}

// sourceOf returns an LLMSource that always hands out llm.
func sourceOf(llm driven.LLMService) LLMSource {
	return func(string) (driven.LLMService, error) { return llm, nil }
}

// stubFactory implements driven.LLMFactory for the known providers.
type stubFactory struct {
	llm       *mockLLM
	createErr error
	created   []domain.LLMProfile
}

func (f *stubFactory) Create(profile domain.LLMProfile) (driven.LLMService, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, profile)
	return f.llm, nil
}

func (f *stubFactory) Register(domain.AIProvider, driven.LLMBuilder) {}

func (f *stubFactory) Supports(p domain.AIProvider) bool { return p.IsValid() }

func (f *stubFactory) Providers() []domain.AIProvider { return domain.AllLLMProviders() }

// fakeSplitter implements driven.PageSplitter with a fixed page count.
type fakeSplitter struct {
	pages int
	err   error

	calls  atomic.Int32
	inputs []string
}

func (s *fakeSplitter) Split(_ context.Context, inputPath string) (map[int]string, error) {
	s.calls.Add(1)
	s.inputs = append(s.inputs, inputPath)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[int]string, s.pages)
	for i := 0; i < s.pages; i++ {
		out[i] = filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("page_%d.pdf", i))
	}
	return out, nil
}

// fakeExtractor implements driven.TextExtractor. Pages listed in fail
// report an extraction failure; everything else returns text.
type fakeExtractor struct {
	text map[int]string
	fail map[int]bool

	calls atomic.Int32
	mu    sync.Mutex
	seen  []int
}

func (e *fakeExtractor) Extract(_ context.Context, pagePath string) domain.ExtractionResult {
	e.calls.Add(1)
	var idx int
	if _, err := fmt.Sscanf(filepath.Base(pagePath), "page_%d.pdf", &idx); err != nil {
		return domain.ExtractionResult{Err: domain.E(domain.KindExtractionFailure, "extracting text", err)}
	}
	e.mu.Lock()
	e.seen = append(e.seen, idx)
	e.mu.Unlock()

	if e.fail[idx] {
		return domain.ExtractionResult{
			TaskID: fmt.Sprintf("task-%d", idx),
			Err:    domain.Errorf(domain.KindExtractionFailure, "extracting text", "task-%d failed", idx),
		}
	}
	if text, ok := e.text[idx]; ok {
		return domain.ExtractionResult{Text: text, TaskID: fmt.Sprintf("task-%d", idx)}
	}
	return domain.ExtractionResult{Text: fmt.Sprintf("text of page %d", idx)}
}

// fakeInspector implements driven.PageInspector.
type fakeInspector struct {
	count int
	err   error
}

func (i fakeInspector) PageCount([]byte) (int, error) { return i.count, i.err }

// stubPrompts implements driven.PromptStore from a map.
type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	if s, ok := p[name]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

func (p stubPrompts) Reload() {}

// testPrompts returns short, recognisable templates for every prompt.
func testPrompts() stubPrompts {
	return stubPrompts{
		driven.PromptExerciseExtraction: "EXTRACT",
		driven.PromptTeacher:            "# {title}\n{instructions}\n{questions}",
		driven.PromptDeckGrammar:        "GRAMMAR",
		driven.PromptDeckWords:          "WORDS",
		driven.PromptDeckPage:           "page {page}: {content}",
		driven.PromptTopicEvaluation:    "TOPICS",
		driven.PromptTopicCards:         "CARDS {name}|{description}|{level}|{count}",
	}
}

// recordingWriter implements driven.DeckWriter and driven.PromptWriter.
type recordingWriter struct {
	decks   map[string][]domain.Card
	prompts map[string]string
	err     error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{decks: map[string][]domain.Card{}, prompts: map[string]string{}}
}

func (w *recordingWriter) WriteDeck(path string, cards []domain.Card) error {
	if w.err != nil {
		return w.err
	}
	w.decks[path] = cards
	return nil
}

func (w *recordingWriter) WritePrompt(path, content string) error {
	if w.err != nil {
		return w.err
	}
	w.prompts[path] = content
	return nil
}
