package cli

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// mockBookService records calls and returns canned values.
type mockBookService struct {
	books []domain.BookSummary
	desc  *driving.BookDescription
	page  *domain.ParsedPage
	err   error

	addPath, addName string
	cleared, deleted string
}

func (m *mockBookService) Add(_ context.Context, path, name string) (*domain.Book, error) {
	m.addPath, m.addName = path, name
	if m.err != nil {
		return nil, m.err
	}
	if name == "" {
		name = domain.BookStem(path)
	}
	return &domain.Book{Name: name, PageCount: 12}, nil
}

func (m *mockBookService) List(_ context.Context) ([]domain.BookSummary, error) {
	return m.books, m.err
}

func (m *mockBookService) Describe(_ context.Context, _ string) (*driving.BookDescription, error) {
	return m.desc, m.err
}

func (m *mockBookService) GetPage(_ context.Context, _ string, _ int) (*domain.ParsedPage, error) {
	return m.page, m.err
}

func (m *mockBookService) ClearPages(_ context.Context, name string) error {
	m.cleared = name
	return m.err
}

func (m *mockBookService) Delete(_ context.Context, name string) error {
	m.deleted = name
	return m.err
}

// mockParseService records the options of the last run.
type mockParseService struct {
	report *domain.ParseReport
	err    error

	book string
	opts driving.ParseOptions
}

func (m *mockParseService) Parse(_ context.Context, book string, opts driving.ParseOptions) (*domain.ParseReport, error) {
	m.book, m.opts = book, opts
	return m.report, m.err
}

type mockExerciseService struct {
	report    *driving.ExtractReport
	paths     []string
	exercises []domain.StoredExercise
	err       error

	extractReq driving.ExtractRequest
	promptsReq driving.PromptsRequest
	listPage   *int
}

func (m *mockExerciseService) Extract(_ context.Context, req driving.ExtractRequest) (*driving.ExtractReport, error) {
	m.extractReq = req
	return m.report, m.err
}

func (m *mockExerciseService) BuildPrompts(_ context.Context, req driving.PromptsRequest) ([]string, error) {
	m.promptsReq = req
	return m.paths, m.err
}

func (m *mockExerciseService) List(_ context.Context, _ string, page *int) ([]domain.StoredExercise, error) {
	m.listPage = page
	return m.exercises, m.err
}

type mockDeckService struct {
	path string
	err  error

	bookReq   driving.BookDeckRequest
	promptReq driving.PromptDeckRequest
}

func (m *mockDeckService) FromBook(_ context.Context, req driving.BookDeckRequest) (string, error) {
	m.bookReq = req
	return m.path, m.err
}

func (m *mockDeckService) FromPrompt(_ context.Context, req driving.PromptDeckRequest) (string, error) {
	m.promptReq = req
	return m.path, m.err
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
	pingErr  error

	pinged string
	ocrKey string
	ocrVal string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.AppSettings{
		DataDir:  "/data/studydeck",
		LogLevel: domain.LogLevelInfo,
		LLMs:     map[string]domain.LLMProfile{},
	}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.AppSettings{}
}

func (m *mockSettingsService) AddLLM(profile domain.LLMProfile) error {
	if m.err != nil {
		return m.err
	}
	if m.settings.DefaultLLM == "" {
		m.settings.DefaultLLM = profile.Name
	}
	m.settings.LLMs[profile.Name] = profile
	return nil
}

func (m *mockSettingsService) RemoveLLM(name string) error {
	if _, ok := m.settings.LLMs[name]; !ok {
		return domain.Errorf(domain.KindNotFound, "remove llm", "llm %q not found", name)
	}
	delete(m.settings.LLMs, name)
	return nil
}

func (m *mockSettingsService) SetDefaultLLM(name string) error {
	if _, ok := m.settings.LLMs[name]; !ok {
		return domain.Errorf(domain.KindNotFound, "set default llm", "llm %q not found", name)
	}
	m.settings.DefaultLLM = name
	return nil
}

func (m *mockSettingsService) SetDataDir(dir string) error {
	m.settings.DataDir = dir
	return m.err
}

func (m *mockSettingsService) SetLogLevel(level domain.LogLevel) error {
	if !level.IsValid() {
		return domain.Errorf(domain.KindInvalidInput, "set log level", "unknown log level %q", level)
	}
	m.settings.LogLevel = level
	return nil
}

func (m *mockSettingsService) SetOCR(key, value string) error {
	m.ocrKey, m.ocrVal = key, value
	return m.err
}

func (m *mockSettingsService) ConfigPath() string {
	return "/home/user/.config/studydeck/config.toml"
}

func (m *mockSettingsService) ValidateLLMConfig(_ context.Context, name string) error {
	m.pinged = name
	return m.pingErr
}
