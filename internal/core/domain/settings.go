package domain

import (
	"sort"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable consulted when a profile has no key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMProfile is a named LLM configuration.
type LLMProfile struct {
	// Name is the user-assigned profile name.
	Name string

	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// StopWords are passed to the model as stop sequences.
	StopWords []string
}

// IsConfigured returns true if the profile can be used.
func (l LLMProfile) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Model == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// LogLevel is the minimum severity written to the log.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid returns true if the level is recognised.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// OCRSettings configures the extraction service client.
type OCRSettings struct {
	BaseURL        string
	Model          string
	Strategy       string
	StorageProfile string
	Cache          bool

	// PollInterval is the wait between task state polls.
	PollInterval time.Duration

	// PollBackoff multiplies the interval after each poll. 1 keeps it fixed.
	PollBackoff float64

	// PollMaxInterval caps the interval when backing off. Zero means no cap.
	PollMaxInterval time.Duration

	// MaxPolls bounds the number of polls. Zero means unbounded.
	MaxPolls int

	// PollTimeout bounds the total wait. Zero means no timeout.
	PollTimeout time.Duration
}

// DefaultOCRSettings returns the settings used by a local pdf-extract-api.
func DefaultOCRSettings() OCRSettings {
	return OCRSettings{
		BaseURL:        "http://localhost:8000",
		Model:          "llama3.1",
		Strategy:       "llama_vision",
		StorageProfile: "default",
		Cache:          true,
		PollInterval:   time.Second,
		PollBackoff:    1,
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir holds the database and working files.
	DataDir string

	// LogLevel is the minimum level logged.
	LogLevel LogLevel

	// DefaultLLM names the profile used when none is requested.
	DefaultLLM string

	// LLMs holds the configured profiles keyed by name.
	LLMs map[string]LLMProfile

	// OCR configures the extraction client.
	OCR OCRSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// No LLM is configured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LogLevel: LogLevelInfo,
		LLMs:     map[string]LLMProfile{},
		OCR:      DefaultOCRSettings(),
	}
}

// LLMNames returns the configured profile names in sorted order.
func (s AppSettings) LLMNames() []string {
	names := make([]string, 0, len(s.LLMs))
	for name := range s.LLMs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveLLM returns the named profile, or the default when name is empty.
func (s AppSettings) ResolveLLM(name string) (LLMProfile, error) {
	if name == "" {
		name = s.DefaultLLM
	}
	if name == "" {
		return LLMProfile{}, ErrLLMUnavailable
	}
	profile, ok := s.LLMs[name]
	if !ok {
		return LLMProfile{}, Errorf(KindNotFound, "resolve llm", "llm %q is not configured", name)
	}
	return profile, nil
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.1",
		AIProviderOpenAI:    "gpt-4o",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
