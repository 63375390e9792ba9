package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"empty is invalid", AIProvider(""), false},
		{"unknown is invalid", AIProvider("gemini"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_APIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Empty(t, AIProviderOllama.APIKeyEnv())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestLLMProfile_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		profile  LLMProfile
		expected bool
	}{
		{"ollama without key", LLMProfile{Provider: AIProviderOllama, Model: "llama3.2"}, true},
		{"openai without key", LLMProfile{Provider: AIProviderOpenAI, Model: "gpt-4o"}, false},
		{"openai with key", LLMProfile{Provider: AIProviderOpenAI, Model: "gpt-4o", APIKey: "sk"}, true},
		{"missing model", LLMProfile{Provider: AIProviderOllama}, false},
		{"invalid provider", LLMProfile{Provider: "x", Model: "m"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.IsConfigured())
		})
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	assert.True(t, LogLevelDebug.IsValid())
	assert.True(t, LogLevelError.IsValid())
	assert.False(t, LogLevel("trace").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, LogLevelInfo, s.LogLevel)
	assert.Empty(t, s.DefaultLLM)
	assert.NotNil(t, s.LLMs)
	assert.Equal(t, "http://localhost:8000", s.OCR.BaseURL)
	assert.Equal(t, "llama_vision", s.OCR.Strategy)
	assert.True(t, s.OCR.Cache)
	assert.Zero(t, s.OCR.MaxPolls)
}

func TestAppSettings_ResolveLLM(t *testing.T) {
	s := DefaultAppSettings()
	s.LLMs["local"] = LLMProfile{Name: "local", Provider: AIProviderOllama, Model: "llama3.2"}
	s.LLMs["cloud"] = LLMProfile{Name: "cloud", Provider: AIProviderOpenAI, Model: "gpt-4o"}

	_, err := s.ResolveLLM("")
	assert.True(t, errors.Is(err, ErrLLMUnavailable))

	s.DefaultLLM = "local"
	p, err := s.ResolveLLM("")
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name)

	p, err = s.ResolveLLM("cloud")
	require.NoError(t, err)
	assert.Equal(t, AIProviderOpenAI, p.Provider)

	_, err = s.ResolveLLM("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, []string{"cloud", "local"}, s.LLMNames())
}
