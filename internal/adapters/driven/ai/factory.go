// Package ai wires LLM adapters to provider names.
package ai

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	anthropicllm "github.com/custodia-labs/studydeck/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/studydeck/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/studydeck/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.LLMFactory = (*Factory)(nil)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Factory maps providers to LLM builders.
// The zero value has no providers; use NewFactory for the built-in set.
type Factory struct {
	mu       sync.RWMutex
	builders map[domain.AIProvider]driven.LLMBuilder
}

// NewFactory returns a factory with the ollama, openai and anthropic adapters registered.
func NewFactory() *Factory {
	f := &Factory{}
	f.Register(domain.AIProviderOllama, newOllama)
	f.Register(domain.AIProviderOpenAI, newOpenAI)
	f.Register(domain.AIProviderAnthropic, newAnthropic)
	return f
}

// Register adds or replaces the builder for provider.
func (f *Factory) Register(provider domain.AIProvider, builder driven.LLMBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.builders == nil {
		f.builders = make(map[domain.AIProvider]driven.LLMBuilder)
	}
	f.builders[provider] = builder
}

// Supports reports whether provider has a builder.
func (f *Factory) Supports(provider domain.AIProvider) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.builders[provider]
	return ok
}

// Providers returns the registered providers in sorted order.
func (f *Factory) Providers() []domain.AIProvider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.AIProvider, 0, len(f.builders))
	for p := range f.builders {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Create builds the LLM service for profile.
// A missing API key is filled from the provider's environment variable.
func (f *Factory) Create(profile domain.LLMProfile) (driven.LLMService, error) {
	f.mu.RLock()
	builder, ok := f.builders[profile.Provider]
	f.mu.RUnlock()
	if !ok {
		return nil, domain.Errorf(domain.KindInvalidInput, "create llm",
			"unsupported LLM provider %q", profile.Provider)
	}

	if profile.APIKey == "" && profile.Provider.APIKeyEnv() != "" {
		profile.APIKey = os.Getenv(profile.Provider.APIKeyEnv())
	}

	svc, err := builder(profile)
	if err != nil {
		return nil, domain.E(domain.KindUnavailable, "create llm "+profile.Name, err)
	}
	return svc, nil
}

// Validate creates the service for profile and pings it.
func Validate(ctx context.Context, factory driven.LLMFactory, profile domain.LLMProfile) error {
	svc, err := factory.Create(profile)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func newOllama(p domain.LLMProfile) (driven.LLMService, error) {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:   p.BaseURL,
		Model:     p.Model,
		StopWords: p.StopWords,
	}), nil
}

func newOpenAI(p domain.LLMProfile) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:    p.APIKey,
		BaseURL:   p.BaseURL,
		Model:     p.Model,
		StopWords: p.StopWords,
	})
}

func newAnthropic(p domain.LLMProfile) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:    p.APIKey,
		BaseURL:   p.BaseURL,
		Model:     p.Model,
		StopWords: p.StopWords,
	})
}
