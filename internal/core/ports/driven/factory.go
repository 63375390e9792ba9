package driven

import "github.com/custodia-labs/studydeck/internal/core/domain"

// LLMBuilder creates an LLMService for a profile.
type LLMBuilder func(profile domain.LLMProfile) (LLMService, error)

// LLMFactory maps provider keys to LLM implementations.
type LLMFactory interface {
	// Create returns an LLMService for the profile.
	// Returns a KindInvalidInput error if the provider is not registered.
	Create(profile domain.LLMProfile) (LLMService, error)

	// Register adds a builder for the given provider.
	Register(provider domain.AIProvider, builder LLMBuilder)

	// Supports reports whether a builder is registered for provider.
	Supports(provider domain.AIProvider) bool

	// Providers returns the registered providers in sorted order.
	Providers() []domain.AIProvider
}
