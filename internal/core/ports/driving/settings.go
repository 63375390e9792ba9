package driving

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// AddLLM stores a profile. The first profile becomes the default.
	AddLLM(profile domain.LLMProfile) error

	// RemoveLLM deletes a profile, clearing the default if it pointed at it.
	RemoveLLM(name string) error

	// SetDefaultLLM selects the profile used when none is requested.
	SetDefaultLLM(name string) error

	// SetDataDir changes where the database and working files live.
	SetDataDir(dir string) error

	// SetLogLevel changes the minimum log level.
	SetLogLevel(level domain.LogLevel) error

	// SetOCR updates one extraction client setting by key.
	SetOCR(key, value string) error

	// ConfigPath returns the settings file path.
	ConfigPath() string

	// ValidateLLMConfig pings the named profile, or the default when empty.
	ValidateLLMConfig(ctx context.Context, name string) error
}
