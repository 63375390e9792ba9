package services

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir    = "data_dir"
	keyLogLevel   = "log_level"
	keyDefaultLLM = "default_llm"
	llmPrefix     = "llms."

	llmFieldProvider  = "provider"
	llmFieldModel     = "model"
	llmFieldBaseURL   = "base_url"
	llmFieldAPIKey    = "api_key"
	llmFieldStopWords = "stop_words"

	ocrPrefix = "ocr."
)

// Extraction client keys accepted by SetOCR, without the "ocr." prefix.
const (
	OCRKeyBaseURL         = "base_url"
	OCRKeyModel           = "model"
	OCRKeyStrategy        = "strategy"
	OCRKeyStorageProfile  = "storage_profile"
	OCRKeyCache           = "cache"
	OCRKeyPollInterval    = "poll_interval"
	OCRKeyPollMaxInterval = "poll_max_interval"
	OCRKeyPollBackoff     = "poll_backoff"
	OCRKeyPollMaxAttempts = "poll_max_attempts"
	OCRKeyPollTimeout     = "poll_timeout"
)

// OCRKeys returns the keys accepted by SetOCR in display order.
func OCRKeys() []string {
	return []string{
		OCRKeyBaseURL, OCRKeyModel, OCRKeyStrategy, OCRKeyStorageProfile, OCRKeyCache,
		OCRKeyPollInterval, OCRKeyPollMaxInterval, OCRKeyPollBackoff, OCRKeyPollMaxAttempts, OCRKeyPollTimeout,
	}
}

// SettingsService manages application settings stored in a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	factory     driven.LLMFactory
}

// NewSettingsService creates a new settings service.
// The factory decides which providers are accepted; nil accepts every
// provider known to the domain.
func NewSettingsService(configStore driven.ConfigStore, factory driven.LLMFactory) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		factory:     factory,
	}
}

// Get reads the current settings.
// An LLM profile with an unknown provider is a configuration error.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.DataDir = s.configStore.GetString(keyDataDir)
	if level := domain.LogLevel(s.configStore.GetString(keyLogLevel)); level.IsValid() {
		settings.LogLevel = level
	}
	settings.DefaultLLM = s.configStore.GetString(keyDefaultLLM)

	for _, name := range s.profileNames() {
		profile, err := s.readProfile(name)
		if err != nil {
			return nil, err
		}
		settings.LLMs[name] = profile
	}

	ocr, err := s.readOCR(settings.OCR)
	if err != nil {
		return nil, err
	}
	settings.OCR = ocr

	return &settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// AddLLM stores profile, replacing any profile of the same name.
// A missing model is filled from the provider default, and the first
// profile added becomes the default.
func (s *SettingsService) AddLLM(profile domain.LLMProfile) error {
	const op = "add llm"

	if err := validateProfileName(profile.Name); err != nil {
		return err
	}
	if !s.supports(profile.Provider) {
		return domain.Errorf(domain.KindInvalidInput, op, "unknown provider %q (known: %s)",
			profile.Provider, strings.Join(s.providerNames(), ", "))
	}
	if profile.Model == "" {
		profile.Model = domain.DefaultLLMModels()[profile.Provider]
	}
	if profile.BaseURL != "" {
		if err := validateURL(profile.BaseURL); err != nil {
			return domain.E(domain.KindInvalidInput, op, err)
		}
	}

	prefix := llmPrefix + profile.Name + "."
	if err := s.configStore.Delete(llmPrefix + profile.Name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{llmFieldProvider, profile.Provider.String(), false},
		{llmFieldModel, profile.Model, false},
		{llmFieldBaseURL, profile.BaseURL, profile.BaseURL == ""},
		{llmFieldAPIKey, profile.APIKey, profile.APIKey == ""},
		{llmFieldStopWords, profile.StopWords, len(profile.StopWords) == 0},
	}
	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(prefix+v.key, v.value); err != nil {
			return fmt.Errorf("save llm %s: %w", v.key, err)
		}
	}

	if s.configStore.GetString(keyDefaultLLM) == "" {
		if err := s.configStore.Set(keyDefaultLLM, profile.Name); err != nil {
			return fmt.Errorf("save default llm: %w", err)
		}
	}
	return nil
}

// RemoveLLM deletes a profile and clears the default if it pointed at it.
func (s *SettingsService) RemoveLLM(name string) error {
	if !s.hasProfile(name) {
		return domain.Errorf(domain.KindNotFound, "remove llm", "llm %q is not configured", name)
	}
	if err := s.configStore.Delete(llmPrefix + name); err != nil {
		return fmt.Errorf("remove llm: %w", err)
	}
	if s.configStore.GetString(keyDefaultLLM) == name {
		if err := s.configStore.Delete(keyDefaultLLM); err != nil {
			return fmt.Errorf("clear default llm: %w", err)
		}
	}
	return nil
}

// SetDefaultLLM selects the profile used when none is requested.
func (s *SettingsService) SetDefaultLLM(name string) error {
	if !s.hasProfile(name) {
		return domain.Errorf(domain.KindNotFound, "set default llm", "llm %q is not configured", name)
	}
	return s.configStore.Set(keyDefaultLLM, name)
}

// SetDataDir stores dir as an absolute path.
func (s *SettingsService) SetDataDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return domain.Errorf(domain.KindInvalidInput, "set data dir", "directory must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return domain.E(domain.KindInvalidInput, "set data dir", err)
	}
	return s.configStore.Set(keyDataDir, abs)
}

// SetLogLevel changes the minimum log level.
func (s *SettingsService) SetLogLevel(level domain.LogLevel) error {
	if !level.IsValid() {
		return domain.Errorf(domain.KindInvalidInput, "set log level", "invalid log level %q", level)
	}
	return s.configStore.Set(keyLogLevel, string(level))
}

// SetOCR validates and stores one extraction client setting.
//
//nolint:gocyclo // One branch per setting.
func (s *SettingsService) SetOCR(key, value string) error {
	const op = "set ocr"
	invalid := func(format string, args ...any) error {
		return domain.Errorf(domain.KindInvalidInput, op, "%s: "+format, append([]any{key}, args...)...)
	}

	var stored any
	switch key {
	case OCRKeyBaseURL:
		if err := validateURL(value); err != nil {
			return invalid("%v", err)
		}
		stored = strings.TrimRight(value, "/")
	case OCRKeyModel, OCRKeyStrategy, OCRKeyStorageProfile:
		if strings.TrimSpace(value) == "" {
			return invalid("must not be empty")
		}
		stored = value
	case OCRKeyCache:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid("expected true or false")
		}
		stored = b
	case OCRKeyPollInterval, OCRKeyPollMaxInterval, OCRKeyPollTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return invalid("expected a non-negative duration such as 2s")
		}
		if key == OCRKeyPollInterval && d == 0 {
			return invalid("must be positive")
		}
		stored = d.String()
	case OCRKeyPollBackoff:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 1 {
			return invalid("expected a number >= 1")
		}
		stored = f
	case OCRKeyPollMaxAttempts:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return invalid("expected a non-negative integer")
		}
		stored = n
	default:
		return domain.Errorf(domain.KindInvalidInput, op, "unknown key %q (known: %s)", key, strings.Join(OCRKeys(), ", "))
	}

	return s.configStore.Set(ocrPrefix+key, stored)
}

// ConfigPath returns the settings file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// ValidateLLMConfig pings the named profile, or the default when name is empty.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context, name string) error {
	svc, err := s.OpenLLM(name)
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

// OpenLLM creates the LLM service for the named profile, or the default
// when name is empty. The caller closes the returned service.
func (s *SettingsService) OpenLLM(name string) (driven.LLMService, error) {
	if s.factory == nil {
		return nil, domain.ErrLLMUnavailable
	}
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	profile, err := settings.ResolveLLM(name)
	if err != nil {
		return nil, err
	}
	return s.factory.Create(profile)
}

// pingTimeout bounds LLM connectivity checks.
const pingTimeout = 5 * time.Second

func (s *SettingsService) profileNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, key := range s.configStore.Keys(llmPrefix) {
		rest := strings.TrimPrefix(key, llmPrefix)
		name, _, ok := strings.Cut(rest, ".")
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SettingsService) hasProfile(name string) bool {
	return name != "" && len(s.configStore.Keys(llmPrefix+name+".")) > 0
}

func (s *SettingsService) readProfile(name string) (domain.LLMProfile, error) {
	prefix := llmPrefix + name + "."
	provider := domain.AIProvider(s.configStore.GetString(prefix + llmFieldProvider))
	if !s.supports(provider) {
		return domain.LLMProfile{}, domain.Errorf(domain.KindInvalidInput, "load settings",
			"llm %q: unknown provider %q (known: %s)", name, provider, strings.Join(s.providerNames(), ", "))
	}
	return domain.LLMProfile{
		Name:      name,
		Provider:  provider,
		Model:     s.configStore.GetString(prefix + llmFieldModel),
		BaseURL:   s.configStore.GetString(prefix + llmFieldBaseURL),
		APIKey:    s.configStore.GetString(prefix + llmFieldAPIKey),
		StopWords: s.configStore.GetStringSlice(prefix + llmFieldStopWords),
	}, nil
}

func (s *SettingsService) readOCR(ocr domain.OCRSettings) (domain.OCRSettings, error) {
	key := func(k string) string { return ocrPrefix + k }

	ocr.BaseURL = s.getString(key(OCRKeyBaseURL), ocr.BaseURL)
	ocr.Model = s.getString(key(OCRKeyModel), ocr.Model)
	ocr.Strategy = s.getString(key(OCRKeyStrategy), ocr.Strategy)
	ocr.StorageProfile = s.getString(key(OCRKeyStorageProfile), ocr.StorageProfile)
	ocr.Cache = s.getBool(key(OCRKeyCache), ocr.Cache)
	if v := s.configStore.GetFloat(key(OCRKeyPollBackoff)); v >= 1 {
		ocr.PollBackoff = v
	}
	if v := s.configStore.GetInt(key(OCRKeyPollMaxAttempts)); v > 0 {
		ocr.MaxPolls = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{OCRKeyPollInterval, &ocr.PollInterval},
		{OCRKeyPollMaxInterval, &ocr.PollMaxInterval},
		{OCRKeyPollTimeout, &ocr.PollTimeout},
	}
	for _, d := range durations {
		raw := s.configStore.GetString(key(d.key))
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return ocr, domain.Errorf(domain.KindInvalidInput, "load settings", "ocr.%s: %v", d.key, err)
		}
		*d.dst = parsed
	}
	return ocr, nil
}

func (s *SettingsService) supports(p domain.AIProvider) bool {
	if s.factory != nil {
		return s.factory.Supports(p)
	}
	return p.IsValid()
}

func (s *SettingsService) providerNames() []string {
	var providers []domain.AIProvider
	if s.factory != nil {
		providers = s.factory.Providers()
	} else {
		providers = domain.AllLLMProviders()
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	return names
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func validateProfileName(name string) error {
	if name == "" || strings.ContainsAny(name, ". \t\n") {
		return domain.Errorf(domain.KindInvalidInput, "add llm",
			"profile name %q must be non-empty without dots or spaces", name)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}
