// Package main is the studydeck entrypoint. It wires the driven adapters
// into the core services and hands them to the command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/studydeck/internal/adapters/driven/ai"
	"github.com/custodia-labs/studydeck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studydeck/internal/adapters/driven/export"
	"github.com/custodia-labs/studydeck/internal/adapters/driven/ocr"
	"github.com/custodia-labs/studydeck/internal/adapters/driven/pdf"
	"github.com/custodia-labs/studydeck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/studydeck/internal/adapters/driving/cli"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/services"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}

	if err := file.LoadEnv(configDir); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", file.EnvFileName, err)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewFactory())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}
	if err := logger.SetLevel(string(settings.LogLevel)); err != nil {
		logger.Warn("%v, keeping the default level", err)
	}
	logger.SetVerbose(opts.Verbose)
	logger.Debug("config %s, data %s", settingsService.ConfigPath(), settings.DataDir)

	prompts, err := file.NewPromptStore(filepath.Join(configDir, file.PromptsDirName))
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}
	ocrPrompt, err := prompts.Load(driven.PromptOCRInstruction)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s prompt: %w", driven.PromptOCRInstruction, err)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open library: %w", err)
	}
	logger.Debug("database %s", store.Path())

	books := store.BookStore()
	pages := store.PageStore()
	llms := services.LLMSource(settingsService.OpenLLM)

	svc := &cli.Services{
		Book: services.NewBookService(books, pages, pdf.NewInspector()),
		Parse: services.NewParseOrchestrator(
			books,
			pages,
			pdf.NewSplitter(),
			ocr.NewClient(ocr.ConfigFromSettings(settings.OCR, ocrPrompt)),
			"",
		),
		Exercise: services.NewExerciseService(
			books,
			pages,
			store.ExerciseStore(),
			prompts,
			export.NewMarkdownPromptWriter(),
			llms,
		),
		Deck:     services.NewDeckService(books, pages, prompts, export.NewCSVDeckWriter(), llms),
		Settings: settingsService,
	}
	return svc, store.Close, nil
}
