package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure ParseOrchestrator implements the interface.
var _ driving.ParseService = (*ParseOrchestrator)(nil)

// ParseOrchestrator turns a stored book into parsed pages.
type ParseOrchestrator struct {
	books     driven.BookStore
	pages     driven.PageStore
	splitter  driven.PageSplitter
	extractor driven.TextExtractor

	// workDir is the parent of per-run temp directories; empty uses os.TempDir.
	workDir string
}

// NewParseOrchestrator creates a parse orchestrator.
func NewParseOrchestrator(
	books driven.BookStore,
	pages driven.PageStore,
	splitter driven.PageSplitter,
	extractor driven.TextExtractor,
	workDir string,
) *ParseOrchestrator {
	return &ParseOrchestrator{
		books:     books,
		pages:     pages,
		splitter:  splitter,
		extractor: extractor,
		workDir:   workDir,
	}
}

// Parse splits the book and extracts every page in ascending order.
// Pages already stored are skipped without calling the extractor, and
// empty extractions are not stored. The first extraction failure ends the
// run with an error naming the page; earlier pages stay stored. The report
// is returned in every case once the book has been split.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *ParseOrchestrator) Parse(ctx context.Context, name string, opts driving.ParseOptions) (*domain.ParseReport, error) {
	const op = "parse book"

	if opts.Range != nil {
		if err := opts.Range.Validate(); err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	log := logger.Logger().With().Str("run_id", runID).Str("book", name).Logger()
	started := time.Now()

	// 1. Load the book
	book, err := o.books.GetBook(ctx, name)
	if err != nil {
		return nil, err
	}

	if opts.Force {
		if err := o.pages.ClearBookPages(ctx, name); err != nil {
			return nil, fmt.Errorf("clear pages: %w", err)
		}
		log.Info().Msg("cleared stored pages")
	}

	// 2. Materialise the content and split it
	dir, err := os.MkdirTemp(o.workDir, "studydeck-parse-*")
	if err != nil {
		return nil, domain.E(domain.KindPersistence, op, err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, sanitiseFileName(book.Stem())+".pdf")
	if err := os.WriteFile(input, book.Content, 0600); err != nil {
		return nil, domain.E(domain.KindPersistence, op, err)
	}

	artifacts, err := o.splitter.Split(ctx, input)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(artifacts))
	for idx := range artifacts {
		if opts.Range == nil || opts.Range.Contains(idx) {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)

	report := &domain.ParseReport{RunID: runID, BookName: name, TotalPages: len(indexes)}
	log.Info().Int("pages", len(artifacts)).Int("selected", len(indexes)).Msg("split book")

	// 3. Extract page by page
	for _, idx := range indexes {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(started)
			return report, err
		}

		outcome, err := o.parsePage(ctx, name, idx, artifacts[idx])
		if err != nil {
			report.Duration = time.Since(started)
			log.Error().Err(err).Int("page", idx).Msg("page failed, aborting run")
			notify(opts.Progress, idx, len(indexes), domain.PageFailed)
			return report, err
		}

		switch outcome {
		case domain.PageParsed:
			report.Parsed++
		case domain.PageSkipped:
			report.Skipped++
		case domain.PageEmpty:
			report.Empty++
		}
		log.Debug().Int("page", idx).Str("outcome", string(outcome)).Msg("page done")
		notify(opts.Progress, idx, len(indexes), outcome)
	}

	report.Duration = time.Since(started)
	log.Info().
		Int("parsed", report.Parsed).
		Int("skipped", report.Skipped).
		Int("empty", report.Empty).
		Dur("duration", report.Duration).
		Msg("parse complete")
	return report, nil
}

func (o *ParseOrchestrator) parsePage(ctx context.Context, book string, idx int, artifact string) (domain.PageOutcome, error) {
	parsed, err := o.pages.IsPageParsed(ctx, book, idx)
	if err != nil {
		return "", fmt.Errorf("check page %d: %w", idx, err)
	}
	if parsed {
		return domain.PageSkipped, nil
	}

	started := time.Now()
	res := o.extractor.Extract(ctx, artifact)
	if res.Failed() {
		return "", &domain.Error{
			Kind:    domain.KindExtractionFailure,
			Op:      "parse book",
			Message: fmt.Sprintf("page %d", idx),
			Err:     res.Err,
		}
	}
	logger.Debug("extracted page %d in %s", idx, time.Since(started).Round(time.Millisecond))

	if strings.TrimSpace(res.Text) == "" {
		return domain.PageEmpty, nil
	}

	err = o.pages.StoreParsedPage(ctx, domain.ParsedPage{
		BookName:   book,
		PageNumber: idx,
		Content:    res.Text,
		ParsedAt:   time.Now().UTC(),
		TaskID:     res.TaskID,
	})
	if err != nil {
		return "", fmt.Errorf("store page %d: %w", idx, err)
	}
	return domain.PageParsed, nil
}

func notify(progress func(domain.PageProgress), idx, total int, outcome domain.PageOutcome) {
	if progress != nil {
		progress(domain.PageProgress{Index: idx, Total: total, Outcome: outcome})
	}
}

// sanitiseFileName keeps a book stem usable as a file name.
func sanitiseFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "book"
	}
	return s
}
