package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// Ensure ExerciseService implements the interface.
var _ driving.ExerciseService = (*ExerciseService)(nil)

// ExerciseService extracts exercises from parsed pages and renders teacher prompts.
type ExerciseService struct {
	books     driven.BookStore
	pages     driven.PageStore
	exercises driven.ExerciseStore
	prompts   driven.PromptStore
	writer    driven.PromptWriter
	llms      LLMSource
}

// NewExerciseService creates an exercise service.
func NewExerciseService(
	books driven.BookStore,
	pages driven.PageStore,
	exercises driven.ExerciseStore,
	prompts driven.PromptStore,
	writer driven.PromptWriter,
	llms LLMSource,
) *ExerciseService {
	return &ExerciseService{
		books:     books,
		pages:     pages,
		exercises: exercises,
		prompts:   prompts,
		writer:    writer,
		llms:      llms,
	}
}

// Extract asks the LLM for the exercises on every parsed page in the range.
// Blank pages and pages already holding exercises are skipped, the latter
// unless Force is set. An LLM failure stops the run; exercises stored for
// earlier pages are kept.
func (s *ExerciseService) Extract(ctx context.Context, req driving.ExtractRequest) (*driving.ExtractReport, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	pages, err := parsedPagesInRange(ctx, s.books, s.pages, req.Book, &req.Range)
	if err != nil {
		return nil, err
	}

	system, err := s.prompts.Load(driven.PromptExerciseExtraction)
	if err != nil {
		return nil, fmt.Errorf("load extraction prompt: %w", err)
	}
	schema, err := schemaOf[domain.ExtractedExercises]("exercises")
	if err != nil {
		return nil, err
	}

	llm, err := s.llms(req.LLM)
	if err != nil {
		return nil, err
	}
	defer llm.Close()

	logger.Section("Exercise Extraction")
	report := &driving.ExtractReport{}
	for _, page := range pages {
		report.PagesVisited++

		if strings.TrimSpace(page.Content) == "" {
			logger.Debug("page %d is blank, skipping", page.PageNumber)
			report.PagesSkipped++
			continue
		}

		pageNum := page.PageNumber
		existing, err := s.exercises.GetExercises(ctx, req.Book, &pageNum)
		if err != nil {
			return report, fmt.Errorf("get exercises: %w", err)
		}
		if len(existing) > 0 && !req.Force {
			logger.Debug("page %d already has %d exercises, skipping", pageNum, len(existing))
			report.PagesSkipped++
			continue
		}

		extracted, err := askStructured[domain.ExtractedExercises](ctx, llm, schema, system,
			"Page content:\n\n"+page.Content)
		if err != nil {
			return report, fmt.Errorf("extract exercises from page %d: %w", pageNum, err)
		}

		// Earlier exercises are only dropped once the replacement is in hand.
		if len(existing) > 0 {
			if err := s.exercises.ClearPageExercises(ctx, req.Book, pageNum); err != nil {
				return report, fmt.Errorf("clear exercises: %w", err)
			}
		}

		for _, ex := range extracted.Exercises {
			_, err := s.exercises.StoreExercise(ctx, domain.StoredExercise{
				BookName:     req.Book,
				PageNumber:   pageNum,
				Title:        ex.Title,
				Instructions: ex.Instructions,
				Questions:    ex.Questions,
				ExtractedAt:  time.Now().UTC(),
			})
			if err != nil {
				return report, err
			}
			report.Exercises++
		}
		logger.Info("page %d: %d exercises", pageNum, len(extracted.Exercises))
	}

	return report, nil
}

// BuildPrompts renders the teacher prompt of every stored exercise in the
// range and returns the written paths in page then exercise order.
func (s *ExerciseService) BuildPrompts(ctx context.Context, req driving.PromptsRequest) ([]string, error) {
	if req.Range != nil {
		if err := req.Range.Validate(); err != nil {
			return nil, err
		}
	}
	if _, err := s.books.GetBook(ctx, req.Book); err != nil {
		return nil, err
	}

	tmpl, err := s.prompts.Load(driven.PromptTeacher)
	if err != nil {
		return nil, fmt.Errorf("load teacher prompt: %w", err)
	}

	exercises, err := s.exercises.GetExercises(ctx, req.Book, nil)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(req.OutDir, sanitiseFileName(req.Book)+"_exercises")
	var written []string
	seq := map[int]int{}
	for _, ex := range exercises {
		if req.Range != nil && !req.Range.Contains(ex.PageNumber) {
			continue
		}
		seq[ex.PageNumber]++
		path := filepath.Join(root,
			fmt.Sprintf("page_%d", ex.PageNumber),
			fmt.Sprintf("exercise_page_%d_exercise_%d.md", ex.PageNumber, seq[ex.PageNumber]))

		if err := s.writer.WritePrompt(path, TeacherPrompt(tmpl, ex)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	logger.Info("wrote %d teacher prompts to %s", len(written), root)
	return written, nil
}

// List returns stored exercises of a book, optionally for one page.
func (s *ExerciseService) List(ctx context.Context, book string, page *int) ([]domain.StoredExercise, error) {
	return s.exercises.GetExercises(ctx, book, page)
}

// TeacherPrompt renders tmpl for one exercise, listing questions as "- q" lines.
func TeacherPrompt(tmpl string, ex domain.StoredExercise) string {
	questions := make([]string, len(ex.Questions))
	for i, q := range ex.Questions {
		questions[i] = "- " + q
	}
	return render(tmpl, map[string]string{
		"title":        ex.Title,
		"instructions": ex.Instructions,
		"questions":    strings.Join(questions, "\n"),
	})
}

// parsedPagesInRange returns the parsed pages of a stored book within r in
// page order. A nil range returns every page.
func parsedPagesInRange(
	ctx context.Context,
	books driven.BookStore,
	pages driven.PageStore,
	book string,
	r *domain.PageRange,
) ([]domain.ParsedPage, error) {
	if _, err := books.GetBook(ctx, book); err != nil {
		return nil, err
	}
	all, err := pages.GetAllParsedPages(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("get pages: %w", err)
	}
	out := all[:0]
	for _, p := range all {
		if r == nil || r.Contains(p.PageNumber) {
			out = append(out, p)
		}
	}
	return out, nil
}
