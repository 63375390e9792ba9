package driving

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// ExerciseService extracts exercises from parsed pages and renders them.
type ExerciseService interface {
	// Extract asks the LLM for the exercises on each parsed page in the range
	// and stores them.
	Extract(ctx context.Context, req ExtractRequest) (*ExtractReport, error)

	// BuildPrompts renders a teacher prompt file for every stored exercise
	// in the range and returns the written paths.
	BuildPrompts(ctx context.Context, req PromptsRequest) ([]string, error)

	// List returns stored exercises. A nil page lists every page.
	List(ctx context.Context, book string, page *int) ([]domain.StoredExercise, error)
}

// ExtractRequest selects the pages to extract exercises from.
type ExtractRequest struct {
	Book  string
	Range domain.PageRange

	// LLM names the profile to use; empty selects the default.
	LLM string

	// Force replaces exercises already stored for a page.
	Force bool
}

// ExtractReport summarises an extraction run.
type ExtractReport struct {
	PagesVisited int
	PagesSkipped int
	Exercises    int
}

// PromptsRequest selects the exercises to render.
type PromptsRequest struct {
	Book string

	// Range limits pages; nil renders every stored exercise.
	Range *domain.PageRange

	OutDir string
}
