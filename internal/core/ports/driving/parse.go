package driving

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// ParseService runs the page parsing pipeline for a stored book.
type ParseService interface {
	// Parse splits the book and extracts every page not yet stored.
	// An extraction failure aborts the run; pages stored before the failure
	// are kept.
	Parse(ctx context.Context, book string, opts ParseOptions) (*domain.ParseReport, error)
}

// ParseOptions tunes a parse run.
type ParseOptions struct {
	// Range limits the visited page indexes; nil visits every page.
	Range *domain.PageRange

	// Force clears the book's stored pages before parsing.
	Force bool

	// Progress, when set, is called after each page is handled.
	Progress func(domain.PageProgress)
}
