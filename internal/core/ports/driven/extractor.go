package driven

import (
	"context"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// TextExtractor extracts the text of a single-page artifact through an
// external OCR service.
//
// Failures are reported through ExtractionResult.Err rather than a second
// return value, so the task identifier is available even when the remote
// task failed.
type TextExtractor interface {
	Extract(ctx context.Context, pagePath string) domain.ExtractionResult
}
