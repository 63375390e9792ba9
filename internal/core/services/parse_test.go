package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

func newParseFixture(t *testing.T, pages int, extractor *fakeExtractor) (*ParseOrchestrator, *memory.Library, *fakeSplitter) {
	t.Helper()
	lib := memory.NewLibrary()
	require.NoError(t, lib.AddBook(context.Background(), domain.Book{Name: "book.pdf", Content: []byte("%PDF")}))
	splitter := &fakeSplitter{pages: pages}
	return NewParseOrchestrator(lib, lib, splitter, extractor, t.TempDir()), lib, splitter
}

func TestParseOrchestrator_StoresPagesInOrder(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{text: map[int]string{1: "   \n"}}
	orch, lib, splitter := newParseFixture(t, 3, extractor)

	var progress []domain.PageProgress
	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{
		Progress: func(p domain.PageProgress) { progress = append(progress, p) },
	})

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.TotalPages)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Empty)
	assert.Equal(t, []int{0, 1, 2}, extractor.seen)

	pages, err := lib.GetAllParsedPages(ctx, "book.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 0, pages[0].PageNumber)
	assert.Equal(t, "text of page 2", pages[1].Content)

	require.Len(t, progress, 3)
	assert.Equal(t, domain.PageEmpty, progress[1].Outcome)
	assert.Equal(t, 3, progress[2].Total)

	require.Len(t, splitter.inputs, 1)
	assert.Equal(t, "book.pdf", filepath.Base(splitter.inputs[0]))
}

func TestParseOrchestrator_SecondRunSkipsStoredPages(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{}
	orch, _, _ := newParseFixture(t, 4, extractor)

	_, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 4, extractor.calls.Load())

	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})

	require.NoError(t, err)
	assert.EqualValues(t, 4, extractor.calls.Load(), "no page may be re-extracted")
	assert.Equal(t, 4, report.Skipped)
	assert.Zero(t, report.Parsed)
}

func TestParseOrchestrator_FailureStopsRun(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{fail: map[int]bool{1: true}}
	orch, lib, _ := newParseFixture(t, 3, extractor)

	var last domain.PageProgress
	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{
		Progress: func(p domain.PageProgress) { last = p },
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
	assert.Contains(t, err.Error(), "page 1")
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Parsed)
	assert.Equal(t, domain.PageFailed, last.Outcome)

	parsed, err := lib.IsPageParsed(ctx, "book.pdf", 0)
	require.NoError(t, err)
	assert.True(t, parsed)
	parsed, err = lib.IsPageParsed(ctx, "book.pdf", 2)
	require.NoError(t, err)
	assert.False(t, parsed)
	assert.Equal(t, []int{0, 1}, extractor.seen)
}

func TestParseOrchestrator_ResumesAfterFailure(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{fail: map[int]bool{1: true}}
	orch, lib, _ := newParseFixture(t, 3, extractor)

	_, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})
	require.Error(t, err)

	extractor.fail = nil
	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Parsed)
	pages, err := lib.GetAllParsedPages(ctx, "book.pdf")
	require.NoError(t, err)
	assert.Len(t, pages, 3)
}

func TestParseOrchestrator_Range(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{}
	orch, _, _ := newParseFixture(t, 6, extractor)

	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{
		Range: &domain.PageRange{From: 2, To: 4},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalPages)
	assert.Equal(t, []int{2, 3, 4}, extractor.seen)
}

func TestParseOrchestrator_InvalidRange(t *testing.T) {
	orch, _, splitter := newParseFixture(t, 3, &fakeExtractor{})

	_, err := orch.Parse(context.Background(), "book.pdf", driving.ParseOptions{
		Range: &domain.PageRange{From: 3, To: 1},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, splitter.calls.Load())
}

func TestParseOrchestrator_ForceReparses(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{}
	orch, _, _ := newParseFixture(t, 2, extractor)

	_, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})
	require.NoError(t, err)
	report, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{Force: true})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	assert.EqualValues(t, 4, extractor.calls.Load())
}

func TestParseOrchestrator_MissingBook(t *testing.T) {
	orch, _, splitter := newParseFixture(t, 1, &fakeExtractor{})

	_, err := orch.Parse(context.Background(), "other.pdf", driving.ParseOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, splitter.calls.Load())
}

func TestParseOrchestrator_SplitError(t *testing.T) {
	extractor := &fakeExtractor{}
	orch, _, splitter := newParseFixture(t, 1, extractor)
	splitter.err = domain.Errorf(domain.KindCorruptInput, "splitting", "bad xref")

	_, err := orch.Parse(context.Background(), "book.pdf", driving.ParseOptions{})

	assert.ErrorIs(t, err, domain.ErrCorruptInput)
	assert.Zero(t, extractor.calls.Load())
}

func TestParseOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	extractor := &fakeExtractor{}
	orch, _, _ := newParseFixture(t, 2, extractor)

	_, err := orch.Parse(ctx, "book.pdf", driving.ParseOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, extractor.calls.Load())
}

func TestSanitiseFileName(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitiseFileName("a/b:c"))
	assert.Equal(t, "book", sanitiseFileName(".."))
	assert.Equal(t, "plain", sanitiseFileName("plain"))
}
