package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// writeFixturePDF builds a PDF with one line of text per page.
func writeFixturePDF(t *testing.T, dir, name string, pages int) string {
	t.Helper()

	b := builder.NewBuilder()
	for i := 0; i < pages; i++ {
		b.NewPage(612, 792).
			DrawText(fmt.Sprintf("Leccion %d", i+1), 72, 720, builder.TextOptions{FontSize: 12}).
			Finish()
	}
	doc, err := b.Build()
	require.NoError(t, err)

	data, err := encode(context.Background(), doc, NewSplitter().config)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func pageCountOf(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := ir.NewDefault().Parse(context.Background(), f)
	require.NoError(t, err)
	return len(doc.Pages)
}

func TestSplitter_FivePages(t *testing.T) {
	dir := t.TempDir()
	input := writeFixturePDF(t, dir, "aula.pdf", 5)

	pages, err := NewSplitter().Split(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, pages, 5)

	for i := 0; i < 5; i++ {
		path, ok := pages[i]
		require.True(t, ok, "missing page %d", i)
		assert.Equal(t, filepath.Join(dir, "aula-pages", fmt.Sprintf("aula-page_%d.pdf", i+1)), path)
		assert.FileExists(t, path)
		assert.Equal(t, 1, pageCountOf(t, path))
	}
}

func TestSplitter_PagesReadableByPdfcpu(t *testing.T) {
	dir := t.TempDir()
	input := writeFixturePDF(t, dir, "aula.pdf", 3)

	pages, err := NewSplitter().Split(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	inspector := NewInspector()
	for i := 0; i < 3; i++ {
		data, err := os.ReadFile(pages[i])
		require.NoError(t, err)
		assert.True(t, bytes.HasSuffix(data, []byte("\n%%EOF\n")), "page %d trailer", i)

		n, err := inspector.PageCount(data)
		require.NoError(t, err, "page %d", i)
		assert.Equal(t, 1, n)
	}
}

func TestRepairTrailer(t *testing.T) {
	assert.Equal(t, "startxref\n9\n%%EOF\n", string(repairTrailer([]byte("startxref\n9\n%EOF\n"))))
	assert.Equal(t, "startxref\n9\n%%EOF\n", string(repairTrailer([]byte("startxref\n9\n%%EOF\n"))))
	assert.Equal(t, "no marker", string(repairTrailer([]byte("no marker"))))
}

func TestSplitter_ResplitWipesDirectory(t *testing.T) {
	dir := t.TempDir()
	input := writeFixturePDF(t, dir, "aula.pdf", 5)
	splitter := NewSplitter()

	first, err := splitter.Split(context.Background(), input)
	require.NoError(t, err)

	stale := filepath.Join(OutputDir(input), "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0600))

	second, err := splitter.Split(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoFileExists(t, stale)

	entries, err := os.ReadDir(OutputDir(input))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"aula-page_1.pdf", "aula-page_2.pdf", "aula-page_3.pdf", "aula-page_4.pdf", "aula-page_5.pdf",
	}, names)
}

func TestSplitter_MissingInput(t *testing.T) {
	_, err := NewSplitter().Split(context.Background(), filepath.Join(t.TempDir(), "none.pdf"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSplitter_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0600))

	_, err := NewSplitter().Split(context.Background(), path)
	assert.True(t, errors.Is(err, domain.ErrCorruptInput))
	assert.NoDirExists(t, OutputDir(path))
}

func TestSplitter_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err := NewSplitter().Split(context.Background(), path)
	assert.True(t, errors.Is(err, domain.ErrCorruptInput))
}

func TestOutputNaming(t *testing.T) {
	assert.Equal(t, filepath.Join("books", "aula-pages"), OutputDir(filepath.Join("books", "aula.pdf")))
	assert.Equal(t, "aula-page_1.pdf", PageFileName("aula.pdf", 0))
	assert.Equal(t, "aula-page_12.pdf", PageFileName("/x/aula.pdf", 11))
}
