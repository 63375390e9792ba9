package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// pdfMagic opens every PDF file.
var pdfMagic = []byte("%PDF-")

// Ensure Splitter implements the interface.
var _ driven.PageSplitter = (*Splitter)(nil)

// Splitter splits PDF documents into single-page PDFs.
type Splitter struct {
	config writer.Config
}

// NewSplitter creates a splitter writing PDF 1.7 output.
func NewSplitter() *Splitter {
	return &Splitter{
		config: writer.Config{
			Version:     writer.PDF17,
			Compression: 9,
		},
	}
}

// OutputDir returns the directory Split writes the pages of inputPath to.
func OutputDir(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), stem(inputPath)+"-pages")
}

// PageFileName returns the artifact name for the zero-based page index.
func PageFileName(inputPath string, index int) string {
	return fmt.Sprintf("%s-page_%d.pdf", stem(inputPath), index+1)
}

// Split writes one PDF per page of inputPath. The output directory is wiped
// and recreated on every call.
func (s *Splitter) Split(ctx context.Context, inputPath string) (map[int]string, error) {
	const op = "splitting document"

	f, err := os.Open(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.Errorf(domain.KindNotFound, op, "%s does not exist", inputPath)
		}
		return nil, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	if err := checkMagic(f); err != nil {
		return nil, domain.E(domain.KindCorruptInput, op, err)
	}

	doc, err := ir.NewDefault().Parse(ctx, f)
	if err != nil {
		return nil, domain.E(domain.KindCorruptInput, op, err)
	}

	outDir := OutputDir(inputPath)
	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clearing output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	logger.Debug("splitting %s into %d pages", inputPath, len(doc.Pages))

	pages := make(map[int]string, len(doc.Pages))
	for i, page := range doc.Pages {
		single, err := builder.NewBuilder().AddPage(page).Build()
		if err != nil {
			return nil, domain.E(domain.KindCorruptInput, fmt.Sprintf("building page %d", i), err)
		}

		path := filepath.Join(outDir, PageFileName(inputPath, i))
		if err := s.write(ctx, single, path); err != nil {
			return nil, fmt.Errorf("writing page %d: %w", i, err)
		}
		pages[i] = path
	}

	return pages, nil
}

func (s *Splitter) write(ctx context.Context, doc *semantic.Document, path string) error {
	data, err := encode(ctx, doc, s.config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// pdfkit ends its output with "%EOF"; readers require the "%%EOF" marker.
var (
	brokenEOF = []byte("\n%EOF\n")
	validEOF  = []byte("\n%%EOF\n")
)

// encode serializes doc and repairs the end-of-file marker.
func encode(ctx context.Context, doc *semantic.Document, cfg writer.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := writer.NewWriter().Write(ctx, doc, &buf, cfg); err != nil {
		return nil, err
	}
	return repairTrailer(buf.Bytes()), nil
}

func repairTrailer(data []byte) []byte {
	if bytes.HasSuffix(data, validEOF) || !bytes.HasSuffix(data, brokenEOF) {
		return data
	}
	fixed := make([]byte, 0, len(data)+1)
	fixed = append(fixed, data[:len(data)-len(brokenEOF)]...)
	return append(fixed, validEOF...)
}

func checkMagic(r io.ReaderAt) error {
	header := make([]byte, len(pdfMagic))
	n, err := r.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading header: %w", err)
	}
	if n < len(pdfMagic) || !bytes.Equal(header, pdfMagic) {
		return errors.New("not a PDF document")
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
