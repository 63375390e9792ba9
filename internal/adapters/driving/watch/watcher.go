// Package watch turns a directory into an inbox: every PDF written to it is
// stored as a book named after the file and parsed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
	"github.com/custodia-labs/studydeck/internal/logger"
)

// DefaultSettle is how long a file must go without events before it is
// picked up.
const DefaultSettle = 2 * time.Second

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watch: watcher is closed")

// Event reports the outcome for one file.
type Event struct {
	Path   string
	Book   string
	Report *domain.ParseReport
	Err    error
}

// Options configures a Watcher.
type Options struct {
	// Settle is the quiet period after the last write; zero uses DefaultSettle.
	Settle time.Duration

	// ScanExisting also imports PDFs already in the directory at start.
	ScanExisting bool
}

// Watcher imports PDFs dropped into a directory.
type Watcher struct {
	dir    string
	books  driving.BookService
	parser driving.ParseService
	settle time.Duration
	scan   bool

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// New creates a watcher for dir.
func New(dir string, books driving.BookService, parser driving.ParseService, opts Options) *Watcher {
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:    dir,
		books:  books,
		parser: parser,
		settle: settle,
		scan:   opts.ScanExisting,
	}
}

// Watch starts watching and returns a channel of per-file outcomes. Files
// are handled one at a time. The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	if w.isClosed() {
		return nil, ErrClosed
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox directory: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		fsw.Close()
		return nil, ErrClosed
	}
	w.fsw = fsw
	w.mu.Unlock()

	pending := make(map[string]time.Time)
	if w.scan {
		existing, err := filepath.Glob(filepath.Join(w.dir, "*"))
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("scanning %s: %w", w.dir, err)
		}
		for _, path := range existing {
			if isInboxFile(path) {
				pending[path] = time.Time{}
			}
		}
	}

	out := make(chan Event)
	go w.loop(ctx, fsw, pending, out)
	logger.Info("watching %s for new PDFs", w.dir)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, pending map[string]time.Time, out chan<- Event) {
	defer close(out)
	defer fsw.Close()

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.handleFsEvent(event) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				ev := w.importFile(ctx, path)
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *Watcher) tick() time.Duration {
	return max(w.settle/4, 10*time.Millisecond)
}

// handleFsEvent reports whether event touches a PDF that should be imported.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return isInboxFile(event.Name)
}

// isInboxFile reports whether path is a visible regular file with a .pdf extension.
func isInboxFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".pdf") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// importFile adds path as a book and parses it.
func (w *Watcher) importFile(ctx context.Context, path string) Event {
	name := domain.BookStem(path)
	ev := Event{Path: path, Book: name}

	if _, err := w.books.Add(ctx, path, name); err != nil {
		logger.Warn("skipping %s: %v", path, err)
		ev.Err = err
		return ev
	}

	report, err := w.parser.Parse(ctx, name, driving.ParseOptions{})
	ev.Report = report
	if err != nil {
		logger.Warn("parsing %s: %v", name, err)
		ev.Err = err
		return ev
	}
	logger.Info("imported %s: %d pages parsed", name, report.Parsed)
	return ev
}

// Close stops the underlying watcher and may be called while Watch runs.
// Watch fails afterwards.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	fsw := w.fsw
	w.mu.Unlock()

	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *Watcher) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
