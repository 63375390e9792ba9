package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// Ensure Library implements the store interfaces.
var (
	_ driven.BookStore     = (*Library)(nil)
	_ driven.PageStore     = (*Library)(nil)
	_ driven.ExerciseStore = (*Library)(nil)
)

type pageKey struct {
	book string
	page int
}

// Library is an in-memory implementation of the book, page and exercise
// stores. State is shared so that book deletion cascades like the SQLite store.
type Library struct {
	mu        sync.RWMutex
	books     map[string]domain.Book
	pages     map[pageKey]domain.ParsedPage
	exercises []domain.StoredExercise
	nextID    int64
}

// NewLibrary creates an empty in-memory library.
func NewLibrary() *Library {
	return &Library{
		books: make(map[string]domain.Book),
		pages: make(map[pageKey]domain.ParsedPage),
	}
}

// AddBook stores a new book.
func (l *Library) AddBook(_ context.Context, book domain.Book) error {
	if strings.TrimSpace(book.Name) == "" {
		return domain.Errorf(domain.KindInvalidInput, "adding book", "book name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.books[book.Name]; ok {
		return domain.Errorf(domain.KindInvalidInput, "adding book", "book %q already exists", book.Name)
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}
	book.Content = append([]byte(nil), book.Content...)
	l.books[book.Name] = book
	return nil
}

// GetBook retrieves a book.
func (l *Library) GetBook(_ context.Context, name string) (*domain.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	book, ok := l.books[name]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "getting book", "book %q not found", name)
	}
	book.Content = append([]byte(nil), book.Content...)
	return &book, nil
}

// ListBookNames returns all book names sorted ascending.
func (l *Library) ListBookNames(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.books))
	for name := range l.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListBooks returns a summary for every book.
func (l *Library) ListBooks(ctx context.Context) ([]domain.BookSummary, error) {
	names, _ := l.ListBookNames(ctx)
	l.mu.RLock()
	defer l.mu.RUnlock()
	summaries := make([]domain.BookSummary, 0, len(names))
	for _, name := range names {
		b := l.books[name]
		sum := domain.BookSummary{Name: name, PageCount: b.PageCount, AddedAt: b.AddedAt}
		for k := range l.pages {
			if k.book == name {
				sum.ParsedPages++
			}
		}
		for _, ex := range l.exercises {
			if ex.BookName == name {
				sum.Exercises++
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// DeleteBookAndConnectedData removes the book, its pages and its exercises.
func (l *Library) DeleteBookAndConnectedData(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.books[name]; !ok {
		return domain.Errorf(domain.KindNotFound, "deleting book", "book %q not found", name)
	}
	delete(l.books, name)
	l.clearPagesLocked(name)
	l.exercises = filterExercises(l.exercises, func(ex domain.StoredExercise) bool {
		return ex.BookName != name
	})
	return nil
}

// StoreParsedPage inserts or replaces a page.
func (l *Library) StoreParsedPage(_ context.Context, page domain.ParsedPage) error {
	if page.PageNumber < 0 {
		return domain.Errorf(domain.KindInvalidInput, "saving parsed page", "page number %d is negative", page.PageNumber)
	}
	if page.ParsedAt.IsZero() {
		page.ParsedAt = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages[pageKey{page.BookName, page.PageNumber}] = page
	return nil
}

// IsPageParsed reports whether a page is stored.
func (l *Library) IsPageParsed(_ context.Context, book string, pageNumber int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pages[pageKey{book, pageNumber}]
	return ok, nil
}

// GetParsedPage retrieves one page.
func (l *Library) GetParsedPage(_ context.Context, book string, pageNumber int) (*domain.ParsedPage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	page, ok := l.pages[pageKey{book, pageNumber}]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "getting parsed page",
			"page %d of book %q not parsed", pageNumber, book)
	}
	return &page, nil
}

// GetAllParsedPages returns a book's pages ordered by page number.
func (l *Library) GetAllParsedPages(_ context.Context, book string) ([]domain.ParsedPage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pages := []domain.ParsedPage{}
	for k, p := range l.pages {
		if k.book == book {
			pages = append(pages, p)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })
	return pages, nil
}

// ClearBookPages deletes all pages of a book.
func (l *Library) ClearBookPages(_ context.Context, book string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearPagesLocked(book)
	return nil
}

func (l *Library) clearPagesLocked(book string) {
	for k := range l.pages {
		if k.book == book {
			delete(l.pages, k)
		}
	}
}

// StoreExercise stores an exercise and returns its identifier.
func (l *Library) StoreExercise(_ context.Context, exercise domain.StoredExercise) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	exercise.ID = l.nextID
	if exercise.ExtractedAt.IsZero() {
		exercise.ExtractedAt = time.Now().UTC()
	}
	exercise.Questions = append([]string{}, exercise.Questions...)
	l.exercises = append(l.exercises, exercise)
	return exercise.ID, nil
}

// GetExercises returns exercises ordered by page and id.
func (l *Library) GetExercises(_ context.Context, book string, page *int) ([]domain.StoredExercise, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := filterExercises(l.exercises, func(ex domain.StoredExercise) bool {
		return ex.BookName == book && (page == nil || ex.PageNumber == *page)
	})
	for i := range out {
		out[i].Questions = append([]string{}, out[i].Questions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ClearPageExercises deletes the exercises of one page.
func (l *Library) ClearPageExercises(_ context.Context, book string, pageNumber int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exercises = filterExercises(l.exercises, func(ex domain.StoredExercise) bool {
		return ex.BookName != book || ex.PageNumber != pageNumber
	})
	return nil
}

func filterExercises(in []domain.StoredExercise, keep func(domain.StoredExercise) bool) []domain.StoredExercise {
	out := make([]domain.StoredExercise, 0, len(in))
	for _, ex := range in {
		if keep(ex) {
			out = append(out, ex)
		}
	}
	return out
}
