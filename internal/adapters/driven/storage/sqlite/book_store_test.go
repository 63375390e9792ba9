package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

func TestBookStore_AddAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	books := store.BookStore()

	content := []byte("%PDF-1.7\x00\xff binary")
	err := books.AddBook(ctx, domain.Book{Name: "aula", Content: content, PageCount: 12})
	require.NoError(t, err)

	got, err := books.GetBook(ctx, "aula")
	require.NoError(t, err)
	assert.Equal(t, "aula", got.Name)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, 12, got.PageCount)
	assert.WithinDuration(t, time.Now(), got.AddedAt, time.Minute)
}

func TestBookStore_ContentStoredAsHex(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.BookStore().AddBook(ctx, domain.Book{Name: "b", Content: []byte{0xde, 0xad}}))

	var raw string
	require.NoError(t, store.db.QueryRow("SELECT content FROM books WHERE name = 'b'").Scan(&raw))
	assert.Equal(t, "dead", raw)
}

func TestBookStore_AddDuplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	books := store.BookStore()

	require.NoError(t, books.AddBook(ctx, domain.Book{Name: "aula", Content: []byte("one")}))
	err := books.AddBook(ctx, domain.Book{Name: "aula", Content: []byte("two")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := books.GetBook(ctx, "aula")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got.Content)
}

func TestBookStore_AddEmptyName(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.BookStore().AddBook(context.Background(), domain.Book{Name: "  "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestBookStore_GetMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.BookStore().GetBook(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBookStore_ListBookNames(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	books := store.BookStore()

	names, err := books.ListBookNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, books.AddBook(ctx, domain.Book{Name: n, Content: []byte(n)}))
	}

	names, err = books.ListBookNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestBookStore_ListBooksCounts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.BookStore().AddBook(ctx, domain.Book{Name: "aula", Content: []byte("x"), PageCount: 3}))
	require.NoError(t, store.PageStore().StoreParsedPage(ctx, domain.ParsedPage{BookName: "aula", PageNumber: 0, Content: "a"}))
	require.NoError(t, store.PageStore().StoreParsedPage(ctx, domain.ParsedPage{BookName: "aula", PageNumber: 1, Content: "b"}))
	_, err := store.ExerciseStore().StoreExercise(ctx, domain.StoredExercise{BookName: "aula", PageNumber: 1, Title: "t"})
	require.NoError(t, err)

	summaries, err := store.BookStore().ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "aula", summaries[0].Name)
	assert.Equal(t, 3, summaries[0].PageCount)
	assert.Equal(t, 2, summaries[0].ParsedPages)
	assert.Equal(t, 1, summaries[0].Exercises)
}

func TestBookStore_DeleteCascades(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	books, pages, exercises := store.BookStore(), store.PageStore(), store.ExerciseStore()

	require.NoError(t, books.AddBook(ctx, domain.Book{Name: "aula", Content: []byte("x")}))
	require.NoError(t, books.AddBook(ctx, domain.Book{Name: "other", Content: []byte("y")}))
	require.NoError(t, pages.StoreParsedPage(ctx, domain.ParsedPage{BookName: "aula", PageNumber: 0, Content: "a"}))
	require.NoError(t, pages.StoreParsedPage(ctx, domain.ParsedPage{BookName: "other", PageNumber: 0, Content: "b"}))
	_, err := exercises.StoreExercise(ctx, domain.StoredExercise{
		BookName: "aula", PageNumber: 0, Title: "t", Questions: []string{"q1", "q2"},
	})
	require.NoError(t, err)

	require.NoError(t, books.DeleteBookAndConnectedData(ctx, "aula"))

	_, err = books.GetBook(ctx, "aula")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	remaining, err := pages.GetAllParsedPages(ctx, "aula")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	ex, err := exercises.GetExercises(ctx, "aula", nil)
	require.NoError(t, err)
	assert.Empty(t, ex)

	var questions int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM exercise_questions").Scan(&questions))
	assert.Zero(t, questions)

	otherPages, err := pages.GetAllParsedPages(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, otherPages, 1)
}

func TestBookStore_DeleteMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.BookStore().DeleteBookAndConnectedData(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
