package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// ==================== Book Store ====================

// bookStore implements driven.BookStore.
type bookStore struct {
	store *Store
}

var _ driven.BookStore = (*bookStore)(nil)

// AddBook stores a new book with its content hex encoded.
func (s *bookStore) AddBook(ctx context.Context, book domain.Book) error {
	if strings.TrimSpace(book.Name) == "" {
		return domain.Errorf(domain.KindInvalidInput, "adding book", "book name is required")
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO books (name, content, page_count, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, book.Name, hex.EncodeToString(book.Content), book.PageCount, book.AddedAt)
	if err != nil {
		return domain.E(domain.KindPersistence, "adding book", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.E(domain.KindPersistence, "adding book", err)
	}
	if n == 0 {
		return domain.Errorf(domain.KindInvalidInput, "adding book", "book %q already exists", book.Name)
	}
	return nil
}

// GetBook retrieves a book and decodes its content.
func (s *bookStore) GetBook(ctx context.Context, name string) (*domain.Book, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT name, content, page_count, added_at FROM books WHERE name = ?
	`, name)

	var book domain.Book
	var encoded string
	var addedAt sql.NullTime
	if err := row.Scan(&book.Name, &encoded, &book.PageCount, &addedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.KindNotFound, "getting book", "book %q not found", name)
		}
		return nil, fmt.Errorf("scanning book: %w", err)
	}

	content, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, domain.E(domain.KindCorruptInput, "decoding book content", err)
	}
	book.Content = content
	if addedAt.Valid {
		book.AddedAt = addedAt.Time
	}
	return &book, nil
}

// ListBookNames returns all book names sorted ascending.
func (s *bookStore) ListBookNames(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT name FROM books ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning book name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}
	return names, nil
}

// ListBooks returns summaries with parsed page and exercise counts.
func (s *bookStore) ListBooks(ctx context.Context) ([]domain.BookSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT b.name, b.page_count, b.added_at,
			(SELECT COUNT(*) FROM parsed_pages p WHERE p.book_name = b.name),
			(SELECT COUNT(*) FROM exercises e WHERE e.book_name = b.name)
		FROM books b
		ORDER BY b.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	summaries := []domain.BookSummary{}
	for rows.Next() {
		var sum domain.BookSummary
		var addedAt sql.NullTime
		if err := rows.Scan(&sum.Name, &sum.PageCount, &addedAt, &sum.ParsedPages, &sum.Exercises); err != nil {
			return nil, fmt.Errorf("scanning book summary: %w", err)
		}
		if addedAt.Valid {
			sum.AddedAt = addedAt.Time
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}
	return summaries, nil
}

// DeleteBookAndConnectedData removes the book, its pages, its exercises and
// their questions in a single transaction.
func (s *bookStore) DeleteBookAndConnectedData(ctx context.Context, name string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM books WHERE name = ?", name)
	if err != nil {
		return domain.E(domain.KindPersistence, "deleting book", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Errorf(domain.KindNotFound, "deleting book", "book %q not found", name)
	}

	statements := []string{
		"DELETE FROM exercise_questions WHERE exercise_id IN (SELECT id FROM exercises WHERE book_name = ?)",
		"DELETE FROM exercises WHERE book_name = ?",
		"DELETE FROM parsed_pages WHERE book_name = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, name); err != nil {
			return domain.E(domain.KindPersistence, "deleting book data", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.E(domain.KindPersistence, "committing book deletion", err)
	}
	return nil
}
