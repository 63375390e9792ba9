package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// ==================== Page Store ====================

// pageStore implements driven.PageStore.
type pageStore struct {
	store *Store
}

var _ driven.PageStore = (*pageStore)(nil)

// StoreParsedPage inserts or replaces the page keyed by (book, page number).
func (s *pageStore) StoreParsedPage(ctx context.Context, page domain.ParsedPage) error {
	if page.PageNumber < 0 {
		return domain.Errorf(domain.KindInvalidInput, "saving parsed page", "page number %d is negative", page.PageNumber)
	}
	if page.ParsedAt.IsZero() {
		page.ParsedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO parsed_pages (book_name, page_number, content, parsed_at, extraction_task_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_name, page_number) DO UPDATE SET
			content = excluded.content,
			parsed_at = excluded.parsed_at,
			extraction_task_id = excluded.extraction_task_id
	`, page.BookName, page.PageNumber, page.Content, page.ParsedAt, nullString(page.TaskID))
	if err != nil {
		return domain.E(domain.KindPersistence, "saving parsed page", err)
	}
	return nil
}

// IsPageParsed reports whether a row exists for (book, page number).
func (s *pageStore) IsPageParsed(ctx context.Context, book string, pageNumber int) (bool, error) {
	var exists bool
	err := s.store.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM parsed_pages WHERE book_name = ? AND page_number = ?)
	`, book, pageNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking parsed page: %w", err)
	}
	return exists, nil
}

// GetParsedPage retrieves one page.
func (s *pageStore) GetParsedPage(ctx context.Context, book string, pageNumber int) (*domain.ParsedPage, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT book_name, page_number, content, parsed_at, extraction_task_id
		FROM parsed_pages WHERE book_name = ? AND page_number = ?
	`, book, pageNumber)

	page, err := scanParsedPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "getting parsed page",
			"page %d of book %q not parsed", pageNumber, book)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetAllParsedPages returns every page of a book ordered by page number.
func (s *pageStore) GetAllParsedPages(ctx context.Context, book string) ([]domain.ParsedPage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT book_name, page_number, content, parsed_at, extraction_task_id
		FROM parsed_pages WHERE book_name = ?
		ORDER BY page_number
	`, book)
	if err != nil {
		return nil, fmt.Errorf("querying parsed pages: %w", err)
	}
	defer rows.Close()

	pages := []domain.ParsedPage{}
	for rows.Next() {
		page, err := scanParsedPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parsed pages: %w", err)
	}
	return pages, nil
}

// ClearBookPages deletes all pages of a book.
func (s *pageStore) ClearBookPages(ctx context.Context, book string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM parsed_pages WHERE book_name = ?", book); err != nil {
		return domain.E(domain.KindPersistence, "clearing parsed pages", err)
	}
	return nil
}

func scanParsedPage(row scanner) (*domain.ParsedPage, error) {
	var page domain.ParsedPage
	var parsedAt sql.NullTime
	var taskID sql.NullString
	if err := row.Scan(&page.BookName, &page.PageNumber, &page.Content, &parsedAt, &taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning parsed page: %w", err)
	}
	if parsedAt.Valid {
		page.ParsedAt = parsedAt.Time
	}
	page.TaskID = taskID.String
	return &page, nil
}
