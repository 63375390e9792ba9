package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// ==================== Exercise Store ====================

// exerciseStore implements driven.ExerciseStore.
type exerciseStore struct {
	store *Store
}

var _ driven.ExerciseStore = (*exerciseStore)(nil)

// StoreExercise inserts the exercise row and its questions, tagged with their
// zero-based order index, in one transaction.
func (s *exerciseStore) StoreExercise(ctx context.Context, exercise domain.StoredExercise) (int64, error) {
	if exercise.ExtractedAt.IsZero() {
		exercise.ExtractedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO exercises (book_name, page_number, title, instructions, extracted_at)
		VALUES (?, ?, ?, ?, ?)
	`, exercise.BookName, exercise.PageNumber, exercise.Title, exercise.Instructions, exercise.ExtractedAt)
	if err != nil {
		return 0, domain.E(domain.KindPersistence, "saving exercise", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.E(domain.KindPersistence, "saving exercise", err)
	}
	if id == 0 {
		return 0, domain.Errorf(domain.KindPersistence, "saving exercise", "no identifier assigned")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO exercise_questions (exercise_id, question_order, question)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range exercise.Questions {
		if _, err := stmt.ExecContext(ctx, id, i, q); err != nil {
			return 0, domain.E(domain.KindPersistence, "saving exercise question", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.E(domain.KindPersistence, "committing exercise", err)
	}
	return id, nil
}

// GetExercises returns exercises ordered by page and id, each with its
// questions sorted by stored order index.
func (s *exerciseStore) GetExercises(ctx context.Context, book string, page *int) ([]domain.StoredExercise, error) {
	filter := "WHERE e.book_name = ?"
	args := []any{book}
	if page != nil {
		filter += " AND e.page_number = ?"
		args = append(args, *page)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT e.id, e.book_name, e.page_number, e.title, e.instructions, e.extracted_at
		FROM exercises e `+filter+`
		ORDER BY e.page_number, e.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	exercises := []domain.StoredExercise{}
	index := map[int64]int{}
	for rows.Next() {
		var ex domain.StoredExercise
		var extractedAt sql.NullTime
		if err := rows.Scan(&ex.ID, &ex.BookName, &ex.PageNumber, &ex.Title, &ex.Instructions, &extractedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if extractedAt.Valid {
			ex.ExtractedAt = extractedAt.Time
		}
		ex.Questions = []string{}
		index[ex.ID] = len(exercises)
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}
	if len(exercises) == 0 {
		return exercises, nil
	}

	qrows, err := s.store.db.QueryContext(ctx, `
		SELECT q.exercise_id, q.question
		FROM exercise_questions q
		JOIN exercises e ON e.id = q.exercise_id `+filter+`
		ORDER BY q.exercise_id, q.question_order
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise questions: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var exerciseID int64
		var question string
		if err := qrows.Scan(&exerciseID, &question); err != nil {
			return nil, fmt.Errorf("scanning exercise question: %w", err)
		}
		if i, ok := index[exerciseID]; ok {
			exercises[i].Questions = append(exercises[i].Questions, question)
		}
	}
	if err := qrows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercise questions: %w", err)
	}
	return exercises, nil
}

// ClearPageExercises deletes the exercises of one page with their questions.
func (s *exerciseStore) ClearPageExercises(ctx context.Context, book string, pageNumber int) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM exercise_questions WHERE exercise_id IN
			(SELECT id FROM exercises WHERE book_name = ? AND page_number = ?)
	`, book, pageNumber); err != nil {
		return domain.E(domain.KindPersistence, "clearing exercise questions", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM exercises WHERE book_name = ? AND page_number = ?", book, pageNumber); err != nil {
		return domain.E(domain.KindPersistence, "clearing exercises", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.E(domain.KindPersistence, "committing exercise deletion", err)
	}
	return nil
}
