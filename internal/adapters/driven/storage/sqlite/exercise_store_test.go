package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

func TestExerciseStore_QuestionOrderRoundTrips(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	exercises := store.ExerciseStore()

	id, err := exercises.StoreExercise(ctx, domain.StoredExercise{
		BookName:     "b",
		PageNumber:   1,
		Title:        "Completa",
		Instructions: "Rellena los huecos",
		Questions:    []string{"Q1", "Q2", "Q3"},
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := exercises.GetExercises(ctx, "b", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Completa", got[0].Title)
	assert.Equal(t, "Rellena los huecos", got[0].Instructions)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, got[0].Questions)
}

func TestExerciseStore_OrderUsesIndexNotInsertion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.ExerciseStore().StoreExercise(ctx, domain.StoredExercise{BookName: "b", PageNumber: 0, Title: "t"})
	require.NoError(t, err)

	// Insert rows out of order directly.
	for _, q := range []struct {
		order int
		text  string
	}{{2, "third"}, {0, "first"}, {1, "second"}} {
		_, err := store.db.Exec(
			"INSERT INTO exercise_questions (exercise_id, question_order, question) VALUES (?, ?, ?)",
			id, q.order, q.text)
		require.NoError(t, err)
	}

	got, err := store.ExerciseStore().GetExercises(ctx, "b", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"first", "second", "third"}, got[0].Questions)
}

func TestExerciseStore_FilterByPage(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	exercises := store.ExerciseStore()

	for _, p := range []int{3, 1, 3} {
		_, err := exercises.StoreExercise(ctx, domain.StoredExercise{
			BookName: "b", PageNumber: p, Title: "t", Questions: []string{"q"},
		})
		require.NoError(t, err)
	}

	page := 3
	onPage, err := exercises.GetExercises(ctx, "b", &page)
	require.NoError(t, err)
	assert.Len(t, onPage, 2)
	for _, ex := range onPage {
		assert.Equal(t, 3, ex.PageNumber)
		assert.Equal(t, []string{"q"}, ex.Questions)
	}

	all, err := exercises.GetExercises(ctx, "b", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].PageNumber)
}

func TestExerciseStore_NoQuestions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.ExerciseStore().StoreExercise(ctx, domain.StoredExercise{BookName: "b", Title: "empty"})
	require.NoError(t, err)

	got, err := store.ExerciseStore().GetExercises(ctx, "b", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Questions)
	assert.Empty(t, got[0].Questions)
}

func TestExerciseStore_GetUnknownBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.ExerciseStore().GetExercises(context.Background(), "none", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExerciseStore_ClearPageExercises(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	exercises := store.ExerciseStore()

	_, err := exercises.StoreExercise(ctx, domain.StoredExercise{BookName: "b", PageNumber: 0, Title: "a", Questions: []string{"x"}})
	require.NoError(t, err)
	_, err = exercises.StoreExercise(ctx, domain.StoredExercise{BookName: "b", PageNumber: 1, Title: "b", Questions: []string{"y"}})
	require.NoError(t, err)

	require.NoError(t, exercises.ClearPageExercises(ctx, "b", 0))

	all, err := exercises.GetExercises(ctx, "b", nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].PageNumber)

	var questions int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM exercise_questions").Scan(&questions))
	assert.Equal(t, 1, questions)
}
