package domain

import "time"

// ExtractedExercise is an exercise as returned by the LLM, before storage.
type ExtractedExercise struct {
	Title        string   `json:"title" jsonschema:"short descriptive title of the exercise"`
	Instructions string   `json:"instructions" jsonschema:"summary of what the student must do"`
	Questions    []string `json:"questions" jsonschema:"questions or tasks in the order they appear"`
}

// ExtractedExercises wraps the exercises detected on one page.
type ExtractedExercises struct {
	Exercises []ExtractedExercise `json:"exercises" jsonschema:"all distinct exercises on the page, empty if none"`
}

// StoredExercise is a persisted exercise belonging to a parsed page.
// Questions are ordered; the order round-trips through storage exactly.
type StoredExercise struct {
	ID           int64
	BookName     string
	PageNumber   int
	Title        string
	Instructions string
	Questions    []string
	ExtractedAt  time.Time
}
