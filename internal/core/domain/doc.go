// Package domain defines the core business entities for studydeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Book: A named source document stored with its raw bytes
//   - ParsedPage: The extracted text of one page of a book
//   - StoredExercise: An exercise detected on a parsed page
//   - ExtractionResult: The outcome of one OCR extraction call
//   - Card: A flashcard produced from pages or a free-form prompt
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
