// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - BookStore: Book persistence (name, content, page count)
//   - PageStore: Parsed page persistence with the idempotency check
//   - ExerciseStore: Exercise persistence with ordered questions
//   - PageSplitter: Splits a document into single-page artifacts
//   - TextExtractor: Extracts page text through the OCR service
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, exercise extraction
//     and deck generation are disabled.
//   - PageInspector: Page counting. Without it, books record an unknown count.
//   - PromptStore: Customisable prompts. Without it, embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
