package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptOCRInstruction is sent to the OCR service with every page.
	PromptOCRInstruction = "ocr_instruction"

	// PromptExerciseExtraction detects exercises in a page.
	// This prompt has no format placeholders.
	PromptExerciseExtraction = "exercise_extraction"

	// PromptTeacher renders a stored exercise for a voice tutor.
	// The template uses {title}, {instructions} and {questions}.
	PromptTeacher = "teacher"

	// PromptDeckGrammar is the system prompt for grammar cards.
	PromptDeckGrammar = "deck_grammar"

	// PromptDeckWords is the system prompt for vocabulary cards.
	PromptDeckWords = "deck_words"

	// PromptDeckPage is the user prompt sent with each page.
	// The template uses {content} and {page}.
	PromptDeckPage = "deck_page"

	// PromptTopicEvaluation splits a deck request into topics.
	PromptTopicEvaluation = "topic_evaluation"

	// PromptTopicCards generates cards for one topic.
	// The template uses {name}, {description}, {level} and {count}.
	PromptTopicCards = "topic_cards"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
