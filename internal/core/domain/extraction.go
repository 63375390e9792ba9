package domain

import "time"

// ExtractionResult is the outcome of extracting text from one page artifact.
// Exactly one of Text or Err is meaningful: Err is non-nil on failure.
type ExtractionResult struct {
	// Text is the extracted page text on success.
	Text string

	// TaskID is the asynchronous task identifier, when the service issued one.
	TaskID string

	// Err describes the failure. It is always of kind KindExtractionFailure.
	Err error
}

// Failed reports whether extraction did not produce text.
func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}

// PageOutcome is what the parsing orchestrator did with one page.
type PageOutcome string

// Page outcomes reported during a parse run.
const (
	PageParsed  PageOutcome = "parsed"
	PageSkipped PageOutcome = "skipped"
	PageEmpty   PageOutcome = "empty"
	PageFailed  PageOutcome = "failed"
)

// ParseReport summarises one orchestrator run.
type ParseReport struct {
	RunID      string
	BookName   string
	TotalPages int
	Parsed     int
	Skipped    int
	Empty      int
	Duration   time.Duration
}

// PageProgress reports the outcome of one page during a parse run.
type PageProgress struct {
	Index   int
	Total   int
	Outcome PageOutcome
}
