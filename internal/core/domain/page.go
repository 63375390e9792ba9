package domain

import "time"

// ParsedPage is the extracted text for one page of a book.
// At most one ParsedPage exists per (BookName, PageNumber).
type ParsedPage struct {
	// BookName identifies the owning book.
	BookName string

	// PageNumber is the zero-based page index.
	PageNumber int

	// Content is the extracted text; never empty for a stored page.
	Content string

	// ParsedAt records when the page was stored.
	ParsedAt time.Time

	// TaskID correlates the page with the OCR task that produced it.
	// Empty when the service answered synchronously.
	TaskID string
}

// PageRange selects an inclusive range of page indexes.
// A negative To means "through the last page".
type PageRange struct {
	From int
	To   int
}

// AllPages selects every page.
func AllPages() PageRange {
	return PageRange{From: 0, To: -1}
}

// Contains reports whether index lies inside the range.
func (r PageRange) Contains(index int) bool {
	if index < r.From {
		return false
	}
	return r.To < 0 || index <= r.To
}

// Validate checks that the range is well formed.
func (r PageRange) Validate() error {
	if r.From < 0 {
		return Errorf(KindInvalidInput, "page range", "start page %d is negative", r.From)
	}
	if r.To >= 0 && r.To < r.From {
		return Errorf(KindInvalidInput, "page range", "end page %d is before start page %d", r.To, r.From)
	}
	return nil
}
