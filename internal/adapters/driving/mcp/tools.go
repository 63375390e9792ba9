package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// previewLength bounds the page text returned by list_pages.
const previewLength = 200

// ListBooksInput is the input schema for the list_books tool.
type ListBooksInput struct{}

// BookOutput summarises one stored book.
type BookOutput struct {
	Name        string `json:"name"`
	PageCount   int    `json:"page_count"`
	ParsedPages int    `json:"parsed_pages"`
	Exercises   int    `json:"exercises"`
	AddedAt     string `json:"added_at"`
}

// ListBooksOutput is the output schema for the list_books tool.
type ListBooksOutput struct {
	Books []BookOutput `json:"books"`
}

// ListPagesInput is the input schema for the list_pages tool.
type ListPagesInput struct {
	Book string `json:"book" jsonschema:"name of the book"`
}

// PageSummary is a parsed page without its full text.
type PageSummary struct {
	Page    int    `json:"page"`
	Preview string `json:"preview"`
}

// ListPagesOutput is the output schema for the list_pages tool.
type ListPagesOutput struct {
	Book  string        `json:"book"`
	Pages []PageSummary `json:"pages"`
}

// GetPageInput is the input schema for the get_page tool.
type GetPageInput struct {
	Book string `json:"book" jsonschema:"name of the book"`
	Page int    `json:"page" jsonschema:"zero-based page index"`
}

// GetPageOutput is the output schema for the get_page tool.
type GetPageOutput struct {
	Book     string `json:"book"`
	Page     int    `json:"page"`
	Content  string `json:"content"`
	ParsedAt string `json:"parsed_at"`
}

// ListExercisesInput is the input schema for the list_exercises tool.
type ListExercisesInput struct {
	Book string `json:"book" jsonschema:"name of the book"`
	Page *int   `json:"page,omitempty" jsonschema:"only exercises of this zero-based page"`
}

// ExerciseOutput is one stored exercise.
type ExerciseOutput struct {
	ID           int64    `json:"id"`
	Page         int      `json:"page"`
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	Questions    []string `json:"questions"`
}

// ListExercisesOutput is the output schema for the list_exercises tool.
type ListExercisesOutput struct {
	Exercises []ExerciseOutput `json:"exercises"`
	Count     int              `json:"count"`
}

func (s *Server) handleListBooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListBooksInput,
) (*mcp.CallToolResult, ListBooksOutput, error) {
	books, err := s.ports.Books.List(ctx)
	if err != nil {
		return nil, ListBooksOutput{}, err
	}

	output := ListBooksOutput{Books: make([]BookOutput, len(books))}
	for i, b := range books {
		output.Books[i] = BookOutput{
			Name:        b.Name,
			PageCount:   b.PageCount,
			ParsedPages: b.ParsedPages,
			Exercises:   b.Exercises,
			AddedAt:     b.AddedAt.UTC().Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func (s *Server) handleListPages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListPagesInput,
) (*mcp.CallToolResult, ListPagesOutput, error) {
	desc, err := s.ports.Books.Describe(ctx, input.Book)
	if err != nil {
		return nil, ListPagesOutput{}, err
	}

	output := ListPagesOutput{Book: input.Book, Pages: make([]PageSummary, len(desc.Pages))}
	for i, p := range desc.Pages {
		output.Pages[i] = PageSummary{Page: p.PageNumber, Preview: truncate(p.Content, previewLength)}
	}
	return nil, output, nil
}

func (s *Server) handleGetPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPageInput,
) (*mcp.CallToolResult, GetPageOutput, error) {
	if input.Page < 0 {
		return nil, GetPageOutput{}, fmt.Errorf("page must be non-negative, got %d", input.Page)
	}
	page, err := s.ports.Books.GetPage(ctx, input.Book, input.Page)
	if err != nil {
		return nil, GetPageOutput{}, err
	}
	return nil, GetPageOutput{
		Book:     page.BookName,
		Page:     page.PageNumber,
		Content:  page.Content,
		ParsedAt: page.ParsedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Server) handleListExercises(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListExercisesInput,
) (*mcp.CallToolResult, ListExercisesOutput, error) {
	exercises, err := s.ports.Exercises.List(ctx, input.Book, input.Page)
	if err != nil {
		return nil, ListExercisesOutput{}, err
	}

	output := ListExercisesOutput{
		Exercises: make([]ExerciseOutput, len(exercises)),
		Count:     len(exercises),
	}
	for i, ex := range exercises {
		output.Exercises[i] = ExerciseOutput{
			ID:           ex.ID,
			Page:         ex.PageNumber,
			Title:        ex.Title,
			Instructions: ex.Instructions,
			Questions:    ex.Questions,
		}
	}
	return nil, output, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
