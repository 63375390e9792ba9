package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for studydeck resources.
	uriScheme = "studydeck://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing books.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "books",
		Name:        "books",
		Description: "List of all stored books",
		MIMEType:    "application/json",
	}, s.handleBooksResource)

	// Template for parsed page text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "books/{book}/pages/{page}",
		Name:        "book-page",
		Description: "Extracted text of one parsed page",
		MIMEType:    "text/plain",
	}, s.handlePageResource)
}

// handleBooksResource returns the stored book summaries as JSON.
func (s *Server) handleBooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	books, err := s.ports.Books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	type bookInfo struct {
		Name        string `json:"name"`
		PageCount   int    `json:"page_count"`
		ParsedPages int    `json:"parsed_pages"`
		URI         string `json:"uri"`
	}

	infos := make([]bookInfo, len(books))
	for i, b := range books {
		infos[i] = bookInfo{
			Name:        b.Name,
			PageCount:   b.PageCount,
			ParsedPages: b.ParsedPages,
			URI:         uriScheme + "books/" + url.PathEscape(b.Name),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling books: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageResource returns the text of one parsed page.
func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	book, page, ok := parsePageURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	p, err := s.ports.Books.GetPage(ctx, book, page)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     p.Content,
		}},
	}, nil
}

// parsePageURI extracts the book and page from studydeck://books/{book}/pages/{page}.
// The book segment may be percent-encoded.
func parsePageURI(uri string) (string, int, bool) {
	const prefix = uriScheme + "books/"

	if !strings.HasPrefix(uri, prefix) {
		return "", 0, false
	}
	rest := strings.TrimPrefix(uri, prefix)

	idx := strings.LastIndex(rest, "/pages/")
	if idx <= 0 {
		return "", 0, false
	}
	book, err := url.PathUnescape(rest[:idx])
	if err != nil || book == "" {
		return "", 0, false
	}
	page, err := strconv.Atoi(rest[idx+len("/pages/"):])
	if err != nil || page < 0 {
		return "", 0, false
	}
	return book, page, true
}
