package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studydeck/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long RunHTTP waits for open sessions.
const shutdownTimeout = 5 * time.Second

// Server exposes the textbook library to MCP clients. Exercise tools are
// only offered when an exercise service is supplied.
type Server struct {
	ports  *Ports
	server *mcp.Server
	tools  []string
}

// NewServer creates a server over ports. Books is required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "studydeck", Version: Version},
			&mcp.ServerOptions{Instructions: instructions(ports)},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Tools returns the registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_books",
		Description: "List stored books with their parse progress",
	}, s.handleListBooks)

	addTool(s, &mcp.Tool{
		Name:        "list_pages",
		Description: "List the parsed pages of a book with a short preview of each",
	}, s.handleListPages)

	addTool(s, &mcp.Tool{
		Name:        "get_page",
		Description: "Get the extracted text of one parsed page",
	}, s.handleGetPage)

	if s.ports.Exercises != nil {
		addTool(s, &mcp.Tool{
			Name:        "list_exercises",
			Description: "List exercises extracted from a book, optionally for one page",
		}, s.handleListExercises)
	}
}

func addTool[In, Out any](s *Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.server, tool, handler)
	s.tools = append(s.tools, tool.Name)
}

// instructions tells clients how pages are addressed.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("studydeck holds textbooks whose pages were extracted to text. ")
	b.WriteString("Page numbers start at 0. ")
	b.WriteString("Read " + uriScheme + "books for the library and " +
		uriScheme + "books/{book}/pages/{page} for one page.")
	if ports.Exercises != nil {
		b.WriteString(" list_exercises returns the exercises extracted from a book.")
	}
	return b.String()
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving %d tools over stdio", len(s.tools))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
