package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server that exposes stored books, their
parsed pages and extracted exercises to AI assistants.

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead, for example for MCP Inspector.

Examples:
  studydeck mcp serve
  studydeck mcp serve --http localhost:8080

Assistant configuration:
  {
    "mcpServers": {
      "studydeck": {
        "command": "/path/to/studydeck",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var mcpHTTPAddr string

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Books:     bookService,
		Exercises: exerciseService,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
