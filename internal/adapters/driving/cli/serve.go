package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/adapters/driven/pocketbase"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/adapters/driving/mcp"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/services"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/extractors"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which serves:
  /mcp      streamable HTTP binding
  /sse      SSE event stream (POST /messages for client messages)
  /healthz  liveness endpoint

Configuration is read lazily from the optional --config TOML file and
POCKETBASE_* environment variables on the first tool call that touches
the store; listing tools needs no configuration at all. Request query
parameters (e.g. ?pocketbase.url=...) override settings at runtime.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docs-mcp serve

  # HTTP mode
  docs-mcp serve --port 3000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	config := services.NewConfigManager(configPathFlag, log)
	if configPathFlag != "" {
		if err := config.Watch(); err != nil {
			return fmt.Errorf("watching config file: %w", err)
		}
		defer config.Close() //nolint:errcheck
	}

	pipeline := extractors.NewDefaultRegistry(log, os.Getenv("GITHUB_TOKEN"))
	ingestion := services.NewIngestion(config, pipeline,
		func(cfg *domain.Config) driven.DocumentStore {
			return pocketbase.New(cfg)
		}, log)

	server, err := mcp.NewServer(&mcp.Ports{
		Ingestion: ingestion,
		Config:    config,
	}, log)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
