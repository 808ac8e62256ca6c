// Package cli wires the cobra command tree for the documentation MCP
// server.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/logger"
)

var (
	debugFlag      bool
	configPathFlag string

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docs-mcp",
	Short: "MCP server for documentation stored in PocketBase",
	Long: `docs-mcp extracts documentation from Microsoft Learn and GitHub and
stores it in a PocketBase collection, exposing the tools over the Model
Context Protocol (stdio, streamable HTTP and SSE).`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		log, err = logger.New(debugFlag || os.Getenv("DEBUG") == "true")
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to TOML config file")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if log != nil {
			log.Sync() //nolint:errcheck
		}
	}()
	return rootCmd.Execute()
}
