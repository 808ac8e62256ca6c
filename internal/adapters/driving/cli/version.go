package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/adapters/driving/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docs-mcp %s\n", mcp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
