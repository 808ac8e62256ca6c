package main

import (
	"os"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
