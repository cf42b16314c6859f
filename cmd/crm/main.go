// Personal CRM: log interactions with the people you care about and find
// out who you're losing touch with.
//
// Usage:
//
//	crm serve     # HTTP API server
//	crm mcp       # MCP server (stdio transport)
//	crm log       # log an interaction from the shell
package main

import (
	"os"

	"github.com/obrienmichael/personal-crm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
