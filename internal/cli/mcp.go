package cli

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/obrienmichael/personal-crm/internal/config"
	"github.com/obrienmichael/personal-crm/internal/engine"
	"github.com/obrienmichael/personal-crm/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server (stdio transport)",
	Long:  "Expose the CRM operations as MCP tools so a tool-calling assistant can log interactions and query engagement state.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	s := mcpserver.NewMCPServer(
		"personal-crm",
		Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	mcptools.Register(s, engine.New(db))

	// Everything diagnostic goes to stderr; stdout belongs to the
	// stdio transport.
	fmt.Fprintf(os.Stderr, "personal-crm mcp server on stdio (db: %s)\n", db.Path)
	return mcpserver.ServeStdio(s)
}
