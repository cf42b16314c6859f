// Package mcptools exposes the CRM operations as MCP tools so a
// tool-calling assistant can log interactions and query engagement state
// over the stdio transport.
package mcptools

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/obrienmichael/personal-crm/internal/engine"
)

// Register wires all CRM tools into the MCP server.
func Register(s *server.MCPServer, eng *engine.Engine) {
	record := NewRecordTool(eng)
	s.AddTool(record.Definition(), record.Handle)

	contacts := NewContactsTool(eng)
	s.AddTool(contacts.Definition(), contacts.Handle)

	details := NewContactDetailsTool(eng)
	s.AddTool(details.Definition(), details.Handle)

	overdue := NewOverdueTool(eng)
	s.AddTool(overdue.Definition(), overdue.Handle)

	recent := NewRecentTool(eng)
	s.AddTool(recent.Definition(), recent.Handle)

	stats := NewStatsTool(eng)
	s.AddTool(stats.Definition(), stats.Handle)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func fmtMS(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func fmtMSPtr(ms *int64) string {
	if ms == nil {
		return "never"
	}
	return fmtMS(*ms)
}
