package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/obrienmichael/personal-crm/internal/engine"
)

// OverdueTool handles the crm_list_overdue MCP tool.
type OverdueTool struct {
	eng *engine.Engine
}

// NewOverdueTool creates an OverdueTool over the given engine.
func NewOverdueTool(eng *engine.Engine) *OverdueTool {
	return &OverdueTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_list_overdue.
func (t *OverdueTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_list_overdue",
		mcp.WithDescription(
			"List contacts you haven't talked to in more than N days, most overdue first. "+
				"Never-contacted contacts always appear.",
		),
		mcp.WithNumber("days",
			mcp.Required(),
			mcp.Description("Threshold in days (e.g. 30)"),
		),
	)
}

// Handle processes the crm_list_overdue tool call.
func (t *OverdueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := req.GetArguments()["days"]; !ok {
		return mcp.NewToolResultError("'days' is required"), nil
	}
	days := intArg(req, "days", -1)

	overdue, err := t.eng.ListOverdue(days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(overdue) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Nobody is overdue at the %d-day threshold.", days)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d overdue contacts (threshold %d days):\n", len(overdue), days)
	for _, oc := range overdue {
		if oc.DaysSinceContact == nil {
			fmt.Fprintf(&b, "- %s (%s): never contacted [id: %s]\n",
				oc.Name, oc.RelationshipType, oc.ID)
		} else {
			fmt.Fprintf(&b, "- %s (%s): %d days since contact [id: %s]\n",
				oc.Name, oc.RelationshipType, *oc.DaysSinceContact, oc.ID)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// RecentTool handles the crm_recent_interactions MCP tool.
type RecentTool struct {
	eng *engine.Engine
}

// NewRecentTool creates a RecentTool over the given engine.
func NewRecentTool(eng *engine.Engine) *RecentTool {
	return &RecentTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_recent_interactions.
func (t *RecentTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_recent_interactions",
		mcp.WithDescription("Show the most recent interactions across all contacts."),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the crm_recent_interactions tool call.
func (t *RecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", engine.DefaultRecentLimit)

	items, err := t.eng.RecentInteractions(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No interactions logged yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recent interactions:\n", len(items))
	for _, item := range items {
		line := fmt.Sprintf("- %s %s with %s", fmtMS(item.OccurredAt), item.TypeDescription, item.ContactName)
		if item.Direction != "" {
			line += fmt.Sprintf(" (%s)", item.Direction)
		}
		b.WriteString(line + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// StatsTool handles the crm_contact_stats MCP tool.
type StatsTool struct {
	eng *engine.Engine
}

// NewStatsTool creates a StatsTool over the given engine.
func NewStatsTool(eng *engine.Engine) *StatsTool {
	return &StatsTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_contact_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_contact_stats",
		mcp.WithDescription(
			"Engagement statistics for one contact: totals, direction split, first/last contact, average cadence.",
		),
		mcp.WithString("contact_id",
			mcp.Required(),
			mcp.Description("Contact ID (from crm_list_contacts)"),
		),
	)
}

// Handle processes the crm_contact_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID := req.GetString("contact_id", "")
	if contactID == "" {
		return mcp.NewToolResultError("'contact_id' is required"), nil
	}

	stats, err := t.eng.Stats(contactID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s:\n", stats.Name)
	fmt.Fprintf(&b, "Total interactions: %d (outgoing %d, incoming %d)\n",
		stats.Total, stats.Outgoing, stats.Incoming)
	if stats.First != nil {
		fmt.Fprintf(&b, "First: %s\n", stats.First.UTC().Format("2006-01-02"))
	}
	if stats.Last != nil {
		fmt.Fprintf(&b, "Last: %s\n", stats.Last.UTC().Format("2006-01-02"))
	}
	if stats.AvgDaysBetween != nil {
		fmt.Fprintf(&b, "Average days between interactions: %.1f\n", *stats.AvgDaysBetween)
	}
	return mcp.NewToolResultText(b.String()), nil
}
