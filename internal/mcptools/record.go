package mcptools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/obrienmichael/personal-crm/internal/engine"
)

// RecordTool handles the crm_record_interaction MCP tool.
type RecordTool struct {
	eng *engine.Engine
}

// NewRecordTool creates a RecordTool over the given engine.
func NewRecordTool(eng *engine.Engine) *RecordTool {
	return &RecordTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_record_interaction.
func (t *RecordTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_record_interaction",
		mcp.WithDescription(
			"Log an interaction (call, message, meeting) with a contact. Creates the contact "+
				"automatically if they don't exist yet and updates their last-contact timestamp.",
		),
		mcp.WithString("contact_name",
			mcp.Required(),
			mcp.Description("Display name of the contact (e.g. 'Alice Chen')"),
		),
		mcp.WithString("interaction_type",
			mcp.Required(),
			mcp.Description("One of: phone_call, facetime_audio, facetime_video, sms, imessage, email, calendar_meeting"),
		),
		mcp.WithString("direction",
			mcp.Description("incoming or outgoing"),
		),
		mcp.WithNumber("duration_seconds",
			mcp.Description("Duration in seconds (calls and meetings)"),
		),
		mcp.WithString("subject",
			mcp.Description("Subject line (email and meetings)"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes about the interaction"),
		),
		mcp.WithString("occurred_at",
			mcp.Description("When it happened, RFC3339 (default: now; backdating is fine)"),
		),
	)
}

// Handle processes the crm_record_interaction tool call.
func (t *RecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec := engine.RecordRequest{
		ContactName:     req.GetString("contact_name", ""),
		InteractionType: req.GetString("interaction_type", ""),
		Direction:       req.GetString("direction", ""),
		Subject:         req.GetString("subject", ""),
		Notes:           req.GetString("notes", ""),
	}

	if v, ok := req.GetArguments()["duration_seconds"].(float64); ok {
		d := int64(v)
		rec.DurationSeconds = &d
	}
	if raw := req.GetString("occurred_at", ""); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("occurred_at must be RFC3339, got %q", raw)), nil
		}
		rec.OccurredAt = &ts
	}

	interaction, contact, err := t.eng.RecordInteraction(rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Logged %s with %s at %s",
		interaction.TypeName, contact.Name, fmtMS(interaction.OccurredAt))
	if interaction.Direction != "" {
		response += fmt.Sprintf(" (%s)", interaction.Direction)
	}
	response += fmt.Sprintf("\nContact last interaction: %s", fmtMSPtr(contact.LastInteraction))
	response += fmt.Sprintf("\nInteraction ID: %s", interaction.ID)

	return mcp.NewToolResultText(response), nil
}
