package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/obrienmichael/personal-crm/internal/engine"
)

// ContactsTool handles the crm_list_contacts MCP tool.
type ContactsTool struct {
	eng *engine.Engine
}

// NewContactsTool creates a ContactsTool over the given engine.
func NewContactsTool(eng *engine.Engine) *ContactsTool {
	return &ContactsTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_list_contacts.
func (t *ContactsTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_list_contacts",
		mcp.WithDescription(
			"List all contacts ordered by most recent interaction. Never-contacted contacts sort last.",
		),
	)
}

// Handle processes the crm_list_contacts tool call.
func (t *ContactsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts, err := t.eng.ListContacts()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(contacts) == 0 {
		return mcp.NewToolResultText("No contacts yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d contacts:\n", len(contacts))
	for _, c := range contacts {
		fmt.Fprintf(&b, "- %s (%s), last contact: %s [id: %s]\n",
			c.Name, c.RelationshipType, fmtMSPtr(c.LastInteraction), c.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ContactDetailsTool handles the crm_contact_details MCP tool.
type ContactDetailsTool struct {
	eng *engine.Engine
}

// NewContactDetailsTool creates a ContactDetailsTool over the given engine.
func NewContactDetailsTool(eng *engine.Engine) *ContactDetailsTool {
	return &ContactDetailsTool{eng: eng}
}

// Definition returns the MCP tool definition for crm_contact_details.
func (t *ContactDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_contact_details",
		mcp.WithDescription("Show one contact's record and full interaction history."),
		mcp.WithString("contact_id",
			mcp.Required(),
			mcp.Description("Contact ID (from crm_list_contacts)"),
		),
	)
}

// Handle processes the crm_contact_details tool call.
func (t *ContactDetailsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID := req.GetString("contact_id", "")
	if contactID == "" {
		return mcp.NewToolResultError("'contact_id' is required"), nil
	}

	contact, history, err := t.eng.ContactDetails(contactID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", contact.Name, contact.RelationshipType)
	if contact.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", contact.Phone)
	}
	if contact.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", contact.Email)
	}
	fmt.Fprintf(&b, "Last contact: %s\n", fmtMSPtr(contact.LastInteraction))
	fmt.Fprintf(&b, "\n%d interactions:\n", len(history))
	for _, in := range history {
		line := fmt.Sprintf("- %s %s", fmtMS(in.OccurredAt), in.TypeName)
		if in.Direction != "" {
			line += " " + in.Direction
		}
		if in.Subject != "" {
			line += fmt.Sprintf(": %q", in.Subject)
		}
		b.WriteString(line + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
