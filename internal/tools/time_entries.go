package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// ListTimeEntriesTool handles the list_time_entries MCP tool.
type ListTimeEntriesTool struct {
	deps Deps
}

// NewListTimeEntriesTool creates a ListTimeEntriesTool.
func NewListTimeEntriesTool(d Deps) *ListTimeEntriesTool {
	return &ListTimeEntriesTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTimeEntriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_time_entries",
		mcp.WithDescription("List logged time entries, optionally for one work package or user."),
		mcp.WithNumber("work_package_id", mcp.Description("Only entries for this work package")),
		mcp.WithNumber("user_id", mcp.Description("Only entries logged by this user")),
	)
}

// Handle processes the list_time_entries tool call.
func (t *ListTimeEntriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var parts []string
	if wpID := int64(req.GetFloat("work_package_id", 0)); wpID > 0 {
		parts = append(parts, fmt.Sprintf(`{"work_package":{"operator":"=","values":["%d"]}}`, wpID))
	}
	if userID := int64(req.GetFloat("user_id", 0)); userID > 0 {
		parts = append(parts, fmt.Sprintf(`{"user":{"operator":"=","values":["%d"]}}`, userID))
	}
	filters := ""
	if len(parts) > 0 {
		filters = "[" + strings.Join(parts, ",") + "]"
	}

	result, err := t.deps.API.ListTimeEntries(ctx, filters)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing time entries: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No time entries found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d time entry(ies):\n\n", len(elements))
	for _, e := range elements {
		fmt.Fprintf(&b, "- #%d: %s on %s — %s (%s)\n",
			e.ID(), orUnknown(e.Str("hours")), e.Str("spentOn"),
			orUnknown(e.LinkTitle("workPackage")), orUnknown(e.LinkTitle("user")),
		)
		if comment := e.Raw("comment"); comment != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(comment, 100))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CreateTimeEntryTool handles the create_time_entry MCP tool.
type CreateTimeEntryTool struct {
	deps Deps
}

// NewCreateTimeEntryTool creates a CreateTimeEntryTool.
func NewCreateTimeEntryTool(d Deps) *CreateTimeEntryTool {
	return &CreateTimeEntryTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTimeEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("create_time_entry",
		mcp.WithDescription("Log time against a work package."),
		mcp.WithNumber("work_package_id", mcp.Required(), mcp.Description("Work package to log against")),
		mcp.WithNumber("hours", mcp.Required(), mcp.Description("Hours spent (e.g. 1.5)")),
		mcp.WithString("spent_on", mcp.Required(), mcp.Description("Date the time was spent (YYYY-MM-DD)")),
		mcp.WithString("comment", mcp.Description("What the time was spent on")),
		mcp.WithNumber("activity_id", mcp.Description("Time entry activity id")),
	)
}

// Handle processes the create_time_entry tool call.
func (t *CreateTimeEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry := op.NewTimeEntry{
		WorkPackageID: int64(req.GetFloat("work_package_id", 0)),
		Hours:         req.GetFloat("hours", 0),
		SpentOn:       req.GetString("spent_on", ""),
		Comment:       req.GetString("comment", ""),
		ActivityID:    int64(req.GetFloat("activity_id", 0)),
	}

	created, err := t.deps.API.CreateTimeEntry(ctx, entry)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating time entry: %v", err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Logged %s on %s (entry #%d)",
		orUnknown(created.Str("hours")), created.Str("spentOn"), created.ID(),
	)), nil
}

// DeleteTimeEntryTool handles the delete_time_entry MCP tool.
type DeleteTimeEntryTool struct {
	deps Deps
}

// NewDeleteTimeEntryTool creates a DeleteTimeEntryTool.
func NewDeleteTimeEntryTool(d Deps) *DeleteTimeEntryTool {
	return &DeleteTimeEntryTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTimeEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_time_entry",
		mcp.WithDescription("Delete a logged time entry permanently."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The time entry id")),
	)
}

// Handle processes the delete_time_entry tool call.
func (t *DeleteTimeEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	if err := t.deps.API.DeleteTimeEntry(ctx, id); err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("deleting time entry #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted time entry #%d", id)), nil
}

// ListTimeEntryActivitiesTool handles the list_time_entry_activities MCP tool.
type ListTimeEntryActivitiesTool struct {
	deps Deps
}

// NewListTimeEntryActivitiesTool creates a ListTimeEntryActivitiesTool.
func NewListTimeEntryActivitiesTool(d Deps) *ListTimeEntryActivitiesTool {
	return &ListTimeEntryActivitiesTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTimeEntryActivitiesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_time_entry_activities",
		mcp.WithDescription("List the activities time can be logged under (development, meeting, ...)."),
	)
}

// Handle processes the list_time_entry_activities tool call.
func (t *ListTimeEntryActivitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.deps.API.GetTimeEntryActivities(ctx)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing time entry activities: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No time entry activities found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d activity(ies):\n\n", len(elements))
	for _, a := range elements {
		fmt.Fprintf(&b, "- **%s** (ID: %d)", orUnknown(a.Str("name")), a.ID())
		if def, ok := a["default"].(bool); ok && def {
			b.WriteString(" [default]")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
