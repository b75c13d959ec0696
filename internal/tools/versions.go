package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// ListVersionsTool handles the list_versions MCP tool.
type ListVersionsTool struct {
	deps Deps
}

// NewListVersionsTool creates a ListVersionsTool.
func NewListVersionsTool(d Deps) *ListVersionsTool {
	return &ListVersionsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListVersionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_versions",
		mcp.WithDescription("List versions (sprints, milestones), optionally scoped to a project."),
		mcp.WithNumber("project_id", mcp.Description("Scope to one project")),
	)
}

// Handle processes the list_versions tool call.
func (t *ListVersionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.deps.API.ListVersions(ctx, int64(req.GetFloat("project_id", 0)))
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing versions: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No versions found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d version(s):\n\n", len(elements))
	for _, v := range elements {
		fmt.Fprintf(&b, "- **%s** (ID: %d) — %s", orUnknown(v.Str("name")), v.ID(), orUnknown(v.Str("status")))
		if start, end := v.Str("startDate"), v.Str("endDate"); start != "" || end != "" {
			fmt.Fprintf(&b, " | %s → %s", orUnknown(start), orUnknown(end))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CreateVersionTool handles the create_version MCP tool.
type CreateVersionTool struct {
	deps Deps
}

// NewCreateVersionTool creates a CreateVersionTool.
func NewCreateVersionTool(d Deps) *CreateVersionTool {
	return &CreateVersionTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateVersionTool) Definition() mcp.Tool {
	return mcp.NewTool("create_version",
		mcp.WithDescription("Create a version (sprint, milestone) in a project."),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("The project the version belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Version name, e.g. 'Sprint 12'")),
		mcp.WithString("description", mcp.Description("Version description")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD)")),
		mcp.WithString("status",
			mcp.Description("Version status (default: open)"),
			mcp.Enum("open", "locked", "closed"),
		),
	)
}

// Handle processes the create_version tool call.
func (t *CreateVersionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := int64(req.GetFloat("project_id", 0))
	if projectID <= 0 {
		return mcp.NewToolResultError("'project_id' is required and must be a positive integer"), nil
	}
	v := op.NewVersion{
		Name:        strings.TrimSpace(req.GetString("name", "")),
		Description: req.GetString("description", ""),
		StartDate:   req.GetString("start_date", ""),
		EndDate:     req.GetString("end_date", ""),
		Status:      req.GetString("status", ""),
	}
	if v.Name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	created, err := t.deps.API.CreateVersion(ctx, projectID, v)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating version: %v", err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Created version **%s** (ID: %d)", created.Str("name"), created.ID(),
	)), nil
}
