package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	deps Deps
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(d Deps) *ListProjectsTool {
	return &ListProjectsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List the projects visible to the configured API user."),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.deps.API.ListProjects(ctx, "")
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing projects: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No projects found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d project(s):\n\n", len(elements))
	for _, p := range elements {
		status := "Inactive"
		if active, _ := p["active"].(bool); active {
			status = "Active"
		}
		fmt.Fprintf(&b, "- **%s** (ID: %d) — %s\n", orUnknown(p.Str("name")), p.ID(), status)
		if desc := p.Raw("description"); desc != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(desc, 100))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// GetProjectTool handles the get_project MCP tool.
type GetProjectTool struct {
	deps Deps
}

// NewGetProjectTool creates a GetProjectTool.
func NewGetProjectTool(d Deps) *GetProjectTool {
	return &GetProjectTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project",
		mcp.WithDescription("Get detailed information about a project."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The project id")),
	)
}

// Handle processes the get_project tool call.
func (t *GetProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	p, err := t.deps.API.GetProject(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting project #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s** (ID: %d)\n\n", orUnknown(p.Str("name")), p.ID())
	if identifier := p.Str("identifier"); identifier != "" {
		fmt.Fprintf(&b, "**Identifier**: %s\n", identifier)
	}
	if active, ok := p["active"].(bool); ok {
		fmt.Fprintf(&b, "**Active**: %t\n", active)
	}
	if public, ok := p["public"].(bool); ok {
		fmt.Fprintf(&b, "**Public**: %t\n", public)
	}
	if parent := p.LinkTitle("parent"); parent != "" {
		fmt.Fprintf(&b, "**Parent**: %s\n", parent)
	}
	if desc := p.Raw("description"); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CreateProjectTool handles the create_project MCP tool.
type CreateProjectTool struct {
	deps Deps
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(d Deps) *CreateProjectTool {
	return &CreateProjectTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("identifier", mcp.Description("URL identifier (derived from name when empty)")),
		mcp.WithString("description", mcp.Description("Project description (markdown)")),
		mcp.WithBoolean("public", mcp.Description("Visible without membership (default: false)")),
		mcp.WithNumber("parent_id", mcp.Description("Parent project id for subprojects")),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := op.NewProject{
		Name:        strings.TrimSpace(req.GetString("name", "")),
		Identifier:  req.GetString("identifier", ""),
		Description: req.GetString("description", ""),
		Public:      req.GetBool("public", false),
		ParentID:    int64(req.GetFloat("parent_id", 0)),
	}
	if p.Name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	created, err := t.deps.API.CreateProject(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating project: %v", err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Created project **%s** (ID: %d)", created.Str("name"), created.ID(),
	)), nil
}

// UpdateProjectTool handles the update_project MCP tool.
type UpdateProjectTool struct {
	deps Deps
}

// NewUpdateProjectTool creates an UpdateProjectTool.
func NewUpdateProjectTool(d Deps) *UpdateProjectTool {
	return &UpdateProjectTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("update_project",
		mcp.WithDescription("Update a project's name, description, or active state."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The project id")),
		mcp.WithString("name", mcp.Description("New project name")),
		mcp.WithString("description", mcp.Description("New project description (markdown)")),
		mcp.WithBoolean("active", mcp.Description("Unarchive (true) or archive (false) the project")),
	)
}

// Handle processes the update_project tool call.
func (t *UpdateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	name := req.GetString("name", "")
	description := req.GetString("description", "")
	var active *bool
	if v, ok := req.GetArguments()["active"].(bool); ok {
		active = &v
	}
	if name == "" && description == "" && active == nil {
		return mcp.NewToolResultError("no fields to update: provide name, description, or active"), nil
	}

	updated, err := t.deps.API.UpdateProject(ctx, id, name, description, active)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("updating project #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Updated project **%s** (ID: %d)", orUnknown(updated.Str("name")), updated.ID(),
	)), nil
}
