package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// ListMembershipsTool handles the list_memberships MCP tool.
type ListMembershipsTool struct {
	deps Deps
}

// NewListMembershipsTool creates a ListMembershipsTool.
func NewListMembershipsTool(d Deps) *ListMembershipsTool {
	return &ListMembershipsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListMembershipsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_memberships",
		mcp.WithDescription("List project memberships (who is a member of what, with which roles)."),
		mcp.WithNumber("project_id", mcp.Description("Only memberships in this project")),
		mcp.WithNumber("user_id", mcp.Description("Only memberships held by this user")),
	)
}

// Handle processes the list_memberships tool call.
func (t *ListMembershipsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := int64(req.GetFloat("project_id", 0))
	userID := int64(req.GetFloat("user_id", 0))

	result, err := t.deps.API.ListMemberships(ctx, projectID, userID)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing memberships: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No memberships found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d membership(s):\n\n", len(elements))
	for _, m := range elements {
		fmt.Fprintf(&b, "- **%s** (membership #%d)\n", orUnknown(m.LinkTitle("principal")), m.ID())
		if projectID == 0 {
			fmt.Fprintf(&b, "  Project: %s\n", orUnknown(m.LinkTitle("project")))
		}
		if roles := m.LinkTitles("roles"); len(roles) > 0 {
			fmt.Fprintf(&b, "  Roles: %s\n", strings.Join(roles, ", "))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// GetMembershipTool handles the get_membership MCP tool.
type GetMembershipTool struct {
	deps Deps
}

// NewGetMembershipTool creates a GetMembershipTool.
func NewGetMembershipTool(d Deps) *GetMembershipTool {
	return &GetMembershipTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetMembershipTool) Definition() mcp.Tool {
	return mcp.NewTool("get_membership",
		mcp.WithDescription("Get detailed information about a project membership."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The membership id")),
	)
}

// Handle processes the get_membership tool call.
func (t *GetMembershipTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	m, err := t.deps.API.GetMembership(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting membership #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Membership #%d**\n\n", m.ID())
	fmt.Fprintf(&b, "**Project**: %s\n", orUnknown(m.LinkTitle("project")))
	fmt.Fprintf(&b, "**Member**: %s\n", orUnknown(m.LinkTitle("principal")))
	if roles := m.LinkTitles("roles"); len(roles) > 0 {
		fmt.Fprintf(&b, "**Roles**: %s\n", strings.Join(roles, ", "))
	}
	if created := m.Str("createdAt"); created != "" {
		fmt.Fprintf(&b, "**Created**: %s\n", created)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CreateMembershipTool handles the create_membership MCP tool.
type CreateMembershipTool struct {
	deps Deps
}

// NewCreateMembershipTool creates a CreateMembershipTool.
func NewCreateMembershipTool(d Deps) *CreateMembershipTool {
	return &CreateMembershipTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateMembershipTool) Definition() mcp.Tool {
	return mcp.NewTool("create_membership",
		mcp.WithDescription(
			"Add a user or group to a project with one or more roles. Provide "+
				"exactly one of user_id or group_id.",
		),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("The project to add the member to")),
		mcp.WithNumber("user_id", mcp.Description("User to add")),
		mcp.WithNumber("group_id", mcp.Description("Group to add")),
		mcp.WithString("role_ids", mcp.Required(), mcp.Description("Comma-separated role ids, e.g. '3' or '3,5'")),
		mcp.WithString("message", mcp.Description("Optional notification message sent to the new member")),
	)
}

// Handle processes the create_membership tool call.
func (t *CreateMembershipTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roleIDs, err := parseIDList(req.GetString("role_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'role_ids': %v", err)), nil
	}

	m := op.NewMembership{
		ProjectID: int64(req.GetFloat("project_id", 0)),
		UserID:    int64(req.GetFloat("user_id", 0)),
		GroupID:   int64(req.GetFloat("group_id", 0)),
		RoleIDs:   roleIDs,
		Message:   req.GetString("message", ""),
	}
	if err := m.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := t.deps.API.CreateMembership(ctx, m)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating membership: %v", err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Created membership #%d", created.ID())
	if principal := created.LinkTitle("principal"); principal != "" {
		fmt.Fprintf(&b, ": **%s**", principal)
	}
	if roles := created.LinkTitles("roles"); len(roles) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(roles, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// UpdateMembershipTool handles the update_membership MCP tool.
type UpdateMembershipTool struct {
	deps Deps
}

// NewUpdateMembershipTool creates an UpdateMembershipTool.
func NewUpdateMembershipTool(d Deps) *UpdateMembershipTool {
	return &UpdateMembershipTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateMembershipTool) Definition() mcp.Tool {
	return mcp.NewTool("update_membership",
		mcp.WithDescription("Replace a membership's roles."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The membership id")),
		mcp.WithString("role_ids", mcp.Required(), mcp.Description("Comma-separated role ids replacing the current ones")),
		mcp.WithString("message", mcp.Description("Optional notification message sent to the member")),
	)
}

// Handle processes the update_membership tool call.
func (t *UpdateMembershipTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}
	roleIDs, err := parseIDList(req.GetString("role_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'role_ids': %v", err)), nil
	}
	if len(roleIDs) == 0 {
		return mcp.NewToolResultError("'role_ids' must name at least one role"), nil
	}

	updated, err := t.deps.API.UpdateMembership(ctx, id, roleIDs, req.GetString("message", ""))
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("updating membership #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Updated membership #%d", id)
	if roles := updated.LinkTitles("roles"); len(roles) > 0 {
		fmt.Fprintf(&b, " — roles: %s", strings.Join(roles, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// DeleteMembershipTool handles the delete_membership MCP tool.
type DeleteMembershipTool struct {
	deps Deps
}

// NewDeleteMembershipTool creates a DeleteMembershipTool.
func NewDeleteMembershipTool(d Deps) *DeleteMembershipTool {
	return &DeleteMembershipTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteMembershipTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_membership",
		mcp.WithDescription("Remove a user or group from a project permanently."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The membership id")),
	)
}

// Handle processes the delete_membership tool call.
func (t *DeleteMembershipTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	if err := t.deps.API.DeleteMembership(ctx, id); err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("deleting membership #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted membership #%d", id)), nil
}
