package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListUsersTool handles the list_users MCP tool.
type ListUsersTool struct {
	deps Deps
}

// NewListUsersTool creates a ListUsersTool.
func NewListUsersTool(d Deps) *ListUsersTool {
	return &ListUsersTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListUsersTool) Definition() mcp.Tool {
	return mcp.NewTool("list_users",
		mcp.WithDescription("List users. Requires admin or manage_user permission on the instance."),
	)
}

// Handle processes the list_users tool call.
func (t *ListUsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.deps.API.ListUsers(ctx, "")
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing users: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No users found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d user(s):\n\n", len(elements))
	for _, u := range elements {
		fmt.Fprintf(&b, "- **%s** (ID: %d)", orUnknown(u.Str("name")), u.ID())
		if email := u.Str("email"); email != "" {
			fmt.Fprintf(&b, " — %s", email)
		}
		if status := u.Str("status"); status != "" && status != "active" {
			fmt.Fprintf(&b, " [%s]", status)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// GetUserTool handles the get_user MCP tool.
type GetUserTool struct {
	deps Deps
}

// NewGetUserTool creates a GetUserTool.
func NewGetUserTool(d Deps) *GetUserTool {
	return &GetUserTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetUserTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user",
		mcp.WithDescription("Get detailed information about a user."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The user id")),
	)
}

// Handle processes the get_user tool call.
func (t *GetUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	u, err := t.deps.API.GetUser(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting user #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s** (ID: %d)\n\n", orUnknown(u.Str("name")), u.ID())
	if login := u.Str("login"); login != "" {
		fmt.Fprintf(&b, "**Login**: %s\n", login)
	}
	if email := u.Str("email"); email != "" {
		fmt.Fprintf(&b, "**Email**: %s\n", email)
	}
	if status := u.Str("status"); status != "" {
		fmt.Fprintf(&b, "**Status**: %s\n", status)
	}
	if admin, ok := u["admin"].(bool); ok && admin {
		b.WriteString("**Admin**: yes\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
