package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SetParentTool handles the set_parent MCP tool.
type SetParentTool struct {
	deps Deps
}

// NewSetParentTool creates a SetParentTool.
func NewSetParentTool(d Deps) *SetParentTool {
	return &SetParentTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *SetParentTool) Definition() mcp.Tool {
	return mcp.NewTool("set_parent",
		mcp.WithDescription("Make one work package the child of another (hierarchy link)."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The child work package id")),
		mcp.WithNumber("parent_id", mcp.Required(), mcp.Description("The parent work package id")),
	)
}

// Handle processes the set_parent tool call.
func (t *SetParentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	parentID := int64(req.GetFloat("parent_id", 0))
	if id <= 0 || parentID <= 0 {
		return mcp.NewToolResultError("'id' and 'parent_id' are required and must be positive integers"), nil
	}
	if id == parentID {
		return mcp.NewToolResultError("a work package cannot be its own parent"), nil
	}

	updated, err := t.deps.API.SetParent(ctx, id, parentID)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("setting parent of #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Work package #%d is now a child of #%d (%s)",
		id, parentID, orUnknown(updated.LinkTitle("parent")),
	)), nil
}

// RemoveParentTool handles the remove_parent MCP tool.
type RemoveParentTool struct {
	deps Deps
}

// NewRemoveParentTool creates a RemoveParentTool.
func NewRemoveParentTool(d Deps) *RemoveParentTool {
	return &RemoveParentTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *RemoveParentTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_parent",
		mcp.WithDescription("Remove a work package's parent, promoting it to top level."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The work package id")),
	)
}

// Handle processes the remove_parent tool call.
func (t *RemoveParentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	if _, err := t.deps.API.RemoveParent(ctx, id); err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("removing parent of #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Work package #%d is now top-level", id)), nil
}

// ListChildrenTool handles the list_children MCP tool.
type ListChildrenTool struct {
	deps Deps
}

// NewListChildrenTool creates a ListChildrenTool.
func NewListChildrenTool(d Deps) *ListChildrenTool {
	return &ListChildrenTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListChildrenTool) Definition() mcp.Tool {
	return mcp.NewTool("list_children",
		mcp.WithDescription("List the direct children of a work package."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The parent work package id")),
	)
}

// Handle processes the list_children tool call.
func (t *ListChildrenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	children, err := t.deps.API.ListChildren(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing children of #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(formatWorkPackageList(children)), nil
}
