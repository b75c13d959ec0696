package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// ListWorkPackagesTool handles the list_work_packages MCP tool.
type ListWorkPackagesTool struct {
	deps Deps
}

// NewListWorkPackagesTool creates a ListWorkPackagesTool.
func NewListWorkPackagesTool(d Deps) *ListWorkPackagesTool {
	return &ListWorkPackagesTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListWorkPackagesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_work_packages",
		mcp.WithDescription(
			"List work packages, optionally scoped to a project. By default only "+
				"work packages in an open status are returned.",
		),
		mcp.WithNumber("project_id",
			mcp.Description("Scope the query to one project"),
		),
		mcp.WithBoolean("include_closed",
			mcp.Description("Include work packages in closed statuses (default: false)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of results (default: 20)"),
		),
	)
}

// Handle processes the list_work_packages tool call.
func (t *ListWorkPackagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := op.NewFilters()
	if !req.GetBool("include_closed", false) {
		filters.Open()
	}

	result, err := t.deps.API.ListWorkPackages(ctx, op.ListWorkPackagesOptions{
		ProjectID: int64(req.GetFloat("project_id", 0)),
		Filters:   filters.Encode(),
		PageSize:  int(req.GetFloat("page_size", 0)),
	})
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing work packages: %v", err))), nil
	}

	return mcp.NewToolResultText(formatWorkPackageList(result)), nil
}

// GetWorkPackageTool handles the get_work_package MCP tool.
type GetWorkPackageTool struct {
	deps Deps
}

// NewGetWorkPackageTool creates a GetWorkPackageTool.
func NewGetWorkPackageTool(d Deps) *GetWorkPackageTool {
	return &GetWorkPackageTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetWorkPackageTool) Definition() mcp.Tool {
	return mcp.NewTool("get_work_package",
		mcp.WithDescription("Retrieve one work package by id with full detail."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The work package id"),
		),
	)
}

// Handle processes the get_work_package tool call.
func (t *GetWorkPackageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	wp, err := t.deps.API.GetWorkPackage(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting work package #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(formatWorkPackageDetail(wp)), nil
}
