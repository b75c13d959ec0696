package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// CreateWorkPackageTool handles the create_work_package MCP tool.
type CreateWorkPackageTool struct {
	deps Deps
}

// NewCreateWorkPackageTool creates a CreateWorkPackageTool.
func NewCreateWorkPackageTool(d Deps) *CreateWorkPackageTool {
	return &CreateWorkPackageTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateWorkPackageTool) Definition() mcp.Tool {
	return mcp.NewTool("create_work_package",
		mcp.WithDescription("Create a single work package. Requires project, subject, and type."),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project to create the work package in")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Work package title")),
		mcp.WithNumber("type_id", mcp.Required(), mcp.Description("Work package type id (e.g. 1 = Task)")),
		mcp.WithString("description", mcp.Description("Description (markdown)")),
		mcp.WithNumber("assignee_id", mcp.Description("User id to assign")),
		mcp.WithNumber("priority_id", mcp.Description("Priority id")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD)")),
	)
}

// Handle processes the create_work_package tool call.
func (t *CreateWorkPackageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wp := op.NewWorkPackage{
		ProjectID:   int64(req.GetFloat("project_id", 0)),
		Subject:     strings.TrimSpace(req.GetString("subject", "")),
		TypeID:      int64(req.GetFloat("type_id", 0)),
		Description: req.GetString("description", ""),
		AssigneeID:  int64(req.GetFloat("assignee_id", 0)),
		PriorityID:  int64(req.GetFloat("priority_id", 0)),
		StartDate:   req.GetString("start_date", ""),
		DueDate:     req.GetString("due_date", ""),
	}
	if err := wp.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := t.deps.API.CreateWorkPackage(ctx, wp)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating work package: %v", err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Created work package **#%d: %s**", created.ID(), created.Subject(),
	)), nil
}

// UpdateWorkPackageTool handles the update_work_package MCP tool.
type UpdateWorkPackageTool struct {
	deps Deps
}

// NewUpdateWorkPackageTool creates an UpdateWorkPackageTool.
func NewUpdateWorkPackageTool(d Deps) *UpdateWorkPackageTool {
	return &UpdateWorkPackageTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateWorkPackageTool) Definition() mcp.Tool {
	return mcp.NewTool("update_work_package",
		mcp.WithDescription("Update fields of a single work package. Only provided fields change."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work package id")),
		mcp.WithString("subject", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description (markdown)")),
		mcp.WithNumber("status_id", mcp.Description("New status id")),
		mcp.WithNumber("priority_id", mcp.Description("New priority id")),
		mcp.WithNumber("assignee_id", mcp.Description("New assignee user id")),
		mcp.WithNumber("version_id", mcp.Description("New version id")),
		mcp.WithNumber("percentage_done", mcp.Description("Progress percentage (0-100)")),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)")),
		mcp.WithString("due_date", mcp.Description("New due date (YYYY-MM-DD)")),
	)
}

// Handle processes the update_work_package tool call.
func (t *UpdateWorkPackageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	update := op.WorkPackageUpdate{
		Subject:     strPtr(req.GetString("subject", "")),
		Description: strPtr(req.GetString("description", "")),
		StatusID:    intPtr(req.GetFloat("status_id", 0)),
		PriorityID:  intPtr(req.GetFloat("priority_id", 0)),
		AssigneeID:  intPtr(req.GetFloat("assignee_id", 0)),
		VersionID:   intPtr(req.GetFloat("version_id", 0)),
		StartDate:   strPtr(req.GetString("start_date", "")),
		DueDate:     strPtr(req.GetString("due_date", "")),
	}
	if pct := req.GetFloat("percentage_done", -1); pct >= 0 {
		v := int(pct)
		update.PercentageDone = &v
	}
	if update.Empty() {
		return mcp.NewToolResultError("at least one update field must be provided"), nil
	}

	updated, err := t.deps.API.UpdateWorkPackage(ctx, id, update)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("updating work package #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Updated work package **#%d: %s**\nStatus: %s",
		updated.ID(), updated.Subject(), orUnknown(updated.LinkTitle("status")),
	)), nil
}

// DeleteWorkPackageTool handles the delete_work_package MCP tool.
type DeleteWorkPackageTool struct {
	deps Deps
}

// NewDeleteWorkPackageTool creates a DeleteWorkPackageTool.
func NewDeleteWorkPackageTool(d Deps) *DeleteWorkPackageTool {
	return &DeleteWorkPackageTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteWorkPackageTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_work_package",
		mcp.WithDescription("Delete a work package permanently. This cannot be undone."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work package id")),
	)
}

// Handle processes the delete_work_package tool call.
func (t *DeleteWorkPackageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	if err := t.deps.API.DeleteWorkPackage(ctx, id); err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("deleting work package #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted work package #%d", id)), nil
}

// AddCommentTool handles the add_comment MCP tool.
type AddCommentTool struct {
	deps Deps
}

// NewAddCommentTool creates an AddCommentTool.
func NewAddCommentTool(d Deps) *AddCommentTool {
	return &AddCommentTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a work package's activity stream."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work package id")),
		mcp.WithString("comment", mcp.Required(), mcp.Description("Comment text (markdown)")),
		mcp.WithBoolean("internal", mcp.Description("Visible to project members only (default: false)")),
	)
}

// Handle processes the add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}
	comment := strings.TrimSpace(req.GetString("comment", ""))
	if comment == "" {
		return mcp.NewToolResultError("'comment' cannot be empty"), nil
	}

	_, err := t.deps.API.AddComment(ctx, id, comment, req.GetBool("internal", false))
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("adding comment to #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Comment added to work package #%d", id)), nil
}
