package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// BulkUpdateTool handles the bulk_update_work_packages MCP tool: the
// same partial update applied to up to 50 work packages concurrently.
type BulkUpdateTool struct {
	deps Deps
}

// NewBulkUpdateTool creates a BulkUpdateTool.
func NewBulkUpdateTool(d Deps) *BulkUpdateTool {
	return &BulkUpdateTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_update_work_packages",
		mcp.WithDescription(
			"Apply the same update to multiple work packages concurrently. "+
				"Max 50 per call. Transient failures are retried with exponential "+
				"backoff; the result reports per-item success and failure.",
		),
		mcp.WithString("work_package_ids",
			mcp.Required(),
			mcp.Description("Comma-separated work package ids (e.g. \"10,20,30\") — max 50"),
		),
		mcp.WithNumber("status_id", mcp.Description("New status id")),
		mcp.WithNumber("assignee_id", mcp.Description("New assignee user id")),
		mcp.WithNumber("priority_id", mcp.Description("New priority id")),
		mcp.WithNumber("version_id", mcp.Description("New version id")),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)")),
		mcp.WithString("due_date", mcp.Description("New due date (YYYY-MM-DD)")),
	)
}

// Handle processes the bulk_update_work_packages tool call.
func (t *BulkUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("work_package_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := op.WorkPackageUpdate{
		StatusID:   intPtr(req.GetFloat("status_id", 0)),
		AssigneeID: intPtr(req.GetFloat("assignee_id", 0)),
		PriorityID: intPtr(req.GetFloat("priority_id", 0)),
		VersionID:  intPtr(req.GetFloat("version_id", 0)),
		StartDate:  strPtr(req.GetString("start_date", "")),
		DueDate:    strPtr(req.GetString("due_date", "")),
	}
	if update.Empty() {
		return mcp.NewToolResultError("at least one update field must be provided"), nil
	}

	result, err := runBulkUpdate(ctx, t.deps, bulk.OpUpdate, ids, update)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(formatBulkResult("Bulk Update Complete", result))
	appendSuccessPreview(&b, result)
	return mcp.NewToolResultText(b.String()), nil
}

// runBulkUpdate fans the same update out over ids through the bulk
// engine. Shared by bulk update, set-parents, remove-parents, and the
// filtered update path.
func runBulkUpdate(ctx context.Context, d Deps, operation bulk.Operation, ids []int64, update op.WorkPackageUpdate) (*bulk.Result, error) {
	result, err := bulk.Run(ctx, operation, d.Retry.WithRetryable(op.IsRetryable), ids, idKey,
		func(ctx context.Context, id int64) (any, error) {
			return d.API.UpdateWorkPackage(ctx, id, update)
		})
	if err != nil {
		return nil, err
	}
	d.recordRun(ctx, result)
	return result, nil
}

// BulkSetParentsTool handles the bulk_set_parents MCP tool: attach up
// to 50 work packages under one parent, for sprint planning and work
// breakdown restructuring.
type BulkSetParentsTool struct {
	deps Deps
}

// NewBulkSetParentsTool creates a BulkSetParentsTool.
func NewBulkSetParentsTool(d Deps) *BulkSetParentsTool {
	return &BulkSetParentsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkSetParentsTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_set_parents",
		mcp.WithDescription(
			"Set the same parent on multiple work packages concurrently. Max 50 per call.",
		),
		mcp.WithString("work_package_ids",
			mcp.Required(),
			mcp.Description("Comma-separated child work package ids — max 50"),
		),
		mcp.WithNumber("parent_id",
			mcp.Required(),
			mcp.Description("The parent work package id"),
		),
	)
}

// Handle processes the bulk_set_parents tool call.
func (t *BulkSetParentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("work_package_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parentID := int64(req.GetFloat("parent_id", 0))
	if parentID <= 0 {
		return mcp.NewToolResultError("'parent_id' is required and must be a positive integer"), nil
	}
	for _, id := range ids {
		if id == parentID {
			return mcp.NewToolResultError(fmt.Sprintf("work package #%d cannot be its own parent", id)), nil
		}
	}

	result, err := bulk.Run(ctx, bulk.OpSetParent, t.deps.Retry.WithRetryable(op.IsRetryable), ids, idKey,
		func(ctx context.Context, id int64) (any, error) {
			return t.deps.API.SetParent(ctx, id, parentID)
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	title := fmt.Sprintf("Bulk Set Parent → #%d Complete", parentID)
	return mcp.NewToolResultText(formatBulkResult(title, result)), nil
}

// BulkRemoveParentsTool handles the bulk_remove_parents MCP tool:
// promote up to 50 work packages to top level.
type BulkRemoveParentsTool struct {
	deps Deps
}

// NewBulkRemoveParentsTool creates a BulkRemoveParentsTool.
func NewBulkRemoveParentsTool(d Deps) *BulkRemoveParentsTool {
	return &BulkRemoveParentsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkRemoveParentsTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_remove_parents",
		mcp.WithDescription(
			"Remove the parent from multiple work packages concurrently, promoting "+
				"them to top level. Max 50 per call.",
		),
		mcp.WithString("work_package_ids",
			mcp.Required(),
			mcp.Description("Comma-separated work package ids — max 50"),
		),
	)
}

// Handle processes the bulk_remove_parents tool call.
func (t *BulkRemoveParentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("work_package_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := bulk.Run(ctx, bulk.OpRemoveParent, t.deps.Retry.WithRetryable(op.IsRetryable), ids, idKey,
		func(ctx context.Context, id int64) (any, error) {
			return t.deps.API.RemoveParent(ctx, id)
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	return mcp.NewToolResultText(formatBulkResult("Bulk Remove Parent Complete", result)), nil
}
