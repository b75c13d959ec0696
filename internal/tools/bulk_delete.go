package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// BulkDeleteTool handles the bulk_delete_work_packages MCP tool.
// Destructive, so the batch ceiling is 30 instead of 50.
type BulkDeleteTool struct {
	deps Deps
}

// NewBulkDeleteTool creates a BulkDeleteTool.
func NewBulkDeleteTool(d Deps) *BulkDeleteTool {
	return &BulkDeleteTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_delete_work_packages",
		mcp.WithDescription(
			"Delete multiple work packages concurrently. PERMANENT — deleted work "+
				"packages cannot be recovered. Max 30 per call. Ask the user for "+
				"explicit confirmation before calling this.",
		),
		mcp.WithString("work_package_ids",
			mcp.Required(),
			mcp.Description("Comma-separated work package ids — max 30"),
		),
	)
}

// Handle processes the bulk_delete_work_packages tool call.
func (t *BulkDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("work_package_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := bulk.Run(ctx, bulk.OpDelete, t.deps.Retry.WithRetryable(op.IsRetryable), ids, idKey,
		func(ctx context.Context, id int64) (any, error) {
			if err := t.deps.API.DeleteWorkPackage(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"id": id, "deleted": true}, nil
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	return mcp.NewToolResultText(formatBulkResult("Bulk Delete Complete", result)), nil
}
