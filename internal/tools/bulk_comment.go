package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// BulkCommentTool handles the bulk_add_comment MCP tool: the same
// comment posted to up to 50 work packages concurrently.
type BulkCommentTool struct {
	deps Deps
}

// NewBulkCommentTool creates a BulkCommentTool.
func NewBulkCommentTool(d Deps) *BulkCommentTool {
	return &BulkCommentTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_add_comment",
		mcp.WithDescription(
			"Add the same comment to multiple work packages concurrently. Useful "+
				"for status updates and bulk notifications. Max 50 per call.",
		),
		mcp.WithString("work_package_ids",
			mcp.Required(),
			mcp.Description("Comma-separated work package ids — max 50"),
		),
		mcp.WithString("comment",
			mcp.Required(),
			mcp.Description("Comment text to add (markdown)"),
		),
		mcp.WithBoolean("internal",
			mcp.Description("Visible to project members only (default: false)"),
		),
	)
}

// Handle processes the bulk_add_comment tool call.
func (t *BulkCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("work_package_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	comment := strings.TrimSpace(req.GetString("comment", ""))
	if comment == "" {
		return mcp.NewToolResultError("'comment' cannot be empty"), nil
	}
	internal := req.GetBool("internal", false)

	result, err := bulk.Run(ctx, bulk.OpAddComment, t.deps.Retry.WithRetryable(op.IsRetryable), ids, idKey,
		func(ctx context.Context, id int64) (any, error) {
			return t.deps.API.AddComment(ctx, id, comment, internal)
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	var b strings.Builder
	b.WriteString(formatBulkResult("Bulk Comment Complete", result))
	fmt.Fprintf(&b, "\n**Comment**: %q\n**Internal**: %t\n", truncate(comment, 50), internal)
	return mcp.NewToolResultText(b.String()), nil
}
