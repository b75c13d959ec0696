package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// BulkHistoryTool handles the bulk_history MCP tool: a local audit log
// of executed bulk batches. Registered only when the audit store is
// available.
type BulkHistoryTool struct {
	deps Deps
}

// NewBulkHistoryTool creates a BulkHistoryTool.
func NewBulkHistoryTool(d Deps) *BulkHistoryTool {
	return &BulkHistoryTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_history",
		mcp.WithDescription(
			"Show the most recent bulk operations executed through this server, "+
				"with their success/failure counts.",
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to show (default: 20)")),
	)
}

// Handle processes the bulk_history tool call.
func (t *BulkHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.deps.Audit.Recent(ctx, int(req.GetFloat("limit", 0)))
	if err != nil {
		return nil, fmt.Errorf("reading bulk history: %w", err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No bulk operations recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Bulk Operation History (%d run(s))\n\n", len(entries))
	for _, e := range entries {
		marker := "✅"
		if e.Failed > 0 {
			marker = "⚠️"
		}
		fmt.Fprintf(&b, "%s **%s** — %d/%d succeeded, %d failed, %.2fs (%s)\n",
			marker, e.Operation, e.Succeeded, e.Total, e.Failed,
			e.Duration.Seconds(), e.StartedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return mcp.NewToolResultText(b.String()), nil
}
