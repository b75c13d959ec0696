package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// relationItem is one element of the bulk_create_relations payload.
type relationItem struct {
	FromID      int64  `json:"from_id"`
	ToID        int64  `json:"to_id"`
	Type        string `json:"type"`
	Lag         int    `json:"lag,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r relationItem) toNewRelation() op.NewRelation {
	return op.NewRelation{
		FromID:      r.FromID,
		ToID:        r.ToID,
		Type:        r.Type,
		Lag:         r.Lag,
		Description: r.Description,
	}
}

// BulkCreateRelationsTool handles the bulk_create_relations MCP tool:
// dependency chains, duplicate markers, block relationships, created
// concurrently.
type BulkCreateRelationsTool struct {
	deps Deps
}

// NewBulkCreateRelationsTool creates a BulkCreateRelationsTool.
func NewBulkCreateRelationsTool(d Deps) *BulkCreateRelationsTool {
	return &BulkCreateRelationsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkCreateRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_create_relations",
		mcp.WithDescription(
			"Create multiple work package relations concurrently. Max 30 per call. "+
				"Each item requires from_id, to_id, and type.",
		),
		mcp.WithString("relations",
			mcp.Required(),
			mcp.Description(
				`JSON array of relations, e.g. `+
					`[{"from_id":10,"to_id":20,"type":"follows"},`+
					`{"from_id":20,"to_id":30,"type":"follows","lag":2}]`,
			),
		),
	)
}

// Handle processes the bulk_create_relations tool call.
func (t *BulkCreateRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var items []relationItem
	if err := json.Unmarshal([]byte(req.GetString("relations", "")), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'relations' must be a JSON array: %v", err)), nil
	}

	for i, item := range items {
		if err := item.toNewRelation().Validate(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("relation #%d: %v", i+1, err)), nil
		}
	}

	result, err := bulk.Run(ctx, bulk.OpCreateRelation, t.deps.Retry.WithRetryable(op.IsRetryable), items,
		func(i relationItem) string { return i.toNewRelation().Key() },
		func(ctx context.Context, i relationItem) (any, error) {
			return t.deps.API.CreateRelation(ctx, i.toNewRelation())
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	return mcp.NewToolResultText(formatBulkResult("Bulk Create Relations Complete", result)), nil
}

// BulkDeleteRelationsTool handles the bulk_delete_relations MCP tool.
// Destructive, so the batch ceiling is 30.
type BulkDeleteRelationsTool struct {
	deps Deps
}

// NewBulkDeleteRelationsTool creates a BulkDeleteRelationsTool.
func NewBulkDeleteRelationsTool(d Deps) *BulkDeleteRelationsTool {
	return &BulkDeleteRelationsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkDeleteRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_delete_relations",
		mcp.WithDescription(
			"Delete multiple work package relations concurrently. PERMANENT. "+
				"Max 30 per call. Ask the user for explicit confirmation first.",
		),
		mcp.WithString("relation_ids",
			mcp.Required(),
			mcp.Description("Comma-separated relation ids — max 30"),
		),
	)
}

// Handle processes the bulk_delete_relations tool call.
func (t *BulkDeleteRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDList(req.GetString("relation_ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := bulk.Run(ctx, bulk.OpDeleteRelation, t.deps.Retry.WithRetryable(op.IsRetryable), ids, relKey,
		func(ctx context.Context, id int64) (any, error) {
			if err := t.deps.API.DeleteRelation(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"id": id, "deleted": true}, nil
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	return mcp.NewToolResultText(formatBulkResult("Bulk Delete Relations Complete", result)), nil
}
