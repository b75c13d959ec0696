package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// createItem is one element of the bulk_create_work_packages payload.
type createItem struct {
	ProjectID   int64  `json:"project_id"`
	Subject     string `json:"subject"`
	TypeID      int64  `json:"type_id"`
	Description string `json:"description,omitempty"`
	AssigneeID  int64  `json:"assignee_id,omitempty"`
	PriorityID  int64  `json:"priority_id,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

func (i createItem) toNewWorkPackage() op.NewWorkPackage {
	return op.NewWorkPackage{
		ProjectID:   i.ProjectID,
		Subject:     i.Subject,
		TypeID:      i.TypeID,
		Description: i.Description,
		AssigneeID:  i.AssigneeID,
		PriorityID:  i.PriorityID,
		StartDate:   i.StartDate,
		DueDate:     i.DueDate,
	}
}

// BulkCreateTool handles the bulk_create_work_packages MCP tool.
type BulkCreateTool struct {
	deps Deps
}

// NewBulkCreateTool creates a BulkCreateTool.
func NewBulkCreateTool(d Deps) *BulkCreateTool {
	return &BulkCreateTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_create_work_packages",
		mcp.WithDescription(
			"Create multiple work packages concurrently. Max 30 per call. Each item "+
				"requires project_id, subject, and type_id.",
		),
		mcp.WithString("work_packages",
			mcp.Required(),
			mcp.Description(
				`JSON array of work packages, e.g. `+
					`[{"project_id":5,"subject":"Task 1","type_id":1},`+
					`{"project_id":5,"subject":"Task 2","type_id":1,"assignee_id":3}]`,
			),
		),
	)
}

// Handle processes the bulk_create_work_packages tool call.
func (t *BulkCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var items []createItem
	if err := json.Unmarshal([]byte(req.GetString("work_packages", "")), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'work_packages' must be a JSON array: %v", err)), nil
	}

	// Per-item required fields are checked before anything is dispatched,
	// so a malformed item rejects the whole batch with no partial creates.
	for i, item := range items {
		if err := item.toNewWorkPackage().Validate(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("work package #%d: %v", i+1, err)), nil
		}
	}

	result, err := bulk.Run(ctx, bulk.OpCreate, t.deps.Retry.WithRetryable(op.IsRetryable), items,
		func(i createItem) string { return fmt.Sprintf("'%s'", i.Subject) },
		func(ctx context.Context, i createItem) (any, error) {
			return t.deps.API.CreateWorkPackage(ctx, i.toNewWorkPackage())
		})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.recordRun(ctx, result)

	var b strings.Builder
	b.WriteString(formatBulkResult("Bulk Create Complete", result))
	appendSuccessPreview(&b, result)
	return mcp.NewToolResultText(b.String()), nil
}
