package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

const defaultFilteredMax = 50

// BulkUpdateFilteredTool handles the bulk_update_filtered_work_packages
// MCP tool: resolve a filter query into a concrete work package list,
// then run the generic bulk-update path over it. Dry-run is the default
// and issues no write whatsoever — only the read query that resolves
// the filter.
type BulkUpdateFilteredTool struct {
	deps Deps
}

// NewBulkUpdateFilteredTool creates a BulkUpdateFilteredTool.
func NewBulkUpdateFilteredTool(d Deps) *BulkUpdateFilteredTool {
	return &BulkUpdateFilteredTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *BulkUpdateFilteredTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_update_filtered_work_packages",
		mcp.WithDescription(
			"Apply a bulk update to all work packages matching filter criteria. "+
				"SAFETY: dry_run defaults to true and shows a preview without "+
				"changing anything. Call again with dry_run=false to execute.",
		),
		// Filter criteria
		mcp.WithNumber("project_id", mcp.Description("Filter: project")),
		mcp.WithNumber("assignee_id", mcp.Description("Filter: current assignee")),
		mcp.WithString("status_ids", mcp.Description("Filter: comma-separated status ids")),
		mcp.WithString("priority_ids", mcp.Description("Filter: comma-separated priority ids")),
		mcp.WithString("type_ids", mcp.Description("Filter: comma-separated type ids")),
		mcp.WithBoolean("overdue_only", mcp.Description("Filter: only open, overdue work packages")),
		mcp.WithBoolean("unassigned_only", mcp.Description("Filter: only unassigned work packages")),
		// Update payload
		mcp.WithNumber("update_assignee_id", mcp.Description("Update: new assignee user id")),
		mcp.WithNumber("update_status_id", mcp.Description("Update: new status id")),
		mcp.WithNumber("update_priority_id", mcp.Description("Update: new priority id")),
		mcp.WithNumber("update_version_id", mcp.Description("Update: new version id")),
		// Safety
		mcp.WithBoolean("dry_run", mcp.Description("Preview only, no changes (default: true)")),
		mcp.WithNumber("max_results", mcp.Description("Cap on affected work packages (default: 50)")),
	)
}

// Handle processes the bulk_update_filtered_work_packages tool call.
func (t *BulkUpdateFilteredTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	update := op.WorkPackageUpdate{
		AssigneeID: intPtr(req.GetFloat("update_assignee_id", 0)),
		StatusID:   intPtr(req.GetFloat("update_status_id", 0)),
		PriorityID: intPtr(req.GetFloat("update_priority_id", 0)),
		VersionID:  intPtr(req.GetFloat("update_version_id", 0)),
	}
	if update.Empty() {
		return mcp.NewToolResultError("at least one update field must be provided"), nil
	}

	filters, err := buildFilters(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxResults := int(req.GetFloat("max_results", defaultFilteredMax))
	if maxResults <= 0 || maxResults > bulk.OpUpdate.Limit() {
		maxResults = defaultFilteredMax
	}

	// Resolve the filter into a concrete item list.
	matched, err := t.deps.API.ListWorkPackages(ctx, op.ListWorkPackagesOptions{
		ProjectID: int64(req.GetFloat("project_id", 0)),
		Filters:   filters.Encode(),
		PageSize:  maxResults,
	})
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("resolving filter: %v", err))), nil
	}

	workPackages := matched.Elements()
	if len(workPackages) == 0 {
		return mcp.NewToolResultText("✅ No work packages match the filter criteria."), nil
	}

	if req.GetBool("dry_run", true) {
		return mcp.NewToolResultText(formatDryRun(matched, workPackages, update, maxResults)), nil
	}

	ids := make([]int64, len(workPackages))
	for i, wp := range workPackages {
		ids[i] = wp.ID()
	}

	result, err := runBulkUpdate(ctx, t.deps, bulk.OpUpdate, ids, update)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(formatBulkResult("Filtered Bulk Update Complete", result))
	fmt.Fprintf(&b, "\n**Filter Matched**: %d total\n", matched.Total())
	appendSuccessPreview(&b, result)
	return mcp.NewToolResultText(b.String()), nil
}

// buildFilters translates the tool's filter arguments into an API
// filter set. Explicit status ids win over overdue_only, which wins
// over the plain open-status default.
func buildFilters(req mcp.CallToolRequest) (*op.Filters, error) {
	f := op.NewFilters()

	switch {
	case req.GetString("status_ids", "") != "":
		ids, err := parseIDList(req.GetString("status_ids", ""))
		if err != nil {
			return nil, fmt.Errorf("status_ids: %w", err)
		}
		f.Status(ids)
	case req.GetBool("overdue_only", false):
		f.Overdue()
	default:
		f.Open()
	}

	if req.GetBool("unassigned_only", false) {
		f.Unassigned()
	} else if assignee := int64(req.GetFloat("assignee_id", 0)); assignee > 0 {
		f.Assignee(assignee)
	}

	if s := req.GetString("priority_ids", ""); s != "" {
		ids, err := parseIDList(s)
		if err != nil {
			return nil, fmt.Errorf("priority_ids: %w", err)
		}
		f.Priority(ids)
	}
	if s := req.GetString("type_ids", ""); s != "" {
		ids, err := parseIDList(s)
		if err != nil {
			return nil, fmt.Errorf("type_ids: %w", err)
		}
		f.Type(ids)
	}

	return f, nil
}

// formatDryRun renders the preview: what matched and what would change.
func formatDryRun(matched op.Resource, workPackages []op.Resource, update op.WorkPackageUpdate, maxResults int) string {
	var b strings.Builder
	b.WriteString("🔍 **DRY RUN — Preview of Bulk Update**\n\n")
	fmt.Fprintf(&b, "**Filter Matched**: %d work package(s)\n", matched.Total())
	fmt.Fprintf(&b, "**Will Update**: %d work package(s) (max: %d)\n\n", len(workPackages), maxResults)

	b.WriteString("**Updates to Apply**:\n")
	if update.AssigneeID != nil {
		fmt.Fprintf(&b, "- assignee_id: %d\n", *update.AssigneeID)
	}
	if update.StatusID != nil {
		fmt.Fprintf(&b, "- status_id: %d\n", *update.StatusID)
	}
	if update.PriorityID != nil {
		fmt.Fprintf(&b, "- priority_id: %d\n", *update.PriorityID)
	}
	if update.VersionID != nil {
		fmt.Fprintf(&b, "- version_id: %d\n", *update.VersionID)
	}

	b.WriteString("\n**Affected Work Packages** (first 10):\n")
	for i, wp := range workPackages {
		if i == 10 {
			fmt.Fprintf(&b, "... and %d more\n", len(workPackages)-10)
			break
		}
		fmt.Fprintf(&b, "- #%d: %s\n", wp.ID(), wp.Subject())
	}

	b.WriteString("\n⚠️ **This is a DRY RUN** — no changes were made.\n")
	b.WriteString("To execute, call again with dry_run=false.\n")
	return b.String()
}
