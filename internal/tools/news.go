package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListNewsTool handles the list_news MCP tool.
type ListNewsTool struct {
	deps Deps
}

// NewListNewsTool creates a ListNewsTool.
func NewListNewsTool(d Deps) *ListNewsTool {
	return &ListNewsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListNewsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_news",
		mcp.WithDescription("List news items across the instance or for one project."),
		mcp.WithNumber("project_id", mcp.Description("Scope to one project")),
		mcp.WithNumber("page_size", mcp.Description("Maximum number of results (default: 20)")),
	)
}

// Handle processes the list_news tool call.
func (t *ListNewsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.deps.API.ListNews(ctx,
		int64(req.GetFloat("project_id", 0)),
		int(req.GetFloat("page_size", 0)),
	)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing news: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No news found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d news item(s):\n\n", len(elements))
	for _, n := range elements {
		fmt.Fprintf(&b, "- **%s** (ID: %d) — %s, %s\n",
			orUnknown(n.Str("title")), n.ID(),
			orUnknown(n.LinkTitle("project")), orUnknown(n.LinkTitle("author")),
		)
		if summary := n.Str("summary"); summary != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(summary, 150))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// GetNewsTool handles the get_news MCP tool.
type GetNewsTool struct {
	deps Deps
}

// NewGetNewsTool creates a GetNewsTool.
func NewGetNewsTool(d Deps) *GetNewsTool {
	return &GetNewsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetNewsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_news",
		mcp.WithDescription("Retrieve one news item with its full text."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The news item id")),
	)
}

// Handle processes the get_news tool call.
func (t *GetNewsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	item, err := t.deps.API.GetNews(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting news #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orUnknown(item.Str("title")))
	fmt.Fprintf(&b, "**Project**: %s | **Author**: %s | **Created**: %s\n",
		orUnknown(item.LinkTitle("project")), orUnknown(item.LinkTitle("author")), orUnknown(item.Str("createdAt")))
	if summary := item.Str("summary"); summary != "" {
		fmt.Fprintf(&b, "\n_%s_\n", summary)
	}
	if desc := item.Raw("description"); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	return mcp.NewToolResultText(b.String()), nil
}
