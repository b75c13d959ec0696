package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// relationTypes are the kinds the API accepts for work package relations.
var relationTypes = []string{
	"relates", "duplicates", "duplicated", "blocks", "blocked",
	"precedes", "follows", "includes", "partof", "requires", "required",
}

// CreateRelationTool handles the create_relation MCP tool.
type CreateRelationTool struct {
	deps Deps
}

// NewCreateRelationTool creates a CreateRelationTool.
func NewCreateRelationTool(d Deps) *CreateRelationTool {
	return &CreateRelationTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("create_relation",
		mcp.WithDescription(
			"Create a relation between two work packages (dependency, duplicate, block, ...).",
		),
		mcp.WithNumber("from_id", mcp.Required(), mcp.Description("Source work package id")),
		mcp.WithNumber("to_id", mcp.Required(), mcp.Description("Target work package id")),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Relation type"),
			mcp.Enum(relationTypes...),
		),
		mcp.WithNumber("lag", mcp.Description("Working days between predecessor and follower")),
		mcp.WithString("description", mcp.Description("Optional relation note")),
	)
}

// Handle processes the create_relation tool call.
func (t *CreateRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rel := op.NewRelation{
		FromID:      int64(req.GetFloat("from_id", 0)),
		ToID:        int64(req.GetFloat("to_id", 0)),
		Type:        req.GetString("type", ""),
		Lag:         int(req.GetFloat("lag", 0)),
		Description: req.GetString("description", ""),
	}
	if err := rel.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := t.deps.API.CreateRelation(ctx, rel)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("creating relation %s: %v", rel.Key(), err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Created relation #%d: %s", created.ID(), rel.Key(),
	)), nil
}

// DeleteRelationTool handles the delete_relation MCP tool.
type DeleteRelationTool struct {
	deps Deps
}

// NewDeleteRelationTool creates a DeleteRelationTool.
func NewDeleteRelationTool(d Deps) *DeleteRelationTool {
	return &DeleteRelationTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_relation",
		mcp.WithDescription("Delete a work package relation permanently."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The relation id")),
	)
}

// Handle processes the delete_relation tool call.
func (t *DeleteRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	if err := t.deps.API.DeleteRelation(ctx, id); err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("deleting relation #%d: %v", id, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted relation #%d", id)), nil
}

// ListRelationsTool handles the list_relations MCP tool.
type ListRelationsTool struct {
	deps Deps
}

// NewListRelationsTool creates a ListRelationsTool.
func NewListRelationsTool(d Deps) *ListRelationsTool {
	return &ListRelationsTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_relations",
		mcp.WithDescription("List work package relations, optionally for one work package."),
		mcp.WithNumber("work_package_id", mcp.Description("Only relations involving this work package")),
	)
}

// Handle processes the list_relations tool call.
func (t *ListRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := ""
	if wpID := int64(req.GetFloat("work_package_id", 0)); wpID > 0 {
		filters = fmt.Sprintf(`[{"involved":{"operator":"=","values":["%d"]}}]`, wpID)
	}

	result, err := t.deps.API.ListRelations(ctx, filters)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("listing relations: %v", err))), nil
	}

	elements := result.Elements()
	if len(elements) == 0 {
		return mcp.NewToolResultText("No relations found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d relation(s):\n\n", len(elements))
	for _, rel := range elements {
		fmt.Fprintf(&b, "- #%d: %s — %s %s %s\n",
			rel.ID(), orUnknown(rel.Str("name")),
			orUnknown(rel.LinkTitle("from")), rel.Str("type"), orUnknown(rel.LinkTitle("to")),
		)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// GetRelationTool handles the get_relation MCP tool.
type GetRelationTool struct {
	deps Deps
}

// NewGetRelationTool creates a GetRelationTool.
func NewGetRelationTool(d Deps) *GetRelationTool {
	return &GetRelationTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *GetRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("get_relation",
		mcp.WithDescription("Get detailed information about a work package relation."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The relation id")),
	)
}

// Handle processes the get_relation tool call.
func (t *GetRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required and must be a positive integer"), nil
	}

	rel, err := t.deps.API.GetRelation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("getting relation #%d: %v", id, err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Relation #%d**\n\n", rel.ID())
	fmt.Fprintf(&b, "**Type**: %s\n", orUnknown(rel.Str("type")))
	fmt.Fprintf(&b, "**From**: %s\n", orUnknown(rel.LinkTitle("from")))
	fmt.Fprintf(&b, "**To**: %s\n", orUnknown(rel.LinkTitle("to")))
	if lag := rel.Int("lag"); lag != 0 {
		fmt.Fprintf(&b, "**Lag**: %d working day(s)\n", lag)
	}
	if desc := rel.Str("description"); desc != "" {
		fmt.Fprintf(&b, "**Description**: %s\n", desc)
	}
	return mcp.NewToolResultText(b.String()), nil
}
