package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// TestConnectionTool handles the op_test_connection MCP tool.
type TestConnectionTool struct {
	deps Deps
}

// NewTestConnectionTool creates a TestConnectionTool.
func NewTestConnectionTool(d Deps) *TestConnectionTool {
	return &TestConnectionTool{deps: d}
}

// Definition returns the MCP tool definition for registration.
func (t *TestConnectionTool) Definition() mcp.Tool {
	return mcp.NewTool("op_test_connection",
		mcp.WithDescription(
			"Verify connectivity and authentication against the configured "+
				"OpenProject instance. Returns the instance name and core version.",
		),
	)
}

// Handle processes the op_test_connection tool call.
func (t *TestConnectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := t.deps.API.TestConnection(ctx)
	if err != nil {
		return mcp.NewToolResultError(formatError(fmt.Sprintf("connection failed: %v", err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Connected to **%s** (core %s)",
		orUnknown(root.Str("instanceName")), orUnknown(root.Str("coreVersion")),
	)), nil
}
