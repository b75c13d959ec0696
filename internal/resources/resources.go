// Package resources implements MCP resource handlers for the server.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (openproject://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openproject-community/openproject-mcp/internal/op"
)

// API is the subset of the OpenProject client the resource handlers need.
type API interface {
	TestConnection(ctx context.Context) (op.Resource, error)
	GetTypes(ctx context.Context, projectID int64) (op.Resource, error)
	GetStatuses(ctx context.Context) (op.Resource, error)
	GetPriorities(ctx context.Context) (op.Resource, error)
}

// Handler manages OpenProject resource endpoints.
type Handler struct {
	api API
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(api API) *Handler {
	return &Handler{api: api}
}

// StatusResource returns the MCP resource definition for instance status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"openproject://instance/status",
		"OpenProject Instance Status",
		mcp.WithResourceDescription("Connected instance name, version, and reachability"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the connected instance's root document as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	root, err := h.api.TestConnection(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	status := map[string]any{
		"reachable":     true,
		"instance_name": root.Str("instanceName"),
		"core_version":  root.Str("coreVersion"),
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// MetadataResource returns the MCP resource definition for work package
// metadata: the type, status, and priority catalogs an agent needs to
// pick valid ids for create and update calls.
func (h *Handler) MetadataResource() mcp.Resource {
	return mcp.NewResource(
		"openproject://instance/metadata",
		"Work Package Metadata",
		mcp.WithResourceDescription("Available work package types, statuses, and priorities with their ids"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleMetadata returns the instance's type/status/priority catalogs.
func (h *Handler) HandleMetadata(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	meta := map[string]any{}

	types, err := h.api.GetTypes(ctx, 0)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	meta["types"] = catalog(types)

	statuses, err := h.api.GetStatuses(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	meta["statuses"] = catalog(statuses)

	priorities, err := h.api.GetPriorities(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	meta["priorities"] = catalog(priorities)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// catalog reduces a collection resource to id/name pairs.
func catalog(collection op.Resource) []map[string]any {
	elements := collection.Elements()
	out := make([]map[string]any, 0, len(elements))
	for _, e := range elements {
		out = append(out, map[string]any{
			"id":   e.ID(),
			"name": e.Str("name"),
		})
	}
	return out
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
