package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjects lists the projects visible to the API user.
func (c *Client) ListProjects(ctx context.Context, filters string) (Resource, error) {
	endpoint := "/projects"
	if filters != "" {
		endpoint += "?filters=" + url.QueryEscape(filters)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetProject retrieves one project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil)
}

// NewProject holds the fields for creating a project. Name is required;
// Identifier is derived by the server when empty.
type NewProject struct {
	Name        string
	Identifier  string
	Description string
	Public      bool
	ParentID    int64
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, p NewProject) (Resource, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("missing required field 'name'")
	}
	payload := map[string]any{
		"name":   p.Name,
		"public": p.Public,
	}
	if p.Identifier != "" {
		payload["identifier"] = p.Identifier
	}
	if p.Description != "" {
		payload["description"] = map[string]any{"raw": p.Description}
	}
	if p.ParentID > 0 {
		payload["_links"] = map[string]any{
			"parent": href("/api/v3/projects/%d", p.ParentID),
		}
	}
	return c.request(ctx, http.MethodPost, "/projects", payload)
}

// UpdateProject applies a partial project update. Fields map to the
// attributes being changed; description strings are wrapped as raw text.
func (c *Client) UpdateProject(ctx context.Context, id int64, name, description string, active *bool) (Resource, error) {
	payload := map[string]any{}
	if name != "" {
		payload["name"] = name
	}
	if description != "" {
		payload["description"] = map[string]any{"raw": description}
	}
	if active != nil {
		payload["active"] = *active
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/projects/%d", id), payload)
}

// GetTypes lists work package types, optionally scoped to a project.
func (c *Client) GetTypes(ctx context.Context, projectID int64) (Resource, error) {
	endpoint := "/types"
	if projectID > 0 {
		endpoint = fmt.Sprintf("/projects/%d/types", projectID)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetStatuses lists the available work package statuses.
func (c *Client) GetStatuses(ctx context.Context) (Resource, error) {
	return c.request(ctx, http.MethodGet, "/statuses", nil)
}

// GetPriorities lists the available work package priorities.
func (c *Client) GetPriorities(ctx context.Context) (Resource, error) {
	return c.request(ctx, http.MethodGet, "/priorities", nil)
}
