package op

import (
	"context"
	"fmt"
	"net/http"
)

// ListVersions lists versions, scoped to a project when projectID > 0.
func (c *Client) ListVersions(ctx context.Context, projectID int64) (Resource, error) {
	endpoint := "/versions"
	if projectID > 0 {
		endpoint = fmt.Sprintf("/projects/%d/versions", projectID)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// NewVersion holds the fields for creating a version (sprint, milestone).
type NewVersion struct {
	Name        string
	Description string
	StartDate   string // ISO 8601 (YYYY-MM-DD)
	EndDate     string
	Status      string // "open", "locked", or "closed"
}

// CreateVersion creates a version in the given project.
func (c *Client) CreateVersion(ctx context.Context, projectID int64, v NewVersion) (Resource, error) {
	if v.Name == "" {
		return nil, fmt.Errorf("missing required field 'name'")
	}
	payload := map[string]any{
		"name": v.Name,
		"_links": map[string]any{
			"definingProject": href("/api/v3/projects/%d", projectID),
		},
	}
	if v.Description != "" {
		payload["description"] = map[string]any{"raw": v.Description}
	}
	if v.StartDate != "" {
		payload["startDate"] = v.StartDate
	}
	if v.EndDate != "" {
		payload["endDate"] = v.EndDate
	}
	if v.Status != "" {
		payload["status"] = v.Status
	}
	return c.request(ctx, http.MethodPost, "/versions", payload)
}
