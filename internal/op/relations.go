package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// NewRelation holds the fields for creating a relation between two work
// packages. FromID, ToID, and Type are required. Type is one of the API's
// relation kinds ("follows", "blocks", "duplicates", "relates", ...).
type NewRelation struct {
	FromID      int64
	ToID        int64
	Type        string
	Lag         int // working days between predecessor and follower
	Description string
}

// Validate checks the required fields. The bulk create-relation path
// calls this for every item before any request is dispatched.
func (r NewRelation) Validate() error {
	if r.FromID <= 0 {
		return fmt.Errorf("missing required field 'from_id'")
	}
	if r.ToID <= 0 {
		return fmt.Errorf("missing required field 'to_id'")
	}
	if r.Type == "" {
		return fmt.Errorf("missing required field 'type'")
	}
	return nil
}

// Key describes the relation for error correlation: "10→20 (follows)".
func (r NewRelation) Key() string {
	return fmt.Sprintf("%d→%d (%s)", r.FromID, r.ToID, r.Type)
}

// CreateRelation creates a relation between two work packages.
func (c *Client) CreateRelation(ctx context.Context, rel NewRelation) (Resource, error) {
	if err := rel.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"type": rel.Type,
		"_links": map[string]any{
			"from": href("/api/v3/work_packages/%d", rel.FromID),
			"to":   href("/api/v3/work_packages/%d", rel.ToID),
		},
	}
	if rel.Lag != 0 {
		payload["lag"] = rel.Lag
	}
	if rel.Description != "" {
		payload["description"] = rel.Description
	}

	return c.request(ctx, http.MethodPost, "/relations", payload)
}

// GetRelation retrieves one relation by id.
func (c *Client) GetRelation(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/relations/%d", id), nil)
}

// ListRelations lists relations, optionally filtered.
func (c *Client) ListRelations(ctx context.Context, filters string) (Resource, error) {
	endpoint := "/relations"
	if filters != "" {
		endpoint += "?filters=" + url.QueryEscape(filters)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// DeleteRelation deletes a relation. Irreversible.
func (c *Client) DeleteRelation(ctx context.Context, id int64) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("/relations/%d", id), nil)
	return err
}
