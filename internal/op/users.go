package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListUsers lists users, optionally filtered.
func (c *Client) ListUsers(ctx context.Context, filters string) (Resource, error) {
	endpoint := "/users"
	if filters != "" {
		endpoint += "?filters=" + url.QueryEscape(filters)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetUser retrieves one user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
}
