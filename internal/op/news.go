package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListNews lists news items, optionally scoped to a project.
func (c *Client) ListNews(ctx context.Context, projectID int64, pageSize int) (Resource, error) {
	q := url.Values{}
	if projectID > 0 {
		f := NewFilters().add("project_id", "=", []string{strconv.FormatInt(projectID, 10)})
		q.Set("filters", f.Encode())
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	endpoint := "/news"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetNews retrieves one news item by id.
func (c *Client) GetNews(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/news/%d", id), nil)
}
