package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListMemberships lists project memberships, filtered by project and/or
// user when the ids are > 0.
func (c *Client) ListMemberships(ctx context.Context, projectID, userID int64) (Resource, error) {
	f := NewFilters()
	if projectID > 0 {
		f.Project(projectID)
	}
	if userID > 0 {
		f.User(userID)
	}
	endpoint := "/memberships"
	if s := f.Encode(); s != "" {
		endpoint += "?filters=" + url.QueryEscape(s)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetMembership retrieves one membership by id.
func (c *Client) GetMembership(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/memberships/%d", id), nil)
}

// NewMembership holds the fields for adding a user or group to a project.
// ProjectID, exactly one of UserID/GroupID, and at least one role are
// required.
type NewMembership struct {
	ProjectID int64
	UserID    int64
	GroupID   int64
	RoleIDs   []int64
	Message   string // optional notification sent to the new member
}

// Validate checks the required fields.
func (m NewMembership) Validate() error {
	if m.ProjectID <= 0 {
		return fmt.Errorf("missing required field 'project'")
	}
	if m.UserID <= 0 && m.GroupID <= 0 {
		return fmt.Errorf("either 'user_id' or 'group_id' is required")
	}
	if m.UserID > 0 && m.GroupID > 0 {
		return fmt.Errorf("'user_id' and 'group_id' are mutually exclusive")
	}
	if len(m.RoleIDs) == 0 {
		return fmt.Errorf("at least one role is required")
	}
	return nil
}

// CreateMembership adds a user or group to a project with the given roles.
func (c *Client) CreateMembership(ctx context.Context, m NewMembership) (Resource, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	links := map[string]any{
		"project": href("/api/v3/projects/%d", m.ProjectID),
		"roles":   roleHrefs(m.RoleIDs),
	}
	if m.UserID > 0 {
		links["principal"] = href("/api/v3/users/%d", m.UserID)
	} else {
		links["principal"] = href("/api/v3/groups/%d", m.GroupID)
	}

	payload := map[string]any{"_links": links}
	if m.Message != "" {
		payload["notificationMessage"] = map[string]any{"raw": m.Message}
	}
	return c.request(ctx, http.MethodPost, "/memberships", payload)
}

// UpdateMembership replaces a membership's roles. The membership is
// fetched first for its lockVersion.
func (c *Client) UpdateMembership(ctx context.Context, id int64, roleIDs []int64, message string) (Resource, error) {
	if len(roleIDs) == 0 {
		return nil, fmt.Errorf("at least one role is required")
	}
	current, err := c.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"lockVersion": current.Int("lockVersion"),
		"_links":      map[string]any{"roles": roleHrefs(roleIDs)},
	}
	if message != "" {
		payload["notificationMessage"] = map[string]any{"raw": message}
	}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/memberships/%d", id), payload)
}

// DeleteMembership removes a user or group from a project. Irreversible.
func (c *Client) DeleteMembership(ctx context.Context, id int64) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("/memberships/%d", id), nil)
	return err
}

func roleHrefs(ids []int64) []map[string]any {
	out := make([]map[string]any, len(ids))
	for i, id := range ids {
		out[i] = href("/api/v3/roles/%d", id)
	}
	return out
}
