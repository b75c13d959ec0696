package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListWorkPackagesOptions scope a work package query.
type ListWorkPackagesOptions struct {
	// ProjectID scopes the query to one project when > 0.
	ProjectID int64

	// Filters is an OpenProject filter string (JSON array). See filters.go.
	Filters string

	// PageSize caps the number of returned elements. The API default (20)
	// applies when 0.
	PageSize int
}

// ListWorkPackages queries work packages, optionally scoped and filtered.
func (c *Client) ListWorkPackages(ctx context.Context, opts ListWorkPackagesOptions) (Resource, error) {
	endpoint := "/work_packages"
	if opts.ProjectID > 0 {
		endpoint = fmt.Sprintf("/projects/%d/work_packages", opts.ProjectID)
	}

	q := url.Values{}
	if opts.Filters != "" {
		q.Set("filters", opts.Filters)
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// GetWorkPackage retrieves one work package by id.
func (c *Client) GetWorkPackage(ctx context.Context, id int64) (Resource, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/work_packages/%d", id), nil)
}

// NewWorkPackage holds the fields for creating a work package.
// ProjectID, Subject, and TypeID are required.
type NewWorkPackage struct {
	ProjectID   int64
	Subject     string
	TypeID      int64
	Description string
	AssigneeID  int64
	PriorityID  int64
	StatusID    int64
	StartDate   string // ISO 8601 (YYYY-MM-DD)
	DueDate     string
}

// Validate checks the required fields. The bulk create path calls this
// for every item before any request is dispatched.
func (w NewWorkPackage) Validate() error {
	if w.ProjectID <= 0 {
		return fmt.Errorf("missing required field 'project'")
	}
	if w.Subject == "" {
		return fmt.Errorf("missing required field 'subject'")
	}
	if w.TypeID <= 0 {
		return fmt.Errorf("missing required field 'type'")
	}
	return nil
}

// CreateWorkPackage creates a work package.
func (c *Client) CreateWorkPackage(ctx context.Context, wp NewWorkPackage) (Resource, error) {
	if err := wp.Validate(); err != nil {
		return nil, err
	}

	links := map[string]any{
		"project": href("/api/v3/projects/%d", wp.ProjectID),
		"type":    href("/api/v3/types/%d", wp.TypeID),
	}
	if wp.AssigneeID > 0 {
		links["assignee"] = href("/api/v3/users/%d", wp.AssigneeID)
	}
	if wp.PriorityID > 0 {
		links["priority"] = href("/api/v3/priorities/%d", wp.PriorityID)
	}
	if wp.StatusID > 0 {
		links["status"] = href("/api/v3/statuses/%d", wp.StatusID)
	}

	payload := map[string]any{
		"subject": wp.Subject,
		"_links":  links,
	}
	if wp.Description != "" {
		payload["description"] = map[string]any{"raw": wp.Description}
	}
	if wp.StartDate != "" {
		payload["startDate"] = wp.StartDate
	}
	if wp.DueDate != "" {
		payload["dueDate"] = wp.DueDate
	}

	return c.request(ctx, http.MethodPost, "/work_packages", payload)
}

// WorkPackageUpdate holds the fields of a partial work package update.
// Nil pointers mean "leave unchanged".
type WorkPackageUpdate struct {
	Subject        *string
	Description    *string
	TypeID         *int64
	StatusID       *int64
	PriorityID     *int64
	AssigneeID     *int64
	VersionID      *int64
	PercentageDone *int
	StartDate      *string
	DueDate        *string
}

// Empty reports whether the update changes nothing.
func (u WorkPackageUpdate) Empty() bool {
	return u.Subject == nil && u.Description == nil && u.TypeID == nil &&
		u.StatusID == nil && u.PriorityID == nil && u.AssigneeID == nil &&
		u.VersionID == nil && u.PercentageDone == nil &&
		u.StartDate == nil && u.DueDate == nil
}

// UpdateWorkPackage applies a partial update. The API requires the
// current lockVersion for optimistic locking, so the work package is
// fetched first; id-typed fields are sent as _links hrefs.
func (c *Client) UpdateWorkPackage(ctx context.Context, id int64, u WorkPackageUpdate) (Resource, error) {
	current, err := c.GetWorkPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"lockVersion": current.Int("lockVersion")}
	links := map[string]any{}

	if u.Subject != nil {
		payload["subject"] = *u.Subject
	}
	if u.Description != nil {
		payload["description"] = map[string]any{"raw": *u.Description}
	}
	if u.TypeID != nil {
		links["type"] = href("/api/v3/types/%d", *u.TypeID)
	}
	if u.StatusID != nil {
		links["status"] = href("/api/v3/statuses/%d", *u.StatusID)
	}
	if u.PriorityID != nil {
		links["priority"] = href("/api/v3/priorities/%d", *u.PriorityID)
	}
	if u.AssigneeID != nil {
		links["assignee"] = href("/api/v3/users/%d", *u.AssigneeID)
	}
	if u.VersionID != nil {
		links["version"] = href("/api/v3/versions/%d", *u.VersionID)
	}
	if u.PercentageDone != nil {
		payload["percentageDone"] = *u.PercentageDone
	}
	if u.StartDate != nil {
		payload["startDate"] = *u.StartDate
	}
	if u.DueDate != nil {
		payload["dueDate"] = *u.DueDate
	}
	if len(links) > 0 {
		payload["_links"] = links
	}

	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/work_packages/%d", id), payload)
}

// DeleteWorkPackage deletes a work package. Irreversible.
func (c *Client) DeleteWorkPackage(ctx context.Context, id int64) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("/work_packages/%d", id), nil)
	return err
}

// AddComment posts a comment to a work package's activity stream.
// When internal is true the comment is visible to project members only.
func (c *Client) AddComment(ctx context.Context, id int64, comment string, internal bool) (Resource, error) {
	payload := map[string]any{
		"comment": map[string]any{"raw": comment},
	}
	if internal {
		payload["internal"] = true
	}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/work_packages/%d/activities", id), payload)
}

// SetParent makes parentID the parent of work package id.
func (c *Client) SetParent(ctx context.Context, id, parentID int64) (Resource, error) {
	return c.patchParent(ctx, id, href("/api/v3/work_packages/%d", parentID))
}

// RemoveParent promotes work package id to top level.
func (c *Client) RemoveParent(ctx context.Context, id int64) (Resource, error) {
	return c.patchParent(ctx, id, map[string]any{"href": nil})
}

func (c *Client) patchParent(ctx context.Context, id int64, parentLink map[string]any) (Resource, error) {
	current, err := c.GetWorkPackage(ctx, id)
	if err != nil {
		// Patching with lockVersion 0 would turn a transient fetch failure
		// into a terminal 409.
		return nil, err
	}
	payload := map[string]any{
		"lockVersion": current.Int("lockVersion"),
		"_links":      map[string]any{"parent": parentLink},
	}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/work_packages/%d", id), payload)
}

// ListChildren lists the direct children of a work package.
func (c *Client) ListChildren(ctx context.Context, parentID int64) (Resource, error) {
	f := NewFilters().Parent(parentID)
	return c.ListWorkPackages(ctx, ListWorkPackagesOptions{Filters: f.Encode()})
}

func href(format string, id int64) map[string]any {
	return map[string]any{"href": fmt.Sprintf(format, id)}
}
