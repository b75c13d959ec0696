package op

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListTimeEntries lists time entries, optionally filtered.
func (c *Client) ListTimeEntries(ctx context.Context, filters string) (Resource, error) {
	endpoint := "/time_entries"
	if filters != "" {
		endpoint += "?filters=" + url.QueryEscape(filters)
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// NewTimeEntry holds the fields for logging time. WorkPackageID, Hours,
// and SpentOn are required.
type NewTimeEntry struct {
	WorkPackageID int64
	Hours         float64
	SpentOn       string // ISO 8601 (YYYY-MM-DD)
	Comment       string
	ActivityID    int64
}

// CreateTimeEntry logs time against a work package. Hours are encoded as
// an ISO 8601 duration (PT<hours>H).
func (c *Client) CreateTimeEntry(ctx context.Context, e NewTimeEntry) (Resource, error) {
	if e.WorkPackageID <= 0 {
		return nil, fmt.Errorf("missing required field 'work_package_id'")
	}
	if e.Hours <= 0 {
		return nil, fmt.Errorf("missing required field 'hours'")
	}
	if e.SpentOn == "" {
		return nil, fmt.Errorf("missing required field 'spent_on'")
	}

	links := map[string]any{
		"workPackage": href("/api/v3/work_packages/%d", e.WorkPackageID),
	}
	if e.ActivityID > 0 {
		links["activity"] = href("/api/v3/time_entries/activities/%d", e.ActivityID)
	}

	payload := map[string]any{
		"hours":   fmt.Sprintf("PT%gH", e.Hours),
		"spentOn": e.SpentOn,
		"_links":  links,
	}
	if e.Comment != "" {
		payload["comment"] = map[string]any{"raw": e.Comment}
	}

	return c.request(ctx, http.MethodPost, "/time_entries", payload)
}

// DeleteTimeEntry deletes a time entry. Irreversible.
func (c *Client) DeleteTimeEntry(ctx context.Context, id int64) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("/time_entries/%d", id), nil)
	return err
}

// GetTimeEntryActivities lists the available time entry activities.
func (c *Client) GetTimeEntryActivities(ctx context.Context) (Resource, error) {
	return c.request(ctx, http.MethodGet, "/time_entries/activities", nil)
}
