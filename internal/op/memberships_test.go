package op

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestNewMembership_Validate(t *testing.T) {
	valid := NewMembership{ProjectID: 5, UserID: 7, RoleIDs: []int64{1}}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid membership rejected: %v", err)
	}
	group := NewMembership{ProjectID: 5, GroupID: 3, RoleIDs: []int64{1}}
	if err := group.Validate(); err != nil {
		t.Errorf("group membership rejected: %v", err)
	}

	tests := []struct {
		name string
		m    NewMembership
		want string
	}{
		{"missing project", NewMembership{UserID: 7, RoleIDs: []int64{1}}, "project"},
		{"no principal", NewMembership{ProjectID: 5, RoleIDs: []int64{1}}, "user_id"},
		{"both principals", NewMembership{ProjectID: 5, UserID: 7, GroupID: 3, RoleIDs: []int64{1}}, "mutually exclusive"},
		{"no roles", NewMembership{ProjectID: 5, UserID: 7}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCreateMembership_Payload(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		w.Write([]byte(`{"id": 9}`))
	})

	created, err := c.CreateMembership(context.Background(), NewMembership{
		ProjectID: 5,
		UserID:    7,
		RoleIDs:   []int64{1, 3},
		Message:   "Welcome aboard",
	})
	if err != nil {
		t.Fatalf("CreateMembership failed: %v", err)
	}
	if created.ID() != 9 {
		t.Errorf("ID = %d, want 9", created.ID())
	}
	for _, want := range []string{
		"/api/v3/projects/5",
		"/api/v3/users/7",
		"/api/v3/roles/1",
		"/api/v3/roles/3",
		"Welcome aboard",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %q:\n%s", want, body)
		}
	}
}

func TestCreateMembership_GroupPrincipal(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		w.Write([]byte(`{"id": 9}`))
	})

	_, err := c.CreateMembership(context.Background(), NewMembership{
		ProjectID: 5,
		GroupID:   4,
		RoleIDs:   []int64{1},
	})
	if err != nil {
		t.Fatalf("CreateMembership failed: %v", err)
	}
	if !strings.Contains(body, "/api/v3/groups/4") {
		t.Errorf("payload should link the group principal:\n%s", body)
	}
}

func TestUpdateMembership_SendsFetchedLockVersion(t *testing.T) {
	var patchBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id": 9, "lockVersion": 2}`))
		case http.MethodPatch:
			buf, _ := io.ReadAll(r.Body)
			patchBody = string(buf)
			w.Write([]byte(`{"id": 9, "lockVersion": 3}`))
		}
	})

	if _, err := c.UpdateMembership(context.Background(), 9, []int64{2}, ""); err != nil {
		t.Fatalf("UpdateMembership failed: %v", err)
	}
	if !strings.Contains(patchBody, `"lockVersion":2`) {
		t.Errorf("PATCH body should carry the fetched lockVersion: %s", patchBody)
	}
	if !strings.Contains(patchBody, "/api/v3/roles/2") {
		t.Errorf("PATCH body should link the new roles: %s", patchBody)
	}
}

func TestUpdateMembership_PropagatesLockVersionFetchFailure(t *testing.T) {
	var patchCalls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusServiceUnavailable)
		case http.MethodPatch:
			patchCalls++
		}
	})

	_, err := c.UpdateMembership(context.Background(), 9, []int64{2}, "")
	if !IsRetryable(err) {
		t.Fatalf("fetch failure should stay retryable, got %v", err)
	}
	if patchCalls != 0 {
		t.Errorf("patchCalls = %d, want 0 (no PATCH with a stale lockVersion)", patchCalls)
	}
}

func TestListMemberships_Filters(t *testing.T) {
	var gotFilters string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilters = r.URL.Query().Get("filters")
		w.Write([]byte(`{"total": 0}`))
	})

	if _, err := c.ListMemberships(context.Background(), 5, 7); err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if !strings.Contains(gotFilters, `"project"`) || !strings.Contains(gotFilters, `"5"`) {
		t.Errorf("filters missing project criterion: %s", gotFilters)
	}
	if !strings.Contains(gotFilters, `"user"`) || !strings.Contains(gotFilters, `"7"`) {
		t.Errorf("filters missing user criterion: %s", gotFilters)
	}

	gotFilters = "unset"
	if _, err := c.ListMemberships(context.Background(), 0, 0); err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if gotFilters != "" {
		t.Errorf("unfiltered list should send no filters, got %q", gotFilters)
	}
}
