package op

import (
	"strings"
	"testing"
)

func TestNewWorkPackage_Validate(t *testing.T) {
	valid := NewWorkPackage{ProjectID: 5, Subject: "Task", TypeID: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid work package rejected: %v", err)
	}

	tests := []struct {
		name string
		wp   NewWorkPackage
		want string
	}{
		{"missing project", NewWorkPackage{Subject: "T", TypeID: 1}, "project"},
		{"missing subject", NewWorkPackage{ProjectID: 5, TypeID: 1}, "subject"},
		{"missing type", NewWorkPackage{ProjectID: 5, Subject: "T"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wp.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestNewRelation_Validate(t *testing.T) {
	valid := NewRelation{FromID: 10, ToID: 20, Type: "follows"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid relation rejected: %v", err)
	}

	tests := []struct {
		name string
		rel  NewRelation
		want string
	}{
		{"missing from", NewRelation{ToID: 20, Type: "follows"}, "from_id"},
		{"missing to", NewRelation{FromID: 10, Type: "follows"}, "to_id"},
		{"missing type", NewRelation{FromID: 10, ToID: 20}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rel.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestNewRelation_Key(t *testing.T) {
	rel := NewRelation{FromID: 10, ToID: 20, Type: "follows"}
	if got := rel.Key(); got != "10→20 (follows)" {
		t.Errorf("Key = %q", got)
	}
}

func TestWorkPackageUpdate_Empty(t *testing.T) {
	if !(WorkPackageUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}
	subject := "New"
	if (WorkPackageUpdate{Subject: &subject}).Empty() {
		t.Error("update with a field should not be empty")
	}
}

func TestResource_Accessors(t *testing.T) {
	wp := Resource{
		"id":             float64(42),
		"subject":        "Fix login",
		"lockVersion":    float64(3),
		"percentageDone": float64(60),
		"description":    map[string]any{"format": "markdown", "raw": "Broken since v2."},
		"_links": map[string]any{
			"status":   map[string]any{"href": "/api/v3/statuses/1", "title": "In progress"},
			"assignee": map[string]any{"href": nil},
		},
	}

	if wp.ID() != 42 {
		t.Errorf("ID = %d", wp.ID())
	}
	if wp.Subject() != "Fix login" {
		t.Errorf("Subject = %q", wp.Subject())
	}
	if wp.Int("lockVersion") != 3 {
		t.Errorf("lockVersion = %d", wp.Int("lockVersion"))
	}
	if wp.Raw("description") != "Broken since v2." {
		t.Errorf("Raw = %q", wp.Raw("description"))
	}
	if wp.LinkTitle("status") != "In progress" {
		t.Errorf("LinkTitle(status) = %q", wp.LinkTitle("status"))
	}
	if wp.LinkTitle("assignee") != "" {
		t.Errorf("LinkTitle(assignee) = %q, want empty", wp.LinkTitle("assignee"))
	}
	if wp.LinkTitle("missing") != "" {
		t.Error("LinkTitle of missing link should be empty")
	}
}

func TestResource_LinkTitles(t *testing.T) {
	member := Resource{
		"id": float64(9),
		"_links": map[string]any{
			"roles": []any{
				map[string]any{"href": "/api/v3/roles/1", "title": "Member"},
				map[string]any{"href": "/api/v3/roles/3", "title": "Reader"},
			},
		},
	}

	roles := member.LinkTitles("roles")
	if len(roles) != 2 || roles[0] != "Member" || roles[1] != "Reader" {
		t.Errorf("LinkTitles(roles) = %v", roles)
	}
	if got := member.LinkTitles("missing"); len(got) != 0 {
		t.Errorf("LinkTitles of missing entry = %v, want empty", got)
	}
}

func TestResource_Collection(t *testing.T) {
	col := Resource{
		"total": float64(120),
		"_embedded": map[string]any{
			"elements": []any{
				map[string]any{"id": float64(1), "subject": "A"},
				map[string]any{"id": float64(2), "subject": "B"},
			},
		},
	}

	elements := col.Elements()
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(elements))
	}
	if elements[1].Subject() != "B" {
		t.Errorf("elements[1].Subject = %q", elements[1].Subject())
	}
	if col.Total() != 120 {
		t.Errorf("Total = %d, want 120 (can exceed page size)", col.Total())
	}

	empty := Resource{}
	if got := empty.Elements(); len(got) != 0 {
		t.Errorf("Elements of empty resource = %v", got)
	}
}
