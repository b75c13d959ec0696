package op

import (
	"encoding/json"
	"strconv"
	"time"
)

// Filters builds an OpenProject filter string: a JSON array of
// {"<attribute>": {"operator": ..., "values": [...]}} objects.
// Only the criteria the client's query paths need are covered.
type Filters struct {
	list []map[string]any
}

// NewFilters returns an empty filter set.
func NewFilters() *Filters { return &Filters{} }

func (f *Filters) add(attribute, operator string, values []string) *Filters {
	f.list = append(f.list, map[string]any{
		attribute: map[string]any{"operator": operator, "values": values},
	})
	return f
}

// Open restricts to work packages in an open status.
func (f *Filters) Open() *Filters {
	return f.add("status", "o", []string{})
}

// Status restricts to the given status ids.
func (f *Filters) Status(ids []int64) *Filters {
	return f.add("status", "=", idStrings(ids))
}

// Overdue restricts to open work packages whose due date has passed.
func (f *Filters) Overdue() *Filters {
	f.Open()
	today := time.Now().Format("2006-01-02")
	return f.add("dueDate", "<>d", []string{"2000-01-01", today})
}

// Assignee restricts to work packages assigned to the given user.
func (f *Filters) Assignee(userID int64) *Filters {
	return f.add("assignee", "=", []string{strconv.FormatInt(userID, 10)})
}

// Unassigned restricts to work packages with no assignee.
func (f *Filters) Unassigned() *Filters {
	return f.add("assignee", "!*", []string{})
}

// Priority restricts to the given priority ids.
func (f *Filters) Priority(ids []int64) *Filters {
	return f.add("priority", "=", idStrings(ids))
}

// Type restricts to the given type ids.
func (f *Filters) Type(ids []int64) *Filters {
	return f.add("type", "=", idStrings(ids))
}

// Project restricts to the given project.
func (f *Filters) Project(id int64) *Filters {
	return f.add("project", "=", []string{strconv.FormatInt(id, 10)})
}

// User restricts to memberships held by the given user.
func (f *Filters) User(id int64) *Filters {
	return f.add("user", "=", []string{strconv.FormatInt(id, 10)})
}

// Parent restricts to direct children of the given work package.
func (f *Filters) Parent(id int64) *Filters {
	return f.add("parent", "=", []string{strconv.FormatInt(id, 10)})
}

// Empty reports whether no criteria have been added.
func (f *Filters) Empty() bool { return len(f.list) == 0 }

// Encode renders the filter string, or "" for an empty set.
func (f *Filters) Encode() string {
	if len(f.list) == 0 {
		return ""
	}
	data, err := json.Marshal(f.list)
	if err != nil {
		// Maps of strings can't fail to marshal; keep the signature simple.
		return ""
	}
	return string(data)
}

func idStrings(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}
