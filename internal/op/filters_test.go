package op

import (
	"encoding/json"
	"strings"
	"testing"
)

// decodeFilters parses the encoded filter string back into its parts
// so tests assert on structure, not key ordering.
func decodeFilters(t *testing.T, encoded string) []map[string]map[string]any {
	t.Helper()
	var out []map[string]map[string]any
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		t.Fatalf("filter string is not valid JSON: %v\n%s", err, encoded)
	}
	return out
}

func TestFilters_Empty(t *testing.T) {
	f := NewFilters()
	if !f.Empty() {
		t.Error("new filter set should be empty")
	}
	if got := f.Encode(); got != "" {
		t.Errorf("Encode of empty set = %q, want empty string", got)
	}
}

func TestFilters_Open(t *testing.T) {
	encoded := NewFilters().Open().Encode()
	parsed := decodeFilters(t, encoded)
	if len(parsed) != 1 {
		t.Fatalf("got %d filters, want 1", len(parsed))
	}
	if parsed[0]["status"]["operator"] != "o" {
		t.Errorf("status operator = %v, want o", parsed[0]["status"]["operator"])
	}
}

func TestFilters_StatusIDs(t *testing.T) {
	encoded := NewFilters().Status([]int64{1, 7, 12}).Encode()
	parsed := decodeFilters(t, encoded)
	values := parsed[0]["status"]["values"].([]any)
	if len(values) != 3 || values[0] != "1" || values[2] != "12" {
		t.Errorf("status values = %v, want [1 7 12] as strings", values)
	}
}

func TestFilters_Overdue(t *testing.T) {
	encoded := NewFilters().Overdue().Encode()
	parsed := decodeFilters(t, encoded)

	// Overdue implies open status plus a dueDate range ending today.
	if len(parsed) != 2 {
		t.Fatalf("got %d filters, want 2 (status + dueDate)", len(parsed))
	}
	if parsed[0]["status"]["operator"] != "o" {
		t.Errorf("first filter should be open status, got %v", parsed[0])
	}
	if parsed[1]["dueDate"]["operator"] != "<>d" {
		t.Errorf("dueDate operator = %v, want <>d", parsed[1]["dueDate"]["operator"])
	}
}

func TestFilters_Combined(t *testing.T) {
	encoded := NewFilters().
		Open().
		Assignee(42).
		Priority([]int64{8}).
		Type([]int64{1, 2}).
		Encode()
	parsed := decodeFilters(t, encoded)
	if len(parsed) != 4 {
		t.Fatalf("got %d filters, want 4", len(parsed))
	}

	attrs := make([]string, 0, len(parsed))
	for _, f := range parsed {
		for attr := range f {
			attrs = append(attrs, attr)
		}
	}
	joined := strings.Join(attrs, ",")
	for _, want := range []string{"status", "assignee", "priority", "type"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %s filter in %s", want, joined)
		}
	}
}

func TestFilters_Unassigned(t *testing.T) {
	parsed := decodeFilters(t, NewFilters().Unassigned().Encode())
	if parsed[0]["assignee"]["operator"] != "!*" {
		t.Errorf("assignee operator = %v, want !*", parsed[0]["assignee"]["operator"])
	}
}

func TestFilters_Parent(t *testing.T) {
	parsed := decodeFilters(t, NewFilters().Parent(99).Encode())
	values := parsed[0]["parent"]["values"].([]any)
	if len(values) != 1 || values[0] != "99" {
		t.Errorf("parent values = %v, want [99]", values)
	}
}
