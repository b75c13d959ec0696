package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIDList parses a comma-separated id list ("10, 20,30") into int64s.
// Blank segments are skipped; a non-numeric segment fails the whole list.
func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id — expected comma-separated integers", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// idKey renders a work package id for result correlation: "WP#42".
func idKey(id int64) string { return fmt.Sprintf("WP#%d", id) }

// relKey renders a relation id for result correlation.
func relKey(id int64) string { return fmt.Sprintf("Relation#%d", id) }

// intPtr adapts mcp-go's float64 numbers to optional int64 fields.
// Returns nil when v is 0 (the "not provided" default). Safe only for
// id-valued arguments, where ids are always positive and 0 is never a
// meaningful value to send.
func intPtr(v float64) *int64 {
	if v == 0 {
		return nil
	}
	id := int64(v)
	return &id
}

// strPtr returns nil for the empty string, otherwise a pointer.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
