package op

// Resource is a raw HAL+JSON document as returned by the API. Accessors
// cover the handful of fields the tool layer renders; anything else can
// be read directly from the map.
type Resource map[string]any

// ID returns the numeric id attribute, or 0 when absent.
func (r Resource) ID() int64 {
	switch v := r["id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// Str returns a top-level string attribute, or "" when absent or not a string.
func (r Resource) Str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int returns a top-level numeric attribute, or 0 when absent.
func (r Resource) Int(key string) int {
	f, _ := r[key].(float64)
	return int(f)
}

// Subject is the work package title.
func (r Resource) Subject() string { return r.Str("subject") }

// Raw returns the "raw" text of a formattable attribute such as
// description ({"format": "markdown", "raw": "...", "html": "..."}).
func (r Resource) Raw(key string) string {
	m, _ := r[key].(map[string]any)
	if m == nil {
		return ""
	}
	s, _ := m["raw"].(string)
	return s
}

// LinkTitle returns the title of a _links entry, e.g. the status or
// assignee name. Returns "" when the link is absent.
func (r Resource) LinkTitle(name string) string {
	links, _ := r["_links"].(map[string]any)
	if links == nil {
		return ""
	}
	link, _ := links[name].(map[string]any)
	if link == nil {
		return ""
	}
	s, _ := link["title"].(string)
	return s
}

// LinkTitles returns the titles of an array-valued _links entry, such as
// a membership's roles.
func (r Resource) LinkTitles(name string) []string {
	links, _ := r["_links"].(map[string]any)
	if links == nil {
		return nil
	}
	raw, _ := links[name].([]any)
	var out []string
	for _, l := range raw {
		if m, ok := l.(map[string]any); ok {
			if s, _ := m["title"].(string); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Embedded returns a named _embedded sub-document.
func (r Resource) Embedded(name string) Resource {
	emb, _ := r["_embedded"].(map[string]any)
	if emb == nil {
		return nil
	}
	doc, _ := emb[name].(map[string]any)
	return Resource(doc)
}

// Elements returns the members of a HAL collection (_embedded.elements).
func (r Resource) Elements() []Resource {
	emb, _ := r["_embedded"].(map[string]any)
	if emb == nil {
		return nil
	}
	raw, _ := emb["elements"].([]any)
	out := make([]Resource, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, Resource(m))
		}
	}
	return out
}

// Total returns the collection's total count (which can exceed the number
// of embedded elements when the page size truncates the result).
func (r Resource) Total() int { return r.Int("total") }
