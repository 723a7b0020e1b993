package link

import "strings"

// Tab is one of the two status-based views.
type Tab string

const (
	TabLinks Tab = "links"
	TabTodos Tab = "todos"
)

// InTab reports whether a status belongs to a tab: the links tab shows
// active and archived records, the todos tab shows todo and completed.
func InTab(status Status, tab Tab) bool {
	switch tab {
	case TabTodos:
		return status == StatusTodo || status == StatusCompleted
	default:
		return status == StatusActive || status == StatusArchived
	}
}

// FilterTab keeps the records whose status belongs to tab, preserving
// input order.
func FilterTab(records []Record, tab Tab) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if InTab(r.Status, tab) {
			out = append(out, r)
		}
	}
	return out
}

// SortTodos stable-sorts so every todo record precedes every completed
// one. Relative order within each group is kept from the input; no other
// key is consulted.
func SortTodos(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Status == StatusTodo {
			out = append(out, r)
		}
	}
	for _, r := range records {
		if r.Status != StatusTodo {
			out = append(out, r)
		}
	}
	return out
}

// FilterSearch keeps records matching query as a case-insensitive
// substring of url, summary, title, or any tag. An empty query keeps
// everything.
func FilterSearch(records []Record, query string) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesSearch(r, query) {
			out = append(out, r)
		}
	}
	return out
}

func matchesSearch(r Record, query string) bool {
	if strings.Contains(strings.ToLower(r.URL), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Summary), query) {
		return true
	}
	if r.Title != nil && strings.Contains(strings.ToLower(*r.Title), query) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// FilterTag keeps records whose tags contain the selected tag exactly.
// Unlike search this is case-sensitive set membership, not a substring
// test. An empty tag keeps everything.
func FilterTag(records []Record, tag string) []Record {
	if tag == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		for _, t := range r.Tags {
			if t == tag {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// VisibleSet derives the ordered sequence shown for a tab: tab predicate,
// todo-before-completed ordering (todos tab only), then search and tag
// filters.
func VisibleSet(records []Record, tab Tab, query, tag string) []Record {
	out := FilterTab(records, tab)
	if tab == TabTodos {
		out = SortTodos(out)
	}
	out = FilterSearch(out, query)
	out = FilterTag(out, tag)
	return out
}

// ReorderPlan moves the record at fromIndex to toIndex within the visible
// list and assigns every record its new 0-based position, producing the
// batch handed to Service.Reorder. Out-of-range indexes yield a nil plan.
func ReorderPlan(visible []Record, fromIndex, toIndex int) []ReorderUpdate {
	n := len(visible)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return nil
	}

	moved := make([]Record, 0, n)
	moved = append(moved, visible[:fromIndex]...)
	moved = append(moved, visible[fromIndex+1:]...)
	moved = append(moved[:toIndex], append([]Record{visible[fromIndex]}, moved[toIndex:]...)...)

	plan := make([]ReorderUpdate, n)
	for i, r := range moved {
		plan[i] = ReorderUpdate{ID: r.ID, Position: i}
	}
	return plan
}
