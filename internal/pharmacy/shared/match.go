package shared

import (
	"sort"
	"strings"
)

// ContainsFold reports whether any field contains needle, ignoring case. An
// empty needle matches everything.
func ContainsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Filter returns the items for which keep is true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortStable sorts a copy of items by less.
func SortStable[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Reverse returns items in reverse order.
func Reverse[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// Count returns how many items satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Query applies search, tab and sort to items. Unknown tabs or sorts leave the
// list unfiltered or in backend order.
type Query[T any] struct {
	Search func(item T, needle string) bool
	Tabs   map[string]func(T) bool
	Sorts  map[string]func(items []T) []T
}

// Apply filters and orders items according to f.
func (q Query[T]) Apply(items []T, f ListFilters) []T {
	out := items
	if f.Search != "" && q.Search != nil {
		out = Filter(out, func(item T) bool { return q.Search(item, f.Search) })
	}
	if keep, ok := q.Tabs[strings.ToLower(f.Tab)]; ok && keep != nil {
		out = Filter(out, keep)
	}
	if order, ok := q.Sorts[strings.ToLower(f.Sort)]; ok && order != nil {
		out = order(out)
	} else if order, ok := q.Sorts[SortNewest]; ok && order != nil {
		out = order(out)
	}
	return out
}
