package report

import (
	"sort"
	"strings"
)

// SortOrder is a sort direction. The zero value is not valid; use Ascending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortState is the current sort column and direction of a table.
type SortState struct {
	Key   string
	Order SortOrder
}

// Toggle returns the state after the user clicks a column header: clicking
// the current key flips the direction, clicking a new key selects it
// ascending.
func Toggle(s SortState, key string) SortState {
	if s.Key == key {
		if s.Order == Ascending {
			return SortState{Key: key, Order: Descending}
		}
		return SortState{Key: key, Order: Ascending}
	}
	return SortState{Key: key, Order: Ascending}
}

// SortBy returns a new slice holding rows ordered by less with the given
// direction. The input is never mutated. The sort is stable: rows that
// compare equal keep their original relative order in either direction.
func SortBy[T any](rows []T, less func(a, b T) bool, order SortOrder) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	if less == nil {
		return out
	}
	cmp := less
	if order == Descending {
		cmp = func(a, b T) bool { return less(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) })
	return out
}

// FoldName lowercases a display name for locale-independent comparison.
func FoldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SortRows orders aggregate rows by one of the keys "name", "hours",
// "overtime" or "flagged". Numeric keys compare numerically, the name key
// case-insensitively. An unknown key leaves the rows in their current order.
func SortRows(rows []AggregateRow, s SortState) []AggregateRow {
	var less func(a, b AggregateRow) bool
	switch s.Key {
	case "name":
		less = func(a, b AggregateRow) bool { return FoldName(a.SubjectName) < FoldName(b.SubjectName) }
	case "hours":
		less = func(a, b AggregateRow) bool { return a.Hours < b.Hours }
	case "overtime":
		less = func(a, b AggregateRow) bool { return a.Overtime < b.Overtime }
	case "flagged":
		less = func(a, b AggregateRow) bool { return a.Flagged < b.Flagged }
	}
	return SortBy(rows, less, s.Order)
}

// Paginate returns the 1-indexed page of the given size as a clipped slice
// of rows. A page beyond the data yields an empty slice, never an error.
func Paginate[T any](rows []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return []T{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// TotalPages is ceil(total/size); 0 when there are no rows, meaning
// "nothing to paginate" rather than "page 1 of 0".
func TotalPages(total, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return (total + size - 1) / size
}
