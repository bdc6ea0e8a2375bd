package report

import "strings"

// Query is the snapshot of a table's filter, search, sort and page state for
// one rendering pass. The handlers build a fresh Query from the request on
// every load; nothing is accumulated between requests.
type Query struct {
	Criteria Criteria
	Search   string
	Sort     SortState
	Page     int
	PageSize int
}

// SameView reports whether two queries select the same filtered, sorted view
// (page position excluded). The console's own screens never need it: their
// filter forms and sort links omit the page parameter, so a view change
// resets the page structurally. It exists for callers that hold a previous
// Query and must decide server-side whether a page number is still valid.
func (q Query) SameView(other Query) bool {
	return q.Criteria == other.Criteria &&
		strings.TrimSpace(q.Search) == strings.TrimSpace(other.Search) &&
		q.Sort == other.Sort
}

// ResetPageIf returns q with the page reset to 1 when the view differs from
// prev, for stateful callers carrying a Query between requests. Only an
// explicit page navigation within an unchanged view keeps the requested page.
func (q Query) ResetPageIf(prev Query) Query {
	if !q.SameView(prev) {
		q.Page = 1
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Result is one computed page of a report.
type Result[T any] struct {
	Rows       []T
	Total      int // rows after filtering, before pagination
	TotalPages int
	Page       int
	RangeStart int // 1-indexed position of the first row shown; 0 when empty
	RangeEnd   int
}

// Run applies the fixed stage order — date filter, search filter, sort,
// paginate — to a full record set and returns the page snapshot. search
// receives the lowercase-folded needle and decides per record; a nil search
// or empty needle skips that stage, and a nil less skips sorting.
func Run[T any](records []T, q Query, dates DateSelector[T], search func(rec T, needle string) bool, less func(a, b T) bool, today Date) Result[T] {
	rows := Filter(records, q.Criteria, dates, today)

	if needle := FoldName(q.Search); needle != "" && search != nil {
		kept := rows[:0:0]
		for _, rec := range rows {
			if search(rec, needle) {
				kept = append(kept, rec)
			}
		}
		rows = kept
	}

	rows = SortBy(rows, less, q.Sort.Order)

	total := len(rows)
	page := q.Page
	if page < 1 {
		page = 1
	}
	paged := Paginate(rows, page, q.PageSize)

	res := Result[T]{
		Rows:       paged,
		Total:      total,
		TotalPages: TotalPages(total, q.PageSize),
		Page:       page,
	}
	if len(paged) > 0 {
		res.RangeStart = (page-1)*q.PageSize + 1
		res.RangeEnd = res.RangeStart + len(paged) - 1
	}
	return res
}
