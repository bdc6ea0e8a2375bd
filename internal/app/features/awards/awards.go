// Package awards serves the employee award report: a filterable, sortable
// table of overnight stays and stairs carries with their bonus values,
// exportable as CSV and PDF, with per-user saved filters.
package awards

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

const pageSize = 10

// Row is one award line as the table shows it.
type Row struct {
	ID            string
	Employee      string
	Overnight     bool
	OvernightDate string
	Stairs        bool
	StairsDate    string
	Value         float64
}

// ValueDisplay renders the bonus value for the table cell.
func (r Row) ValueDisplay() string { return FormatMoney(r.Value) }

func toRow(r upstream.AwardRecord) Row {
	return Row{
		ID:            r.ID,
		Employee:      r.Employee.Name,
		Overnight:     r.Overnight,
		OvernightDate: displayDate(r.OvernightDate),
		Stairs:        r.Stairs,
		StairsDate:    displayDate(r.StairsDate),
		Value:         r.Value.Float(),
	}
}

func displayDate(raw string) string {
	if d, ok := report.ParseDate(raw); ok {
		return d.String()
	}
	return raw
}

// FormatMoney renders a value as Brazilian currency for the table cells.
func FormatMoney(v float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// params is the full filter/sort/page state of one report request, kept as
// the raw strings so it can round-trip through querystrings and saved
// filters unchanged.
type params struct {
	Day    string
	Month  string
	Year   string
	Search string
	Sort   string
	Order  string
	Page   int
}

func parseParams(r *http.Request) params {
	q := r.URL.Query()
	p := params{
		Day:    strings.TrimSpace(q.Get("day")),
		Month:  strings.TrimSpace(q.Get("month")),
		Year:   strings.TrimSpace(q.Get("year")),
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Page:   1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

func (p params) query() report.Query {
	order := report.Ascending
	if p.Order == string(report.Descending) {
		order = report.Descending
	}
	return report.Query{
		Criteria: report.Criteria{Day: p.Day, Month: p.Month, Year: p.Year},
		Search:   p.Search,
		Sort:     report.SortState{Key: p.Sort, Order: order},
		Page:     p.Page,
		PageSize: pageSize,
	}
}

// values captures the view state (page excluded) for saved filters and for
// rebuilding links.
func (p params) values() url.Values {
	v := url.Values{}
	for key, val := range map[string]string{
		"day": p.Day, "month": p.Month, "year": p.Year,
		"search": p.Search, "sort": p.Sort, "order": p.Order,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

func (p params) filterMap() map[string]string {
	m := map[string]string{}
	for key, vals := range p.values() {
		m[key] = vals[0]
	}
	return m
}

func paramsFromMap(m map[string]string) url.Values {
	v := url.Values{}
	for _, key := range []string{"day", "month", "year", "search", "sort", "order"} {
		if m[key] != "" {
			v.Set(key, m[key])
		}
	}
	return v
}

// SortLink builds the header href for a column: clicking the current column
// flips the direction, clicking another selects it ascending. Sorting
// resets the page.
func (p params) SortLink(key string) string {
	next := report.Toggle(report.SortState{Key: p.Sort, Order: report.SortOrder(p.Order)}, key)
	v := p.values()
	v.Set("sort", next.Key)
	v.Set("order", string(next.Order))
	return "/awards?" + v.Encode()
}

// lessFor maps a sort key to a record comparison. Unknown keys leave the
// upstream order untouched.
func lessFor(key string) func(a, b upstream.AwardRecord) bool {
	switch key {
	case "name":
		return func(a, b upstream.AwardRecord) bool {
			return report.FoldName(a.Employee.Name) < report.FoldName(b.Employee.Name)
		}
	case "overnight":
		return dateLess(func(r upstream.AwardRecord) string { return r.OvernightDate })
	case "stairs":
		return dateLess(func(r upstream.AwardRecord) string { return r.StairsDate })
	case "value":
		return func(a, b upstream.AwardRecord) bool { return a.Value.Float() < b.Value.Float() }
	}
	return nil
}

// dateLess compares records by one date field; rows whose date does not
// parse sort last in ascending order.
func dateLess(pick func(upstream.AwardRecord) string) func(a, b upstream.AwardRecord) bool {
	return func(a, b upstream.AwardRecord) bool {
		da, oka := report.ParseDate(pick(a))
		db, okb := report.ParseDate(pick(b))
		if oka != okb {
			return oka
		}
		return oka && da.Before(db)
	}
}

func matchEmployee(rec upstream.AwardRecord, needle string) bool {
	return strings.Contains(report.FoldName(rec.Employee.Name), needle)
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// writeCSV streams the full filtered row set as a spreadsheet-friendly CSV:
// UTF-8 BOM so accented names open correctly, CRLF line endings.
func writeCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write([]string{"Funcionário", "Pernoite", "Data pernoite", "Escada", "Data escada", "Valor"}); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.Employee,
			yesNo(row.Overnight),
			row.OvernightDate,
			yesNo(row.Stairs),
			row.StairsDate,
			FormatMoney(row.Value),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
