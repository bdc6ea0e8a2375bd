// Package hours serves the worked-day entry forms for employees and
// freelancers, and the per-freelancer hours summary with its overtime and
// overnight totals.
package hours

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/movehq/moveboard/internal/app/system/inputval"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

const pageSize = 10

// dayRow is one submitted line of an hour entry form.
type dayRow struct {
	Date      string
	Hours     string
	Overnight bool
	Stairs    bool
	Value     string
}

// parseDayRows reads the repeated row fields out of a parsed form. Rows
// with every field blank are skipped; the first invalid field aborts with
// a message for the operator.
func parseDayRows(form url.Values) ([]dayRow, string) {
	dates := form["date"]
	hours := form["hours"]
	overnights := form["overnight"]
	stairs := form["stairs"]
	values := form["value"]

	at := func(s []string, i int) string {
		if i < len(s) {
			return strings.TrimSpace(s[i])
		}
		return ""
	}

	var rows []dayRow
	for i := range dates {
		row := dayRow{
			Date:      at(dates, i),
			Hours:     at(hours, i),
			Overnight: at(overnights, i) == "1",
			Stairs:    at(stairs, i) == "1",
			Value:     at(values, i),
		}
		if row.Date == "" && row.Hours == "" && row.Value == "" {
			continue
		}
		if !inputval.IsValidReportDate(row.Date) {
			return nil, "Data inválida: use o formato DD/MM/AAAA."
		}
		if row.Hours == "" || !inputval.IsValidAmount(row.Hours) {
			return nil, "Horas inválidas na linha com data " + row.Date + "."
		}
		if row.Value != "" && !inputval.IsValidAmount(row.Value) {
			return nil, "Valor inválido na linha com data " + row.Date + "."
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, "Informe ao menos um dia trabalhado."
	}
	return rows, ""
}

func (r dayRow) employeeInput(employeeID string) upstream.EmployeeHoursInput {
	in := upstream.EmployeeHoursInput{
		EmployeeID: employeeID,
		Overnight:  r.Overnight,
		Stairs:     r.Stairs,
		Hours:      upstream.FlexNumber(r.Hours),
		Value:      upstream.FlexNumber(r.Value),
	}
	if r.Overnight {
		in.OvernightDate = r.Date
	}
	if r.Stairs {
		in.StairsDate = r.Date
	}
	return in
}

func (r dayRow) freelancerInput(freelancerID string) upstream.FreelancerHoursInput {
	return upstream.FreelancerHoursInput{
		FreelancerID: freelancerID,
		Date:         r.Date,
		Hours:        upstream.FlexNumber(r.Hours),
		Overnight:    r.Overnight,
		Owed:         upstream.FlexNumber(r.Value),
	}
}

// summaryParams is the filter/sort/page state of the summary screen.
type summaryParams struct {
	Day   string
	Month string
	Year  string
	Sort  string
	Order string
	Page  int
}

func parseSummaryParams(r *http.Request) summaryParams {
	q := r.URL.Query()
	p := summaryParams{
		Day:   strings.TrimSpace(q.Get("day")),
		Month: strings.TrimSpace(q.Get("month")),
		Year:  strings.TrimSpace(q.Get("year")),
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
		Page:  1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

func (p summaryParams) values() url.Values {
	v := url.Values{}
	for key, val := range map[string]string{
		"day": p.Day, "month": p.Month, "year": p.Year,
		"sort": p.Sort, "order": p.Order,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// SortLink builds a summary column header href with toggle semantics.
func (p summaryParams) SortLink(key string) string {
	next := report.Toggle(report.SortState{Key: p.Sort, Order: report.SortOrder(p.Order)}, key)
	v := p.values()
	v.Set("sort", next.Key)
	v.Set("order", string(next.Order))
	return "/hours/summary?" + v.Encode()
}

// SummaryRow is one freelancer's aggregated line.
type SummaryRow struct {
	report.AggregateRow
}

// HoursDisplay trims trailing zeros for the table cell.
func (r SummaryRow) HoursDisplay() string { return formatHours(r.Hours) }

// OvertimeDisplay trims trailing zeros for the table cell.
func (r SummaryRow) OvertimeDisplay() string { return formatHours(r.Overtime) }

func formatHours(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return strings.Replace(s, ".", ",", 1)
}

// summarize runs the aggregation pipeline over the raw hour records.
func summarize(recs []upstream.HourRecord, p summaryParams, today report.Date) ([]SummaryRow, int, int) {
	criteria := report.Criteria{Day: p.Day, Month: p.Month, Year: p.Year}
	filtered := report.Filter(recs, criteria, upstream.HourRecord.Dates, today)

	rows := report.Aggregate(filtered,
		func(r upstream.HourRecord) (string, string) { return r.Freelancer.ID, r.Freelancer.Name },
		func(r upstream.HourRecord) float64 { return r.Hours.Float() },
		func(r upstream.HourRecord) bool { return r.Overnight },
	)
	rows = report.SortRows(rows, report.SortState{Key: p.Sort, Order: report.SortOrder(p.Order)})

	total := len(rows)
	paged := report.Paginate(rows, p.Page, pageSize)

	out := make([]SummaryRow, 0, len(paged))
	for _, row := range paged {
		out = append(out, SummaryRow{AggregateRow: row})
	}
	return out, total, report.TotalPages(total, pageSize)
}
