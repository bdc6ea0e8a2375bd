// Package payments serves the freelancer payment report: day rates and
// stairs carries with the amount owed, filterable by name and date range,
// with inline value editing and an archived PDF export.
package payments

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

const pageSize = 10

// Row is one payment line as the table shows it.
type Row struct {
	ID         string
	Freelancer string
	DayRate    bool
	DayDate    string
	Stairs     bool
	StairsDate string
	Owed       float64
	OwedRaw    string
}

// OwedDisplay renders the amount for the table cell. Unparseable stored
// values show as R$ 0,00; the raw string is preserved for the edit input.
func (r Row) OwedDisplay() string { return FormatMoney(r.Owed) }

// FormatMoney renders a value as Brazilian currency.
func FormatMoney(v float64) string {
	return "R$ " + strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func toRow(r upstream.PaymentRecord) Row {
	return Row{
		ID:         r.ID,
		Freelancer: r.Freelancer.Name,
		DayRate:    r.DayRate,
		DayDate:    displayDate(r.DayDate),
		Stairs:     r.Stairs,
		StairsDate: displayDate(r.StairsDate),
		Owed:       r.Owed.Float(),
		OwedRaw:    r.Owed.String(),
	}
}

func displayDate(raw string) string {
	if d, ok := report.ParseDate(raw); ok {
		return d.String()
	}
	return raw
}

// params is the filter state of one payments request.
type params struct {
	Search     string
	Start      string
	End        string
	DayOnly    bool
	StairsOnly bool
	Page       int
}

func parseParams(r *http.Request) params {
	q := r.URL.Query()
	p := params{
		Search:     strings.TrimSpace(q.Get("search")),
		Start:      strings.TrimSpace(q.Get("start")),
		End:        strings.TrimSpace(q.Get("end")),
		DayOnly:    q.Get("diaria") == "1",
		StairsOnly: q.Get("escada") == "1",
		Page:       1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

func (p params) values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Start != "" {
		v.Set("start", p.Start)
	}
	if p.End != "" {
		v.Set("end", p.End)
	}
	if p.DayOnly {
		v.Set("diaria", "1")
	}
	if p.StairsOnly {
		v.Set("escada", "1")
	}
	return v
}

func (p params) baseQuery() string {
	return "/payments?" + p.values().Encode()
}

// filterRecords narrows the raw payment set to the requested view. With no
// date bound set, the trailing window applies: only records dated within
// the last 30 days are kept. An explicit start or end replaces the window;
// the open side is unbounded. A record whose dates do not parse never
// matches a date bound, so it is excluded here just as the report filter
// excludes it from date-constrained results.
func filterRecords(recs []upstream.PaymentRecord, p params, today report.Date) []upstream.PaymentRecord {
	start, hasStart := report.ParseDate(p.Start)
	end, hasEnd := report.ParseDate(p.End)
	if !hasStart && !hasEnd {
		start = today.AddDays(-(report.TrailingWindowDays - 1))
		end = today
		hasStart, hasEnd = true, true
	}

	needle := report.FoldName(p.Search)
	out := make([]upstream.PaymentRecord, 0, len(recs))
	for _, rec := range recs {
		if needle != "" && !strings.Contains(report.FoldName(rec.Freelancer.Name), needle) {
			continue
		}
		if p.DayOnly && !rec.DayRate {
			continue
		}
		if p.StairsOnly && !rec.Stairs {
			continue
		}
		if !dateInRange(rec.Dates(), start, hasStart, end, hasEnd) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// dateInRange reports whether any of the record's parseable dates falls
// inside the bounds.
func dateInRange(raws []string, start report.Date, hasStart bool, end report.Date, hasEnd bool) bool {
	for _, raw := range raws {
		d, ok := report.ParseDate(raw)
		if !ok {
			continue
		}
		if hasStart && d.Before(start) {
			continue
		}
		if hasEnd && end.Before(d) {
			continue
		}
		return true
	}
	return false
}

// sortRecords orders by folded freelancer name, ties by day date.
func sortRecords(recs []upstream.PaymentRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		ni, nj := report.FoldName(recs[i].Freelancer.Name), report.FoldName(recs[j].Freelancer.Name)
		if ni != nj {
			return ni < nj
		}
		di, oki := report.ParseDate(recs[i].DayDate)
		dj, okj := report.ParseDate(recs[j].DayDate)
		if oki != okj {
			return oki
		}
		return oki && di.Before(dj)
	})
}

// Totals is the summary panel shown when a name search is active.
type Totals struct {
	Days   int // records with the day-rate flag
	Stairs int // records with the stairs flag
	Sum    float64
}

// SumDisplay renders the money total.
func (t Totals) SumDisplay() string { return FormatMoney(t.Sum) }

func computeTotals(recs []upstream.PaymentRecord) Totals {
	var t Totals
	for _, rec := range recs {
		if rec.DayRate {
			t.Days++
		}
		if rec.Stairs {
			t.Stairs++
		}
		t.Sum += rec.Owed.Float()
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
