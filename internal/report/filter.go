package report

import (
	"strconv"
	"strings"
	"time"
)

// TrailingWindowDays is the length of the default lookback window applied
// when no explicit day/month/year criteria are set: the last 30 calendar
// days inclusive of today.
const TrailingWindowDays = 30

// Clock supplies "now" to the filter stage. Injecting it keeps the engine
// pure and lets tests pin the evaluation day.
type Clock func() time.Time

// Criteria holds optional day/month/year filter components as they arrive
// from query parameters. An empty component is a wildcard. Values compare
// numerically, so "3" and "03" both match March.
type Criteria struct {
	Day   string
	Month string
	Year  string
}

// Empty reports whether no component is set.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Day) == "" &&
		strings.TrimSpace(c.Month) == "" &&
		strings.TrimSpace(c.Year) == ""
}

// Matches reports whether every set component equals the corresponding
// component of d. Unset components match anything.
func (c Criteria) Matches(d Date) bool {
	if !componentMatches(c.Day, d.Day) {
		return false
	}
	if !componentMatches(c.Month, int(d.Month)) {
		return false
	}
	return componentMatches(c.Year, d.Year)
}

func componentMatches(want string, have int) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	n, err := strconv.Atoi(want)
	if err != nil {
		return false
	}
	return n == have
}

// DateSelector extracts the raw date strings of a record that the filter
// should consider. Records with several date-bearing fields (an award has an
// overnight date and a stairs date) return all of them; a record matches
// when any of its parseable dates matches.
type DateSelector[T any] func(T) []string

// Filter selects the records matching the criteria. With at least one
// component set, a record is kept iff one of its dates satisfies every set
// component. With empty criteria the trailing window rule applies: keep
// records dated within [today-29d, today] inclusive. today is evaluated once
// per call so every record is judged against the same day.
//
// Records none of whose dates parse are excluded from date-constrained
// results. No match yields an empty, non-nil slice.
func Filter[T any](records []T, c Criteria, dates DateSelector[T], today Date) []T {
	out := make([]T, 0, len(records))

	windowStart := today.AddDays(-(TrailingWindowDays - 1))
	explicit := !c.Empty()

	for _, rec := range records {
		matched := false
		for _, raw := range dates(rec) {
			d, ok := ParseDate(raw)
			if !ok {
				continue
			}
			if explicit {
				if c.Matches(d) {
					matched = true
				}
			} else if !d.Before(windowStart) && !today.Before(d) {
				matched = true
			}
			if matched {
				break
			}
		}
		if matched {
			out = append(out, rec)
		}
	}

	return out
}

// Today truncates the clock's current instant to its local calendar day.
// The fallback window is anchored to local midnight: every invocation within
// the same calendar day sees the same window.
func Today(clock Clock) Date {
	if clock == nil {
		clock = time.Now
	}
	return DateOf(clock())
}
