// Package report implements the in-memory tabular report engine used by the
// console's award, payment and worked-hours screens: date normalization,
// criteria/trailing-window filtering, per-subject aggregation, stable sorting
// and pagination. All stages are pure functions over already-fetched records;
// the engine performs no I/O and reads no global clock.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no time-of-day or zone attached. Two inputs
// that denote the same calendar day always normalize to equal Dates.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate normalizes a raw date string into a Date. It accepts DD/MM/YYYY
// and YYYY-MM-DD, the latter optionally followed by a time component, which
// is ignored. The ok result is false when the string does not denote a valid
// calendar day; callers must treat that as "excluded from date comparisons",
// not as an error.
func ParseDate(raw string) (Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, false
	}

	var day, month, year int
	switch {
	case strings.Contains(raw, "/"):
		parts := strings.Split(raw, "/")
		if len(parts) != 3 {
			return Date{}, false
		}
		day = atoi(parts[0])
		month = atoi(parts[1])
		year = atoi(parts[2])
	case strings.Contains(raw, "-"):
		// Strip a time suffix (2024-03-05T10:00:00 or "2024-03-05 10:00").
		if i := strings.IndexAny(raw, "T "); i >= 0 {
			raw = raw[:i]
		}
		parts := strings.Split(raw, "-")
		if len(parts) != 3 {
			return Date{}, false
		}
		year = atoi(parts[0])
		month = atoi(parts[1])
		day = atoi(parts[2])
	default:
		return Date{}, false
	}

	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}

	// Construct at local noon so the round-trip through time.Time can never
	// shift the day across a zone offset, then reject rolled-over dates
	// such as 31/02 (time.Date normalizes them to the next month).
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.Local)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, false
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date anchored at local noon.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local)
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Equal reports whether d and other denote the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the date as DD/MM/YYYY, the console's display format.
// ParseDate(d.String()) yields d back.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
