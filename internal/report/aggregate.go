package report

import (
	"strconv"
	"strings"
)

// OvertimeThreshold is the monthly worked-hours ceiling; hours beyond it
// count as overtime.
const OvertimeThreshold = 150

// AggregateRow is one per-subject summary produced by Aggregate.
type AggregateRow struct {
	SubjectID   string
	SubjectName string
	Hours       float64 // sum of worked units
	Overtime    float64 // max(0, Hours-OvertimeThreshold), derived after summing
	Flagged     int     // count of records with the flag set (overnight stays)
}

// SubjectSelector extracts the stable subject id and display name of a record.
type SubjectSelector[T any] func(T) (id, name string)

// Aggregate groups records by subject and reduces each group into an
// AggregateRow. The display name is taken from the first record seen for a
// subject; later records never overwrite it. Worked units that are absent or
// unparseable add 0. Overtime is derived in a final pass over the complete
// sums, never accumulated incrementally, so the result is independent of
// record order. Rows come back in first-seen order; subjects with no records
// do not appear.
func Aggregate[T any](records []T, subject SubjectSelector[T], hours func(T) float64, flagged func(T) bool) []AggregateRow {
	index := make(map[string]int, len(records))
	rows := make([]AggregateRow, 0, len(records))

	for _, rec := range records {
		id, name := subject(rec)
		if id == "" {
			continue
		}
		i, ok := index[id]
		if !ok {
			i = len(rows)
			index[id] = i
			rows = append(rows, AggregateRow{SubjectID: id, SubjectName: name})
		}
		rows[i].Hours += hours(rec)
		if flagged(rec) {
			rows[i].Flagged++
		}
	}

	for i := range rows {
		if over := rows[i].Hours - OvertimeThreshold; over > 0 {
			rows[i].Overtime = over
		}
	}

	return rows
}

// ParseNumber reads a numeric field that may arrive as a bare number
// ("12.5"), or as a Brazilian currency string ("R$ 1.234,56"). Anything
// unparseable yields 0; the aggregation stages default rather than fail.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}

	// Currency form: strip everything but digits and the decimal comma,
	// then treat the comma as the decimal separator.
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	if cleaned == "" || cleaned == "." {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}
