package report

import (
	"math"
	"testing"
)

type shift struct {
	subjectID   string
	subjectName string
	hours       float64
	flagged     bool
}

func shiftSubject(s shift) (string, string) { return s.subjectID, s.subjectName }
func shiftHours(s shift) float64            { return s.hours }
func shiftFlagged(s shift) bool             { return s.flagged }

func TestAggregateSumsAndOvertime(t *testing.T) {
	records := []shift{
		{"e1", "Ana", 120, false},
		{"e1", "Ana", 60, true},
		{"e2", "Bruno", 300, false},
		{"e3", "Carla", 140, false},
	}

	rows := Aggregate(records, shiftSubject, shiftHours, shiftFlagged)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	byID := map[string]AggregateRow{}
	for _, r := range rows {
		byID[r.SubjectID] = r
	}

	tests := []struct {
		id       string
		hours    float64
		overtime float64
		flagged  int
	}{
		{"e1", 180, 30, 1},  // 180 - 150
		{"e2", 300, 150, 0}, // 300 - 150
		{"e3", 140, 0, 0},   // under the threshold
	}
	for _, tc := range tests {
		r, ok := byID[tc.id]
		if !ok {
			t.Errorf("subject %q missing from output", tc.id)
			continue
		}
		if r.Hours != tc.hours {
			t.Errorf("%s hours = %v, want %v", tc.id, r.Hours, tc.hours)
		}
		if r.Overtime != tc.overtime {
			t.Errorf("%s overtime = %v, want %v", tc.id, r.Overtime, tc.overtime)
		}
		if r.Flagged != tc.flagged {
			t.Errorf("%s flagged = %d, want %d", tc.id, r.Flagged, tc.flagged)
		}
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := []shift{
		{"e1", "Ana", 100, false},
		{"e2", "Bruno", 50, true},
		{"e1", "Ana", 80, false},
	}
	reversed := []shift{forward[2], forward[1], forward[0]}

	a := Aggregate(forward, shiftSubject, shiftHours, shiftFlagged)
	b := Aggregate(reversed, shiftSubject, shiftHours, shiftFlagged)

	index := func(rows []AggregateRow) map[string]AggregateRow {
		m := map[string]AggregateRow{}
		for _, r := range rows {
			m[r.SubjectID] = r
		}
		return m
	}
	am, bm := index(a), index(b)
	if len(am) != len(bm) {
		t.Fatalf("row counts differ: %d vs %d", len(am), len(bm))
	}
	for id, ar := range am {
		if bm[id] != ar {
			t.Errorf("subject %q differs across input orders: %+v vs %+v", id, ar, bm[id])
		}
	}
}

func TestAggregateFirstSeenOrderAndName(t *testing.T) {
	records := []shift{
		{"e2", "Bruno", 10, false},
		{"e1", "Ana", 10, false},
		{"e2", "Bruno Silva", 10, false}, // later name variant ignored
		{"", "Anonymous", 99, false},     // no subject key, dropped
	}
	rows := Aggregate(records, shiftSubject, shiftHours, shiftFlagged)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SubjectID != "e2" || rows[1].SubjectID != "e1" {
		t.Errorf("first-seen order not kept: %q, %q", rows[0].SubjectID, rows[1].SubjectID)
	}
	if rows[0].SubjectName != "Bruno" {
		t.Errorf("name = %q, want first-seen %q", rows[0].SubjectName, "Bruno")
	}
	if rows[0].Hours != 20 {
		t.Errorf("e2 hours = %v, want 20", rows[0].Hours)
	}
}

func TestAggregateEmpty(t *testing.T) {
	rows := Aggregate(nil, shiftSubject, shiftHours, shiftFlagged)
	if rows == nil || len(rows) != 0 {
		t.Errorf("want non-nil empty slice, got %#v", rows)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"150", 150},
		{"150.5", 150.5},
		{"  42 ", 42},
		{"R$ 1.234,56", 1234.56},
		{"1.234,56", 1234.56},
		{"120,5", 120.5},
		{"R$ 90", 90},
		{"", 0},
		{"abc", 0},
		{"R$", 0},
	}
	for _, tc := range tests {
		if got := ParseNumber(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
