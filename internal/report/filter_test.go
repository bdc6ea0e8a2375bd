package report

import (
	"testing"
	"time"
)

type stamped struct {
	id    string
	dates []string
}

func stampedDates(s stamped) []string { return s.dates }

func fixedToday() Date { return Date{2024, time.March, 15} }

func TestFilterTrailingWindow(t *testing.T) {
	today := fixedToday()
	records := []stamped{
		{id: "today", dates: []string{"15/03/2024"}},
		{id: "edge-in", dates: []string{"15/02/2024"}},   // exactly 29 days back
		{id: "edge-out", dates: []string{"14/02/2024"}},  // 30 days back
		{id: "future", dates: []string{"16/03/2024"}},    // tomorrow
		{id: "one-of-two", dates: []string{"01/01/2024", "10/03/2024"}},
		{id: "unparseable", dates: []string{"garbage"}},
		{id: "empty", dates: nil},
	}

	got := Filter(records, Criteria{}, stampedDates, today)

	want := map[string]bool{"today": true, "edge-in": true, "one-of-two": true}
	if len(got) != len(want) {
		t.Fatalf("kept %d records, want %d", len(got), len(want))
	}
	for _, r := range got {
		if !want[r.id] {
			t.Errorf("record %q should have been excluded", r.id)
		}
	}
}

func TestFilterExplicitCriteria(t *testing.T) {
	today := fixedToday()
	records := []stamped{
		{id: "a", dates: []string{"05/03/2024"}},
		{id: "b", dates: []string{"05/03/2023"}},
		{id: "c", dates: []string{"20/04/2024"}},
		{id: "d", dates: []string{"bad", "05/03/2024"}},
	}

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"month only matches any year", Criteria{Month: "03"}, []string{"a", "b", "d"}},
		{"month without leading zero", Criteria{Month: "3"}, []string{"a", "b", "d"}},
		{"month and year", Criteria{Month: "03", Year: "2024"}, []string{"a", "d"}},
		{"full day", Criteria{Day: "5", Month: "3", Year: "2024"}, []string{"a", "d"}},
		{"year only", Criteria{Year: "2023"}, []string{"b"}},
		{"no match", Criteria{Month: "12"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(records, tc.c, stampedDates, today)
			if got == nil {
				t.Fatal("Filter returned nil slice")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("kept %d records, want %d", len(got), len(tc.want))
			}
			for i, r := range got {
				if r.id != tc.want[i] {
					t.Errorf("kept[%d] = %q, want %q", i, r.id, tc.want[i])
				}
			}
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	today := fixedToday()
	records := []stamped{
		{id: "third", dates: []string{"03/03/2024"}},
		{id: "first", dates: []string{"01/03/2024"}},
		{id: "second", dates: []string{"02/03/2024"}},
	}
	got := Filter(records, Criteria{Month: "03"}, stampedDates, today)
	wantOrder := []string{"third", "first", "second"}
	for i, r := range got {
		if r.id != wantOrder[i] {
			t.Fatalf("input order not preserved: got %q at %d", r.id, i)
		}
	}
}

func TestCriteriaEmpty(t *testing.T) {
	if !(Criteria{}).Empty() {
		t.Error("zero criteria should be empty")
	}
	if !(Criteria{Day: "  "}).Empty() {
		t.Error("whitespace-only criteria should be empty")
	}
	if (Criteria{Year: "2024"}).Empty() {
		t.Error("criteria with a year is not empty")
	}
}

func TestToday(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2024, time.March, 15, 23, 59, 0, 0, time.Local)
	}
	if got := Today(clock); !got.Equal(Date{2024, time.March, 15}) {
		t.Errorf("Today = %v, want 15/03/2024", got)
	}
}
