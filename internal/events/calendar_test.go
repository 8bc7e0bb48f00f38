package events

import (
	"testing"
	"time"
)

func TestPivotGroupsByYear(t *testing.T) {
	months := []time.Time{
		time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	mask := []bool{true, true, true, false}

	cal, err := Pivot(months, mask)
	if err != nil {
		t.Fatalf("pivot: %v", err)
	}
	if len(cal.Years) != 2 || cal.Years[0] != 2020 || cal.Years[1] != 2021 {
		t.Fatalf("years = %v, want [2020 2021]", cal.Years)
	}
	if cal.Counts[0][10] != 1 || cal.Counts[0][11] != 1 {
		t.Errorf("2020 row = %v, want Nov and Dec flagged", cal.Counts[0])
	}
	if cal.Counts[1][0] != 1 {
		t.Errorf("2021 row = %v, want Jan flagged", cal.Counts[1])
	}
	if cal.Counts[1][1] != 0 {
		t.Errorf("2021 Feb = %d, want 0 for an unflagged month", cal.Counts[1][1])
	}
}

func TestPivotYearsSortedRegardlessOfInput(t *testing.T) {
	months := []time.Time{
		time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	cal, err := Pivot(months, []bool{true, true, true})
	if err != nil {
		t.Fatalf("pivot: %v", err)
	}
	want := []int{2019, 2021, 2022}
	for i, y := range want {
		if cal.Years[i] != y {
			t.Fatalf("years = %v, want %v", cal.Years, want)
		}
	}
}

func TestPivotLengthMismatch(t *testing.T) {
	months := []time.Time{time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := Pivot(months, []bool{true, false}); err == nil {
		t.Fatal("expected an error for misaligned mask")
	}
}

func TestCalendarMax(t *testing.T) {
	cal := &Calendar{
		Years:  []int{2020, 2021},
		Counts: [][12]int{{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, {0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 2, 0}},
	}
	if got := cal.Max(); got != 3 {
		t.Errorf("max = %d, want 3", got)
	}
	empty := &Calendar{}
	if got := empty.Max(); got != 0 {
		t.Errorf("empty max = %d, want 0", got)
	}
}
