package events

import (
	"fmt"
	"sort"
	"time"
)

// Calendar is a year by calendar-month grid of flagged months, the layout
// behind the event calendar heatmaps. Rows cover every year present in the
// index, in ascending order; columns run January through December with zero
// fill for months outside the record.
type Calendar struct {
	Years  []int
	Counts [][12]int
}

// Pivot folds a detection mask into a calendar grid. Months and mask must be
// aligned; each flagged month increments its year/month cell.
func Pivot(months []time.Time, mask []bool) (*Calendar, error) {
	if len(months) != len(mask) {
		return nil, fmt.Errorf("calendar pivot: %d months vs %d mask entries", len(months), len(mask))
	}
	rows := make(map[int]*[12]int)
	years := make([]int, 0)
	for i, m := range months {
		y := m.Year()
		row, ok := rows[y]
		if !ok {
			row = new([12]int)
			rows[y] = row
			years = append(years, y)
		}
		if mask[i] {
			row[int(m.Month())-1]++
		}
	}
	sort.Ints(years)
	cal := &Calendar{Years: years, Counts: make([][12]int, len(years))}
	for i, y := range years {
		cal.Counts[i] = *rows[y]
	}
	return cal, nil
}

// Max is the largest cell count, used to scale heatmap colors. An empty
// calendar reports zero.
func (c *Calendar) Max() int {
	max := 0
	for _, row := range c.Counts {
		for _, n := range row {
			if n > max {
				max = n
			}
		}
	}
	return max
}
