package dataset

import (
	"sort"
	"time"
)

// MonthCycle is the multi-year mean of both variables for one calendar month.
type MonthCycle struct {
	Month time.Month
	AOD   float64
	LST   float64
	N     int
}

type SeasonCycle struct {
	Season string
	Order  int
	AOD    float64
	LST    float64
	N      int
}

type cycleAccum struct {
	aodSum float64
	lstSum float64
	n      int
}

func (a *cycleAccum) add(aod, lst float64) {
	a.aodSum += aod
	a.lstSum += lst
	a.n++
}

// MonthlyCycle averages every observation into its calendar month,
// producing the climatological annual cycle. Only months present in the
// data appear; the result is ordered January through December.
func MonthlyCycle(obs []MonthlyObs) []MonthCycle {
	accum := make(map[time.Month]*cycleAccum)
	for _, o := range obs {
		m := o.Month.Month()
		a, ok := accum[m]
		if !ok {
			a = &cycleAccum{}
			accum[m] = a
		}
		a.add(o.AOD, o.LST)
	}
	out := make([]MonthCycle, 0, len(accum))
	for m, a := range accum {
		out = append(out, MonthCycle{
			Month: m,
			AOD:   a.aodSum / float64(a.n),
			LST:   a.lstSum / float64(a.n),
			N:     a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// SeasonalCycle averages seasonal observations across years per season,
// ordered by the season order.
func SeasonalCycle(obs []SeasonalObs) []SeasonCycle {
	type key struct {
		season string
		order  int
	}
	accum := make(map[key]*cycleAccum)
	for _, o := range obs {
		k := key{season: o.Season, order: o.Order}
		a, ok := accum[k]
		if !ok {
			a = &cycleAccum{}
			accum[k] = a
		}
		a.add(o.AOD, o.LST)
	}
	out := make([]SeasonCycle, 0, len(accum))
	for k, a := range accum {
		out = append(out, SeasonCycle{
			Season: k.season,
			Order:  k.order,
			AOD:    a.aodSum / float64(a.n),
			LST:    a.lstSum / float64(a.n),
			N:      a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Season < out[j].Season
	})
	return out
}
