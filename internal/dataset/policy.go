package dataset

// YearPolicy decides which years enter robust statistics. Excluded years
// stay visible on reference figures and in coverage reports but are removed
// from trend and regression samples.
type YearPolicy struct {
	excluded map[int]string
}

func NewYearPolicy(excluded map[int]string) *YearPolicy {
	p := &YearPolicy{excluded: make(map[int]string, len(excluded))}
	for year, reason := range excluded {
		if reason == "" {
			reason = "Excluded"
		}
		p.excluded[year] = reason
	}
	return p
}

// Coverage reports whether a year is complete and the coverage note for it.
func (p *YearPolicy) Coverage(year int) (complete bool, note string) {
	if p == nil {
		return true, "Complete"
	}
	if reason, ok := p.excluded[year]; ok {
		return false, reason
	}
	return true, "Complete"
}

// FilterComplete returns only the years admitted to robust statistics.
func (p *YearPolicy) FilterComplete(obs []YearlyObs) []YearlyObs {
	out := make([]YearlyObs, 0, len(obs))
	for _, o := range obs {
		if complete, _ := p.Coverage(o.Year); complete {
			out = append(out, o)
		}
	}
	return out
}
