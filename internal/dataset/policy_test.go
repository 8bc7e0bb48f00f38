package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearPolicyCoverage(t *testing.T) {
	p := NewYearPolicy(map[int]string{
		2025: "Incomplete (Jan-Aug only)",
		2016: "",
	})

	complete, note := p.Coverage(2020)
	assert.True(t, complete)
	assert.Equal(t, "Complete", note)

	complete, note = p.Coverage(2025)
	assert.False(t, complete)
	assert.Equal(t, "Incomplete (Jan-Aug only)", note)

	complete, note = p.Coverage(2016)
	assert.False(t, complete)
	assert.Equal(t, "Excluded", note, "empty reasons fall back to a generic note")
}

func TestYearPolicyNil(t *testing.T) {
	var p *YearPolicy
	complete, note := p.Coverage(2025)
	assert.True(t, complete)
	assert.Equal(t, "Complete", note)
}

func TestYearPolicyFilterComplete(t *testing.T) {
	p := NewYearPolicy(map[int]string{2025: "Incomplete (Jan-Aug only)"})
	obs := []YearlyObs{
		{Year: 2023, AOD: 0.5, LST: 31},
		{Year: 2024, AOD: 0.6, LST: 32},
		{Year: 2025, AOD: 0.7, LST: 33},
	}
	kept := p.FilterComplete(obs)
	assert.Len(t, kept, 2)
	assert.Equal(t, 2023, kept[0].Year)
	assert.Equal(t, 2024, kept[1].Year)
}
