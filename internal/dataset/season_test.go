package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeason(t *testing.T) {
	tests := []struct {
		raw   string
		label string
		order int
		ok    bool
	}{
		{"Dry Season", "DRY_SEASON", 1, true},
		{"  dry-season ", "DRY_SEASON", 1, true},
		{"WET_SEASON", "WET_SEASON", 2, true},
		{"djf", "DJF", 1, true},
		{"MAM", "MAM", 2, true},
		{"jja", "JJA", 3, true},
		{"SON", "SON", 4, true},
		{"Harmattan", "HARMATTAN", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		label, order, ok := NormalizeSeason(tt.raw)
		assert.Equal(t, tt.label, label, "label for %q", tt.raw)
		assert.Equal(t, tt.order, order, "order for %q", tt.raw)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.raw)
	}
}

func TestSeasonTitle(t *testing.T) {
	assert.Equal(t, "Dry Season", SeasonTitle("DRY_SEASON"))
	assert.Equal(t, "Wet Season", SeasonTitle("WET_SEASON"))
	assert.Equal(t, "MAM", SeasonTitle("MAM"))
}
