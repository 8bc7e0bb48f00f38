package dataset

import "strings"

// seasonOrder fixes the within-year plotting and sorting order for the two
// season naming schemes present in the study tables: the local dry/wet split
// and standard meteorological quarters.
var seasonOrder = map[string]int{
	"DRY_SEASON": 1,
	"WET_SEASON": 2,
	"DJF":        1,
	"MAM":        2,
	"JJA":        3,
	"SON":        4,
}

// NormalizeSeason canonicalizes a raw season label and resolves its order.
func NormalizeSeason(raw string) (label string, order int, ok bool) {
	label = strings.ToUpper(strings.TrimSpace(raw))
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "-", "_")
	order, ok = seasonOrder[label]
	return label, order, ok
}

// SeasonTitle renders a canonical label for tables and figure legends.
func SeasonTitle(label string) string {
	switch label {
	case "DRY_SEASON":
		return "Dry Season"
	case "WET_SEASON":
		return "Wet Season"
	}
	return label
}
