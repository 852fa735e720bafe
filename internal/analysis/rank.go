package analysis

import (
	"sort"

	"energy-dataset/internal/model"
)

// RankedSource is one production source with its statistics.
type RankedSource struct {
	Rank int `json:"rank"`
	FieldStats
}

// RankSources computes production statistics per source and sorts them
// descending by total production. Ties keep the canonical field order.
func RankSources(intervals []model.Interval) []RankedSource {
	out := make([]RankedSource, 0, len(model.EnergyFields))
	for _, f := range model.EnergyFields {
		sel := model.Selector{Category: model.CategoryProduction, Field: f}
		out = append(out, RankedSource{FieldStats: Compute(intervals, sel)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sum > out[j].Sum
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
