// Package aggregator reduces box-score lines into team totals and player averages.
// Every function here is pure and works on already-loaded data.
package aggregator

import (
	"slices"

	"github.com/pable/go-hoops-stats/internal/model"
)

// TeamStats sums every numeric schema field across entries. A field missing from an entry
// counts as zero, and empty input yields every field at zero. Descriptive fields never take
// part. Each field's values are added in ascending order, so the result does not depend on
// the order of entries even when floating-point addition would.
func TeamStats(entries []model.StatEntry) model.TeamStats {
	fields := model.NumericFields()
	out := make(model.TeamStats, len(fields))
	vals := make([]float64, len(entries))
	for _, f := range fields {
		for i, e := range entries {
			vals[i] = e.Get(f)
		}
		slices.Sort(vals)
		var sum float64
		for _, v := range vals {
			sum += v
		}
		out[f] = sum
	}
	return out
}

// GameTotals is TeamStats over a game's player lines.
func GameTotals(lines []model.PlayerLine) model.TeamStats {
	return TeamStats(model.Entries(lines))
}
