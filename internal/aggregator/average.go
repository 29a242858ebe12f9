package aggregator

import (
	"math"
	"strconv"
	"strings"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Average returns the per-field mean of entries rounded to one decimal, or nil when there
// are no entries. GamesPlayed is the entry count, unrounded.
func Average(entries []model.StatEntry) *model.AverageStats {
	if len(entries) == 0 {
		return nil
	}
	totals := TeamStats(entries)
	n := float64(len(entries))
	avg := &model.AverageStats{
		GamesPlayed: len(entries),
		Values:      make(model.Line, len(totals)),
	}
	for f, sum := range totals {
		avg.Values[f] = RoundTenth(sum / n)
	}
	return avg
}

// RoundTenth rounds x to one decimal place, halves away from zero. It rounds the shortest
// decimal form of x, so 0.25 and 2.45 round up while 0.04999999999999999 rounds down.
func RoundTenth(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) >= 1e15 {
		return x
	}
	neg := x < 0
	digits := strconv.FormatFloat(math.Abs(x), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	frac += "00"
	tenths, err := strconv.ParseInt(whole+frac[:1], 10, 64)
	if err != nil {
		return x
	}
	if frac[1] >= '5' {
		tenths++
	}
	out := float64(tenths) / 10
	if neg {
		out = -out
	}
	return out
}

// Shooting holds the percentages and combined counts derived from a line of totals or averages.
type Shooting struct {
	FieldGoalPct  float64 `json:"fgPct"`
	ThreePointPct float64 `json:"threePct"`
	FreeThrowPct  float64 `json:"ftPct"`
	Rebounds      float64 `json:"REB"`
}

// ShootingOf derives percentages from made/attempted pairs. A percentage with no attempts is 0.
func ShootingOf(line model.Line) Shooting {
	return Shooting{
		FieldGoalPct:  pct(line.Get(model.FieldGoalsMade), line.Get(model.FieldGoalsAttempt)),
		ThreePointPct: pct(line.Get(model.ThreesMade), line.Get(model.ThreesAttempt)),
		FreeThrowPct:  pct(line.Get(model.FreeThrowsMade), line.Get(model.FreeThrowsAttempt)),
		Rebounds:      line.Get(model.OffensiveRebounds) + line.Get(model.DefensiveRebounds),
	}
}

func pct(made, attempted float64) float64 {
	if attempted == 0 {
		return 0
	}
	return RoundTenth(made / attempted * 100)
}
