// Package report renders players, games and averages as terminal tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/model"
)

// labels overrides the wire key in column headers.
var labels = map[model.Field]string{
	model.ThreesMade:    "3PM",
	model.ThreesAttempt: "3PA",
}

func label(f model.Field) string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// stat formats a value without a decimal when it is whole.
func stat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func statHeader(lead ...string) []any {
	out := make([]any, 0, len(lead)+len(model.NumericFields()))
	for _, l := range lead {
		out = append(out, l)
	}
	for _, f := range model.NumericFields() {
		out = append(out, label(f))
	}
	return out
}

func statCells(line model.Line, lead ...string) []any {
	out := make([]any, 0, len(lead)+len(model.NumericFields()))
	for _, l := range lead {
		out = append(out, l)
	}
	for _, f := range model.NumericFields() {
		out = append(out, stat(line.Get(f)))
	}
	return out
}

// PrintRoster prints one row per player with their per-game averages.
func PrintRoster(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("ID", "NAME", "#", "POS", "HT", "WT", "GP", "PTS", "REB", "AST", "FG%")

	for _, p := range players {
		gp, pts, reb, ast, fg := "0", "—", "—", "—", "—"
		if avg := aggregator.Average(p.Stats); avg != nil {
			sh := aggregator.ShootingOf(avg.Values)
			gp = strconv.Itoa(avg.GamesPlayed)
			pts = stat(avg.Get(model.Points))
			reb = stat(sh.Rebounds)
			ast = stat(avg.Get(model.Assists))
			fg = pct(sh.FieldGoalPct)
		}
		table.Append(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Number,
			p.Position,
			p.Height,
			p.Weight,
			gp, pts, reb, ast, fg,
		)
	}
	table.Render()
}

// PrintGames prints one row per game with its team points.
func PrintGames(w io.Writer, games []model.Game) {
	table := newTable(w)
	table.Header("ID", "DATE", "NAME", "TYPE", "RESULT", "LINES", "PTS", "REB", "AST")

	for _, g := range games {
		table.Append(
			strconv.FormatInt(g.ID, 10),
			g.Date,
			g.Name,
			g.Type,
			g.Result,
			strconv.Itoa(len(g.PlayerStats)),
			stat(g.TeamStats.Get(model.Points)),
			stat(g.TeamStats.Get(model.OffensiveRebounds)+g.TeamStats.Get(model.DefensiveRebounds)),
			stat(g.TeamStats.Get(model.Assists)),
		)
	}
	table.Render()
}

// PrintGameSummary prints a one-line header for the game.
func PrintGameSummary(w io.Writer, g model.Game) {
	date, kind, result := g.Date, g.Type, g.Result
	if date == "" {
		date = "—"
	}
	if kind == "" {
		kind = "—"
	}
	if result == "" {
		result = "—"
	}
	fmt.Fprintf(w, "\nGame %d: %s  |  Date: %s  |  Type: %s  |  Result: %s\n\n", g.ID, g.Name, date, kind, result)
}

// PrintBoxScore prints the game's player lines followed by the team totals.
// names maps player ids to display names; a missing name shows the id.
func PrintBoxScore(w io.Writer, g model.Game, names map[int64]string) {
	table := newTable(w)
	table.Header(statHeader("PLAYER")...)

	for _, l := range g.PlayerStats {
		name, ok := names[l.PlayerID]
		if !ok {
			name = "#" + strconv.FormatInt(l.PlayerID, 10)
		}
		table.Append(statCells(l.Values, name)...)
	}
	table.Append(statCells(model.Line(g.TeamStats), "TEAM")...)
	table.Render()

	sh := aggregator.ShootingOf(model.Line(g.TeamStats))
	fmt.Fprintf(w, "FG %s  |  3P %s  |  FT %s  |  REB %s\n",
		pct(sh.FieldGoalPct), pct(sh.ThreePointPct), pct(sh.FreeThrowPct), stat(sh.Rebounds))
}

// PrintHistory prints a player's recorded lines, one per game, in recording order.
// games supplies labels; entries for unknown games show the game id.
func PrintHistory(w io.Writer, p model.Player, games map[int64]model.Game) {
	if len(p.Stats) == 0 {
		fmt.Fprintf(w, "No games recorded for %s.\n", p.Name)
		return
	}
	table := newTable(w)
	table.Header(statHeader("GAME", "DATE", "RESULT")...)

	for _, e := range p.Stats {
		var (
			info map[model.Field]string
			date string
		)
		if g, ok := games[e.GameID]; ok {
			info, date = g.Info(), g.Date
		}
		name := entryText(e, info, model.GameLabel)
		if name == "" {
			name = "#" + strconv.FormatInt(e.GameID, 10)
		}
		table.Append(statCells(e.Values, name, date, entryText(e, info, model.GameResult))...)
	}
	table.Render()
}

// entryText returns the entry's own value for a descriptive field, falling back to the
// game's metadata.
func entryText(e model.StatEntry, info map[model.Field]string, f model.Field) string {
	if s := e.Text(f); s != "" {
		return s
	}
	return info[f]
}

// PrintAverages prints a player's per-game averages and shooting percentages.
func PrintAverages(w io.Writer, avg *model.AverageStats) {
	if avg == nil {
		fmt.Fprintln(w, "No averages: no games recorded.")
		return
	}
	table := newTable(w)
	table.Header(statHeader("GP")...)
	table.Append(statCells(avg.Values, strconv.Itoa(avg.GamesPlayed))...)
	table.Render()

	sh := aggregator.ShootingOf(avg.Values)
	fmt.Fprintf(w, "FG %s  |  3P %s  |  FT %s  |  REB %s\n",
		pct(sh.FieldGoalPct), pct(sh.ThreePointPct), pct(sh.FreeThrowPct), stat(sh.Rebounds))
}
