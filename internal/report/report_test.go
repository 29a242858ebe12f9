package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/model"
)

func sampleGame() model.Game {
	lines := []model.PlayerLine{
		{PlayerID: 1, StatEntry: model.StatEntry{Values: model.Line{model.FieldGoalsMade: 6, model.FieldGoalsAttempt: 12, model.Points: 15}}},
		{PlayerID: 2, StatEntry: model.StatEntry{Values: model.Line{model.FieldGoalsMade: 4, model.FieldGoalsAttempt: 8, model.Points: 9}}},
	}
	return model.Game{ID: 1, Name: "vs Clippers", Date: "2024-01-10", PlayerStats: lines, TeamStats: aggregator.GameTotals(lines)}
}

func TestPrintBoxScore(t *testing.T) {
	var buf bytes.Buffer
	PrintBoxScore(&buf, sampleGame(), map[int64]string{1: "Hao"})
	out := buf.String()

	for _, want := range []string{"Hao", "#2", "TEAM", "24", "3PM", "FG 50.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("box score missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRoster(t *testing.T) {
	g := sampleGame()
	players := []model.Player{
		{ID: 1, Name: "Hao", Stats: []model.StatEntry{g.PlayerStats[0].StatEntry}},
		{ID: 2, Name: "Rookie"},
	}
	var buf bytes.Buffer
	PrintRoster(&buf, players)
	out := buf.String()
	if !strings.Contains(out, "Hao") || !strings.Contains(out, "15") || !strings.Contains(out, "50.0%") {
		t.Errorf("unexpected roster:\n%s", out)
	}
	if !strings.Contains(out, "Rookie") {
		t.Errorf("player without games missing:\n%s", out)
	}
}

func TestPrintAveragesEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintAverages(&buf, nil)
	if !strings.Contains(buf.String(), "no games recorded") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	g := sampleGame()
	entry := g.PlayerStats[0].StatEntry
	entry.GameID = 1
	p := model.Player{ID: 1, Name: "Hao", Stats: []model.StatEntry{entry, {GameID: 9}}}

	var buf bytes.Buffer
	PrintHistory(&buf, p, map[int64]model.Game{1: g})
	out := buf.String()
	if !strings.Contains(out, "vs Clippers") || !strings.Contains(out, "#9") {
		t.Errorf("unexpected history:\n%s", out)
	}
}

func TestPrintHistoryResult(t *testing.T) {
	g := sampleGame()
	g.Result = "W 98-91"
	p := model.Player{ID: 1, Name: "Hao", Stats: []model.StatEntry{
		{GameID: 1},
		{GameID: 9, Info: map[model.Field]string{model.GameLabel: "at Suns", model.GameResult: "Loss"}},
	}}

	var buf bytes.Buffer
	PrintHistory(&buf, p, map[int64]model.Game{1: g})
	out := buf.String()
	for _, want := range []string{"RESULT", "W 98-91", "at Suns", "Loss"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestStatFormat(t *testing.T) {
	tests := map[float64]string{0: "0", 12: "12", 5.5: "5.5", 10.7: "10.7"}
	for in, want := range tests {
		if got := stat(in); got != want {
			t.Errorf("stat(%v) = %q, want %q", in, got, want)
		}
	}
}
