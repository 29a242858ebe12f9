package aggregator

import (
	"testing"

	"github.com/pable/go-hoops-stats/internal/model"
)

func TestAverage_EmptyIsNil(t *testing.T) {
	if got := Average(nil); got != nil {
		t.Errorf("expected nil for no entries, got %+v", got)
	}
	if got := Average([]model.StatEntry{}); got != nil {
		t.Errorf("expected nil for empty slice, got %+v", got)
	}
}

func TestAverage_TwoGames(t *testing.T) {
	entries := []model.StatEntry{
		{GameID: 1, Values: model.Line{model.Assists: 9, model.Turnovers: 2}},
		{GameID: 2, Values: model.Line{model.Assists: 2, model.Turnovers: 4}},
	}
	got := Average(entries)
	if got == nil {
		t.Fatal("expected averages")
	}
	if got.GamesPlayed != 2 {
		t.Errorf("gamesPlayed: want 2, got %d", got.GamesPlayed)
	}
	if got.Get(model.Assists) != 5.5 {
		t.Errorf("AST: want 5.5, got %v", got.Get(model.Assists))
	}
	if got.Get(model.Turnovers) != 3.0 {
		t.Errorf("TOV: want 3.0, got %v", got.Get(model.Turnovers))
	}
	if got.Get(model.Steals) != 0 {
		t.Errorf("STL absent from both games: want 0, got %v", got.Get(model.Steals))
	}
}

func TestAverage_IdenticalEntries(t *testing.T) {
	e := haoLine()
	got := Average([]model.StatEntry{e, e, e})
	for f, v := range e.Values {
		if got.Get(f) != v {
			t.Errorf("%s: want %v, got %v", f, v, got.Get(f))
		}
	}
	if got.GamesPlayed != 3 {
		t.Errorf("gamesPlayed: want 3, got %d", got.GamesPlayed)
	}
}

func TestAverage_RoundsToOneDecimal(t *testing.T) {
	entries := []model.StatEntry{
		{Values: model.Line{model.Points: 10}},
		{Values: model.Line{model.Points: 11}},
		{Values: model.Line{model.Points: 11}},
	}
	got := Average(entries) // 32/3 = 10.666...
	if got.Get(model.Points) != 10.7 {
		t.Errorf("PTS: want 10.7, got %v", got.Get(model.Points))
	}
}

func TestRoundTenth(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{1.25, 1.3},
		{0.25, 0.3},
		{2.45, 2.5},
		{0.15, 0.2},
		{1.24, 1.2},
		{-1.25, -1.3},
		{3.0, 3.0},
		{10.0 / 3.0, 3.3},
		{0.04999999999999999, 0},
		{-0.04999999999999999, 0},
		{0.05, 0.1},
		{-2.45, -2.5},
		{99.95, 100},
		{0.1 + 0.2, 0.3},
	}
	for _, c := range cases {
		if got := RoundTenth(c.in); got != c.want {
			t.Errorf("RoundTenth(%v): want %v, got %v", c.in, c.want, got)
		}
	}
}

func TestShootingOf(t *testing.T) {
	line := model.Line{
		model.FieldGoalsMade: 10, model.FieldGoalsAttempt: 27,
		model.FreeThrowsMade: 9, model.FreeThrowsAttempt: 12,
		model.OffensiveRebounds: 3, model.DefensiveRebounds: 8,
	}
	s := ShootingOf(line)
	if s.FieldGoalPct != 37.0 {
		t.Errorf("FG%%: want 37.0, got %v", s.FieldGoalPct)
	}
	if s.FreeThrowPct != 75.0 {
		t.Errorf("FT%%: want 75.0, got %v", s.FreeThrowPct)
	}
	if s.ThreePointPct != 0 {
		t.Errorf("3P%% with no attempts: want 0, got %v", s.ThreePointPct)
	}
	if s.Rebounds != 11 {
		t.Errorf("REB: want 11, got %v", s.Rebounds)
	}
}
