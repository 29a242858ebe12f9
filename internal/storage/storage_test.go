package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlayerInsertAndList(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	players := db.Players()

	for _, name := range []string{"jeremy", "Hao", "Andrea"} {
		if _, err := players.Insert(ctx, model.Player{Name: name, Number: "7"}); err != nil {
			t.Fatalf("Insert %s: %v", name, err)
		}
	}

	byID, err := players.List(ctx, model.OrderByID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byID) != 3 || byID[0].Name != "jeremy" || byID[0].ID != 1 {
		t.Fatalf("unexpected id order: %+v", byID)
	}
	if byID[0].Stats == nil {
		t.Error("stats should decode as an empty slice")
	}

	byName, _ := players.List(ctx, model.OrderByName)
	want := []string{"Andrea", "Hao", "jeremy"}
	for i, p := range byName {
		if p.Name != want[i] {
			t.Errorf("byName[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestPlayerUpdateStoresHistory(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	players := db.Players()

	p, err := players.Insert(ctx, model.Player{Name: "Hao"})
	if err != nil {
		t.Fatal(err)
	}
	stats := []model.StatEntry{{GameID: 4, Values: model.Line{model.Assists: 9, model.Minutes: 31}}}
	pos := "PG"
	got, err := players.Update(ctx, p.ID, model.PlayerPatch{Position: &pos, Stats: &stats})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Position != "PG" || got.Name != "Hao" {
		t.Errorf("unexpected echo: %+v", got)
	}

	list, _ := players.List(ctx, model.OrderByID)
	if len(list[0].Stats) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(list[0].Stats))
	}
	e := list[0].Stats[0]
	if e.GameID != 4 || e.Get(model.Assists) != 9 || e.Get(model.Minutes) != 31 {
		t.Errorf("entry did not survive the round trip: %+v", e)
	}
}

func TestMissingIDs(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	name := "x"
	if _, err := db.Players().Update(ctx, 9, model.PlayerPatch{Name: &name}); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("player update: expected ErrRecordNotFound, got %v", err)
	}
	if err := db.Players().Delete(ctx, 9); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("player delete: expected ErrRecordNotFound, got %v", err)
	}
	if _, err := db.Games().Update(ctx, 9, model.GamePatch{Name: &name}); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("game update: expected ErrRecordNotFound, got %v", err)
	}
	if err := db.Games().Delete(ctx, 9); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("game delete: expected ErrRecordNotFound, got %v", err)
	}
}

func TestGameIDsNotReused(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	games := db.Games()

	g1, _ := games.Insert(ctx, model.Game{Name: "a"})
	g2, _ := games.Insert(ctx, model.Game{Name: "b"})
	if err := games.Delete(ctx, g2.ID); err != nil {
		t.Fatal(err)
	}
	g3, err := games.Insert(ctx, model.Game{Name: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if g3.ID == g2.ID || g3.ID == g1.ID {
		t.Errorf("id %d was handed out twice", g3.ID)
	}
}

func TestGameStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	games := db.Games()

	g, err := games.Insert(ctx, model.Game{Name: "vs Clippers", Date: "2024-01-10", Type: "League"})
	if err != nil {
		t.Fatal(err)
	}
	lines := []model.PlayerLine{
		{PlayerID: 1, StatEntry: model.StatEntry{Values: model.Line{model.Points: 15}}},
		{PlayerID: 2, StatEntry: model.StatEntry{Values: model.Line{model.Points: 11}}},
	}
	team := model.TeamStats{model.Points: 26}
	if _, err := games.Update(ctx, g.ID, model.GamePatch{PlayerStats: &lines, TeamStats: &team}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := games.List(ctx, model.OrderByDate)
	if err != nil {
		t.Fatal(err)
	}
	got := list[0]
	if got.Type != "League" || got.TeamStats.Get(model.Points) != 26 {
		t.Errorf("unexpected game: %+v", got)
	}
	if len(got.PlayerStats) != 2 || got.PlayerStats[1].PlayerID != 2 || got.PlayerStats[1].Get(model.Points) != 11 {
		t.Errorf("lines did not survive the round trip: %+v", got.PlayerStats)
	}
}

func TestBackendDrivesStore(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	s := store.New(db.Players(), db.Games())

	id, err := s.Players.Add(ctx, model.Player{Name: "Hao"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh store over the same database sees the player.
	s2 := store.New(db.Players(), db.Games())
	if err := s2.Players.Fetch(ctx); err != nil {
		t.Fatal(err)
	}
	if p, ok := s2.Players.FindByID(id); !ok || p.Name != "Hao" {
		t.Errorf("expected persisted player, got %+v ok=%v", p, ok)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	if _, err := db.Players().Insert(ctx, model.Player{Name: "Hao", Position: "PG"}); err != nil {
		t.Fatal(err)
	}

	cols, rows, err := db.QueryRaw(ctx, "SELECT id, name, position, NULL AS nothing FROM players")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 4 || cols[1] != "name" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "1" || rows[0][2] != "PG" || rows[0][3] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}
}
