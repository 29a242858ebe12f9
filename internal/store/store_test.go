package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pable/go-hoops-stats/internal/model"
)

// flakyPlayers wraps a Memory backend, counting list calls and failing on demand.
type flakyPlayers struct {
	*Memory[model.Player, model.PlayerPatch]
	lists      int
	failUpdate error
	failInsert error
}

func (f *flakyPlayers) List(ctx context.Context, by model.OrderBy) ([]model.Player, error) {
	f.lists++
	return f.Memory.List(ctx, by)
}

func (f *flakyPlayers) Insert(ctx context.Context, p model.Player) (model.Player, error) {
	if f.failInsert != nil {
		return model.Player{}, f.failInsert
	}
	return f.Memory.Insert(ctx, p)
}

func (f *flakyPlayers) Update(ctx context.Context, id int64, patch model.PlayerPatch) (model.Player, error) {
	if f.failUpdate != nil {
		return model.Player{}, f.failUpdate
	}
	return f.Memory.Update(ctx, id, patch)
}

func seededStore(t *testing.T, seed ...model.Player) (*Store, *flakyPlayers) {
	t.Helper()
	fp := &flakyPlayers{Memory: NewPlayerMemory(seed...)}
	return New(fp, NewGameMemory()), fp
}

func strp(s string) *string { return &s }

func TestFetchIsIdempotent(t *testing.T) {
	s, fp := seededStore(t, model.Player{Name: "Hao"}, model.Player{Name: "Jeremy"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Players.Fetch(ctx); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if fp.lists != 1 {
		t.Errorf("expected one backend list, got %d", fp.lists)
	}
	if got := s.Players.Len(); got != 2 {
		t.Errorf("expected 2 players, got %d", got)
	}
}

func TestFetchSkipsWhenPopulated(t *testing.T) {
	s, fp := seededStore(t)
	ctx := context.Background()
	// Add loads the empty backend once; later fetches see a populated store.
	if _, err := s.Players.Add(ctx, model.Player{Name: "Hao"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Players.Fetch(ctx)
	if fp.lists != 1 {
		t.Errorf("expected one backend list, got %d", fp.lists)
	}
}

func TestAddNeverReusesIDs(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	first, err := s.Players.Add(ctx, model.Player{Name: "Hao"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, _ := s.Players.Add(ctx, model.Player{Name: "Jeremy"})
	if err := s.Players.Remove(ctx, second); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	third, _ := s.Players.Add(ctx, model.Player{Name: "Lin"})

	if first == second || third == second || third == first {
		t.Errorf("ids must be unique and never reused: %d %d %d", first, second, third)
	}
	if _, ok := s.Players.FindByID(second); ok {
		t.Error("removed player should not be found")
	}
}

func TestAddIgnoresCallerID(t *testing.T) {
	s, _ := seededStore(t, model.Player{ID: 5, Name: "Hao"})
	id, err := s.Players.Add(context.Background(), model.Player{ID: 5, Name: "Impostor"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == 5 {
		t.Error("Add must assign a fresh id")
	}
	p, _ := s.Players.FindByID(5)
	if p.Name != "Hao" {
		t.Errorf("existing player overwritten: %+v", p)
	}
}

func TestUpdateMerges(t *testing.T) {
	s, _ := seededStore(t, model.Player{ID: 1, Name: "Hao", Position: "PG"})
	ctx := context.Background()

	if err := s.Players.Update(ctx, 1, model.PlayerPatch{Number: strp("7")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p, ok := s.Players.FindByID(1)
	if !ok {
		t.Fatal("player 1 missing")
	}
	if p.Number != "7" || p.Position != "PG" || p.Name != "Hao" {
		t.Errorf("unexpected merge: %+v", p)
	}
}

func TestAddAndUpdateRecordEchoStoredRecord(t *testing.T) {
	s, _ := seededStore(t, model.Player{ID: 1, Name: "Hao", Position: "PG"})
	ctx := context.Background()

	added, err := s.Players.AddRecord(ctx, model.Player{Name: "Jeremy", Stats: []model.StatEntry{}})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	if added.ID != 2 || added.Name != "Jeremy" {
		t.Errorf("unexpected added record: %+v", added)
	}

	updated, err := s.Players.UpdateRecord(ctx, 1, model.PlayerPatch{Number: strp("7")})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if updated.ID != 1 || updated.Number != "7" || updated.Position != "PG" {
		t.Errorf("unexpected updated record: %+v", updated)
	}

	// The echoed copies are detached from the collection.
	updated.Name = "Changed"
	if p, _ := s.Players.FindByID(1); p.Name != "Hao" {
		t.Errorf("collection changed through the returned record: %+v", p)
	}

	if _, err := s.Players.UpdateRecord(ctx, 99, model.PlayerPatch{Name: strp("x")}); !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s, _ := seededStore(t)
	err := s.Players.Update(context.Background(), 99, model.PlayerPatch{Name: strp("x")})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != KindPlayer || nf.ID != 99 {
		t.Errorf("unexpected error detail %+v", nf)
	}
}

func TestFailedUpdateLeavesStateUnchanged(t *testing.T) {
	s, fp := seededStore(t, model.Player{ID: 1, Name: "Hao"})
	ctx := context.Background()
	s.Players.Fetch(ctx)

	fp.failUpdate = errors.New("connection reset")
	err := s.Players.Update(ctx, 1, model.PlayerPatch{Name: strp("Changed")})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Op != "update" {
		t.Errorf("op: want update, got %s", perr.Op)
	}

	p, _ := s.Players.FindByID(1)
	if p.Name != "Hao" {
		t.Errorf("in-memory player changed after failed round trip: %+v", p)
	}
}

func TestFailedInsertAddsNothing(t *testing.T) {
	s, fp := seededStore(t)
	fp.failInsert = context.DeadlineExceeded
	if _, err := s.Players.Add(context.Background(), model.Player{Name: "Hao"}); err == nil {
		t.Fatal("expected error from failing insert")
	}
	if s.Players.Len() != 0 {
		t.Error("failed insert must not add a local record")
	}
}

func TestConcurrentMutationConflicts(t *testing.T) {
	s, _ := seededStore(t, model.Player{ID: 1, Name: "Hao"})
	ctx := context.Background()
	s.Players.Fetch(ctx)

	release, err := s.Reserve(Key{Kind: KindPlayer, ID: 1})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	err = s.Players.Update(ctx, 1, model.PlayerPatch{Name: strp("Other")})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	release()

	if err := s.Players.Update(ctx, 1, model.PlayerPatch{Name: strp("Other")}); err != nil {
		t.Errorf("update after release: %v", err)
	}
}

func TestReserveIsAllOrNothing(t *testing.T) {
	s, _ := seededStore(t)
	release, _ := s.Reserve(Key{KindGame, 2})
	defer release()

	if _, err := s.Reserve(Key{KindPlayer, 1}, Key{KindGame, 2}); err == nil {
		t.Fatal("expected conflict on game 2")
	}
	// player 1 must not have been left reserved by the failed attempt.
	again, err := s.Reserve(Key{KindPlayer, 1})
	if err != nil {
		t.Fatalf("player 1 should be free: %v", err)
	}
	again()
}

func TestListUsesBackendOrder(t *testing.T) {
	b := NewPlayerMemory(model.Player{ID: 1, Name: "Zed"}, model.Player{ID: 2, Name: "amy"})
	s := New(b, NewGameMemory(), WithPlayerOrder(model.OrderByName))
	if err := s.Players.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	list := s.Players.List()
	if len(list) != 2 || list[0].Name != "amy" {
		t.Errorf("expected name order, got %+v", list)
	}
}

func TestCommitPublishesTogether(t *testing.T) {
	s := New(NewPlayerMemory(model.Player{ID: 1, Name: "Hao"}), NewGameMemory(model.Game{ID: 1, Name: "R1"}))
	ctx := context.Background()
	s.Players.Fetch(ctx)
	s.Games.Fetch(ctx)

	s.Commit(Batch{
		Players:      []model.Player{{ID: 1, Name: "Hao", Stats: []model.StatEntry{{GameID: 1}}}},
		RemovedGames: []int64{1},
	})
	p, _ := s.Players.FindByID(1)
	if len(p.Stats) != 1 {
		t.Error("committed player not visible")
	}
	if s.Games.Has(1) {
		t.Error("removed game still present")
	}
}

func TestFindByIDReturnsCopy(t *testing.T) {
	s, _ := seededStore(t, model.Player{ID: 1, Name: "Hao", Stats: []model.StatEntry{{GameID: 1, Values: model.Line{model.Assists: 9}}}})
	s.Players.Fetch(context.Background())

	p, _ := s.Players.FindByID(1)
	p.Stats[0].Values[model.Assists] = 100

	again, _ := s.Players.FindByID(1)
	if again.Stats[0].Get(model.Assists) != 9 {
		t.Error("mutating a returned record must not change the store")
	}
}
