package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

type countingPlayers struct {
	*store.Memory[model.Player, model.PlayerPatch]
	lists int
	fail  error
}

func (c *countingPlayers) List(ctx context.Context, by model.OrderBy) ([]model.Player, error) {
	c.lists++
	if c.fail != nil {
		return nil, c.fail
	}
	return c.Memory.List(ctx, by)
}

func newPlayers(fail error) (*store.Store, *countingPlayers) {
	cp := &countingPlayers{
		Memory: store.NewPlayerMemory(model.Player{ID: 3, Name: "Hao"}),
		fail:   fail,
	}
	return store.New(cp, store.NewGameMemory()), cp
}

func TestCheckPlayer(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		missing bool
	}{
		{raw: "3", want: 3},
		{raw: " 3 ", want: 3},
		{raw: "4", missing: true},
		{raw: "abc", missing: true},
		{raw: "", missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s, _ := newPlayers(nil)
			id, err := CheckPlayer(context.Background(), s.Players, tt.raw)
			if tt.missing {
				if !store.IsNotFound(err) {
					t.Fatalf("expected NotFoundError, got id=%d err=%v", id, err)
				}
				return
			}
			if err != nil || id != tt.want {
				t.Fatalf("got id=%d err=%v, want %d", id, err, tt.want)
			}
		})
	}
}

func TestCheckPlayerFetchesOnce(t *testing.T) {
	s, cp := newPlayers(nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := CheckPlayer(ctx, s.Players, "3"); err != nil {
			t.Fatal(err)
		}
	}
	if cp.lists != 1 {
		t.Errorf("expected one fetch, got %d", cp.lists)
	}
}

func TestCheckPlayerFetchError(t *testing.T) {
	down := errors.New("down")
	s, _ := newPlayers(down)
	_, err := CheckPlayer(context.Background(), s.Players, "3")
	if !errors.Is(err, down) || store.IsNotFound(err) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestRequirePlayer(t *testing.T) {
	s, _ := newPlayers(nil)
	r := chi.NewRouter()
	r.With(RequirePlayer(s.Players)).Get("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := PlayerID(r.Context())
		if id != 3 {
			t.Errorf("PlayerID = %d", id)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/3", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("known player: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/99", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != NotFoundRedirect {
		t.Errorf("unknown player: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}
