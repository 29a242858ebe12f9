package coordinator

import (
	"context"
	"log/slog"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// tx collects echoed records from a sequence of backend round trips and publishes them with
// one Store.Commit. Until commit nothing is visible locally. If a round trip fails, the ones
// that already succeeded are compensated by re-sending the previous values.
type tx struct {
	s     *store.Store
	log   *slog.Logger
	batch store.Batch
	undo  []func(context.Context) error
}

func newTx(s *store.Store, log *slog.Logger) *tx {
	return &tx{s: s, log: log}
}

func (t *tx) updateGame(ctx context.Context, prev model.Game, patch model.GamePatch) error {
	g, err := t.s.Games.PushUpdate(ctx, prev.ID, patch)
	if err != nil {
		return err
	}
	t.batch.Games = append(t.batch.Games, g)
	restore := prev.Snapshot()
	t.undo = append(t.undo, func(ctx context.Context) error {
		_, err := t.s.Games.PushUpdate(ctx, prev.ID, restore)
		return err
	})
	return nil
}

func (t *tx) updatePlayer(ctx context.Context, prev model.Player, patch model.PlayerPatch) error {
	p, err := t.s.Players.PushUpdate(ctx, prev.ID, patch)
	if err != nil {
		return err
	}
	t.batch.Players = append(t.batch.Players, p)
	restore := prev.Snapshot()
	t.undo = append(t.undo, func(ctx context.Context) error {
		_, err := t.s.Players.PushUpdate(ctx, prev.ID, restore)
		return err
	})
	return nil
}

// deleteGame and deletePlayer cannot be compensated, so they must be the last step of a tx.
func (t *tx) deleteGame(ctx context.Context, id int64) error {
	if err := t.s.Games.PushDelete(ctx, id); err != nil {
		return err
	}
	t.batch.RemovedGames = append(t.batch.RemovedGames, id)
	return nil
}

func (t *tx) deletePlayer(ctx context.Context, id int64) error {
	if err := t.s.Players.PushDelete(ctx, id); err != nil {
		return err
	}
	t.batch.RemovedPlayers = append(t.batch.RemovedPlayers, id)
	return nil
}

// finish commits on success, or rolls back and returns err.
func (t *tx) finish(ctx context.Context, err error) error {
	if err == nil {
		t.s.Commit(t.batch)
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	for i := len(t.undo) - 1; i >= 0; i-- {
		if uerr := t.undo[i](ctx); uerr != nil {
			t.log.Error("compensating write failed; backend may hold a partial update", "err", uerr)
		}
	}
	return err
}
