package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-hoops-stats/internal/config"
	"github.com/pable/go-hoops-stats/internal/coordinator"
	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/redisstore"
	"github.com/pable/go-hoops-stats/internal/remote"
	"github.com/pable/go-hoops-stats/internal/storage"
	"github.com/pable/go-hoops-stats/internal/store"
)

// app is an opened backend with its players and games loaded.
type app struct {
	*coordinator.Coordinator
	close func() error
}

func (a *app) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// openApp builds the store over the configured backend and loads it.
func openApp(ctx context.Context) (*app, error) {
	var (
		players store.PlayerBackend
		games   store.GameBackend
		closer  func() error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		db, err := storage.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		players, games, closer = db.Players(), db.Games(), db.Close
	case config.BackendMemory:
		players, games = store.NewPlayerMemory(), store.NewGameMemory()
	case config.BackendRemote:
		client, err := remote.NewClient(cfg.RemoteURL, cfg.RemoteTimeout)
		if err != nil {
			return nil, err
		}
		players, games = client.Players(), client.Games()
	case config.BackendRedis:
		db, err := redisstore.Open(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		players, games, closer = db.Players(), db.Games(), db.Close
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	st := store.New(players, games,
		store.WithLogger(logger),
		store.WithPlayerOrder(cfg.PlayerOrder),
		store.WithGameOrder(cfg.GameOrder),
	)
	a := &app{Coordinator: coordinator.New(st), close: closer}
	if err := a.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load data: %w", err)
	}
	logger.Debug("backend ready", "backend", cfg.Backend, "players", st.Players.Len(), "games", st.Games.Len())
	return a, nil
}

// gameIndex maps game ids to games for history labels.
func gameIndex(a *app) map[int64]model.Game {
	games := a.Games()
	out := make(map[int64]model.Game, len(games))
	for _, g := range games {
		out[g.ID] = g
	}
	return out
}

// playerNames maps player ids to names for box scores.
func playerNames(a *app) map[int64]string {
	players := a.Players()
	out := make(map[int64]string, len(players))
	for _, p := range players {
		out[p.ID] = p.Name
	}
	return out
}
