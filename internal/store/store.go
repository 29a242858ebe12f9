package store

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Players is the players collection.
type Players = Collection[model.Player, model.PlayerPatch]

// Games is the games collection.
type Games = Collection[model.Game, model.GamePatch]

// Store groups the players and games collections. Both share one lock, so a Commit that
// touches players and games is observed all at once.
type Store struct {
	Players *Players
	Games   *Games

	shared *shared
}

// Key identifies one entity for mutation reservations.
type Key struct {
	Kind string
	ID   int64
}

type shared struct {
	mu  sync.RWMutex
	log *slog.Logger

	busyMu sync.Mutex
	busy   map[Key]struct{}
}

// Option configures a Store.
type Option func(*options)

type options struct {
	log         *slog.Logger
	playerOrder model.OrderBy
	gameOrder   model.OrderBy
}

// WithLogger sets the logger used for load and failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPlayerOrder sets the order players are loaded in.
func WithPlayerOrder(by model.OrderBy) Option {
	return func(o *options) { o.playerOrder = by }
}

// WithGameOrder sets the order games are loaded in.
func WithGameOrder(by model.OrderBy) Option {
	return func(o *options) { o.gameOrder = by }
}

// New builds a Store over the given backends.
func New(players PlayerBackend, games GameBackend, opts ...Option) *Store {
	o := options{playerOrder: model.OrderByID, gameOrder: model.OrderByID}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sh := &shared{log: o.log, busy: make(map[Key]struct{})}
	return &Store{
		Players: newCollection(KindPlayer, o.playerOrder, players, sh),
		Games:   newCollection(KindGame, o.gameOrder, games, sh),
		shared:  sh,
	}
}

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger { return s.shared.log }

// Reserve marks every key as having a mutation in flight. It fails with ConflictError,
// reserving nothing, if any key is already reserved. The returned func releases them.
func (s *Store) Reserve(keys ...Key) (func(), error) {
	return s.shared.reserve(keys...)
}

func (sh *shared) reserve(keys ...Key) (func(), error) {
	sh.busyMu.Lock()
	defer sh.busyMu.Unlock()
	for _, k := range keys {
		if _, ok := sh.busy[k]; ok {
			return nil, &ConflictError{Kind: k.Kind, ID: k.ID}
		}
	}
	held := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, dup := sh.busy[k]; dup {
			continue
		}
		sh.busy[k] = struct{}{}
		held = append(held, k)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			sh.busyMu.Lock()
			defer sh.busyMu.Unlock()
			for _, k := range held {
				delete(sh.busy, k)
			}
		})
	}, nil
}

// Batch is a set of echoed records to publish together.
type Batch struct {
	Players        []model.Player
	Games          []model.Game
	RemovedPlayers []int64
	RemovedGames   []int64
}

// Commit publishes every record in b under a single write lock.
func (s *Store) Commit(b Batch) {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	for _, p := range b.Players {
		s.Players.putLocked(p)
	}
	for _, g := range b.Games {
		s.Games.putLocked(g)
	}
	for _, id := range b.RemovedPlayers {
		s.Players.dropLocked(id)
	}
	for _, id := range b.RemovedGames {
		s.Games.dropLocked(id)
	}
}
