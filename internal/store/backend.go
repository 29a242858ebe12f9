// Package store holds the authoritative in-memory players and games and mediates with the
// persistence backend chosen at construction time.
package store

import (
	"context"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Record is implemented by the entity types a backend stores.
type Record[T any] interface {
	RecordID() int64
	WithID(id int64) T
	Less(other T, by model.OrderBy) bool
	Clone() T
}

// Patch merges a partial update into a record.
type Patch[T any] interface {
	Apply(rec T) T
}

// Backend is the persistence strategy for one entity collection.
// Insert assigns the id and echoes the stored record; Update echoes the record after the
// merge. A missing id is reported as ErrRecordNotFound. Ids are never handed out twice.
type Backend[T any, P any] interface {
	List(ctx context.Context, by model.OrderBy) ([]T, error)
	Insert(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int64, patch P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// PlayerBackend persists players.
type PlayerBackend = Backend[model.Player, model.PlayerPatch]

// GameBackend persists games.
type GameBackend = Backend[model.Game, model.GamePatch]
