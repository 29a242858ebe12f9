// Package redisstore is a Redis persistence backend. Each collection is one hash of JSON
// records keyed by id, with ids drawn from an INCR counter.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// DB wraps a Redis client.
type DB struct {
	client *redis.Client
	prefix string
}

// Open connects to the Redis server at url and checks it with PING.
func Open(ctx context.Context, url, prefix string) (*DB, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &DB{client: client, prefix: prefix}, nil
}

// Close closes the client.
func (db *DB) Close() error {
	return db.client.Close()
}

// Players returns the players hash as a store backend.
func (db *DB) Players() *Table[model.Player, model.PlayerPatch] {
	return newTable[model.Player, model.PlayerPatch](db, "players")
}

// Games returns the games hash as a store backend.
func (db *DB) Games() *Table[model.Game, model.GamePatch] {
	return newTable[model.Game, model.GamePatch](db, "games")
}

// Table implements store.Backend over one Redis hash.
type Table[T store.Record[T], P store.Patch[T]] struct {
	client *redis.Client
	hash   string
	seq    string
}

var (
	_ store.PlayerBackend = (*Table[model.Player, model.PlayerPatch])(nil)
	_ store.GameBackend   = (*Table[model.Game, model.GamePatch])(nil)
)

func newTable[T store.Record[T], P store.Patch[T]](db *DB, name string) *Table[T, P] {
	base := db.prefix + ":" + name
	return &Table[T, P]{client: db.client, hash: base, seq: base + ":seq"}
}

func (t *Table[T, P]) List(ctx context.Context, by model.OrderBy) ([]T, error) {
	raw, err := t.client.HGetAll(ctx, t.hash).Result()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for field, data := range raw {
		var rec T
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", t.hash, field, err)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j], by) })
	return out, nil
}

func (t *Table[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	id, err := t.client.Incr(ctx, t.seq).Result()
	if err != nil {
		return zero, fmt.Errorf("next id: %w", err)
	}
	rec = rec.WithID(id)
	data, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}
	if err := t.client.HSet(ctx, t.hash, field(id), data).Err(); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update reads, merges and writes the record inside WATCH, so a concurrent writer makes
// the transaction fail rather than lose an update.
func (t *Table[T, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var updated T
	err := t.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, t.hash, field(id)).Result()
		if errors.Is(err, redis.Nil) {
			return store.ErrRecordNotFound
		}
		if err != nil {
			return err
		}
		var cur T
		if err := json.Unmarshal([]byte(data), &cur); err != nil {
			return fmt.Errorf("decode %s %d: %w", t.hash, id, err)
		}
		updated = patch.Apply(cur).WithID(id)
		enc, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, t.hash, field(id), enc)
			return nil
		})
		return err
	}, t.hash)
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (t *Table[T, P]) Delete(ctx context.Context, id int64) error {
	n, err := t.client.HDel(ctx, t.hash, field(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

func field(id int64) string { return strconv.FormatInt(id, 10) }
