package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Memory is an in-process backend. Ids increase monotonically and are not reused after a
// delete.
type Memory[T Record[T], P Patch[T]] struct {
	mu   sync.Mutex
	next int64
	rows map[int64]T
}

// NewMemory returns a Memory backend holding seed. Seed records without an id get one.
func NewMemory[T Record[T], P Patch[T]](seed ...T) *Memory[T, P] {
	m := &Memory[T, P]{next: 1, rows: make(map[int64]T, len(seed))}
	for _, rec := range seed {
		if id := rec.RecordID(); id >= m.next {
			m.next = id + 1
		}
	}
	for _, rec := range seed {
		if rec.RecordID() == 0 {
			rec = rec.WithID(m.next)
			m.next++
		}
		m.rows[rec.RecordID()] = rec.Clone()
	}
	return m
}

// NewPlayerMemory returns an in-process player backend.
func NewPlayerMemory(seed ...model.Player) *Memory[model.Player, model.PlayerPatch] {
	return NewMemory[model.Player, model.PlayerPatch](seed...)
}

// NewGameMemory returns an in-process game backend.
func NewGameMemory(seed ...model.Game) *Memory[model.Game, model.GamePatch] {
	return NewMemory[model.Game, model.GamePatch](seed...)
}

func (m *Memory[T, P]) List(ctx context.Context, by model.OrderBy) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, 0, len(m.rows))
	for _, rec := range m.rows {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j], by) })
	return out, nil
}

func (m *Memory[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec = rec.WithID(m.next)
	m.next++
	m.rows[rec.RecordID()] = rec.Clone()
	return rec.Clone(), nil
}

func (m *Memory[T, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok {
		return zero, ErrRecordNotFound
	}
	updated := patch.Apply(cur).WithID(id)
	m.rows[id] = updated.Clone()
	return updated, nil
}

func (m *Memory[T, P]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

var (
	_ PlayerBackend = (*Memory[model.Player, model.PlayerPatch])(nil)
	_ GameBackend   = (*Memory[model.Game, model.GamePatch])(nil)
)
