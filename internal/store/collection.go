package store

import (
	"context"
	"errors"

	"github.com/pable/go-hoops-stats/internal/model"
)

// Collection is the in-memory copy of one entity collection. Reads are synchronous over
// loaded data; mutations round-trip through the backend first and touch local state only
// once the backend has echoed the stored record.
type Collection[T Record[T], P Patch[T]] struct {
	kind    string
	order   model.OrderBy
	backend Backend[T, P]
	shared  *shared

	// guarded by shared.mu
	loaded bool
	items  []T
	index  map[int64]int
}

func newCollection[T Record[T], P Patch[T]](kind string, order model.OrderBy, b Backend[T, P], sh *shared) *Collection[T, P] {
	return &Collection[T, P]{
		kind:    kind,
		order:   order,
		backend: b,
		shared:  sh,
		index:   make(map[int64]int),
	}
}

// Kind returns the entity kind held by the collection.
func (c *Collection[T, P]) Kind() string { return c.kind }

// Fetch bulk-loads the collection from the backend. It is a no-op once the collection has
// been loaded or already holds records.
func (c *Collection[T, P]) Fetch(ctx context.Context) error {
	c.shared.mu.RLock()
	done := c.loaded || len(c.items) > 0
	c.shared.mu.RUnlock()
	if done {
		return nil
	}

	recs, err := c.backend.List(ctx, c.order)
	if err != nil {
		return c.wrap("list", 0, err)
	}

	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	if c.loaded || len(c.items) > 0 {
		return nil
	}
	c.items = recs
	c.reindex()
	c.loaded = true
	c.shared.log.Debug("collection loaded", "kind", c.kind, "count", len(recs))
	return nil
}

// Add inserts rec and returns the id the backend assigned.
func (c *Collection[T, P]) Add(ctx context.Context, rec T) (int64, error) {
	stored, err := c.AddRecord(ctx, rec)
	if err != nil {
		return 0, err
	}
	return stored.RecordID(), nil
}

// AddRecord inserts rec and returns the record as the backend stored it.
func (c *Collection[T, P]) AddRecord(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := c.Fetch(ctx); err != nil {
		return zero, err
	}
	rec = rec.WithID(0)
	stored, err := c.backend.Insert(ctx, rec)
	if err != nil {
		return zero, c.wrap("insert", 0, err)
	}
	if stored.RecordID() == 0 {
		return zero, c.wrap("insert", 0, errors.New("backend returned a record without an id"))
	}
	c.shared.mu.Lock()
	c.putLocked(stored)
	c.shared.mu.Unlock()
	return stored.Clone(), nil
}

// Update merges patch into the record with id. It fails with NotFoundError when the id is
// absent and ConflictError when another mutation on the same id is in flight.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, patch P) error {
	_, err := c.UpdateRecord(ctx, id, patch)
	return err
}

// UpdateRecord is Update returning the record as the backend stored it.
func (c *Collection[T, P]) UpdateRecord(ctx context.Context, id int64, patch P) (T, error) {
	var zero T
	release, err := c.reserve(ctx, id)
	if err != nil {
		return zero, err
	}
	defer release()

	stored, err := c.PushUpdate(ctx, id, patch)
	if err != nil {
		return zero, err
	}
	c.shared.mu.Lock()
	c.putLocked(stored)
	c.shared.mu.Unlock()
	return stored.Clone(), nil
}

// Remove deletes the record with id.
func (c *Collection[T, P]) Remove(ctx context.Context, id int64) error {
	release, err := c.reserve(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.PushDelete(ctx, id); err != nil {
		return err
	}
	c.shared.mu.Lock()
	c.dropLocked(id)
	c.shared.mu.Unlock()
	return nil
}

// FindByID returns a copy of the record with id.
func (c *Collection[T, P]) FindByID(id int64) (T, bool) {
	c.shared.mu.RLock()
	defer c.shared.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i].Clone(), true
}

// Has reports whether id is loaded.
func (c *Collection[T, P]) Has(id int64) bool {
	c.shared.mu.RLock()
	defer c.shared.mu.RUnlock()
	_, ok := c.index[id]
	return ok
}

// List returns copies of every record: backend order for what Fetch loaded, insertion
// order for records added afterwards.
func (c *Collection[T, P]) List() []T {
	c.shared.mu.RLock()
	defer c.shared.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, rec := range c.items {
		out[i] = rec.Clone()
	}
	return out
}

// Len returns the number of loaded records.
func (c *Collection[T, P]) Len() int {
	c.shared.mu.RLock()
	defer c.shared.mu.RUnlock()
	return len(c.items)
}

// PushUpdate sends patch to the backend and returns the echoed record without touching the
// in-memory copy. Callers publish the result with Store.Commit.
func (c *Collection[T, P]) PushUpdate(ctx context.Context, id int64, patch P) (T, error) {
	var zero T
	if err := c.Fetch(ctx); err != nil {
		return zero, err
	}
	if !c.Has(id) {
		return zero, &NotFoundError{Kind: c.kind, ID: id}
	}
	stored, err := c.backend.Update(ctx, id, patch)
	if err != nil {
		return zero, c.wrap("update", id, err)
	}
	if stored.RecordID() != id {
		return zero, c.wrap("update", id, errors.New("backend echoed a different record"))
	}
	return stored, nil
}

// PushDelete deletes id in the backend without touching the in-memory copy.
func (c *Collection[T, P]) PushDelete(ctx context.Context, id int64) error {
	if err := c.Fetch(ctx); err != nil {
		return err
	}
	if !c.Has(id) {
		return &NotFoundError{Kind: c.kind, ID: id}
	}
	if err := c.backend.Delete(ctx, id); err != nil {
		return c.wrap("delete", id, err)
	}
	return nil
}

func (c *Collection[T, P]) reserve(ctx context.Context, id int64) (func(), error) {
	if err := c.Fetch(ctx); err != nil {
		return nil, err
	}
	if !c.Has(id) {
		return nil, &NotFoundError{Kind: c.kind, ID: id}
	}
	return c.shared.reserve(Key{Kind: c.kind, ID: id})
}

func (c *Collection[T, P]) wrap(op string, id int64, err error) error {
	if errors.Is(err, ErrRecordNotFound) && id != 0 {
		return &NotFoundError{Kind: c.kind, ID: id}
	}
	c.shared.log.Warn("backend round trip failed", "op", op, "kind", c.kind, "id", id, "err", err)
	return &PersistenceError{Op: op, Kind: c.kind, ID: id, Err: err}
}

// putLocked replaces or appends rec. Caller holds shared.mu.
func (c *Collection[T, P]) putLocked(rec T) {
	id := rec.RecordID()
	if i, ok := c.index[id]; ok {
		c.items[i] = rec.Clone()
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, rec.Clone())
}

// dropLocked removes id, keeping the order of the rest. Caller holds shared.mu.
func (c *Collection[T, P]) dropLocked(id int64) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
}

func (c *Collection[T, P]) reindex() {
	c.index = make(map[int64]int, len(c.items))
	for i, rec := range c.items {
		c.index[rec.RecordID()] = i
	}
}
