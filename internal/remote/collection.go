package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// Collection implements store.Backend for one remote collection.
type Collection[T any, P any] struct {
	c    *Client
	name string
}

var (
	_ store.PlayerBackend = (*Collection[model.Player, model.PlayerPatch])(nil)
	_ store.GameBackend   = (*Collection[model.Game, model.GamePatch])(nil)
)

// ListEnvelope is the body of a list response.
type ListEnvelope[T any] struct {
	Records []T `json:"records"`
}

// RecordEnvelope is the body of an insert or update response.
type RecordEnvelope[T any] struct {
	Record T `json:"record"`
}

func (rc *Collection[T, P]) List(ctx context.Context, by model.OrderBy) ([]T, error) {
	var env ListEnvelope[T]
	path := rc.name + "?order=" + url.QueryEscape(string(by))
	if err := rc.c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Records, nil
}

func (rc *Collection[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	var env RecordEnvelope[T]
	if err := rc.c.do(ctx, http.MethodPost, rc.name, rec, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Record, nil
}

func (rc *Collection[T, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var env RecordEnvelope[T]
	if err := rc.c.do(ctx, http.MethodPatch, rc.itemPath(id), patch, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Record, nil
}

func (rc *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	return rc.c.do(ctx, http.MethodDelete, rc.itemPath(id), nil, nil)
}

func (rc *Collection[T, P]) itemPath(id int64) string {
	return rc.name + "/" + strconv.FormatInt(id, 10)
}
