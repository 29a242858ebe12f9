// Package guard keeps player detail routes from rendering an unknown player.
package guard

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-hoops-stats/internal/store"
)

// NotFoundRedirect is where a request for an unknown player is sent.
const NotFoundRedirect = "/players?error=player_not_found"

type ctxKey struct{}

// CheckPlayer resolves rawID against the loaded players, fetching them first when none are
// loaded. An id that does not parse is reported the same way as one that does not exist.
func CheckPlayer(ctx context.Context, players *store.Players, rawID string) (int64, error) {
	if players.Len() == 0 {
		if err := players.Fetch(ctx); err != nil {
			return 0, err
		}
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return 0, &store.NotFoundError{Kind: store.KindPlayer}
	}
	for _, p := range players.List() {
		if p.ID == id {
			return id, nil
		}
	}
	return 0, &store.NotFoundError{Kind: store.KindPlayer, ID: id}
}

// RequirePlayer is chi middleware for routes with an {id} parameter. Unknown players are
// redirected to NotFoundRedirect; the resolved id is available through PlayerID.
func RequirePlayer(players *store.Players) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := CheckPlayer(r.Context(), players, chi.URLParam(r, "id"))
			var nf *store.NotFoundError
			switch {
			case errors.As(err, &nf):
				http.Redirect(w, r, NotFoundRedirect, http.StatusFound)
				return
			case err != nil:
				http.Error(w, "player store unavailable", http.StatusBadGateway)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// PlayerID returns the id resolved by RequirePlayer.
func PlayerID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}
