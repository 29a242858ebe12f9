package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// mountRecords serves raw persistence for one collection: the API the remote backend
// speaks. Writes go through the collection so the server's loaded copy stays current.
func mountRecords[T store.Record[T], P store.Patch[T]](s *Server, r chi.Router, col *store.Collection[T, P]) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if err := col.Fetch(r.Context()); err != nil {
			s.handleError(w, r, err)
			return
		}
		recs := col.List()
		if raw := r.URL.Query().Get("order"); raw != "" {
			by := model.OrderBy(raw)
			if !by.Valid() {
				s.handleError(w, r, &model.ValidationError{Field: "order", Reason: "unknown ordering"})
				return
			}
			sort.SliceStable(recs, func(i, j int) bool { return recs[i].Less(recs[j], by) })
		}
		if err := s.writeJSON(w, http.StatusOK, envelope{"records": recs}, nil); err != nil {
			s.serverErrorResponse(w, r, err)
		}
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := s.readJSON(w, r, &rec); err != nil {
			s.handleError(w, r, err)
			return
		}
		stored, err := col.AddRecord(r.Context(), rec)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		headers := make(http.Header)
		headers.Set("Location", fmt.Sprintf("%s/%d", r.URL.Path, stored.RecordID()))
		if err := s.writeJSON(w, http.StatusCreated, envelope{"record": stored}, headers); err != nil {
			s.serverErrorResponse(w, r, err)
		}
	})

	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		var patch P
		if err := s.readJSON(w, r, &patch); err != nil {
			s.handleError(w, r, err)
			return
		}
		stored, err := col.UpdateRecord(r.Context(), id, patch)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if err := s.writeJSON(w, http.StatusOK, envelope{"record": stored}, nil); err != nil {
			s.serverErrorResponse(w, r, err)
		}
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if err := col.Remove(r.Context(), id); err != nil {
			s.handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
