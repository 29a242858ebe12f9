package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := s.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		s.log.Error("write error response", "err", err, "path", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "err", err, "method", r.Method, "path", r.URL.Path)
	s.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}

func (s *Server) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// handleError maps the error taxonomy to a status.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		br  *errBadRequest
		ves model.ValidationErrors
		ve  *model.ValidationError
		nf  *store.NotFoundError
		ce  *store.ConflictError
		pe  *store.PersistenceError
	)
	switch {
	case errors.As(err, &br):
		s.errorResponse(w, r, http.StatusBadRequest, br.msg)
	case errors.As(err, &ves):
		s.errorResponse(w, r, http.StatusUnprocessableEntity, ves)
	case errors.As(err, &ve):
		s.errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string{ve.Field: ve.Reason})
	case errors.As(err, &nf):
		s.errorResponse(w, r, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		s.errorResponse(w, r, http.StatusConflict, ce.Error())
	case errors.As(err, &pe):
		s.log.Warn("persistence failure", "err", err, "path", r.URL.Path)
		s.errorResponse(w, r, http.StatusBadGateway, pe.Error())
	default:
		s.serverErrorResponse(w, r, err)
	}
}
