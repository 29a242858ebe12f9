package server

import (
	"net/http"

	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/coordinator"
	"github.com/pable/go-hoops-stats/internal/guard"
	"github.com/pable/go-hoops-stats/internal/model"
)

type playerSummary struct {
	model.Player
	Averages *model.AverageStats `json:"averages"`
}

func (s *Server) healthcheck(w http.ResponseWriter, r *http.Request) {
	st := s.coord.Store()
	data := envelope{
		"status":  "available",
		"players": st.Players.Len(),
		"games":   st.Games.Len(),
	}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.Load(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	players := s.coord.Players()
	out := make([]playerSummary, len(players))
	for i, p := range players {
		out[i] = playerSummary{Player: p, Averages: aggregator.Average(p.Stats)}
	}
	data := envelope{"players": out}
	// Set by the player guard's redirect.
	if msg := r.URL.Query().Get("error"); msg != "" {
		data["error"] = msg
	}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) showPlayer(w http.ResponseWriter, r *http.Request) {
	id, _ := guard.PlayerID(r.Context())
	p, err := s.coord.Player(id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	avg := aggregator.Average(p.Stats)
	data := envelope{"player": p, "averages": avg}
	if avg != nil {
		data["shooting"] = aggregator.ShootingOf(avg.Values)
	}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.Load(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"games": s.coord.Games()}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) showGame(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.coord.Load(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	g, err := s.coord.Game(id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	data := envelope{"game": g, "shooting": aggregator.ShootingOf(model.Line(g.TeamStats))}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// recordStats replaces a game's player lines with the body: [{"playerId":1,"MIN":36,...}].
func (s *Server) recordStats(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	raw, err := model.DecodeLines(body)
	if err != nil {
		s.handleError(w, r, badRequest("%v", err))
		return
	}
	ids, err := model.TakePlayerIDs(raw)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	inputs := make([]coordinator.StatInput, len(raw))
	for i, line := range raw {
		inputs[i] = coordinator.StatInput{PlayerID: ids[i], Raw: line}
	}

	if err := s.coord.RecordGameStats(r.Context(), id, inputs); err != nil {
		s.handleError(w, r, err)
		return
	}
	g, err := s.coord.Game(id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"game": g}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
