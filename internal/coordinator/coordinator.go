// Package coordinator keeps games, team totals and player histories consistent with each
// other across every mutation.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// Coordinator orchestrates cross-entity updates over a Store.
type Coordinator struct {
	store *store.Store
	log   *slog.Logger

	beforeReserve func() // test hook
}

// New returns a Coordinator over s.
func New(s *store.Store) *Coordinator {
	return &Coordinator{store: s, log: s.Logger()}
}

// Store returns the underlying store.
func (c *Coordinator) Store() *store.Store { return c.store }

// StatInput is one player's raw stat line submitted for a game.
type StatInput struct {
	PlayerID int64
	Raw      map[string]any
}

// Load fetches players and games. Both fetches are no-ops once loaded.
func (c *Coordinator) Load(ctx context.Context) error {
	if err := c.store.Players.Fetch(ctx); err != nil {
		return err
	}
	return c.store.Games.Fetch(ctx)
}

// RecordGameStats replaces a game's player lines with inputs, recomputes its team totals and
// upserts each player's history entry for the game. Players that had a line in the game but
// are not in inputs lose that game's entry. Either every change is published or none is.
func (c *Coordinator) RecordGameStats(ctx context.Context, gameID int64, inputs []StatInput) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	if !c.store.Games.Has(gameID) {
		return &store.NotFoundError{Kind: store.KindGame, ID: gameID}
	}

	raws := make([]map[string]any, len(inputs))
	for i, in := range inputs {
		raws[i] = in.Raw
	}
	entries, err := model.NormalizeAll(raws)
	if err != nil {
		return err
	}
	lines := make([]model.PlayerLine, 0, len(inputs))
	seen := make(map[int64]bool, len(inputs))
	for i, in := range inputs {
		if seen[in.PlayerID] {
			return &model.ValidationError{
				Line: i + 1, Field: "playerId",
				Reason: fmt.Sprintf("player %d listed more than once", in.PlayerID),
			}
		}
		seen[in.PlayerID] = true
		entry := entries[i]
		entry.GameID = gameID
		lines = append(lines, model.PlayerLine{PlayerID: in.PlayerID, StatEntry: entry})
	}
	for _, l := range lines {
		if !c.store.Players.Has(l.PlayerID) {
			return &store.NotFoundError{Kind: store.KindPlayer, ID: l.PlayerID}
		}
	}

	prevGame, _ := c.store.Games.FindByID(gameID)
	affected := affectedPlayers(lines, prevGame, c.store.Players.List())

	keys := []store.Key{{Kind: store.KindGame, ID: gameID}}
	for _, id := range affected {
		keys = append(keys, store.Key{Kind: store.KindPlayer, ID: id})
	}
	if c.beforeReserve != nil {
		c.beforeReserve()
	}
	release, err := c.store.Reserve(keys...)
	if err != nil {
		return err
	}
	defer release()

	// Re-read under the reservation. A mutation that committed before it could have added
	// players to the game; those were not reserved.
	prevGame, ok := c.store.Games.FindByID(gameID)
	if !ok {
		return &store.NotFoundError{Kind: store.KindGame, ID: gameID}
	}
	reserved := make(map[int64]bool, len(affected))
	for _, id := range affected {
		reserved[id] = true
	}
	for _, id := range affectedPlayers(lines, prevGame, c.store.Players.List()) {
		if !reserved[id] {
			return &store.ConflictError{Kind: store.KindPlayer, ID: id}
		}
	}

	team := aggregator.GameTotals(lines)
	t := newTx(c.store, c.log)
	err = t.updateGame(ctx, prevGame, model.GamePatch{PlayerStats: &lines, TeamStats: &team})
	for _, id := range affected {
		if err != nil {
			break
		}
		p, ok := c.store.Players.FindByID(id)
		if !ok {
			err = &store.NotFoundError{Kind: store.KindPlayer, ID: id}
			break
		}
		var history []model.StatEntry
		if l, ok := lineFor(lines, id); ok {
			history = p.UpsertStat(l.StatEntry)
		} else {
			history = p.DropStat(gameID)
		}
		err = t.updatePlayer(ctx, p, model.PlayerPatch{Stats: &history})
	}
	if err = t.finish(ctx, err); err != nil {
		return err
	}
	c.log.Debug("game stats recorded", "game", gameID, "lines", len(lines), "players_touched", len(affected))
	return nil
}

// affectedPlayers returns the players in lines, then any player that still carries an entry
// for the game without being in lines.
func affectedPlayers(lines []model.PlayerLine, game model.Game, roster []model.Player) []int64 {
	ids := make([]int64, 0, len(lines))
	in := make(map[int64]bool, len(lines))
	for _, l := range lines {
		ids = append(ids, l.PlayerID)
		in[l.PlayerID] = true
	}
	for _, id := range game.PlayerIDs() {
		if !in[id] {
			ids = append(ids, id)
			in[id] = true
		}
	}
	for _, p := range roster {
		if in[p.ID] {
			continue
		}
		if _, ok := p.StatFor(game.ID); ok {
			ids = append(ids, p.ID)
			in[p.ID] = true
		}
	}
	return ids
}

func lineFor(lines []model.PlayerLine, playerID int64) (model.PlayerLine, bool) {
	for _, l := range lines {
		if l.PlayerID == playerID {
			return l, true
		}
	}
	return model.PlayerLine{}, false
}

// AddPlayer adds p to the roster with an empty history and returns its id.
func (c *Coordinator) AddPlayer(ctx context.Context, p model.Player) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return 0, &model.ValidationError{Field: "name", Reason: "required"}
	}
	p.Stats = []model.StatEntry{}
	return c.store.Players.Add(ctx, p)
}

// AddGame adds g with no player lines and zeroed team totals and returns its id.
func (c *Coordinator) AddGame(ctx context.Context, g model.Game) (int64, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return 0, &model.ValidationError{Field: "name", Reason: "required"}
	}
	g.PlayerStats = []model.PlayerLine{}
	g.TeamStats = aggregator.GameTotals(nil)
	return c.store.Games.Add(ctx, g)
}

// UpdatePlayer merges roster attributes. History is only written by RecordGameStats.
func (c *Coordinator) UpdatePlayer(ctx context.Context, id int64, patch model.PlayerPatch) error {
	if patch.Stats != nil {
		return &model.ValidationError{Field: "stats", Reason: "recorded through game stats"}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &model.ValidationError{Field: "name", Reason: "required"}
	}
	return c.store.Players.Update(ctx, id, patch)
}

// UpdateGame merges game metadata. Team totals and player lines are derived and rejected.
func (c *Coordinator) UpdateGame(ctx context.Context, id int64, patch model.GamePatch) error {
	if patch.TeamStats != nil {
		return &model.ValidationError{Field: "teamStats", Reason: "derived from player stats"}
	}
	if patch.PlayerStats != nil {
		return &model.ValidationError{Field: "playerStats", Reason: "recorded through game stats"}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &model.ValidationError{Field: "name", Reason: "required"}
	}
	return c.store.Games.Update(ctx, id, patch)
}

// RemoveGame deletes a game and drops its entry from every player history.
func (c *Coordinator) RemoveGame(ctx context.Context, id int64) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	game, ok := c.store.Games.FindByID(id)
	if !ok {
		return &store.NotFoundError{Kind: store.KindGame, ID: id}
	}
	affected := affectedPlayers(nil, game, c.store.Players.List())

	keys := []store.Key{{Kind: store.KindGame, ID: id}}
	for _, pid := range affected {
		keys = append(keys, store.Key{Kind: store.KindPlayer, ID: pid})
	}
	release, err := c.store.Reserve(keys...)
	if err != nil {
		return err
	}
	defer release()

	t := newTx(c.store, c.log)
	for _, pid := range affected {
		p, ok := c.store.Players.FindByID(pid)
		if !ok {
			continue
		}
		history := p.DropStat(id)
		if err = t.updatePlayer(ctx, p, model.PlayerPatch{Stats: &history}); err != nil {
			break
		}
	}
	if err == nil {
		err = t.deleteGame(ctx, id)
	}
	return t.finish(ctx, err)
}

// RemovePlayer deletes a player and removes their line from every game, recomputing the
// totals of those games.
func (c *Coordinator) RemovePlayer(ctx context.Context, id int64) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	if !c.store.Players.Has(id) {
		return &store.NotFoundError{Kind: store.KindPlayer, ID: id}
	}
	var games []model.Game
	for _, g := range c.store.Games.List() {
		if _, ok := g.LineFor(id); ok {
			games = append(games, g)
		}
	}

	keys := []store.Key{{Kind: store.KindPlayer, ID: id}}
	for _, g := range games {
		keys = append(keys, store.Key{Kind: store.KindGame, ID: g.ID})
	}
	release, err := c.store.Reserve(keys...)
	if err != nil {
		return err
	}
	defer release()

	t := newTx(c.store, c.log)
	for _, g := range games {
		lines := slices.DeleteFunc(slices.Clone(g.PlayerStats), func(l model.PlayerLine) bool {
			return l.PlayerID == id
		})
		team := aggregator.GameTotals(lines)
		if err = t.updateGame(ctx, g, model.GamePatch{PlayerStats: &lines, TeamStats: &team}); err != nil {
			break
		}
	}
	if err == nil {
		err = t.deletePlayer(ctx, id)
	}
	return t.finish(ctx, err)
}

// RecomputeTeamStats rebuilds a game's cached totals from its player lines. It reports
// whether the cache was stale.
func (c *Coordinator) RecomputeTeamStats(ctx context.Context, id int64) (bool, error) {
	if err := c.Load(ctx); err != nil {
		return false, err
	}
	g, ok := c.store.Games.FindByID(id)
	if !ok {
		return false, &store.NotFoundError{Kind: store.KindGame, ID: id}
	}
	team := aggregator.GameTotals(g.PlayerStats)
	if sameTotals(g.TeamStats, team) {
		return false, nil
	}
	if err := c.store.Games.Update(ctx, id, model.GamePatch{TeamStats: &team}); err != nil {
		return false, err
	}
	c.log.Info("team totals rebuilt", "game", id)
	return true, nil
}

func sameTotals(a, b model.TeamStats) bool {
	for _, f := range model.NumericFields() {
		if a.Get(f) != b.Get(f) {
			return false
		}
	}
	return true
}
