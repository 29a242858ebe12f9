package coordinator

import (
	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// Queries read already-loaded data; call Load first.

// Players returns the roster.
func (c *Coordinator) Players() []model.Player { return c.store.Players.List() }

// Games returns every game.
func (c *Coordinator) Games() []model.Game { return c.store.Games.List() }

// Player returns one player.
func (c *Coordinator) Player(id int64) (model.Player, error) {
	p, ok := c.store.Players.FindByID(id)
	if !ok {
		return model.Player{}, &store.NotFoundError{Kind: store.KindPlayer, ID: id}
	}
	return p, nil
}

// Game returns one game.
func (c *Coordinator) Game(id int64) (model.Game, error) {
	g, ok := c.store.Games.FindByID(id)
	if !ok {
		return model.Game{}, &store.NotFoundError{Kind: store.KindGame, ID: id}
	}
	return g, nil
}

// PlayerStats returns a player's history, in recording order.
func (c *Coordinator) PlayerStats(id int64) ([]model.StatEntry, error) {
	p, err := c.Player(id)
	if err != nil {
		return nil, err
	}
	return p.Stats, nil
}

// PlayerAverage recomputes a player's averages from their history. It returns nil averages
// for a player with no recorded games.
func (c *Coordinator) PlayerAverage(id int64) (*model.AverageStats, error) {
	p, err := c.Player(id)
	if err != nil {
		return nil, err
	}
	return aggregator.Average(p.Stats), nil
}

// GameStats returns a game's team totals and player lines.
func (c *Coordinator) GameStats(id int64) (model.TeamStats, []model.PlayerLine, error) {
	g, err := c.Game(id)
	if err != nil {
		return nil, nil, err
	}
	return g.TeamStats, g.PlayerStats, nil
}
