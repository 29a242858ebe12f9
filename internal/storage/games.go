package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

const gameColumns = "id, name, date, game_type, result, team_stats, player_stats"

// GameTable implements store.GameBackend over the games table.
type GameTable struct {
	db *DB
}

var _ store.GameBackend = (*GameTable)(nil)

// List returns every game in the requested order.
func (t *GameTable) List(ctx context.Context, by model.OrderBy) ([]model.Game, error) {
	order := "id"
	switch by {
	case model.OrderByName:
		order = "name, id"
	case model.OrderByDate:
		order = "date, id"
	}
	rows, err := t.db.conn.QueryContext(ctx, "SELECT "+gameColumns+" FROM games ORDER BY "+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Insert stores g under a fresh id.
func (t *GameTable) Insert(ctx context.Context, g model.Game) (model.Game, error) {
	g = withDefaults(g)
	team, lines, err := encodeGameStats(g)
	if err != nil {
		return model.Game{}, err
	}
	res, err := t.db.conn.ExecContext(ctx, `
		INSERT INTO games(name, date, game_type, result, team_stats, player_stats)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.Name, g.Date, g.Type, g.Result, team, lines,
	)
	if err != nil {
		return model.Game{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Game{}, fmt.Errorf("last insert id: %w", err)
	}
	g.ID = id
	return g, nil
}

// Update merges patch into the stored game and returns the result.
func (t *GameTable) Update(ctx context.Context, id int64, patch model.GamePatch) (model.Game, error) {
	tx, err := t.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Game{}, err
	}
	defer tx.Rollback()

	cur, err := scanGame(tx.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Game{}, store.ErrRecordNotFound
	}
	if err != nil {
		return model.Game{}, err
	}

	next := withDefaults(patch.Apply(cur))
	team, lines, err := encodeGameStats(next)
	if err != nil {
		return model.Game{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE games SET name = ?, date = ?, game_type = ?, result = ?, team_stats = ?, player_stats = ?
		WHERE id = ?`,
		next.Name, next.Date, next.Type, next.Result, team, lines, id,
	); err != nil {
		return model.Game{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Game{}, err
	}
	return next, nil
}

// Delete removes the game with id.
func (t *GameTable) Delete(ctx context.Context, id int64) error {
	res, err := t.db.conn.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

func scanGame(s scanner) (model.Game, error) {
	var (
		g           model.Game
		team, lines string
	)
	if err := s.Scan(&g.ID, &g.Name, &g.Date, &g.Type, &g.Result, &team, &lines); err != nil {
		return model.Game{}, err
	}
	if err := json.Unmarshal([]byte(team), &g.TeamStats); err != nil {
		return model.Game{}, fmt.Errorf("decode team stats for game %d: %w", g.ID, err)
	}
	if err := json.Unmarshal([]byte(lines), &g.PlayerStats); err != nil {
		return model.Game{}, fmt.Errorf("decode player stats for game %d: %w", g.ID, err)
	}
	return withDefaults(g), nil
}

func encodeGameStats(g model.Game) (team, lines string, err error) {
	if team, err = encodeJSON(g.TeamStats); err != nil {
		return "", "", fmt.Errorf("encode team stats: %w", err)
	}
	if lines, err = encodeJSON(g.PlayerStats); err != nil {
		return "", "", fmt.Errorf("encode player stats: %w", err)
	}
	return team, lines, nil
}

func withDefaults(g model.Game) model.Game {
	if g.TeamStats == nil {
		g.TeamStats = model.TeamStats{}
	}
	if g.PlayerStats == nil {
		g.PlayerStats = []model.PlayerLine{}
	}
	return g
}
