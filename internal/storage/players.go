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

const playerColumns = "id, name, number, position, height, weight, birthdate, stats"

// PlayerTable implements store.PlayerBackend over the players table.
type PlayerTable struct {
	db *DB
}

var _ store.PlayerBackend = (*PlayerTable)(nil)

// List returns every player in the requested order.
func (t *PlayerTable) List(ctx context.Context, by model.OrderBy) ([]model.Player, error) {
	order := "id"
	if by == model.OrderByName {
		order = "name COLLATE NOCASE, id"
	}
	rows, err := t.db.conn.QueryContext(ctx, "SELECT "+playerColumns+" FROM players ORDER BY "+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Insert stores p under a fresh id.
func (t *PlayerTable) Insert(ctx context.Context, p model.Player) (model.Player, error) {
	stats, err := encodeJSON(nonNilStats(p.Stats))
	if err != nil {
		return model.Player{}, fmt.Errorf("encode stats: %w", err)
	}
	res, err := t.db.conn.ExecContext(ctx, `
		INSERT INTO players(name, number, position, height, weight, birthdate, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Number, p.Position, p.Height, p.Weight, p.Birthdate, stats,
	)
	if err != nil {
		return model.Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Player{}, fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	p.Stats = nonNilStats(p.Stats)
	return p, nil
}

// Update merges patch into the stored player and returns the result.
func (t *PlayerTable) Update(ctx context.Context, id int64, patch model.PlayerPatch) (model.Player, error) {
	tx, err := t.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Player{}, err
	}
	defer tx.Rollback()

	cur, err := scanPlayer(tx.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, store.ErrRecordNotFound
	}
	if err != nil {
		return model.Player{}, err
	}

	next := patch.Apply(cur)
	stats, err := encodeJSON(nonNilStats(next.Stats))
	if err != nil {
		return model.Player{}, fmt.Errorf("encode stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE players SET name = ?, number = ?, position = ?, height = ?, weight = ?, birthdate = ?, stats = ?
		WHERE id = ?`,
		next.Name, next.Number, next.Position, next.Height, next.Weight, next.Birthdate, stats, id,
	); err != nil {
		return model.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Player{}, err
	}
	return next, nil
}

// Delete removes the player with id.
func (t *PlayerTable) Delete(ctx context.Context, id int64) error {
	res, err := t.db.conn.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
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

func scanPlayer(s scanner) (model.Player, error) {
	var (
		p     model.Player
		stats string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Number, &p.Position, &p.Height, &p.Weight, &p.Birthdate, &stats); err != nil {
		return model.Player{}, err
	}
	if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
		return model.Player{}, fmt.Errorf("decode stats for player %d: %w", p.ID, err)
	}
	p.Stats = nonNilStats(p.Stats)
	return p, nil
}

func nonNilStats(s []model.StatEntry) []model.StatEntry {
	if s == nil {
		return []model.StatEntry{}
	}
	return s
}
