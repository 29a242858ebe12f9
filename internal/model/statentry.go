package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire keys that travel next to the stat fields but are not part of the schema.
const (
	gameIDKey      = "gameId"
	playerIDKey    = "playerId"
	gamesPlayedKey = "gamesPlayed"
)

// Line maps numeric fields to values. A missing field reads as zero.
type Line map[Field]float64

// Get returns the value of f, or 0 when the line does not carry it.
func (l Line) Get(f Field) float64 {
	return l[f]
}

// Clone returns an independent copy of the line.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	out := make(Line, len(l))
	for f, v := range l {
		out[f] = v
	}
	return out
}

// StatEntry is one player's or one team's box-score line for a single game.
// GameID keys the entry inside a player's history and is zero for game-side lines.
type StatEntry struct {
	GameID int64
	Values Line
	Info   map[Field]string
}

// Get returns the numeric value of f, treating absence as zero.
func (e StatEntry) Get(f Field) float64 {
	return e.Values.Get(f)
}

// Text returns the descriptive value of f, or "" when absent.
func (e StatEntry) Text(f Field) string {
	return e.Info[f]
}

// Clone returns a deep copy of the entry.
func (e StatEntry) Clone() StatEntry {
	out := StatEntry{GameID: e.GameID, Values: e.Values.Clone()}
	if e.Info != nil {
		out.Info = make(map[Field]string, len(e.Info))
		for f, s := range e.Info {
			out.Info[f] = s
		}
	}
	return out
}

// flat returns the entry in its flat wire form.
func (e StatEntry) flat() map[string]any {
	m := make(map[string]any, len(e.Values)+len(e.Info)+1)
	if e.GameID != 0 {
		m[gameIDKey] = e.GameID
	}
	for f, v := range e.Values {
		m[string(f)] = v
	}
	for f, s := range e.Info {
		m[string(f)] = s
	}
	return m
}

// Raw returns the stat fields as a fresh raw map, the form Normalize accepts. GameID is left out.
func (e StatEntry) Raw() map[string]any {
	m := e.flat()
	delete(m, gameIDKey)
	return m
}

// MarshalJSON writes the entry as a flat object: {"gameId":1,"MIN":36,"FGM":8,...}.
func (e StatEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.flat())
}

// UnmarshalJSON decodes a flat object through Normalize, so malformed stats are rejected.
func (e *StatEntry) UnmarshalJSON(b []byte) error {
	raw, err := decodeRaw(b)
	if err != nil {
		return err
	}
	entry, err := Normalize(raw)
	if err != nil {
		return err
	}
	*e = entry
	return nil
}

// PlayerLine is a player's entry inside a game's player-stats collection.
type PlayerLine struct {
	PlayerID int64
	StatEntry
}

// MarshalJSON writes the line flat with a playerId key.
func (p PlayerLine) MarshalJSON() ([]byte, error) {
	m := p.StatEntry.flat()
	m[playerIDKey] = p.PlayerID
	return json.Marshal(m)
}

// UnmarshalJSON reads playerId and normalizes the remaining keys.
func (p *PlayerLine) UnmarshalJSON(b []byte) error {
	raw, err := decodeRaw(b)
	if err != nil {
		return err
	}
	id, err := takeID(raw, playerIDKey)
	if err != nil {
		return err
	}
	entry, err := Normalize(raw)
	if err != nil {
		return err
	}
	*p = PlayerLine{PlayerID: id, StatEntry: entry}
	return nil
}

// Entries returns the stat entries of the given lines, in order.
func Entries(lines []PlayerLine) []StatEntry {
	out := make([]StatEntry, len(lines))
	for i, l := range lines {
		out[i] = l.StatEntry
	}
	return out
}

// TeamStats is the derived sum of a game's player lines. It is a cache: it can always be
// recomputed from the game's PlayerStats.
type TeamStats Line

// Get returns the team total for f.
func (t TeamStats) Get(f Field) float64 {
	return t[f]
}

// AverageStats is a player's per-field mean across recorded games.
type AverageStats struct {
	GamesPlayed int
	Values      Line
}

// Get returns the average for f.
func (a AverageStats) Get(f Field) float64 {
	return a.Values.Get(f)
}

// MarshalJSON writes the averages flat with a gamesPlayed key.
func (a AverageStats) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.Values)+1)
	m[gamesPlayedKey] = a.GamesPlayed
	for f, v := range a.Values {
		m[string(f)] = v
	}
	return json.Marshal(m)
}

func decodeRaw(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode stat line: %w", err)
	}
	return raw, nil
}

// TakePlayerID reads the required playerId key of a raw player line.
func TakePlayerID(raw map[string]any) (int64, error) {
	if v, ok := raw[playerIDKey]; !ok || v == nil {
		return 0, &ValidationError{Field: playerIDKey, Reason: "required"}
	}
	id, err := takeID(raw, playerIDKey)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, &ValidationError{Field: playerIDKey, Reason: ReasonInvalidID}
	}
	return id, nil
}

// TakePlayerIDs reads the playerId of every line in a batch. Failures are returned together
// as ValidationErrors carrying 1-based line numbers.
func TakePlayerIDs(raws []map[string]any) ([]int64, error) {
	ids := make([]int64, len(raws))
	var errs ValidationErrors
	for i, raw := range raws {
		id, err := TakePlayerID(raw)
		if err != nil {
			ve := *err.(*ValidationError)
			ve.Line = i + 1
			errs = append(errs, &ve)
			continue
		}
		ids[i] = id
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return ids, nil
}

// DecodeLines decodes a JSON array of flat player lines into raw maps, keeping numbers as
// json.Number so Normalize sees them unchanged.
func DecodeLines(b []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode stat lines: %w", err)
	}
	return raw, nil
}
