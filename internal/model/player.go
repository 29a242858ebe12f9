package model

import "strings"

// OrderBy selects the deterministic order a backend lists records in.
type OrderBy string

const (
	OrderByID   OrderBy = "id"
	OrderByName OrderBy = "name"
	OrderByDate OrderBy = "date"
)

// Valid reports whether o is a known ordering.
func (o OrderBy) Valid() bool {
	switch o {
	case OrderByID, OrderByName, OrderByDate:
		return true
	}
	return false
}

// Player is a roster member and the ordered history of the lines recorded for them.
type Player struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Number    string      `json:"number,omitempty"`
	Position  string      `json:"position,omitempty"`
	Height    string      `json:"height,omitempty"`
	Weight    string      `json:"weight,omitempty"`
	Birthdate string      `json:"birthdate,omitempty"`
	Stats     []StatEntry `json:"stats"`
}

// RecordID implements the store record contract.
func (p Player) RecordID() int64 { return p.ID }

// WithID returns a copy of p carrying id.
func (p Player) WithID(id int64) Player {
	p.ID = id
	return p
}

// Less orders players by the given key, breaking ties by id.
func (p Player) Less(q Player, by OrderBy) bool {
	if by == OrderByName {
		a, b := strings.ToLower(p.Name), strings.ToLower(q.Name)
		if a != b {
			return a < b
		}
	}
	return p.ID < q.ID
}

// Clone returns a deep copy of p.
func (p Player) Clone() Player {
	out := p
	if p.Stats != nil {
		out.Stats = make([]StatEntry, len(p.Stats))
		for i, s := range p.Stats {
			out.Stats[i] = s.Clone()
		}
	}
	return out
}

// StatFor returns the history entry recorded for gameID.
func (p Player) StatFor(gameID int64) (StatEntry, bool) {
	for _, s := range p.Stats {
		if s.GameID == gameID {
			return s, true
		}
	}
	return StatEntry{}, false
}

// UpsertStat returns a copy of the history with entry replacing the one keyed by the same
// game, or appended when the game has no entry yet.
func (p Player) UpsertStat(entry StatEntry) []StatEntry {
	out := make([]StatEntry, 0, len(p.Stats)+1)
	replaced := false
	for _, s := range p.Stats {
		if s.GameID == entry.GameID {
			out = append(out, entry.Clone())
			replaced = true
			continue
		}
		out = append(out, s.Clone())
	}
	if !replaced {
		out = append(out, entry.Clone())
	}
	return out
}

// DropStat returns a copy of the history without the entry for gameID.
func (p Player) DropStat(gameID int64) []StatEntry {
	out := make([]StatEntry, 0, len(p.Stats))
	for _, s := range p.Stats {
		if s.GameID != gameID {
			out = append(out, s.Clone())
		}
	}
	return out
}

// PlayerPatch is a partial player update. Nil fields are left unchanged.
type PlayerPatch struct {
	Name      *string      `json:"name,omitempty"`
	Number    *string      `json:"number,omitempty"`
	Position  *string      `json:"position,omitempty"`
	Height    *string      `json:"height,omitempty"`
	Weight    *string      `json:"weight,omitempty"`
	Birthdate *string      `json:"birthdate,omitempty"`
	Stats     *[]StatEntry `json:"stats,omitempty"`
}

// Apply returns p with the patch's set fields merged in.
func (pp PlayerPatch) Apply(p Player) Player {
	out := p.Clone()
	setString(&out.Name, pp.Name)
	setString(&out.Number, pp.Number)
	setString(&out.Position, pp.Position)
	setString(&out.Height, pp.Height)
	setString(&out.Weight, pp.Weight)
	setString(&out.Birthdate, pp.Birthdate)
	if pp.Stats != nil {
		out.Stats = Player{Stats: *pp.Stats}.Clone().Stats
		if out.Stats == nil {
			out.Stats = []StatEntry{}
		}
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (pp PlayerPatch) Empty() bool {
	return pp.Name == nil && pp.Number == nil && pp.Position == nil && pp.Height == nil &&
		pp.Weight == nil && pp.Birthdate == nil && pp.Stats == nil
}

// Snapshot returns a patch that restores every field of p.
func (p Player) Snapshot() PlayerPatch {
	c := p.Clone()
	stats := c.Stats
	if stats == nil {
		stats = []StatEntry{}
	}
	return PlayerPatch{
		Name: &c.Name, Number: &c.Number, Position: &c.Position,
		Height: &c.Height, Weight: &c.Weight, Birthdate: &c.Birthdate,
		Stats: &stats,
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
