package model

// Game is one fixture with its per-player lines and the team totals derived from them.
type Game struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Date        string       `json:"date,omitempty"` // YYYY-MM-DD
	Type        string       `json:"gameType,omitempty"`
	Result      string       `json:"result,omitempty"`
	TeamStats   TeamStats    `json:"teamStats"`
	PlayerStats []PlayerLine `json:"playerStats"`
}

// RecordID implements the store record contract.
func (g Game) RecordID() int64 { return g.ID }

// WithID returns a copy of g carrying id.
func (g Game) WithID(id int64) Game {
	g.ID = id
	return g
}

// Less orders games by the given key, breaking ties by id.
func (g Game) Less(h Game, by OrderBy) bool {
	switch by {
	case OrderByDate:
		if g.Date != h.Date {
			return g.Date < h.Date
		}
	case OrderByName:
		if g.Name != h.Name {
			return g.Name < h.Name
		}
	}
	return g.ID < h.ID
}

// Clone returns a deep copy of g.
func (g Game) Clone() Game {
	out := g
	out.TeamStats = TeamStats(Line(g.TeamStats).Clone())
	if g.PlayerStats != nil {
		out.PlayerStats = make([]PlayerLine, len(g.PlayerStats))
		for i, l := range g.PlayerStats {
			out.PlayerStats[i] = PlayerLine{PlayerID: l.PlayerID, StatEntry: l.StatEntry.Clone()}
		}
	}
	return out
}

// LineFor returns the line recorded for playerID in this game.
func (g Game) LineFor(playerID int64) (PlayerLine, bool) {
	for _, l := range g.PlayerStats {
		if l.PlayerID == playerID {
			return l, true
		}
	}
	return PlayerLine{}, false
}

// PlayerIDs returns the ids of every player with a line in this game, in line order.
func (g Game) PlayerIDs() []int64 {
	ids := make([]int64, len(g.PlayerStats))
	for i, l := range g.PlayerStats {
		ids[i] = l.PlayerID
	}
	return ids
}

// Info returns the game's metadata as descriptive fields.
func (g Game) Info() map[Field]string {
	info := make(map[Field]string, 3)
	if g.Name != "" {
		info[GameLabel] = g.Name
	}
	if g.Result != "" {
		info[GameResult] = g.Result
	}
	if g.Type != "" {
		info[GameType] = g.Type
	}
	return info
}

// GamePatch is a partial game update. Nil fields are left unchanged.
type GamePatch struct {
	Name        *string       `json:"name,omitempty"`
	Date        *string       `json:"date,omitempty"`
	Type        *string       `json:"gameType,omitempty"`
	Result      *string       `json:"result,omitempty"`
	TeamStats   *TeamStats    `json:"teamStats,omitempty"`
	PlayerStats *[]PlayerLine `json:"playerStats,omitempty"`
}

// Apply returns g with the patch's set fields merged in.
func (gp GamePatch) Apply(g Game) Game {
	out := g.Clone()
	setString(&out.Name, gp.Name)
	setString(&out.Date, gp.Date)
	setString(&out.Type, gp.Type)
	setString(&out.Result, gp.Result)
	if gp.TeamStats != nil {
		out.TeamStats = TeamStats(Line(*gp.TeamStats).Clone())
	}
	if gp.PlayerStats != nil {
		out.PlayerStats = Game{PlayerStats: *gp.PlayerStats}.Clone().PlayerStats
		if out.PlayerStats == nil {
			out.PlayerStats = []PlayerLine{}
		}
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (gp GamePatch) Empty() bool {
	return gp.Name == nil && gp.Date == nil && gp.Type == nil && gp.Result == nil &&
		gp.TeamStats == nil && gp.PlayerStats == nil
}

// Derived reports whether the patch writes fields that are computed from player lines.
func (gp GamePatch) Derived() bool {
	return gp.TeamStats != nil || gp.PlayerStats != nil
}

// Snapshot returns a patch that restores every field of g.
func (g Game) Snapshot() GamePatch {
	c := g.Clone()
	lines := c.PlayerStats
	if lines == nil {
		lines = []PlayerLine{}
	}
	team := c.TeamStats
	if team == nil {
		team = TeamStats{}
	}
	return GamePatch{
		Name: &c.Name, Date: &c.Date, Type: &c.Type, Result: &c.Result,
		TeamStats: &team, PlayerStats: &lines,
	}
}
