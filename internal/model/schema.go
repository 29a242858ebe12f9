package model

// Field names one column of a box-score line. The string value is the wire key.
type Field string

// Kind tells whether a field takes part in sums and means.
type Kind int

const (
	Numeric Kind = iota + 1
	Descriptive
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Descriptive:
		return "descriptive"
	default:
		return "?"
	}
}

// ---- Numeric fields ----

const (
	Minutes           Field = "MIN"
	FieldGoalsMade    Field = "FGM"
	FieldGoalsAttempt Field = "FGA"
	ThreesMade        Field = "threePM"
	ThreesAttempt     Field = "threePA"
	FreeThrowsMade    Field = "FTM"
	FreeThrowsAttempt Field = "FTA"
	OffensiveRebounds Field = "OREB"
	DefensiveRebounds Field = "DREB"
	Assists           Field = "AST"
	Turnovers         Field = "TOV"
	Steals            Field = "STL"
	Blocks            Field = "BLK"
	PersonalFouls     Field = "PF"
	Points            Field = "PTS"
)

// ---- Descriptive fields (team-level lines only) ----

const (
	GameLabel  Field = "GAME"
	GameResult Field = "GR"
	GameType   Field = "GT"
)

// numericFields is the display order of every summable field.
var numericFields = []Field{
	Minutes,
	FieldGoalsMade, FieldGoalsAttempt,
	ThreesMade, ThreesAttempt,
	FreeThrowsMade, FreeThrowsAttempt,
	OffensiveRebounds, DefensiveRebounds,
	Assists, Turnovers, Steals, Blocks, PersonalFouls,
	Points,
}

var descriptiveFields = []Field{GameLabel, GameResult, GameType}

var schema = func() map[Field]Kind {
	m := make(map[Field]Kind, len(numericFields)+len(descriptiveFields))
	for _, f := range numericFields {
		m[f] = Numeric
	}
	for _, f := range descriptiveFields {
		m[f] = Descriptive
	}
	return m
}()

// Classify looks a wire key up in the schema. ok is false for unknown keys.
func Classify(name string) (f Field, k Kind, ok bool) {
	f = Field(name)
	k = f.Kind()
	return f, k, k != 0
}

// Kind returns the field's classification, or 0 when the field is not in the schema.
func (f Field) Kind() Kind {
	return schema[f]
}

// NumericFields returns the summable fields in display order.
func NumericFields() []Field {
	out := make([]Field, len(numericFields))
	copy(out, numericFields)
	return out
}

// DescriptiveFields returns the text-only fields.
func DescriptiveFields() []Field {
	out := make([]Field, len(descriptiveFields))
	copy(out, descriptiveFields)
	return out
}
