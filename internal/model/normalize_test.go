package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNormalize_CoercesNumbers(t *testing.T) {
	raw := map[string]any{
		"MIN":      36,
		"FGM":      json.Number("8"),
		"FGA":      "15",
		"threePM":  int64(2),
		"AST":      9.0,
		"TOV":      " 2 ",
		"GR":       "Loss",
		"nickname": "Hao", // unknown, dropped
	}
	e, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	checks := map[Field]float64{
		Minutes: 36, FieldGoalsMade: 8, FieldGoalsAttempt: 15,
		ThreesMade: 2, Assists: 9, Turnovers: 2,
	}
	for f, want := range checks {
		if got := e.Get(f); got != want {
			t.Errorf("%s: want %v, got %v", f, want, got)
		}
	}
	if e.Text(GameResult) != "Loss" {
		t.Errorf("GR: want Loss, got %q", e.Text(GameResult))
	}
	if _, ok := e.Values["nickname"]; ok {
		t.Error("unknown key should be dropped")
	}
	if len(e.Values) != len(checks) {
		t.Errorf("expected %d numeric values, got %d", len(checks), len(e.Values))
	}
}

func TestNormalize_RejectsNonNumeric(t *testing.T) {
	cases := map[string]any{
		"word":  "eight",
		"bool":  true,
		"nil":   nil,
		"nan":   math.NaN(),
		"inf":   math.Inf(1),
		"slice": []int{1},
		"empty": "",
	}
	for name, v := range cases {
		_, err := Normalize(map[string]any{"FGM": v})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
			continue
		}
		if verr.Field != "FGM" || verr.Reason != ReasonNotNumeric {
			t.Errorf("%s: unexpected error %+v", name, verr)
		}
	}
}

func TestNormalize_RejectsNonTextDescriptive(t *testing.T) {
	_, err := Normalize(map[string]any{"GT": 3})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonNotText {
		t.Fatalf("expected not-text ValidationError, got %v", err)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	e, err := Normalize(map[string]any{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if e.Get(Points) != 0 {
		t.Error("absent field should read as zero")
	}
}

func TestNormalize_GameID(t *testing.T) {
	e, err := Normalize(map[string]any{"gameId": json.Number("42"), "AST": 3})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if e.GameID != 42 {
		t.Errorf("GameID: want 42, got %d", e.GameID)
	}
	if _, err := Normalize(map[string]any{"gameId": 1.5}); err == nil {
		t.Error("expected fractional gameId to be rejected")
	}
}

func TestClassify(t *testing.T) {
	if _, k, ok := Classify("OREB"); !ok || k != Numeric {
		t.Errorf("OREB: want numeric, got %v %v", k, ok)
	}
	if _, k, ok := Classify("GAME"); !ok || k != Descriptive {
		t.Errorf("GAME: want descriptive, got %v %v", k, ok)
	}
	if _, _, ok := Classify("gamesPlayed"); ok {
		t.Error("gamesPlayed is not a schema field")
	}
	for _, f := range NumericFields() {
		if f.Kind() != Numeric {
			t.Errorf("%s listed as numeric but classified %v", f, f.Kind())
		}
	}
}

func TestStatEntryJSONIsFlat(t *testing.T) {
	in := StatEntry{GameID: 3, Values: Line{Assists: 9}, Info: map[Field]string{GameType: "Grading"}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"AST":9,"GT":"Grading","gameId":3}`
	if string(b) != want {
		t.Errorf("want %s, got %s", want, b)
	}

	var bad StatEntry
	if err := json.Unmarshal([]byte(`{"AST":"lots"}`), &bad); err == nil {
		t.Error("expected decode of non-numeric AST to fail")
	}
}

func TestPlayerLineJSON(t *testing.T) {
	var l PlayerLine
	if err := json.Unmarshal([]byte(`{"playerId":7,"FGM":8,"FGA":15}`), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l.PlayerID != 7 || l.Get(FieldGoalsAttempt) != 15 {
		t.Errorf("unexpected line %+v", l)
	}
	if _, ok := l.Values["playerId"]; ok {
		t.Error("playerId must not become a stat")
	}
	b, _ := json.Marshal(l)
	if string(b) != `{"FGA":15,"FGM":8,"playerId":7}` {
		t.Errorf("unexpected encoding %s", b)
	}
}

func TestDecodeLinesAndPlayerID(t *testing.T) {
	raw, err := DecodeLines([]byte(`[{"playerId":1,"MIN":36},{"MIN":12},{"playerId":-2}]`))
	if err != nil {
		t.Fatalf("DecodeLines: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(raw))
	}

	id, err := TakePlayerID(raw[0])
	if err != nil || id != 1 {
		t.Errorf("line 1: id=%d err=%v", id, err)
	}
	e, err := Normalize(raw[0])
	if err != nil || e.Get(Minutes) != 36 {
		t.Errorf("line 1 normalized to %+v, %v", e, err)
	}

	var ve *ValidationError
	if _, err := TakePlayerID(raw[1]); !errors.As(err, &ve) || ve.Reason != "required" {
		t.Errorf("line 2: expected required error, got %v", err)
	}
	if _, err := TakePlayerID(raw[2]); !errors.As(err, &ve) || ve.Reason != ReasonInvalidID {
		t.Errorf("line 3: expected invalid id error, got %v", err)
	}

	if _, err := DecodeLines([]byte(`{"playerId":1}`)); err == nil {
		t.Error("expected an object to be rejected")
	}
}

func TestRawRenormalizes(t *testing.T) {
	e := StatEntry{GameID: 4, Values: Line{Assists: 9, Points: 21}, Info: map[Field]string{GameType: "League"}}
	back, err := Normalize(e.Raw())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if back.GameID != 0 || back.Get(Assists) != 9 || back.Text(GameType) != "League" {
		t.Errorf("unexpected entry %+v", back)
	}
}

func TestNormalizeAll(t *testing.T) {
	entries, err := NormalizeAll([]map[string]any{{"PTS": "12"}, {"AST": 4, "GR": "Win"}})
	if err != nil {
		t.Fatalf("NormalizeAll: %v", err)
	}
	if len(entries) != 2 || entries[0].Get(Points) != 12 || entries[1].Text(GameResult) != "Win" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	_, err = NormalizeAll([]map[string]any{{"PTS": 3}, {"PTS": "x", "STL": []int{}}, {"GT": 1}})
	var ves ValidationErrors
	if !errors.As(err, &ves) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(ves) != 3 {
		t.Fatalf("want 3 errors, got %v", ves)
	}
	if ves[0].Line != 2 || ves[0].Field != "PTS" || ves[1].Line != 2 || ves[1].Field != "STL" {
		t.Errorf("unexpected line 2 errors: %v", ves)
	}
	if ves[2].Line != 3 || ves[2].Reason != ReasonNotText {
		t.Errorf("unexpected line 3 error: %v", ves[2])
	}
	var first *ValidationError
	if !errors.As(err, &first) || first != ves[0] {
		t.Error("errors.As should reach the first field error")
	}
	if want := `line 2: invalid field "PTS": not numeric`; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("message %q should start with %q", err.Error(), want)
	}
}

func TestTakePlayerIDs(t *testing.T) {
	ids, err := TakePlayerIDs([]map[string]any{{"playerId": json.Number("3")}, {"playerId": 4}})
	if err != nil || len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Fatalf("TakePlayerIDs: %v, %v", ids, err)
	}

	_, err = TakePlayerIDs([]map[string]any{{"playerId": 1}, {"PTS": 2}, {"playerId": 0}})
	var ves ValidationErrors
	if !errors.As(err, &ves) || len(ves) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
	if ves[0].Line != 2 || ves[0].Reason != "required" || ves[1].Line != 3 || ves[1].Reason != ReasonInvalidID {
		t.Errorf("unexpected errors: %v", ves)
	}
}
