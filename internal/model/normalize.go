package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValidationError reports a stat field that could not be coerced. Line is the 1-based
// position of the offending line in a batch, or 0 outside one.
type ValidationError struct {
	Line   int    `json:"line,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid field %q: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// ValidationErrors lists every bad field found in a batch of lines.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Reasons carried by ValidationError.
const (
	ReasonNotNumeric = "not numeric"
	ReasonNotText    = "not text"
	ReasonInvalidID  = "not a valid id"
)

// Normalize filters raw to the schema and coerces its values.
// Numeric fields accept any Go number, json.Number or a numeric string; descriptive fields
// accept strings. Unknown keys are dropped. No key is required. A gameId key, when present,
// becomes the entry's GameID. When several fields are bad the first in key order is reported.
func Normalize(raw map[string]any) (StatEntry, error) {
	e, errs := normalize(raw)
	if len(errs) > 0 {
		return StatEntry{}, errs[0]
	}
	return e, nil
}

// NormalizeAll normalizes a batch of lines. On failure it returns ValidationErrors naming
// every bad field of every line, each tagged with its 1-based line number.
func NormalizeAll(raws []map[string]any) ([]StatEntry, error) {
	entries := make([]StatEntry, len(raws))
	var all ValidationErrors
	for i, raw := range raws {
		e, errs := normalize(raw)
		for _, ve := range errs {
			ve.Line = i + 1
		}
		all = append(all, errs...)
		entries[i] = e
	}
	if len(all) > 0 {
		return nil, all
	}
	return entries, nil
}

func normalize(raw map[string]any) (StatEntry, ValidationErrors) {
	var (
		e    StatEntry
		errs ValidationErrors
	)
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		v := raw[key]
		if key == gameIDKey {
			id, err := takeID(raw, gameIDKey)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			e.GameID = id
			continue
		}
		f, kind, ok := Classify(key)
		if !ok {
			continue
		}
		switch kind {
		case Numeric:
			n, ok := toNumber(v)
			if !ok {
				errs = append(errs, &ValidationError{Field: key, Reason: ReasonNotNumeric})
				continue
			}
			if e.Values == nil {
				e.Values = make(Line)
			}
			e.Values[f] = n
		case Descriptive:
			s, ok := toText(v)
			if !ok {
				errs = append(errs, &ValidationError{Field: key, Reason: ReasonNotText})
				continue
			}
			if e.Info == nil {
				e.Info = make(map[Field]string)
			}
			e.Info[f] = s
		}
	}
	return e, errs
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

// takeID reads an integer id stored under key. A missing key yields 0.
func takeID(raw map[string]any, key string) (int64, *ValidationError) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := toNumber(v)
	if !ok || n != math.Trunc(n) || n < 0 || n > math.MaxInt64 {
		return 0, &ValidationError{Field: key, Reason: ReasonInvalidID}
	}
	return int64(n), nil
}
