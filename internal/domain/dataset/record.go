package dataset

// Package dataset contains the pure record model shared by both dashboard
// datasets. Records are opaque field-name-to-scalar mappings so the search
// filter stays schema-agnostic.

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Mode selects which of the two datasets is active.
type Mode string

const (
	ModeProfiles Mode = "profiles"
	ModeCards    Mode = "cards"
)

// Valid reports whether m is one of the two known dataset modes.
func (m Mode) Valid() bool { return m == ModeProfiles || m == ModeCards }

// Kind enumerates the scalar variants a record field can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a scalar field value: string, number, boolean, or null.
// Composite JSON values (objects, arrays) are retained verbatim for
// serialization and compared as their compact text, which keeps the filter
// schema-agnostic without special cases per dataset.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage // set only for composite values
}

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number constructs a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool constructs a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Null constructs a null value.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the search-comparable string form of the value. Null values
// have no text and report ok=false: they never match any query.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// UnmarshalJSON parses any JSON value into the matching variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{kind: KindNull}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Value{kind: KindString, str: s}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Value{kind: KindBool, b: b}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*v = Value{kind: KindString, str: buf.String(), raw: append(json.RawMessage(nil), trimmed...)}
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, num: f}
	}
	return nil
}

// MarshalJSON renders the value back in its original JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// Record is an opaque mapping from field name to scalar value. The engine
// treats all fields uniformly for search.
type Record map[string]Value

// Matches reports whether any field value contains term as a
// case-insensitive substring. term must already be lower-cased and trimmed;
// null values never match.
func (r Record) Matches(term string) bool {
	for _, v := range r {
		text, ok := v.Text()
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}
