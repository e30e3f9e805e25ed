// Package expr implements the loam filter/formula expression language:
// lexing, parsing, and evaluation against a note's metadata and the graph
// index.
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loamkb/loam/internal/dates"
)

// Kind identifies the runtime type of a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindString
	KindDate
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	default:
		return "empty"
	}
}

// Value is a runtime value produced by expression evaluation.
//
// The zero Value is the typed "empty" value: it is falsy, sorts before
// everything else, and propagates through arithmetic rather than erroring.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	list []Value
}

// Empty returns the typed empty value.
func Empty() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date returns a date/datetime value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// List returns a list value.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// StringList converts a string slice to a list value.
func StringList(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return List(vs...)
}

// FromAny converts a decoded metadata value (string, number, bool, time.Time,
// or a slice of those) to a Value. Unknown types are stringified.
func FromAny(v interface{}) Value {
	switch vv := v.(type) {
	case nil:
		return Empty()
	case bool:
		return Bool(vv)
	case int:
		return Number(float64(vv))
	case int64:
		return Number(float64(vv))
	case float64:
		return Number(vv)
	case string:
		return String(vv)
	case time.Time:
		return Date(vv)
	case []interface{}:
		vs := make([]Value, 0, len(vv))
		for _, item := range vv {
			vs = append(vs, FromAny(item))
		}
		return List(vs...)
	case []string:
		return StringList(vv)
	default:
		return String(fmt.Sprint(v))
	}
}

// Kind returns the value's runtime type.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value is the typed empty value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Truthy reports whether the value counts as true in a boolean context.
// Empty is always falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindDate:
		return !v.t.IsZero()
	case KindList:
		return len(v.list) > 0
	default:
		return false
	}
}

// AsNumber returns the numeric interpretation of the value.
// Strings are coerced when they parse as numbers.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return f, err == nil
	}
	return 0, false
}

// AsDate returns the temporal interpretation of the value.
// Date-shaped strings are coerced.
func (v Value) AsDate() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.t, true
	case KindString:
		if t, err := dates.ParseAny(v.s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Items returns the list elements (nil for non-lists).
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Text returns the display form of the value. Empty renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 {
			return v.t.Format(dates.DateLayout)
		}
		return v.t.Format(dates.DatetimeSecondsLayout)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// GroupKey returns a stable string key for grouping rows by this value.
// Distinct values map to distinct keys within a kind.
func (v Value) GroupKey() string {
	return v.kind.String() + ":" + v.Text()
}
