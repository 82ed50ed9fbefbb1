package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which payload a Value carries.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindChar
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is an immutable typed configuration value. Exactly one payload field is
// meaningful, selected by the kind; payload accessors are only valid when Kind
// reports the matching kind.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	c    rune
	s    string
}

// IntValue wraps an integer. Values declared as hex or octal also end up here.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue wraps a float.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// BoolValue wraps a boolean. Values declared as boolean also end up here.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// CharValue wraps a single character.
func CharValue(v rune) Value { return Value{kind: KindChar, c: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which payload the value carries.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload.
func (v Value) Float() float64 { return v.f }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Char returns the character payload.
func (v Value) Char() rune { return v.c }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// String renders the value as a declaration-style literal.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindChar:
		return fmt.Sprintf("'%c'", v.c)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}
