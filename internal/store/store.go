// Package store exposes typed lookups over a loaded configuration table and
// manages the lifecycle of the active configuration snapshot.
package store

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/confline/confline/internal/loader"
	"github.com/confline/confline/internal/value"
)

// varPattern matches either an escaped dollar sign ($$) or a variable
// reference ($name). Escaped dollars are matched first so $$NAME yields a
// literal dollar followed by the text NAME.
var varPattern = regexp.MustCompile(`\$\$|\$[A-Za-z][A-Za-z0-9_-]*`)

// Store is an immutable snapshot of a loaded configuration. Lookups never
// mutate it, so a Store may be shared freely once constructed.
type Store struct {
	table loader.Table
}

// New copies the table into a fresh snapshot.
func New(table loader.Table) *Store {
	return &Store{table: table.Clone()}
}

// Has reports whether name is bound, regardless of kind.
func (s *Store) Has(name string) bool {
	_, ok := s.table[name]
	return ok
}

// Names returns all bound names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.table))
	for name := range s.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the raw typed value bound to name.
func (s *Store) Value(name string) (value.Value, error) {
	v, ok := s.table[name]
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %s", ErrNotBound, name)
	}
	return v, nil
}

// Int looks up an integer variable.
func (s *Store) Int(name string) (int64, error) {
	v, err := s.lookup(name, value.KindInt)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// Float looks up a float variable.
func (s *Store) Float(name string) (float64, error) {
	v, err := s.lookup(name, value.KindFloat)
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// Bool looks up a boolean variable.
func (s *Store) Bool(name string) (bool, error) {
	v, err := s.lookup(name, value.KindBool)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// Char looks up a character variable.
func (s *Store) Char(name string) (rune, error) {
	v, err := s.lookup(name, value.KindChar)
	if err != nil {
		return 0, err
	}
	return v.Char(), nil
}

// String looks up a string variable and expands $name references against the
// same snapshot before returning. A reference to a missing or non-string
// variable fails with the same errors as a direct lookup; $$ produces a
// literal dollar sign.
func (s *Store) String(name string) (string, error) {
	return s.stringValue(name, make(map[string]bool))
}

func (s *Store) lookup(name string, want value.Kind) (value.Value, error) {
	v, ok := s.table[name]
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %s", ErrNotBound, name)
	}
	if v.Kind() != want {
		return value.Value{}, fmt.Errorf("%w %s: looked for %s, but found %s",
			ErrTypeMismatch, name, want, v.Kind())
	}
	return v, nil
}

func (s *Store) stringValue(name string, active map[string]bool) (string, error) {
	if active[name] {
		return "", fmt.Errorf("%w: $%s", ErrExpansionCycle, name)
	}
	v, err := s.lookup(name, value.KindString)
	if err != nil {
		return "", err
	}

	active[name] = true
	defer delete(active, name)
	return s.expand(v.Str(), active)
}

func (s *Store) expand(raw string, active map[string]bool) (string, error) {
	var firstErr error
	out := varPattern.ReplaceAllStringFunc(raw, func(match string) string {
		if match == "$$" {
			return "$"
		}
		if firstErr != nil {
			return match
		}
		expanded, err := s.stringValue(match[1:], active)
		if err != nil {
			firstErr = err
			return match
		}
		return expanded
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
