package store

import (
	"errors"
	"testing"

	"github.com/confline/confline/internal/loader"
	"github.com/confline/confline/internal/value"
)

func testStore() *Store {
	return New(loader.Table{
		"WIDTH":    value.IntValue(42),
		"RATIO":    value.FloatValue(3.14),
		"DEBUG":    value.BoolValue(true),
		"SEP":      value.CharValue(','),
		"NAME":     value.StringValue("Ann"),
		"GREETING": value.StringValue("Hi, $NAME"),
		"PRICE":    value.StringValue("$$5 for $NAME"),
		"NESTED":   value.StringValue("$GREETING!"),
	})
}

func TestTypedLookups(t *testing.T) {
	t.Parallel()

	s := testStore()

	if got, err := s.Int("WIDTH"); err != nil || got != 42 {
		t.Fatalf("Int: got %d, %v", got, err)
	}
	if got, err := s.Float("RATIO"); err != nil || got != 3.14 {
		t.Fatalf("Float: got %g, %v", got, err)
	}
	if got, err := s.Bool("DEBUG"); err != nil || !got {
		t.Fatalf("Bool: got %v, %v", got, err)
	}
	if got, err := s.Char("SEP"); err != nil || got != ',' {
		t.Fatalf("Char: got %q, %v", got, err)
	}
	if got, err := s.String("NAME"); err != nil || got != "Ann" {
		t.Fatalf("String: got %q, %v", got, err)
	}
}

func TestLookupNotBound(t *testing.T) {
	t.Parallel()

	s := testStore()
	if _, err := s.Int("ABSENT"); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
	if _, err := s.String("ABSENT"); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
}

func TestLookupTypeMismatch(t *testing.T) {
	t.Parallel()

	s := testStore()
	if _, err := s.Float("WIDTH"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := s.String("WIDTH"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestStringExpansion(t *testing.T) {
	t.Parallel()

	s := testStore()

	got, err := s.String("GREETING")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hi, Ann" {
		t.Fatalf("expected %q, got %q", "Hi, Ann", got)
	}
}

func TestStringExpansionIsRecursive(t *testing.T) {
	t.Parallel()

	s := testStore()

	got, err := s.String("NESTED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hi, Ann!" {
		t.Fatalf("expected %q, got %q", "Hi, Ann!", got)
	}
}

func TestStringExpansionEscapedDollar(t *testing.T) {
	t.Parallel()

	s := testStore()

	got, err := s.String("PRICE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "$5 for Ann" {
		t.Fatalf("expected %q, got %q", "$5 for Ann", got)
	}
}

func TestStringExpansionFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   loader.Table
		lookup  string
		wantErr error
	}{
		{
			name:    "MissingVariable",
			table:   loader.Table{"S": value.StringValue("hello $NOBODY")},
			lookup:  "S",
			wantErr: ErrNotBound,
		},
		{
			name: "NonStringVariable",
			table: loader.Table{
				"S": value.StringValue("n is $N"),
				"N": value.IntValue(1),
			},
			lookup:  "S",
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "SelfCycle",
			table:   loader.Table{"S": value.StringValue("$S")},
			lookup:  "S",
			wantErr: ErrExpansionCycle,
		},
		{
			name: "MutualCycle",
			table: loader.Table{
				"A": value.StringValue("$B"),
				"B": value.StringValue("$A"),
			},
			lookup:  "A",
			wantErr: ErrExpansionCycle,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.table).String(tc.lookup); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHasAndNames(t *testing.T) {
	t.Parallel()

	s := New(loader.Table{
		"B": value.IntValue(2),
		"A": value.IntValue(1),
	})

	if !s.Has("A") || s.Has("C") {
		t.Fatalf("unexpected Has results")
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestManagerLazyBuildAndInvalidate(t *testing.T) {
	t.Parallel()

	builds := 0
	m := NewManager(func() (*Store, []string, error) {
		builds++
		return New(loader.Table{"N": value.IntValue(int64(builds))}), []string{"main.cfg"}, nil
	})

	if builds != 0 {
		t.Fatalf("expected lazy build, got %d builds", builds)
	}

	s, err := m.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := s.Int("N"); n != 1 {
		t.Fatalf("expected first build, got %d", n)
	}

	if _, err := m.Current(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if builds != 1 {
		t.Fatalf("expected snapshot reuse, got %d builds", builds)
	}

	m.Invalidate()
	s, err = m.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := s.Int("N"); n != 2 {
		t.Fatalf("expected rebuild after Invalidate, got %d", n)
	}
	if got := m.Sources(); len(got) != 1 || got[0] != "main.cfg" {
		t.Fatalf("unexpected sources: %v", got)
	}
}

func TestManagerBuildError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	m := NewManager(func() (*Store, []string, error) {
		return nil, nil, wantErr
	})

	if _, err := m.Current(); !errors.Is(err, wantErr) {
		t.Fatalf("expected build error, got %v", err)
	}
}
