package loader

import (
	"sort"

	"github.com/confline/confline/internal/value"
)

// Table is the flat name-to-value mapping produced by loading one file and its
// transitive includes.
type Table map[string]value.Value

// Merge copies every binding from src into t, overwriting existing bindings.
// warn is invoked once per overwritten name, in sorted order, and may be nil.
func (t Table) Merge(src Table, warn func(name string)) {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, bound := t[name]; bound && warn != nil {
			warn(name)
		}
		t[name] = src[name]
	}
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for name, v := range t {
		out[name] = v
	}
	return out
}
