package loader

import "fmt"

// ParseError reports a structural problem in a configuration file. Line is
// 1-indexed and zero when the problem is not tied to a single line (cycle
// detection, depth limit).
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
