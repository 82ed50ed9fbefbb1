// Package loader reads line-oriented typed configuration files. Each
// non-blank line is either a `use "<path>"` include directive or a
// `<type> <name> = <value>` declaration; includes are resolved relative to the
// directory of the referencing file and merged last-write-wins.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/confline/confline/internal/value"
)

const defaultMaxDepth = 32

var (
	includePattern = regexp.MustCompile(`^use "(.*)"$`)
	declPattern    = regexp.MustCompile(
		`^([A-Za-z][A-Za-z0-9_-]*) +([A-Za-z][A-Za-z0-9_-]*) *= *((?:"[^"]*"|[^# ])*) *(?:#.*)?$`)
)

// OpenFunc opens a configuration file for reading. It exists so tests can feed
// the loader in-memory files.
type OpenFunc func(path string) (io.ReadCloser, error)

// Option configures a Loader.
type Option func(*Loader)

// WithOpen overrides how files are opened (primarily for tests).
func WithOpen(open OpenFunc) Option {
	return func(l *Loader) {
		l.open = open
	}
}

// WithMaxDepth caps include recursion. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(l *Loader) {
		if depth >= 1 {
			l.maxDepth = depth
		}
	}
}

// Loader parses configuration files into Tables. Redefinition warnings go to
// the logger; structural problems are returned as *ParseError.
type Loader struct {
	open     OpenFunc
	logger   *zap.Logger
	maxDepth int
	sources  []string
}

// New creates a Loader that reads from the OS filesystem unless overridden.
func New(logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		logger:   logger,
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path, recursively loads its includes, and returns the
// merged table. The returned error is a *ParseError for grammar, type, cycle,
// and depth problems, or a wrapped I/O error when a file cannot be opened.
func (l *Loader) Load(path string) (Table, error) {
	return l.load(path, make(map[string]bool), 1)
}

// Sources lists every file opened by this loader, in open order, including
// files reached through includes. Repeated Load calls accumulate.
func (l *Loader) Sources() []string {
	out := make([]string, len(l.sources))
	copy(out, l.sources)
	return out
}

func (l *Loader) load(path string, active map[string]bool, depth int) (Table, error) {
	if depth > l.maxDepth {
		return nil, &ParseError{File: path, Msg: fmt.Sprintf("include depth exceeds %d", l.maxDepth)}
	}

	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if active[key] {
		return nil, &ParseError{File: path, Msg: "include cycle detected"}
	}
	active[key] = true
	defer delete(active, key)

	rc, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("open configuration file %s: %w", path, err)
	}
	defer rc.Close()
	l.sources = append(l.sources, path)

	result := make(Table)
	scanner := bufio.NewScanner(rc)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		if m := includePattern.FindStringSubmatch(line); m != nil {
			included := filepath.Join(filepath.Dir(path), m[1])
			child, err := l.load(included, active, depth+1)
			if err != nil {
				return nil, err
			}
			result.Merge(child, func(name string) {
				l.logger.Warn("configuration variable is already bound",
					zap.String("file", included),
					zap.String("name", name),
				)
			})
			continue
		}

		m := declPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{File: path, Line: lineNum, Msg: "unexpected end of line"}
		}
		typeName, name, raw := m[1], m[2], strings.TrimLeft(m[3], " ")

		v, err := value.Parse(typeName, raw)
		if err != nil {
			msg := fmt.Sprintf("invalid value format for %s %s", typeName, name)
			if errors.Is(err, value.ErrUnknownType) {
				msg = fmt.Sprintf("invalid type name %s", typeName)
			}
			return nil, &ParseError{File: path, Line: lineNum, Msg: msg, Err: err}
		}

		if _, bound := result[name]; bound {
			l.logger.Warn("configuration variable is already bound",
				zap.String("file", path),
				zap.Int("line", lineNum),
				zap.String("name", name),
			)
		}
		result[name] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read configuration file %s: %w", path, err)
	}

	return result, nil
}

// skipLine reports whether the line holds no declaration: blank lines and
// lines whose first non-whitespace rune starts a comment. Tabs count as
// whitespace here, same as spaces.
func skipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
