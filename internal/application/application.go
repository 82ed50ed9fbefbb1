package application

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/confline/confline/internal/config"
	"github.com/confline/confline/internal/loader"
	"github.com/confline/confline/internal/store"
	"github.com/confline/confline/internal/value"
	"github.com/confline/confline/internal/watch"
)

// Option configures an App.
type Option func(*App)

// WithLoaderOptions forwards options to every loader the app builds
// (primarily so tests can substitute an in-memory filesystem).
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(a *App) {
		a.loaderOpts = opts
	}
}

// App owns the configuration lifecycle: it builds snapshots from the base
// file, the extra files, and the defines, in that precedence order, and hands
// out the manager guarding the active snapshot.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	manager    *store.Manager
	loaderOpts []loader.Option
}

// New initializes the application from the provided settings.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.manager = store.NewManager(a.build)
	return a
}

// Manager returns the snapshot manager. The first lookup through it triggers
// the initial load.
func (a *App) Manager() *store.Manager {
	return a.manager
}

// Watcher creates a poller that refreshes the active snapshot when a source
// file changes. onReload may be nil.
func (a *App) Watcher(onReload func()) *watch.Watcher {
	opts := []watch.Option{}
	if onReload != nil {
		opts = append(opts, watch.WithOnReload(onReload))
	}
	return watch.New(a.manager, a.logger, a.cfg.WatchInterval, a.cfg.ReloadRPS, a.cfg.ReloadBurst, opts...)
}

// Check forces a load and reports the first structural error, if any.
func (a *App) Check() error {
	_, err := a.manager.Current()
	return err
}

// Resolve renders the active configuration as sorted "name = literal  # kind"
// lines. String values are expanded before rendering.
func (a *App) Resolve() (string, error) {
	s, err := a.manager.Current()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, name := range s.Names() {
		v, err := s.Value(name)
		if err != nil {
			return "", err
		}
		literal := v.String()
		if v.Kind() == value.KindString {
			expanded, err := s.String(name)
			if err != nil {
				return "", err
			}
			literal = strconv.Quote(expanded)
		}
		fmt.Fprintf(&b, "%s = %s  # %s\n", name, literal, v.Kind())
	}
	return b.String(), nil
}

// Get looks up one variable with the requested type name and returns its
// payload rendered as plain text. Accepted type names match the declaration
// grammar; hex and octal are aliases for int, boolean for bool.
func (a *App) Get(name, typeName string) (string, error) {
	s, err := a.manager.Current()
	if err != nil {
		return "", err
	}

	switch typeName {
	case "int", "hex", "octal":
		n, err := s.Int(name)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "float":
		f, err := s.Float(name)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case "bool", "boolean":
		b, err := s.Bool(name)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case "char":
		c, err := s.Char(name)
		if err != nil {
			return "", err
		}
		return string(c), nil
	case "string":
		return s.String(name)
	default:
		return "", fmt.Errorf("%w: %s", value.ErrUnknownType, typeName)
	}
}

// build runs the full load-and-merge sequence: base file, then extra files in
// order, then defines, warning on every overwrite between layers.
func (a *App) build() (*store.Store, []string, error) {
	l := loader.New(a.logger, append([]loader.Option{
		loader.WithMaxDepth(a.cfg.MaxIncludeDepth),
	}, a.loaderOpts...)...)

	files := make([]string, 0, 1+len(a.cfg.ExtraFiles))
	if a.cfg.ConfigFile != "" {
		files = append(files, a.cfg.ConfigFile)
	}
	files = append(files, a.cfg.ExtraFiles...)

	result := make(loader.Table)
	for _, file := range files {
		table, err := l.Load(file)
		if err != nil {
			return nil, nil, err
		}
		result.Merge(table, func(name string) {
			a.logger.Warn("configuration variable is already bound",
				zap.String("file", file),
				zap.String("name", name),
			)
		})
	}

	for _, define := range a.cfg.Defines {
		v, err := value.Parse(define.TypeName, define.Raw)
		if err != nil {
			return nil, nil, fmt.Errorf("define %s: %w", define.Name, err)
		}
		if _, bound := result[define.Name]; bound {
			a.logger.Warn("configuration variable is already bound",
				zap.String("define", define.Name),
			)
		}
		result[define.Name] = v
	}

	return store.New(result), l.Sources(), nil
}
