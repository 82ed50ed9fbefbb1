// Package watch refreshes the active configuration when any of its source
// files changes on disk. Changes are detected by polling modification times;
// reload frequency is capped with a token bucket so a rapidly rewritten file
// cannot thrash the loader.
package watch

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/confline/confline/internal/store"
)

// StatFunc reports the modification time of a file. It exists so tests can
// simulate file changes without touching the filesystem.
type StatFunc func(path string) (time.Time, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithStat overrides how modification times are read (primarily for tests).
func WithStat(stat StatFunc) Option {
	return func(w *Watcher) {
		w.stat = stat
	}
}

// WithLimiter overrides the default reload throttle (primarily for tests).
func WithLimiter(limiter interface{ Allow() bool }) Option {
	return func(w *Watcher) {
		w.limiter = limiter
	}
}

// WithOnReload registers a callback invoked after each successful refresh.
func WithOnReload(fn func()) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher polls the manager's source files and invalidates the active
// snapshot when one of them changes. It runs in a single goroutine; snapshot
// readers stay consistent through the manager's own locking.
type Watcher struct {
	manager  *store.Manager
	logger   *zap.Logger
	interval time.Duration
	limiter  reloadLimiter
	stat     StatFunc
	onReload func()

	seen    map[string]time.Time
	pending bool
}

// New creates a Watcher. ratePerSecond and burst bound how often a detected
// change may trigger a reload.
func New(manager *store.Manager, logger *zap.Logger, interval time.Duration, ratePerSecond float64, burst int, opts ...Option) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		manager:  manager,
		logger:   logger,
		interval: interval,
		limiter:  newTokenBucketLimiter(ratePerSecond, burst),
		stat: func(path string) (time.Time, error) {
			info, err := os.Stat(path)
			if err != nil {
				return time.Time{}, err
			}
			return info.ModTime(), nil
		},
		seen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll performs a single change check. Exported so the CLI's watch loop and
// tests can drive it directly.
func (w *Watcher) Poll() {
	for _, path := range w.manager.Sources() {
		mtime, err := w.stat(path)
		if err != nil {
			w.logger.Warn("stat configuration source failed",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}
		prev, known := w.seen[path]
		if known && !mtime.Equal(prev) {
			w.pending = true
		}
		w.seen[path] = mtime
	}

	if !w.pending {
		return
	}
	if !w.limiter.Allow() {
		w.logger.Debug("configuration reload throttled")
		return
	}

	w.pending = false
	w.manager.Invalidate()
	w.logger.Info("configuration changed, active snapshot invalidated")
	if w.onReload != nil {
		w.onReload()
	}
}
