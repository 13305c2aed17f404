// Package maintenance runs periodic background tasks for the lookup API as
// Go tickers: reloading the dataset file when it changes on disk.
package maintenance

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	ReloadInterval time.Duration // Dataset file mtime poll
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		ReloadInterval: 1 * time.Minute,
	}
}

// ReloadFunc rebuilds whatever depends on the dataset file.
type ReloadFunc func(ctx context.Context) error

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, path string, reload ReloadFunc, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started", "reload", cfg.ReloadInterval, "file", path)

	if cfg.ReloadInterval <= 0 {
		<-ctx.Done()
		return
	}

	w := &fileWatcher{path: path, reload: reload, logger: logger}
	w.prime()

	t := time.NewTicker(cfg.ReloadInterval)
	defer t.Stop()
	runLoop(ctx, t.C, func() { w.check(ctx) })

	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// fileWatcher reloads when the dataset file's modification time or size
// changes. A failed reload is retried on the next tick.
type fileWatcher struct {
	path    string
	reload  ReloadFunc
	logger  *slog.Logger
	modTime time.Time
	size    int64
}

func (w *fileWatcher) prime() {
	if fi, err := os.Stat(w.path); err == nil {
		w.modTime, w.size = fi.ModTime(), fi.Size()
	}
}

// check reports whether a reload happened.
func (w *fileWatcher) check(ctx context.Context) bool {
	fi, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn("Reload: cannot stat dataset", "file", w.path, "error", err)
		return false
	}
	if fi.ModTime().Equal(w.modTime) && fi.Size() == w.size {
		return false
	}

	start := time.Now()
	if err := w.reload(ctx); err != nil {
		w.logger.Warn("Reload: failed to rebuild from dataset", "file", w.path, "error", err)
		return false
	}
	w.modTime, w.size = fi.ModTime(), fi.Size()
	w.logger.Info("Reload: dataset changed, index rebuilt",
		"file", w.path, "duration", time.Since(start).Round(time.Millisecond))
	return true
}
