// Package configwatch re-applies pacing values when the vtcheck config file
// changes on disk. Only the pacing policy is reloaded; the device, capture
// file and log level are fixed for the lifetime of the process.
package configwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/vtcheck/internal/cliconfig"
	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/internal/ports"
)

// DefaultDebounceDelay coalesces the burst of events editors emit on save.
const DefaultDebounceDelay = 100 * time.Millisecond

// ReloadFunc receives a validated policy after each successful reload.
type ReloadFunc func(pacing.Policy)

// Watcher monitors a single TOML config file.
type Watcher struct {
	mu sync.Mutex

	path     string
	base     cliconfig.Config
	changed  map[string]bool
	logger   ports.Logger
	onChange ReloadFunc

	debounceDelay time.Duration
	debounce      *time.Timer
	fs            *fsnotify.Watcher
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithChangedFlags marks flags set on the command line; their values win over
// the file on every reload.
func WithChangedFlags(changed map[string]bool) Option {
	return func(w *Watcher) {
		w.changed = changed
	}
}

// WithDebounceDelay overrides DefaultDebounceDelay.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDelay = d
		}
	}
}

// New creates a watcher for path. base is the configuration in effect before
// the file was applied (defaults plus flags); each reload starts from it.
func New(path string, base cliconfig.Config, logger ports.Logger, onChange ReloadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:          path,
		base:          base,
		changed:       map[string]bool{},
		logger:        logger,
		onChange:      onChange,
		debounceDelay: DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the directory holding the config file. Events for
// other files in the directory are ignored.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.fs = fw
	w.cancel = cancel
	w.mu.Unlock()

	w.logger.Info("config watcher started", ports.String("path", w.path))

	w.wg.Add(1)
	go w.loop(watchCtx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel := w.cancel
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	w.wg.Wait()
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	defer w.fs.Close()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Reload(); err != nil {
			w.logger.Warn("config reload rejected, keeping previous pacing", ports.Err(err))
		}
	})
}

// Reload reads the file and publishes its pacing policy. A file that fails to
// parse or validate leaves the current policy untouched.
func (w *Watcher) Reload() error {
	fc, err := cliconfig.LoadFileConfig(w.path)
	if err != nil {
		return fmt.Errorf("load %s: %w", w.path, err)
	}

	cfg := w.base
	if err := cliconfig.ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		return err
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, w.changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	policy := cfg.Policy()
	w.logger.Info("pacing reloaded",
		ports.Duration("line_delay", policy.LineDelay),
		ports.Duration("cell_delay", policy.CellDelay),
		ports.Duration("clear_settle", policy.ClearSettle),
		ports.Duration("step_pause", policy.StepPause),
		ports.Duration("observe_pause", policy.ObservePause),
	)
	if w.onChange != nil {
		w.onChange(policy)
	}
	return nil
}
