package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/schedule"
)

// DefaultReloadDelay coalesces the burst of events editors emit on save.
const DefaultReloadDelay = 50 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Load is used for every reload. Load.Path is the watched file.
	Load Options

	// Delay is the quiet period before a reload. Zero uses DefaultReloadDelay.
	Delay time.Duration

	// OnChange receives each successfully reloaded configuration.
	OnChange func(Config)

	// OnError receives reload and watch failures. The previous
	// configuration stays in effect.
	OnError func(error)

	Logger *logging.Logger
}

// Watcher reloads a config file when it changes. Reloads run on the
// scheduler, never on the fsnotify goroutine.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	sched   schedule.Scheduler
	opts    WatchOptions
	path    string
	pending schedule.Token
	reloads int
	closed  bool
	done    chan struct{}
	log     *logging.Logger
}

// Watch starts following opts.Load.Path. The file's directory is watched
// so that atomic-rename saves and re-creation are seen.
func Watch(sched schedule.Scheduler, opts WatchOptions) (*Watcher, error) {
	if opts.Load.Path == "" {
		return nil, fmt.Errorf("watch: %w", ErrFileNotFound)
	}
	path, err := filepath.Abs(opts.Load.Path)
	if err != nil {
		return nil, err
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultReloadDelay
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		fsw:   fsw,
		sched: sched,
		opts:  opts,
		path:  path,
		done:  make(chan struct{}),
		log:   log.WithComponent("config"),
	}
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns how many reloads have run.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops watching and cancels any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending.Valid() {
		w.sched.Cancel(w.pending)
		w.pending = 0
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// Reload schedules an immediate reload. A reload already waiting out the
// quiet period still runs. Reload returns ErrWatcherClosed after Close.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}
	w.sched.Schedule(w.load, 0)
	return nil
}

func (w *Watcher) processLoop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// schedule restarts the quiet period.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending.Valid() {
		w.sched.Cancel(w.pending)
	}
	w.pending = w.sched.Schedule(w.reload, w.opts.Delay)
}

func (w *Watcher) report(err error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.sched.Schedule(func() {
		w.log.Warn("watch error: %v", err)
		if w.opts.OnError != nil {
			w.opts.OnError(err)
		}
	}, 0)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	w.pending = 0
	w.mu.Unlock()
	w.load()
}

func (w *Watcher) load() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.reloads++
	w.mu.Unlock()

	cfg, err := Load(w.opts.Load)
	if err != nil {
		w.log.Warn("reload %s: %v", w.path, err)
		if w.opts.OnError != nil {
			w.opts.OnError(err)
		}
		return
	}
	w.log.Info("reloaded %s", w.path)
	if w.opts.OnChange != nil {
		w.opts.OnChange(cfg)
	}
}
