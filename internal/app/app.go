// Package app wires inkwell together: configuration, logging, the history
// engine, a terminal editing surface and the plugin runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/plugin/lua"
	"github.com/dshills/inkwell/internal/schedule"
)

// DocumentID is the id the edited document is attached under.
const DocumentID = "main"

// Application owns one edited document and everything around it.
type Application struct {
	mu sync.Mutex

	opts Options
	cfg  config.Config
	log  *logging.Logger

	sched schedule.Scheduler
	loop  *schedule.Loop

	engine  *engine.Engine
	surface *document.HTMLSurface
	script  *lua.State
	watcher *config.Watcher

	screen  tcell.Screen
	status  string
	pasting bool

	running   atomic.Bool
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses defaults and the
	// environment.
	ConfigPath string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// File is an HTML file whose content seeds the document.
	File string

	// Plugin is a Lua script run at startup.
	Plugin string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Screen is the terminal. Nil creates one in Run.
	Screen tcell.Screen

	// Scheduler replaces the built-in event loop, mainly for tests.
	// Events must then be fed through HandleEvent.
	Scheduler schedule.Scheduler

	// Environ replaces os.Environ for configuration.
	Environ func() []string
}

// New builds the application. Configuration problems are logged and the
// defaults used; a missing document, bad plugin or failed watch is an
// error.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	app.log = logging.New(logging.Config{Level: logging.LevelInfo, Output: out, Prefix: "inkwell"})

	loadOpts := config.Options{Path: opts.ConfigPath, Environ: opts.Environ}
	cfg, err := config.Load(loadOpts)
	if err != nil {
		app.log.Warn("config: %v; using defaults", err)
	}
	app.cfg = cfg
	app.log.SetLevel(app.logLevel(cfg))

	app.sched = opts.Scheduler
	if app.sched == nil {
		app.loop = schedule.NewLoop(schedule.WithPanicHandler(func(r any, stack []byte) {
			app.log.Error("panic in event loop: %v\n%s", r, stack)
		}))
		app.sched = app.loop
	}

	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, &InitError{Component: "keys", Err: err}
	}
	app.engine = engine.New(app.sched,
		engine.WithLogger(app.log),
		engine.WithLimits(cfg.Limits()),
		engine.WithBindings(bindings),
	)

	content, err := readDocument(opts.File)
	if err != nil {
		return nil, &InitError{Component: "document", Err: err}
	}
	// Captures and settled replays happen on timers, after the event that
	// caused them has been drawn.
	if _, err := app.engine.Events().Subscribe("history.**", func(event.Event) { app.draw() }); err != nil {
		return nil, &InitError{Component: "events", Err: err}
	}

	app.surface = document.NewHTMLSurface(content)
	if _, err := app.engine.Attach(DocumentID, app.surface); err != nil {
		return nil, &InitError{Component: "history", Err: err}
	}
	app.surface.Focus()

	if err := app.openScript(); err != nil {
		app.Close()
		return nil, err
	}

	if opts.Watch && opts.ConfigPath != "" {
		app.watcher, err = config.Watch(app.sched, config.WatchOptions{
			Load:     loadOpts,
			OnChange: app.applyConfig,
			OnError:  func(err error) { app.setStatus("config: " + err.Error()) },
			Logger:   app.log,
		})
		if err != nil {
			app.Close()
			return nil, &InitError{Component: "config watcher", Err: err}
		}
	}

	return app, nil
}

func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (app *Application) openScript() error {
	state, err := lua.NewState(lua.WithLogger(app.log))
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}
	app.script = state

	if err := lua.OpenHistory(state, app.engine); err != nil {
		return &InitError{Component: "lua", Err: err}
	}
	if app.opts.Plugin != "" {
		if err := state.DoFile(app.opts.Plugin); err != nil {
			return &InitError{Component: "plugin", Err: err}
		}
		app.log.Info("loaded plugin %s", app.opts.Plugin)
	}
	return nil
}

func (app *Application) logLevel(cfg config.Config) logging.Level {
	if app.opts.LogLevel != "" {
		return logging.ParseLevel(app.opts.LogLevel)
	}
	return cfg.LogLevel()
}

// applyConfig installs a reloaded configuration. It runs on the scheduler.
func (app *Application) applyConfig(cfg config.Config) {
	bindings, err := cfg.Bindings()
	if err != nil {
		app.setStatus("config: " + err.Error())
		return
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.engine.Configure(cfg.Limits())
	app.engine.SetBindings(bindings)
	app.log.SetLevel(app.logLevel(cfg))
	app.setStatus("config reloaded")
}

// ReloadConfig re-reads the watched configuration file on the scheduler.
func (app *Application) ReloadConfig() error {
	if app.watcher == nil {
		return ErrNoWatcher
	}
	return app.watcher.Reload()
}

func (app *Application) setStatus(msg string) {
	app.mu.Lock()
	app.status = msg
	app.mu.Unlock()
	app.draw()
}

// Run takes over the terminal and processes events until ctx is done or
// Quit is called.
func (app *Application) Run(ctx context.Context) error {
	if app.loop == nil {
		return ErrNoLoop
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	screen := app.opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return &InitError{Component: "screen", Err: err}
		}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	screen.EnablePaste()
	screen.EnableFocus()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.mu.Lock()
	app.screen = screen
	app.cancel = cancel
	app.mu.Unlock()

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			app.loop.Post(func() { app.HandleEvent(ev) })
		}
	}()

	app.loop.Post(app.draw)
	err := app.loop.Run(ctx)

	app.mu.Lock()
	app.screen = nil
	app.cancel = nil
	app.mu.Unlock()
	screen.Fini()
	<-polled

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Quit stops Run.
func (app *Application) Quit() {
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close releases the watcher, the script state and the document.
func (app *Application) Close() error {
	var err error
	app.closeOnce.Do(func() {
		if app.watcher != nil {
			err = errors.Join(err, app.watcher.Close())
		}
		if app.script != nil {
			err = errors.Join(err, app.script.Close())
		}
		if app.engine != nil {
			app.engine.CleanupAll()
		}
		if app.loop != nil {
			app.loop.Close()
		}
	})
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Engine returns the history engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Surface returns the edited document.
func (app *Application) Surface() *document.HTMLSurface {
	return app.surface
}

// Script returns the plugin runtime.
func (app *Application) Script() *lua.State {
	return app.script
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Status returns the last status message.
func (app *Application) Status() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.status
}

// SetScreen attaches a screen for drawing without Run, for hosts that
// drive HandleEvent themselves.
func (app *Application) SetScreen(s tcell.Screen) {
	app.mu.Lock()
	app.screen = s
	app.mu.Unlock()
	app.draw()
}
