package engine

import (
	"time"

	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/logging"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithLimits sets the limits every instance starts with.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		e.limits = l
	}
}

// WithMaxDepth sets the maximum number of entries per stack.
func WithMaxDepth(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.limits.MaxDepth = max
		}
	}
}

// WithDebounce sets the quiet period that ends a burst of edits.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.limits.Debounce = d
		}
	}
}

// WithMinInterval sets the minimum time between two automatic captures.
func WithMinInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.limits.MinInterval = d
		}
	}
}

// WithBindings sets the undo/redo key bindings used by HandleKey.
func WithBindings(b key.Bindings) Option {
	return func(e *Engine) {
		e.bindings = b
	}
}

// WithIDGenerator sets the function that names instances attached without
// an id.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithEvents publishes history events on bus instead of a private one.
func WithEvents(bus *event.Bus) Option {
	return func(e *Engine) {
		if bus != nil {
			e.events = bus
		}
	}
}

// defaultLimits is what New starts from before applying options.
func defaultLimits() Limits {
	return history.DefaultLimits()
}
