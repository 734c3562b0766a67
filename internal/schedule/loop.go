package schedule

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopRunning is returned when Run is called on a loop that is already running.
var ErrLoopRunning = errors.New("loop already running")

// PanicHandler receives panics recovered from loop callbacks.
type PanicHandler func(recovered any, stack []byte)

// Loop is a single-goroutine event loop. Callbacks posted or scheduled from
// any goroutine execute one at a time on the goroutine that called Run.
type Loop struct {
	mu     sync.Mutex
	ready  []func()
	live   map[Token]*time.Timer
	next   Token
	closed bool

	wake    chan struct{}
	running atomic.Bool

	panicHandler PanicHandler
	now          func() time.Time
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithPanicHandler installs a handler for panics raised by callbacks.
// Without one, a panicking callback is recovered and dropped.
func WithPanicHandler(h PanicHandler) LoopOption {
	return func(l *Loop) {
		l.panicHandler = h
	}
}

// WithClock overrides the clock reported by Now.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoop creates an event loop. Call Run to start processing callbacks.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		live: make(map[Token]*time.Timer),
		wake: make(chan struct{}, 1),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the current time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// Post queues fn for the next turn. Safe to call from any goroutine; it
// never blocks. Posts after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.ready = append(l.ready, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Schedule runs fn on the loop after delay.
func (l *Loop) Schedule(fn func(), delay time.Duration) Token {
	l.mu.Lock()
	l.next++
	tok := l.next
	if l.closed {
		l.mu.Unlock()
		return tok
	}
	l.live[tok] = nil
	l.mu.Unlock()

	run := func() {
		if l.take(tok) {
			fn()
		}
	}

	if delay <= 0 {
		l.Post(run)
		return tok
	}

	timer := time.AfterFunc(delay, func() { l.Post(run) })

	l.mu.Lock()
	if _, ok := l.live[tok]; ok {
		l.live[tok] = timer
	}
	l.mu.Unlock()
	return tok
}

// Cancel prevents the callback identified by tok from running.
func (l *Loop) Cancel(tok Token) bool {
	l.mu.Lock()
	timer, ok := l.live[tok]
	delete(l.live, tok)
	l.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	return ok
}

// Pending returns the number of scheduled callbacks that have not run yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// take claims tok for execution. It returns false if tok was cancelled.
func (l *Loop) take(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[tok]
	delete(l.live, tok)
	return ok
}

// Run processes callbacks until ctx is done. The calling goroutine becomes
// the loop's execution context.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		l.mu.Lock()
		batch := l.ready
		l.ready = nil
		l.mu.Unlock()

		for _, fn := range batch {
			l.execute(fn)
		}

		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops all timers and drops queued callbacks. The loop keeps
// running until its context is cancelled.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for tok, timer := range l.live {
		if timer != nil {
			timer.Stop()
		}
		delete(l.live, tok)
	}
	l.ready = nil
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.panicHandler != nil {
			l.panicHandler(r, debug.Stack())
		}
	}()
	fn()
}
