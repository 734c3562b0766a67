// Package schedule provides cancellable deferred execution for the
// single-threaded editing model.
//
// Everything the history engine does runs on one goroutine: the loop that
// owns the Scheduler. "Waiting" is never blocking; it is a callback queued
// for a later turn of that loop. Two implementations are provided:
//
//   - Loop: a real event loop driven by time.AfterFunc timers.
//   - Manual: a deterministic fake clock for tests, advanced explicitly.
//
// A Token identifies one scheduled callback. Cancelling a token that already
// ran (or was already cancelled) is a harmless no-op that reports false.
package schedule

import "time"

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

// Valid reports whether t was issued by a scheduler.
func (t Token) Valid() bool {
	return t != 0
}

// Scheduler queues callbacks for later turns of a single execution context.
type Scheduler interface {
	// Schedule runs fn after delay on the scheduler's execution context.
	// A delay <= 0 runs fn on the next turn, never synchronously.
	Schedule(fn func(), delay time.Duration) Token

	// Cancel prevents a scheduled callback from running.
	// It reports whether the callback was still pending.
	Cancel(tok Token) bool

	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}
