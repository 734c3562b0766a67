// Package event is inkwell's synchronous notification bus.
//
// The history engine publishes what happens to each attached document so
// that hosts and plugins can react without the engine knowing about them.
//
// # Topics
//
// Topics are hierarchical with dot notation:
//
//	history.captured   - a capture created an undo entry
//	history.undone     - an undo settled and recording resumed
//	history.redone     - a redo settled and recording resumed
//	history.cleared    - both stacks were emptied
//	history.attached   - a surface was attached
//	history.detached   - an instance was cleaned up
//	history.configured - limits changed
//
// # Wildcard Patterns
//
// Subscriptions may use wildcards:
//
//	history.*   - exactly one segment after history
//	history.**  - any number of segments, including none
//	*.captured  - captured events from any source
//
// # Delivery
//
// Publish calls matching handlers in subscription order on the publisher's
// goroutine. The engine publishes from the scheduler's goroutine, so
// handlers may call back into it. A panicking handler is recovered and
// logged; the remaining handlers still run.
package event
