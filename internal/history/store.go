package history

import (
	"fmt"
	"time"
)

// Capture records content as the new current snapshot, pushing the previous
// current onto the undo stack and clearing redo. It is a no-op returning
// ErrUnchanged when content equals current, and ErrDuplicateCapture when a
// capture is already in flight or the instance is not Idle.
func (i *Instance) Capture(content, label string, now time.Time) error {
	if err := i.beginCapture(); err != nil {
		return err
	}
	defer i.endCapture()
	return i.commit(content, label, now)
}

// beginCapture claims the instance for one capture.
func (i *Instance) beginCapture() error {
	if i.disposed {
		return ErrDisposed
	}
	if i.pendingCapture || i.mode != Idle {
		return fmt.Errorf("%s in mode %s: %w", i.id, i.mode, ErrDuplicateCapture)
	}
	i.pendingCapture = true
	i.mode = Recording
	return nil
}

func (i *Instance) endCapture() {
	i.pendingCapture = false
	if i.mode == Recording {
		i.mode = Idle
	}
}

// commit performs the push-previous, adopt-current step.
func (i *Instance) commit(content, label string, now time.Time) error {
	next := Snapshot{Content: content, Label: label, Time: now}
	if next.Equal(i.current) {
		if label != "" {
			i.current.Label = label
		}
		return ErrUnchanged
	}
	i.undo.push(i.current)
	i.redo.clear()
	i.current = next
	i.lastCapture = now
	return nil
}

// Undo moves current onto the redo stack and makes the top of the undo stack
// current. The returned snapshot is the one to install.
func (i *Instance) Undo() (Snapshot, error) {
	return i.step(i.undo, i.redo)
}

// Redo is the inverse of Undo.
func (i *Instance) Redo() (Snapshot, error) {
	return i.step(i.redo, i.undo)
}

func (i *Instance) step(from, to *stack) (Snapshot, error) {
	if i.disposed {
		return Snapshot{}, ErrDisposed
	}
	snap, ok := from.pop()
	if !ok {
		return Snapshot{}, ErrEmptyStack
	}
	to.push(i.current)
	i.current = snap
	return snap, nil
}

// Clear empties both stacks. Current is kept.
func (i *Instance) Clear() {
	i.undo.clear()
	i.redo.clear()
}
