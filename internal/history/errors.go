package history

import (
	"errors"

	"github.com/dshills/inkwell/internal/offset"
)

// Errors returned by history operations. None of them reach end users; the
// engine logs them and reports a boolean.
var (
	// ErrSelectionUnavailable indicates there was no usable selection to
	// save before a replay.
	ErrSelectionUnavailable = offset.ErrSelectionUnavailable

	// ErrEmptyStack indicates there is nothing to undo or redo.
	ErrEmptyStack = errors.New("history stack is empty")

	// ErrOffsetResolution indicates saved offsets could not be mapped onto
	// the replaced document.
	ErrOffsetResolution = errors.New("offsets cannot be resolved")

	// ErrDuplicateCapture indicates a capture was requested while another
	// is in flight or a replay is running.
	ErrDuplicateCapture = errors.New("capture already in progress")

	// ErrUnchanged indicates the content equals the current snapshot.
	ErrUnchanged = errors.New("content unchanged")

	// ErrReplayInProgress indicates undo/redo was requested mid-replay.
	ErrReplayInProgress = errors.New("replay in progress")

	// ErrInstanceNotFound indicates no instance has the given id.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrInstanceExists indicates the id is already registered.
	ErrInstanceExists = errors.New("instance already exists")

	// ErrDisposed indicates the instance was removed from its registry.
	ErrDisposed = errors.New("instance disposed")
)
