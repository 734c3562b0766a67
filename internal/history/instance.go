package history

import (
	"time"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/schedule"
)

// Default limits.
const (
	DefaultMaxDepth    = 30
	DefaultDebounce    = 100 * time.Millisecond
	DefaultMinInterval = 300 * time.Millisecond
)

// Mode guards an instance against reentrant capture.
type Mode int

const (
	// Idle accepts signals and captures.
	Idle Mode = iota
	// Recording means a capture is reading the surface.
	Recording
	// Replaying means an undo/redo is in flight; signals are ignored.
	Replaying
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Replaying:
		return "replaying"
	default:
		return "unknown"
	}
}

// Phase is the replay controller's progress through an undo/redo.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCapturingSelection
	PhaseApplying
	PhaseRestoringSelection
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCapturingSelection:
		return "capturing-selection"
	case PhaseApplying:
		return "applying"
	case PhaseRestoringSelection:
		return "restoring-selection"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of a whole document.
type Snapshot struct {
	Content string
	Label   string
	Time    time.Time
}

// Equal reports whether two snapshots hold the same content. Labels and
// times are ignored.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Content == other.Content
}

func (s Snapshot) info() EntryInfo {
	return EntryInfo{Label: s.Label, Time: s.Time, Size: len(s.Content)}
}

// EntryInfo describes a stack entry for history menus.
type EntryInfo struct {
	Label string
	Time  time.Time
	Size  int
}

// Limits bounds history density and depth.
type Limits struct {
	// MaxDepth bounds each stack. Oldest entries are evicted first.
	MaxDepth int

	// Debounce is the quiet period that ends a burst of signals.
	Debounce time.Duration

	// MinInterval is the minimum time between two detector captures.
	MinInterval time.Duration
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    DefaultMaxDepth,
		Debounce:    DefaultDebounce,
		MinInterval: DefaultMinInterval,
	}
}

// normalize replaces out-of-range values with defaults.
func (l Limits) normalize() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.Debounce < 0 {
		l.Debounce = 0
	}
	if l.MinInterval < 0 {
		l.MinInterval = 0
	}
	return l
}

// Instance is the history state of one editing surface.
type Instance struct {
	id      string
	surface document.Surface
	limits  Limits

	undo    *stack
	redo    *stack
	current Snapshot

	mode           Mode
	phase          Phase
	pendingCapture bool
	lastCapture    time.Time

	debounce    schedule.Token
	unsubscribe func()
	disposed    bool

	// queued holds one replay requested while another was in flight.
	queued    bool
	queuedDir Direction
}

// newInstance seeds current from the surface's content.
func newInstance(id string, surface document.Surface, limits Limits, now time.Time) *Instance {
	limits = limits.normalize()
	return &Instance{
		id:      id,
		surface: surface,
		limits:  limits,
		undo:    newStack(limits.MaxDepth),
		redo:    newStack(limits.MaxDepth),
		current: Snapshot{Content: surface.Content(), Time: now},
	}
}

// ID returns the instance id.
func (i *Instance) ID() string { return i.id }

// Surface returns the surface the instance records.
func (i *Instance) Surface() document.Surface { return i.surface }

// Mode returns the current mode.
func (i *Instance) Mode() Mode { return i.mode }

// Phase returns the replay phase.
func (i *Instance) Phase() Phase { return i.phase }

// Current returns the current snapshot.
func (i *Instance) Current() Snapshot { return i.current }

// UndoCount returns the undo stack depth.
func (i *Instance) UndoCount() int { return i.undo.len() }

// RedoCount returns the redo stack depth.
func (i *Instance) RedoCount() int { return i.redo.len() }

// LastCapture returns when the last capture happened. It is zero until the
// first capture.
func (i *Instance) LastCapture() time.Time { return i.lastCapture }

// Limits returns the instance's limits.
func (i *Instance) Limits() Limits { return i.limits }

// Disposed reports whether the instance was removed from its registry.
func (i *Instance) Disposed() bool { return i.disposed }

// DebouncePending reports whether a detector capture is scheduled.
func (i *Instance) DebouncePending() bool { return i.debounce.Valid() }

// SetLimits applies new limits. Shrinking MaxDepth trims the oldest entries
// of both stacks.
func (i *Instance) SetLimits(l Limits) {
	i.limits = l.normalize()
	i.undo.setMax(i.limits.MaxDepth)
	i.redo.setMax(i.limits.MaxDepth)
}

// UndoInfo lists the undo stack, oldest first.
func (i *Instance) UndoInfo() []EntryInfo { return i.undo.info() }

// RedoInfo lists the redo stack, oldest first.
func (i *Instance) RedoInfo() []EntryInfo { return i.redo.info() }

// PeekUndo describes the entry the next undo would restore.
func (i *Instance) PeekUndo() (EntryInfo, bool) {
	s, ok := i.undo.peek()
	return s.info(), ok
}

// PeekRedo describes the entry the next redo would restore.
func (i *Instance) PeekRedo() (EntryInfo, bool) {
	s, ok := i.redo.peek()
	return s.info(), ok
}

// DebugInfo is a point-in-time view of an instance.
type DebugInfo struct {
	ID              string
	UndoCount       int
	RedoCount       int
	Mode            Mode
	Phase           Phase
	LastCaptureTime time.Time
	MaxDepth        int
	PendingCapture  bool
	DebouncePending bool
}

// Info returns debug information.
func (i *Instance) Info() DebugInfo {
	return DebugInfo{
		ID:              i.id,
		UndoCount:       i.undo.len(),
		RedoCount:       i.redo.len(),
		Mode:            i.mode,
		Phase:           i.phase,
		LastCaptureTime: i.lastCapture,
		MaxDepth:        i.limits.MaxDepth,
		PendingCapture:  i.pendingCapture,
		DebouncePending: i.debounce.Valid(),
	}
}

// release drops the stacks and the surface subscription.
func (i *Instance) release() {
	i.disposed = true
	i.undo.clear()
	i.redo.clear()
	if i.unsubscribe != nil {
		i.unsubscribe()
		i.unsubscribe = nil
	}
}
