package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/schedule"
)

// Re-export commonly used types for convenience.
type (
	// Limits bounds history depth and capture density.
	Limits = history.Limits

	// DebugInfo is a point-in-time view of one instance.
	DebugInfo = history.DebugInfo

	// EntryInfo describes one history entry.
	EntryInfo = history.EntryInfo

	// Mode is an instance's recording mode.
	Mode = history.Mode

	// Phase is an instance's replay phase.
	Phase = history.Phase
)

// Re-export constants.
const (
	ModeIdle      = history.Idle
	ModeRecording = history.Recording
	ModeReplaying = history.Replaying
)

// Engine is the public face of the history system. Surfaces are attached
// under an id; every other call addresses them by that id.
//
// Engine methods must be called on the scheduler's goroutine, as must the
// surfaces' signal callbacks. Only the id registry is safe for concurrent
// use.
type Engine struct {
	sched      schedule.Scheduler
	registry   *history.Registry
	detector   *history.Detector
	controller *history.Controller
	bindings   key.Bindings
	events     *event.Bus
	log        *logging.Logger

	limits Limits
	newID  func() string
}

// New creates an engine that schedules deferred work on sched.
func New(sched schedule.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:    sched,
		bindings: key.DefaultBindings(),
		log:      logging.Nop(),
		limits:   defaultLimits(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.log = e.log.WithComponent("history")
	if e.events == nil {
		e.events = event.NewBus(e.log)
	}
	e.registry = history.NewRegistry(e.limits)
	e.limits = e.registry.Limits()
	e.detector = history.NewDetector(sched, e.log)
	e.controller = history.NewController(sched, e.detector, e.log)

	e.detector.OnCapture(func(inst *history.Instance, label string) {
		e.publish(TopicCaptured, inst, label)
	})
	e.controller.OnSettled(func(inst *history.Instance, dir history.Direction) {
		topic := TopicUndone
		if dir == history.Forward {
			topic = TopicRedone
		}
		e.publish(topic, inst, "")
	})
	return e
}

// Events returns the bus history events are published on.
func (e *Engine) Events() *event.Bus {
	return e.events
}

func (e *Engine) publish(topic event.Topic, inst *history.Instance, label string) {
	e.events.Publish(event.Event{
		Topic:   topic,
		Source:  inst.ID(),
		Time:    e.sched.Now(),
		Payload: Change{Label: label, Info: inst.Info()},
	})
}

// Attach starts recording surface under id, seeding the history with the
// surface's current content. An empty id gets a generated one. The id in
// use is returned.
func (e *Engine) Attach(id string, surface document.Surface) (string, error) {
	if surface == nil {
		return "", ErrNilSurface
	}
	if id == "" {
		id = e.newID()
	}
	inst, err := e.registry.Create(id, surface, e.sched.Now())
	if err != nil {
		return "", fmt.Errorf("attach: %w", err)
	}
	e.detector.Watch(inst)
	e.log.Info("attached %s", id)
	e.publish(TopicAttached, inst, "")
	return id, nil
}

// RecordState captures the surface immediately, outside the debounce path.
// Plugins call it before a structural change they perform themselves. The
// labels, joined with spaces, name the current state in history listings.
// It reports whether a new history entry was created.
func (e *Engine) RecordState(id string, label ...string) bool {
	inst, ok := e.lookup(id)
	if !ok {
		return false
	}
	return e.detector.Flush(inst, strings.Join(label, " ")) == nil
}

// Undo restores the previous snapshot. It reports whether an undo was
// started or queued behind one in flight; nothing to undo is not an error.
func (e *Engine) Undo(id string) bool {
	return e.replay(id, history.Backward)
}

// Redo re-applies the next snapshot. It reports whether a redo was
// performed.
func (e *Engine) Redo(id string) bool {
	return e.replay(id, history.Forward)
}

func (e *Engine) replay(id string, dir history.Direction) bool {
	inst, ok := e.lookup(id)
	if !ok {
		return false
	}
	if err := e.controller.Replay(inst, dir); err != nil {
		e.log.Debug("%s %s: %v", dir, id, err)
		return false
	}
	return true
}

// ClearHistory empties both stacks of id. The current content stays as the
// baseline for the next capture.
func (e *Engine) ClearHistory(id string) bool {
	inst, ok := e.lookup(id)
	if !ok {
		return false
	}
	inst.Clear()
	e.publish(TopicCleared, inst, "")
	return true
}

// Cleanup detaches id: its pending capture is cancelled, its stacks are
// released and its surface subscription is dropped.
func (e *Engine) Cleanup(id string) bool {
	inst, err := e.registry.Dispose(id)
	if err != nil {
		e.log.Debug("cleanup: %v", err)
		return false
	}
	e.detector.Cancel(inst)
	e.log.Info("detached %s", id)
	e.publish(TopicDetached, inst, "")
	return true
}

// CleanupAll detaches every instance and returns how many there were.
func (e *Engine) CleanupAll() int {
	all := e.registry.DisposeAll()
	for _, inst := range all {
		e.detector.Cancel(inst)
		e.publish(TopicDetached, inst, "")
	}
	if len(all) > 0 {
		e.log.Info("detached %d instances", len(all))
	}
	return len(all)
}

// DebugInfo returns the state of id.
func (e *Engine) DebugInfo(id string) (DebugInfo, bool) {
	inst, ok := e.registry.Get(id)
	if !ok {
		return DebugInfo{}, false
	}
	return inst.Info(), true
}

// UndoInfo lists the undo entries of id, oldest first.
func (e *Engine) UndoInfo(id string) ([]EntryInfo, bool) {
	inst, ok := e.registry.Get(id)
	if !ok {
		return nil, false
	}
	return inst.UndoInfo(), true
}

// RedoInfo lists the redo entries of id, oldest first.
func (e *Engine) RedoInfo(id string) ([]EntryInfo, bool) {
	inst, ok := e.registry.Get(id)
	if !ok {
		return nil, false
	}
	return inst.RedoInfo(), true
}

// Edit runs fn as one undoable structural change. Pending typing is
// captured first and labelled with label, so undo returns to exactly the
// state fn started from. It reports whether fn changed the content.
func (e *Engine) Edit(id, label string, fn func(document.Surface)) bool {
	inst, ok := e.lookup(id)
	if !ok {
		return false
	}
	if inst.Mode() != history.Idle {
		e.log.Debug("edit %q on %s refused in mode %s", label, id, inst.Mode())
		return false
	}

	e.detector.Flush(inst, label)
	fn(inst.Surface())
	return e.detector.Flush(inst, "") == nil
}

// HandleKey routes undo/redo shortcuts for id. It reports whether ev was a
// history shortcut, in which case the host must not apply it as input.
func (e *Engine) HandleKey(id string, ev key.Event) bool {
	switch e.bindings.Match(ev) {
	case key.ActionUndo:
		e.Undo(id)
		return true
	case key.ActionRedo:
		e.Redo(id)
		return true
	default:
		return false
	}
}

// Bindings returns the shortcut bindings.
func (e *Engine) Bindings() key.Bindings {
	return e.bindings
}

// SetBindings replaces the shortcut bindings.
func (e *Engine) SetBindings(b key.Bindings) {
	e.bindings = b
}

// Configure applies l to every attached instance and to instances attached
// later. Shrinking MaxDepth drops the oldest entries.
func (e *Engine) Configure(l Limits) {
	live := e.registry.SetLimits(l)
	e.limits = e.registry.Limits()
	for _, inst := range live {
		inst.SetLimits(e.limits)
	}
	e.log.WithFields(map[string]any{
		"max_depth":    e.limits.MaxDepth,
		"debounce":     e.limits.Debounce,
		"min_interval": e.limits.MinInterval,
	}).Info("limits updated")
	e.events.Publish(event.Event{Topic: TopicConfigured, Time: e.sched.Now(), Payload: e.limits})
}

// Limits returns the limits new instances start with.
func (e *Engine) Limits() Limits {
	return e.limits
}

// IDs returns the attached ids, sorted.
func (e *Engine) IDs() []string {
	return e.registry.IDs()
}

// Attached reports whether id is attached.
func (e *Engine) Attached(id string) bool {
	_, ok := e.registry.Get(id)
	return ok
}

func (e *Engine) lookup(id string) (*history.Instance, bool) {
	inst, ok := e.registry.Get(id)
	if !ok {
		e.log.Debug("%s: %v", id, ErrInstanceNotFound)
	}
	return inst, ok
}
