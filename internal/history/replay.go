package history

import (
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/offset"
	"github.com/dshills/inkwell/internal/schedule"
)

// Direction selects the stack a replay pops from.
type Direction int

const (
	Backward Direction = iota // undo
	Forward                   // redo
)

// String returns "undo" or "redo".
func (d Direction) String() string {
	if d == Forward {
		return "redo"
	}
	return "undo"
}

// Controller runs undo/redo against an instance's surface.
type Controller struct {
	sched     schedule.Scheduler
	detector  *Detector
	log       *logging.Logger
	onSettled func(inst *Instance, dir Direction)
}

// NewController creates a controller. Pending detector captures are flushed
// before every replay so the latest edits are never lost.
func NewController(sched schedule.Scheduler, detector *Detector, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		sched:    sched,
		detector: detector,
		log:      log.WithComponent("replay"),
	}
}

// OnSettled sets a function called when a replay has restored the
// selection and the instance is recording again. It is not called for
// instances disposed mid-replay.
func (c *Controller) OnSettled(fn func(inst *Instance, dir Direction)) {
	c.onSettled = fn
}

// Undo starts an undo. It reports whether one was started.
func (c *Controller) Undo(inst *Instance) bool {
	return c.Replay(inst, Backward) == nil
}

// Redo starts a redo. It reports whether one was started.
func (c *Controller) Redo(inst *Instance) bool {
	return c.Replay(inst, Forward) == nil
}

// Replay installs the next snapshot in dir. The content swap happens before
// Replay returns; selection restoration and re-enabling of recording follow
// on later scheduler turns. A started replay always runs to completion.
//
// One request made while a replay is in flight is queued and started when
// that replay settles, so repeated shortcuts are not lost. Further requests
// are refused until then.
func (c *Controller) Replay(inst *Instance, dir Direction) error {
	if inst.disposed {
		return ErrDisposed
	}
	if inst.mode == Replaying && !inst.queued {
		if c.target(inst, dir).len() == 0 {
			return ErrEmptyStack
		}
		inst.queued, inst.queuedDir = true, dir
		c.log.Debug("%s on %s queued", dir, inst.id)
		return nil
	}
	if inst.mode != Idle {
		c.log.Debug("%s on %s refused in mode %s", dir, inst.id, inst.mode)
		return ErrReplayInProgress
	}
	if c.detector != nil {
		c.detector.Flush(inst, "")
	}

	if c.target(inst, dir).len() == 0 {
		return ErrEmptyStack
	}

	inst.mode = Replaying
	inst.phase = PhaseCapturingSelection
	saved, err := c.saveSelection(inst)
	if err != nil {
		c.log.Debug("%s on %s: %v", dir, inst.id, err)
	}

	inst.phase = PhaseApplying
	var snap Snapshot
	if dir == Forward {
		snap, err = inst.Redo()
	} else {
		snap, err = inst.Undo()
	}
	if err != nil {
		inst.mode = Idle
		inst.phase = PhaseIdle
		return err
	}
	inst.surface.SetContent(snap.Content)

	inst.phase = PhaseRestoringSelection
	c.sched.Schedule(func() { c.restore(inst, saved, dir) }, 0)

	c.log.WithFields(map[string]any{
		"instance": inst.id,
		"undo":     inst.undo.len(),
		"redo":     inst.redo.len(),
	}).Debug("%s applied", dir)
	return nil
}

func (c *Controller) target(inst *Instance, dir Direction) *stack {
	if dir == Forward {
		return inst.redo
	}
	return inst.undo
}

// saveSelection returns nil offsets when the selection cannot be measured.
func (c *Controller) saveSelection(inst *Instance) (*offset.Offsets, error) {
	sel, ok := inst.surface.Selection()
	if !ok {
		return nil, ErrSelectionUnavailable
	}
	o, err := offset.ToOffsets(inst.surface.Root(), sel)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Controller) restore(inst *Instance, saved *offset.Offsets, dir Direction) {
	if !inst.disposed {
		root := inst.surface.Root()
		sel := document.Caret(offset.End(root))
		if saved != nil {
			if s, ok := offset.FromOffsets(root, *saved); ok {
				sel = s
			} else {
				c.log.Debug("restore on %s: %v, placing caret at end", inst.id, ErrOffsetResolution)
			}
		}
		inst.surface.SetSelection(sel)
		inst.surface.Focus()
	}

	c.sched.Schedule(func() {
		inst.mode = Idle
		inst.phase = PhaseIdle
		next, queued := inst.queuedDir, inst.queued
		inst.queued = false
		if inst.disposed {
			return
		}
		if c.onSettled != nil {
			c.onSettled(inst, dir)
		}
		if queued {
			if err := c.Replay(inst, next); err != nil {
				c.log.Debug("queued %s on %s: %v", next, inst.id, err)
			}
		}
	}, 0)
}

// Settled reports whether no replay is in flight on inst.
func (c *Controller) Settled(inst *Instance) bool {
	return inst.mode != Replaying
}
