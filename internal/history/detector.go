package history

import (
	"errors"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/schedule"
)

// Detector turns a surface's edit-trigger signals into captures.
//
// A burst of mutating signals collapses into one capture once the surface
// has been quiet for the instance's Debounce window. If that capture would
// come sooner than MinInterval after the previous one, it is pushed back to
// the end of the interval instead of dropped, so the final state of a burst
// is always recorded.
type Detector struct {
	sched     schedule.Scheduler
	log       *logging.Logger
	onCapture func(inst *Instance, label string)
}

// NewDetector creates a detector scheduling on sched.
func NewDetector(sched schedule.Scheduler, log *logging.Logger) *Detector {
	if log == nil {
		log = logging.Nop()
	}
	return &Detector{
		sched: sched,
		log:   log.WithComponent("detector"),
	}
}

// OnCapture sets a function called after every capture that created an
// undo entry.
func (d *Detector) OnCapture(fn func(inst *Instance, label string)) {
	d.onCapture = fn
}

// Watch subscribes the detector to inst's surface. The subscription is
// dropped when the instance is disposed.
func (d *Detector) Watch(inst *Instance) {
	if inst.unsubscribe != nil {
		inst.unsubscribe()
	}
	inst.unsubscribe = inst.surface.Subscribe(func(sig document.Signal) {
		d.OnSignal(inst, sig)
	})
}

// OnSignal handles one signal. It reports whether a capture was scheduled.
func (d *Detector) OnSignal(inst *Instance, sig document.Signal) bool {
	if inst.disposed || !sig.Mutating() {
		return false
	}
	if inst.mode != Idle {
		d.log.Debug("ignoring %s signal on %s in mode %s", sig.Kind, inst.id, inst.mode)
		return false
	}
	d.Cancel(inst)
	inst.debounce = d.sched.Schedule(func() { d.fire(inst) }, inst.limits.Debounce)
	return true
}

// Cancel drops a scheduled capture. It reports whether one was pending.
func (d *Detector) Cancel(inst *Instance) bool {
	if !inst.debounce.Valid() {
		return false
	}
	ok := d.sched.Cancel(inst.debounce)
	inst.debounce = 0
	return ok
}

// Flush cancels any scheduled capture and captures the surface now,
// ignoring the rate limit. It returns nil only when a new undo entry was
// created.
func (d *Detector) Flush(inst *Instance, label string) error {
	d.Cancel(inst)
	return d.capture(inst, label)
}

func (d *Detector) fire(inst *Instance) {
	inst.debounce = 0
	if inst.disposed {
		return
	}
	if inst.mode != Idle {
		d.log.Debug("dropping capture on %s in mode %s", inst.id, inst.mode)
		return
	}

	if !inst.lastCapture.IsZero() {
		elapsed := d.sched.Now().Sub(inst.lastCapture)
		if wait := inst.limits.MinInterval - elapsed; wait > 0 {
			inst.debounce = d.sched.Schedule(func() { d.fire(inst) }, wait)
			return
		}
	}
	d.capture(inst, "")
}

func (d *Detector) capture(inst *Instance, label string) error {
	if err := inst.beginCapture(); err != nil {
		d.log.Debug("capture skipped: %v", err)
		return err
	}
	defer inst.endCapture()

	err := inst.commit(inst.surface.Content(), label, d.sched.Now())
	switch {
	case err == nil:
		d.log.WithFields(map[string]any{
			"instance": inst.id,
			"undo":     inst.undo.len(),
		}).Debug("captured %q", label)
		if d.onCapture != nil {
			d.onCapture(inst, label)
		}
	case errors.Is(err, ErrUnchanged):
		d.log.Debug("capture on %s: %v", inst.id, err)
	}
	return err
}
