package history

import (
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/offset"
	"github.com/dshills/inkwell/internal/schedule"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	sched      *schedule.Manual
	registry   *Registry
	detector   *Detector
	controller *Controller
	surface    *document.HTMLSurface
	inst       *Instance
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	return newFixtureWithLimits(t, content, DefaultLimits())
}

func newFixtureWithLimits(t *testing.T, content string, limits Limits) *fixture {
	t.Helper()
	sched := schedule.NewManual(epoch)
	f := &fixture{
		sched:    sched,
		registry: NewRegistry(limits),
		surface:  document.NewHTMLSurface(content),
	}
	f.detector = NewDetector(sched, nil)
	f.controller = NewController(sched, f.detector, nil)

	inst, err := f.registry.Create("test", f.surface, sched.Now())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	f.detector.Watch(inst)
	f.inst = inst
	return f
}

// typeText emits a key signal for each character and then applies it, the
// order a real surface delivers them in.
func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.surface.Emit(document.KeySignal(key.NewRuneEvent(r, key.ModNone)))
		f.surface.InsertText(string(r))
	}
}

// caretAt places a collapsed selection at a linear offset.
func (f *fixture) caretAt(t *testing.T, pos int) {
	t.Helper()
	p, ok := offset.Locate(f.surface.Root(), pos)
	if !ok {
		t.Fatalf("no position %d in %q", pos, f.surface.Content())
	}
	f.surface.SetSelection(document.Caret(p))
}

// selectionOffsets measures the surface's current selection.
func (f *fixture) selectionOffsets(t *testing.T) offset.Offsets {
	t.Helper()
	sel, ok := f.surface.Selection()
	if !ok {
		t.Fatal("surface has no selection")
	}
	o, err := offset.ToOffsets(f.surface.Root(), sel)
	if err != nil {
		t.Fatalf("ToOffsets() error = %v", err)
	}
	return o
}

// settle runs scheduled turns until the replay finishes.
func (f *fixture) settle() {
	f.sched.RunPending()
}

func contents(s *stack) []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Content
	}
	return out
}

func inTree(root, n *html.Node) bool {
	return document.Contains(root, n)
}
