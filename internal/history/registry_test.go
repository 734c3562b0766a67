package history

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/inkwell/internal/document"
)

func TestRegistryCreateGet(t *testing.T) {
	r := NewRegistry(DefaultLimits())
	surface := document.NewHTMLSurface("Hi")

	inst, err := r.Create("a", surface, epoch)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if inst.ID() != "a" || inst.Surface() != surface {
		t.Errorf("instance = %s/%v", inst.ID(), inst.Surface())
	}

	got, ok := r.Get("a")
	if !ok || got != inst {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) = true")
	}

	if _, err := r.Create("a", surface, epoch); !errors.Is(err, ErrInstanceExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrInstanceExists", err)
	}
}

func TestRegistryDispose(t *testing.T) {
	r := NewRegistry(DefaultLimits())
	surface := document.NewHTMLSurface("Hi")
	inst, _ := r.Create("a", surface, epoch)
	NewDetector(nil, nil).Watch(inst)
	inst.Capture("Hi!", "", epoch)

	disposed, err := r.Dispose("a")
	if err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if disposed != inst || !inst.Disposed() {
		t.Error("Dispose() did not release the instance")
	}
	if inst.UndoCount() != 0 {
		t.Error("stacks not released")
	}
	if surface.Subscribers() != 0 {
		t.Error("surface subscription kept")
	}
	if _, ok := r.Get("a"); ok {
		t.Error("Get() found a disposed instance")
	}
	if _, err := r.Dispose("a"); !errors.Is(err, ErrInstanceNotFound) {
		t.Errorf("Dispose(again) error = %v, want ErrInstanceNotFound", err)
	}
	if err := inst.Capture("x", "", epoch); !errors.Is(err, ErrDisposed) {
		t.Errorf("Capture() on disposed = %v, want ErrDisposed", err)
	}
}

func TestRegistryDisposeAll(t *testing.T) {
	r := NewRegistry(DefaultLimits())
	for _, id := range []string{"c", "a", "b"} {
		r.Create(id, document.NewHTMLSurface(""), epoch)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.IDs()); diff != "" {
		t.Errorf("IDs() (-want +got):\n%s", diff)
	}

	all := r.DisposeAll()
	ids := make([]string, len(all))
	for i, inst := range all {
		ids[i] = inst.ID()
		if !inst.Disposed() {
			t.Errorf("%s not released", inst.ID())
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("DisposeAll() (-want +got):\n%s", diff)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestRegistrySetLimits(t *testing.T) {
	r := NewRegistry(Limits{})
	if got := r.Limits(); got != DefaultLimits().normalize() {
		t.Errorf("Limits() = %+v", got)
	}

	old, _ := r.Create("old", document.NewHTMLSurface(""), epoch)
	l := Limits{MaxDepth: 5, Debounce: time.Millisecond, MinInterval: 2 * time.Millisecond}
	live := r.SetLimits(l)
	if len(live) != 1 || live[0] != old {
		t.Errorf("SetLimits() returned %v", live)
	}
	for _, inst := range live {
		inst.SetLimits(l)
	}

	fresh, _ := r.Create("new", document.NewHTMLSurface(""), epoch)
	if fresh.Limits() != l || old.Limits() != l {
		t.Errorf("limits = %+v / %+v, want %+v", fresh.Limits(), old.Limits(), l)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(DefaultLimits())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("inst-%02d", i)
			if _, err := r.Create(id, document.NewHTMLSurface(""), epoch); err != nil {
				t.Errorf("Create(%s) error = %v", id, err)
				return
			}
			if _, ok := r.Get(id); !ok {
				t.Errorf("Get(%s) = false", id)
			}
			r.IDs()
			if i%2 == 0 {
				r.Dispose(id)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 10 {
		t.Errorf("Len() = %d, want 10", r.Len())
	}
}
