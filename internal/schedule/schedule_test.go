package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string

	m.Schedule(func() { got = append(got, "c") }, 30*time.Millisecond)
	m.Schedule(func() { got = append(got, "a") }, 10*time.Millisecond)
	m.Schedule(func() { got = append(got, "b") }, 20*time.Millisecond)
	m.Schedule(func() { got = append(got, "a2") }, 10*time.Millisecond)

	m.Advance(25 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "a2", "b"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", m.Pending())
	}
	if want := epoch.Add(25 * time.Millisecond); !m.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", m.Now(), want)
	}
}

func TestManualZeroDelayIsDeferred(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	m.Schedule(func() { ran = true }, 0)
	if ran {
		t.Fatal("zero-delay task ran synchronously")
	}
	m.RunPending()
	if !ran {
		t.Fatal("zero-delay task did not run on RunPending")
	}
}

func TestManualChainedTurns(t *testing.T) {
	m := NewManual(epoch)
	var got []int
	m.Schedule(func() {
		got = append(got, 1)
		m.Schedule(func() { got = append(got, 2) }, 0)
	}, 0)

	m.RunPending()
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("chained turns (-want +got):\n%s", diff)
	}
}

func TestManualStep(t *testing.T) {
	m := NewManual(epoch)
	var got []int
	m.Schedule(func() {
		got = append(got, 1)
		m.Schedule(func() { got = append(got, 2) }, 0)
	}, 0)
	m.Schedule(func() { got = append(got, 3) }, time.Second)

	if !m.Step() {
		t.Fatal("Step() = false with a due task")
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("first step (-want +got):\n%s", diff)
	}
	m.Step()
	if m.Step() {
		t.Error("Step() ran a task that is not due")
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("after steps (-want +got):\n%s", diff)
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	tok := m.Schedule(func() { ran = true }, time.Millisecond)

	if !m.Cancel(tok) {
		t.Error("Cancel() = false for a pending task")
	}
	if m.Cancel(tok) {
		t.Error("second Cancel() = true")
	}
	m.Advance(time.Second)
	if ran {
		t.Error("cancelled task ran")
	}
}

func TestLoopRunsScheduledAndPosted(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()

	results := make(chan string, 3)
	l.Post(func() { results <- "posted" })
	l.Schedule(func() { results <- "deferred" }, 0)
	l.Schedule(func() { results <- "timer" }, 5*time.Millisecond)

	seen := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(seen) < 3 {
		select {
		case r := <-results:
			seen[r] = true
		case <-timeout:
			t.Fatalf("timed out, saw %v", seen)
		}
	}

	cancel()
	<-done
}

func TestLoopCancel(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var ran atomic.Bool
	tok := l.Schedule(func() { ran.Store(true) }, 20*time.Millisecond)
	if !l.Cancel(tok) {
		t.Fatal("Cancel() = false for a pending timer")
	}

	marker := make(chan struct{})
	l.Schedule(func() { close(marker) }, 40*time.Millisecond)
	select {
	case <-marker:
	case <-time.After(2 * time.Second):
		t.Fatal("marker never ran")
	}
	if ran.Load() {
		t.Error("cancelled timer ran")
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	recovered := make(chan any, 1)
	l := NewLoop(WithPanicHandler(func(r any, _ []byte) { recovered <- r }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	l.Post(func() { panic("boom") })
	select {
	case r := <-recovered:
		if r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler not called")
	}
}

func TestLoopRunTwice(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	l.Post(func() { close(started) })
	go func() { _ = l.Run(ctx) }()
	<-started

	if err := l.Run(ctx); err != ErrLoopRunning {
		t.Errorf("second Run() = %v, want ErrLoopRunning", err)
	}
}

func TestLoopClose(t *testing.T) {
	l := NewLoop()
	l.Schedule(func() {}, time.Hour)
	if l.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", l.Pending())
	}
	l.Close()
	if l.Pending() != 0 {
		t.Errorf("Pending() after Close = %d, want 0", l.Pending())
	}
}
