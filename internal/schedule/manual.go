package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit fake clock. Nothing runs until
// Advance or RunPending is called, which makes debounce and deferred
// selection restoration deterministic in tests.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	next  Token
	tasks []*manualTask
}

type manualTask struct {
	tok Token
	due time.Time
	fn  func()
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the fake clock's time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule queues fn to run once the clock reaches now+delay.
func (m *Manual) Schedule(fn func(), delay time.Duration) Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	m.next++
	m.tasks = append(m.tasks, &manualTask{tok: m.next, due: m.now.Add(delay), fn: fn})
	// Stable on equal due times keeps FIFO order between same-turn callbacks.
	sort.SliceStable(m.tasks, func(i, j int) bool {
		return m.tasks[i].due.Before(m.tasks[j].due)
	})
	return m.next
}

// Cancel removes a pending task.
func (m *Manual) Cancel(tok Token) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tasks {
		if t.tok == tok {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of tasks not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Advance moves the clock forward by d, running every task that comes due
// along the way in due-time order. Tasks scheduled by those tasks run too if
// they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for m.runNext(target) {
	}

	m.mu.Lock()
	if m.now.Before(target) {
		m.now = target
	}
	m.mu.Unlock()
}

// RunPending runs every task due at the current time, including zero-delay
// tasks those tasks schedule.
func (m *Manual) RunPending() {
	m.Advance(0)
}

// Step runs the single earliest task due at the current time. It reports
// whether a task ran.
func (m *Manual) Step() bool {
	return m.runNext(m.Now())
}

// runNext runs the earliest task due at or before limit.
func (m *Manual) runNext(limit time.Time) bool {
	m.mu.Lock()
	if len(m.tasks) == 0 || m.tasks[0].due.After(limit) {
		m.mu.Unlock()
		return false
	}
	t := m.tasks[0]
	m.tasks = m.tasks[1:]
	if t.due.After(m.now) {
		m.now = t.due
	}
	m.mu.Unlock()

	t.fn()
	return true
}
