package history

// stack is a bounded LIFO of snapshots. When a push exceeds the bound the
// oldest entry is evicted.
type stack struct {
	entries []Snapshot
	max     int
}

func newStack(max int) *stack {
	return &stack{max: max}
}

// push adds s on top and returns how many old entries were evicted.
func (s *stack) push(snap Snapshot) int {
	s.entries = append(s.entries, snap)
	return s.trim()
}

func (s *stack) pop() (Snapshot, bool) {
	if len(s.entries) == 0 {
		return Snapshot{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Snapshot{}
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

func (s *stack) peek() (Snapshot, bool) {
	if len(s.entries) == 0 {
		return Snapshot{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *stack) len() int {
	return len(s.entries)
}

func (s *stack) clear() {
	s.entries = nil
}

// setMax changes the bound, dropping the oldest entries if needed.
func (s *stack) setMax(max int) int {
	s.max = max
	return s.trim()
}

func (s *stack) trim() int {
	if len(s.entries) <= s.max {
		return 0
	}
	excess := len(s.entries) - s.max
	kept := make([]Snapshot, s.max)
	copy(kept, s.entries[excess:])
	s.entries = kept
	return excess
}

// info lists the entries oldest first.
func (s *stack) info() []EntryInfo {
	out := make([]EntryInfo, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.info()
	}
	return out
}
