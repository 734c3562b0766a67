package key

import "fmt"

// Action is a history command a key press maps to.
type Action int

const (
	// ActionNone means the key press is not a history shortcut.
	ActionNone Action = iota
	// ActionUndo reverts to the previous snapshot.
	ActionUndo
	// ActionRedo re-applies the next snapshot.
	ActionRedo
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "none"
	}
}

// Bindings maps key presses to history actions.
type Bindings struct {
	Undo []Event
	Redo []Event
}

// DefaultBindings returns primary+Z for undo and primary+Shift+Z or Ctrl+Y
// for redo, where primary is Ctrl or Meta.
func DefaultBindings() Bindings {
	return Bindings{
		Undo: []Event{
			MustParse("Ctrl+z"),
			MustParse("Meta+z"),
		},
		Redo: []Event{
			MustParse("Ctrl+Shift+z"),
			MustParse("Meta+Shift+z"),
			MustParse("Ctrl+y"),
		},
	}
}

// ParseBindings builds Bindings from key specifications. Empty lists fall
// back to the defaults for that action.
func ParseBindings(undo, redo []string) (Bindings, error) {
	b := DefaultBindings()
	if len(undo) > 0 {
		events, err := parseAll(undo)
		if err != nil {
			return Bindings{}, fmt.Errorf("undo bindings: %w", err)
		}
		b.Undo = events
	}
	if len(redo) > 0 {
		events, err := parseAll(redo)
		if err != nil {
			return Bindings{}, fmt.Errorf("redo bindings: %w", err)
		}
		b.Redo = events
	}
	return b, nil
}

func parseAll(specs []string) ([]Event, error) {
	events := make([]Event, 0, len(specs))
	for _, s := range specs {
		e, err := Parse(s)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Match returns the action bound to e. Redo is checked first so that
// primary+Shift+Z never falls through to undo.
func (b Bindings) Match(e Event) Action {
	for _, r := range b.Redo {
		if r.Equals(e) {
			return ActionRedo
		}
	}
	for _, u := range b.Undo {
		if u.Equals(e) {
			return ActionUndo
		}
	}
	return ActionNone
}
