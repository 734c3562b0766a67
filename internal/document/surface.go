package document

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/input/key"
)

// Surface is the editable content area the history engine observes and
// mutates. The engine treats it as an opaque collaborator: whole-document
// serialize/replace, selection get/set, focus, and a stream of edit-trigger
// signals.
//
// Surfaces are used from a single goroutine, the host's event loop.
type Surface interface {
	// Content serializes the whole document.
	Content() string

	// SetContent replaces the whole document. Node identities from the
	// previous tree are not preserved.
	SetContent(content string)

	// Root returns the current document tree.
	Root() *html.Node

	// Selection returns the current selection. ok is false when there is
	// no active selection or it refers to nodes no longer in the tree.
	Selection() (sel Selection, ok bool)

	// SetSelection places the selection.
	SetSelection(sel Selection)

	// Focus gives the surface input focus.
	Focus()

	// Subscribe registers fn for edit-trigger signals and returns a
	// function that removes the subscription.
	Subscribe(fn func(Signal)) (cancel func())
}

// SignalKind classifies an edit-trigger signal.
type SignalKind int

const (
	// SignalKey is a key press, delivered before the surface applies it.
	SignalKey SignalKind = iota
	// SignalPaste is a clipboard paste.
	SignalPaste
	// SignalBlur is focus loss.
	SignalBlur
	// SignalDrop is a drag-and-drop onto the surface.
	SignalDrop
)

// String returns the signal kind name.
func (k SignalKind) String() string {
	switch k {
	case SignalKey:
		return "key"
	case SignalPaste:
		return "paste"
	case SignalBlur:
		return "blur"
	case SignalDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Signal is one edit-trigger notification from a surface.
type Signal struct {
	Kind SignalKind
	Key  key.Event // set for SignalKey
}

// KeySignal builds a key signal.
func KeySignal(ev key.Event) Signal {
	return Signal{Kind: SignalKey, Key: ev}
}

// Mutating reports whether the signal may have changed content. Paste,
// drop and blur always qualify; key presses only when the key edits.
func (s Signal) Mutating() bool {
	if s.Kind == SignalKey {
		return s.Key.IsMutating()
	}
	return true
}
