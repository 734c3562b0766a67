// Package offset translates selections between tree positions and linear
// content offsets.
//
// A tree position (document.Point) only makes sense for the tree it was
// taken from. A linear offset counts content units from the start of the
// document's concatenated text, so it survives replacing the whole tree with
// one that has the same text, or near enough.
//
// Both directions walk the leaf text nodes in document order. The walk is
// O(document size) per call.
package offset

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/document"
)

// ErrSelectionUnavailable is returned when a selection endpoint is not part
// of the tree being measured.
var ErrSelectionUnavailable = errors.New("selection unavailable")

// Offsets is a selection expressed as linear content offsets.
// Start <= End always holds; Backward records that the head came first.
type Offsets struct {
	Start     int
	End       int
	Collapsed bool
	Backward  bool
}

// Caret returns collapsed offsets at pos.
func Caret(pos int) Offsets {
	return Offsets{Start: pos, End: pos, Collapsed: true}
}

// Span returns offsets covering [start, end). Reversed arguments produce a
// backward selection.
func Span(start, end int) Offsets {
	o := Offsets{Start: start, End: end}
	if start > end {
		o.Start, o.End = end, start
		o.Backward = true
	}
	o.Collapsed = o.Start == o.End
	return o
}

// String returns a debug representation.
func (o Offsets) String() string {
	if o.Collapsed {
		return fmt.Sprintf("[%d]", o.Start)
	}
	if o.Backward {
		return fmt.Sprintf("[%d<-%d]", o.Start, o.End)
	}
	return fmt.Sprintf("[%d->%d]", o.Start, o.End)
}

// Count returns the number of content units in s.
func Count(s string) int {
	return document.UnitCount(s)
}

// ByteIndex returns the byte index in s where unit n begins.
func ByteIndex(s string, n int) int {
	return document.UnitByteIndex(s, n)
}

// ToOffsets converts sel to linear offsets within root.
func ToOffsets(root *html.Node, sel document.Selection) (Offsets, error) {
	anchor, ok := Position(root, sel.Anchor)
	if !ok {
		return Offsets{}, fmt.Errorf("anchor %v: %w", sel.Anchor, ErrSelectionUnavailable)
	}
	head := anchor
	if sel.Head != sel.Anchor {
		head, ok = Position(root, sel.Head)
		if !ok {
			return Offsets{}, fmt.Errorf("head %v: %w", sel.Head, ErrSelectionUnavailable)
		}
	}
	return Span(anchor, head), nil
}

// Position returns the linear offset of p within root. A text point yields
// the units before its node plus its local offset, clamped to the node's
// length. An element point yields the units before child p.Offset.
func Position(root *html.Node, p document.Point) (int, bool) {
	if root == nil || p.Node == nil {
		return 0, false
	}

	running := 0
	result := 0
	found := false

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == p.Node {
			found = true
			if n.Type == html.TextNode {
				result = running + clamp(p.Offset, 0, Count(n.Data))
				return false
			}
			i := 0
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if i == p.Offset {
					result = running
					return false
				}
				walk(c)
				i++
			}
			result = running
			return false
		}
		if n.Type == html.TextNode {
			running += Count(n.Data)
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
	return result, found
}

// FromOffsets maps o back onto root. Offsets past the end clamp to the end
// of the last text node. It returns false when root has no text nodes.
func FromOffsets(root *html.Node, o Offsets) (document.Selection, bool) {
	start, ok := Locate(root, o.Start)
	if !ok {
		return document.Selection{}, false
	}
	if o.Collapsed || o.Start == o.End {
		return document.Caret(start), true
	}
	end, _ := Locate(root, o.End)
	if o.Backward {
		return document.NewSelection(end, start), true
	}
	return document.NewSelection(start, end), true
}

// Locate returns the point for a single linear offset: the first text node
// whose span reaches target.
func Locate(root *html.Node, target int) (document.Point, bool) {
	if target < 0 {
		target = 0
	}

	var last *html.Node
	var p document.Point
	found := false
	before := 0

	document.EachText(root, func(n *html.Node) bool {
		last = n
		size := Count(n.Data)
		if before+size >= target {
			p = document.Point{Node: n, Offset: target - before}
			found = true
			return false
		}
		before += size
		return true
	})

	if found {
		return p, true
	}
	if last == nil {
		return document.Point{}, false
	}
	return document.Point{Node: last, Offset: Count(last.Data)}, true
}

// End returns the end-of-document point: after the last unit of the last
// text node, or after the root's last child when there is no text.
func End(root *html.Node) document.Point {
	if p, ok := Locate(root, Length(root)); ok {
		return p
	}
	n := 0
	if root != nil {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			n++
		}
	}
	return document.Point{Node: root, Offset: n}
}

// Length returns the total content units under root.
func Length(root *html.Node) int {
	total := 0
	document.EachText(root, func(n *html.Node) bool {
		total += Count(n.Data)
		return true
	})
	return total
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
