package document

import (
	"fmt"

	"golang.org/x/net/html"
)

// Point is a position in the document tree. For a text node, Offset counts
// content units into its text. For any other node, Offset is a child index
// and the point sits just before that child.
type Point struct {
	Node   *html.Node
	Offset int
}

// IsText reports whether the point is anchored in a text node.
func (p Point) IsText() bool {
	return p.Node != nil && p.Node.Type == html.TextNode
}

// String returns a debug representation.
func (p Point) String() string {
	if p.Node == nil {
		return "<nil>"
	}
	if p.IsText() {
		return fmt.Sprintf("text(%q)@%d", p.Node.Data, p.Offset)
	}
	return fmt.Sprintf("<%s>@%d", p.Node.Data, p.Offset)
}

// Selection is a pair of points. Anchor is where the selection started;
// Head is where the caret is. When Anchor == Head the selection is a caret.
type Selection struct {
	Anchor Point
	Head   Point
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Point) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Caret creates a collapsed selection at p.
func Caret(p Point) Selection {
	return Selection{Anchor: p, Head: p}
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Head
}

// Contains reports whether n is root itself or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}
