package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLSurface is an in-memory Surface over an HTML fragment. Hosts feed it
// key presses and edits; the history engine serializes and replaces it.
type HTMLSurface struct {
	root    *html.Node
	sel     Selection
	hasSel  bool
	focused bool

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func(Signal)
}

// NewHTMLSurface creates a surface holding content.
func NewHTMLSurface(content string) *HTMLSurface {
	return &HTMLSurface{root: parseFragment(content)}
}

// parseFragment parses content as the body of a document and hangs the
// resulting nodes under a fresh document node.
func parseFragment(content string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		root.AppendChild(&html.Node{Type: html.TextNode, Data: content})
		return root
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

// Content renders the document back to HTML.
func (s *HTMLSurface) Content() string {
	var b strings.Builder
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			// Rendering into a strings.Builder only fails on malformed
			// trees; fall back to the node's text.
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// SetContent replaces the whole tree. The old selection is dropped because
// it points into detached nodes.
func (s *HTMLSurface) SetContent(content string) {
	s.root = parseFragment(content)
	s.sel = Selection{}
	s.hasSel = false
}

// Root returns the document node.
func (s *HTMLSurface) Root() *html.Node {
	return s.root
}

// Selection returns the selection if both endpoints are still in the tree.
func (s *HTMLSurface) Selection() (Selection, bool) {
	if !s.hasSel {
		return Selection{}, false
	}
	if !Contains(s.root, s.sel.Anchor.Node) || !Contains(s.root, s.sel.Head.Node) {
		return Selection{}, false
	}
	return s.sel, true
}

// SetSelection places the selection.
func (s *HTMLSurface) SetSelection(sel Selection) {
	s.sel = sel
	s.hasSel = sel.Anchor.Node != nil && sel.Head.Node != nil
}

// ClearSelection removes the selection, as when the host loses its caret.
func (s *HTMLSurface) ClearSelection() {
	s.sel = Selection{}
	s.hasSel = false
}

// Focus gives the surface focus.
func (s *HTMLSurface) Focus() {
	s.focused = true
}

// Focused reports whether Focus was called since the last Blur.
func (s *HTMLSurface) Focused() bool {
	return s.focused
}

// Blur drops focus and emits a blur signal.
func (s *HTMLSurface) Blur() {
	s.focused = false
	s.Emit(Signal{Kind: SignalBlur})
}

// Subscribe registers fn for signals.
func (s *HTMLSurface) Subscribe(fn func(Signal)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (s *HTMLSurface) Subscribers() int {
	return len(s.subs)
}

// Emit delivers sig to every subscriber in subscription order.
func (s *HTMLSurface) Emit(sig Signal) {
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(sig)
	}
}

// Text returns the concatenated text of every text node.
func (s *HTMLSurface) Text() string {
	var b strings.Builder
	EachText(s.root, func(n *html.Node) bool {
		b.WriteString(n.Data)
		return true
	})
	return b.String()
}

// InsertText inserts text at the caret, replacing the selection when both
// endpoints sit in the same text node. A selection spanning nodes is
// collapsed to its anchor first. Without a selection, text goes to the end
// of the document. The caret ends up after the inserted text.
func (s *HTMLSurface) InsertText(text string) {
	sel, ok := s.Selection()
	if !ok {
		sel = Caret(s.endPoint())
	}

	p := sel.Anchor
	if !sel.IsCollapsed() && sel.Anchor.Node == sel.Head.Node && p.IsText() {
		lo, hi := sel.Anchor.Offset, sel.Head.Offset
		if lo > hi {
			lo, hi = hi, lo
		}
		data := p.Node.Data
		p.Node.Data = data[:UnitByteIndex(data, lo)] + data[UnitByteIndex(data, hi):]
		p.Offset = lo
	}

	if !p.IsText() {
		n := &html.Node{Type: html.TextNode}
		parent := p.Node
		if parent == nil {
			parent = s.root
		}
		parent.InsertBefore(n, childAt(parent, p.Offset))
		p = Point{Node: n, Offset: 0}
	}

	data := p.Node.Data
	at := UnitByteIndex(data, p.Offset)
	p.Node.Data = data[:at] + text + data[at:]
	s.SetSelection(Caret(Point{Node: p.Node, Offset: p.Offset + UnitCount(text)}))
}

// DeleteBackward removes the unit before a caret inside a text node. It
// reports whether anything was removed.
func (s *HTMLSurface) DeleteBackward() bool {
	sel, ok := s.Selection()
	if !ok || !sel.IsCollapsed() || !sel.Head.IsText() || sel.Head.Offset == 0 {
		return false
	}
	p := sel.Head
	data := p.Node.Data
	start := UnitByteIndex(data, p.Offset-1)
	end := UnitByteIndex(data, p.Offset)
	p.Node.Data = data[:start] + data[end:]
	s.SetSelection(Caret(Point{Node: p.Node, Offset: p.Offset - 1}))
	return true
}

// endPoint returns the position after the last unit of the last text node,
// or after the last child of the root when there is no text.
func (s *HTMLSurface) endPoint() Point {
	var last *html.Node
	EachText(s.root, func(n *html.Node) bool {
		last = n
		return true
	})
	if last != nil {
		return Point{Node: last, Offset: UnitCount(last.Data)}
	}
	count := 0
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return Point{Node: s.root, Offset: count}
}

func childAt(parent *html.Node, i int) *html.Node {
	c := parent.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// EachText calls fn for every text node under root in document order until
// fn returns false.
func EachText(root *html.Node, fn func(*html.Node) bool) {
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			return fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if root != nil {
		walk(root)
	}
}
