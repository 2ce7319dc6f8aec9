// Package oxml is a small element tree for Office Open XML parts. It keeps
// namespace prefixes exactly as the part declares them, so a part that is
// parsed and serialised again differs only where it was edited.
package oxml

// Node is an element, a run of character data, or a raw passthrough
// (comment, processing instruction, directive).
type Node interface {
	isNode()
}

// Attr is an attribute. Space is the resolved namespace URI ("" for
// unprefixed attributes).
type Attr struct {
	Prefix string
	Space  string
	Local  string
	Value  string
}

// Text is character data.
type Text struct {
	Data string
}

// Raw is serialised verbatim.
type Raw struct {
	Data string
}

// Element is an XML element with its namespace resolved.
type Element struct {
	Prefix   string
	Space    string
	Local    string
	Attrs    []Attr
	Children []Node

	parent *Element
}

func (*Element) isNode() {}
func (*Text) isNode()    {}
func (*Raw) isNode()     {}

// NewElement creates a detached element.
func NewElement(prefix, space, local string) *Element {
	return &Element{Prefix: prefix, Space: space, Local: local}
}

// Name returns the qualified name as written.
func (e *Element) Name() string {
	if e.Prefix == "" {
		return e.Local
	}
	return e.Prefix + ":" + e.Local
}

// Is reports whether e has the given namespace and local name.
func (e *Element) Is(space, local string) bool {
	return e != nil && e.Space == space && e.Local == local
}

func (e *Element) Parent() *Element { return e.parent }

// Attr returns the value of an attribute.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Space == space && a.Local == local && a.Prefix != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when it is absent.
func (e *Element) AttrOr(space, local, def string) string {
	if v, ok := e.Attr(space, local); ok {
		return v
	}
	return def
}

// SetAttr sets or adds an attribute.
func (e *Element) SetAttr(prefix, space, local, value string) {
	for i, a := range e.Attrs {
		if a.Space == space && a.Local == local && a.Prefix != "xmlns" {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Prefix: prefix, Space: space, Local: local, Value: value})
}

// RemoveAttr deletes an attribute and reports whether it existed.
func (e *Element) RemoveAttr(space, local string) bool {
	for i, a := range e.Attrs {
		if a.Space == space && a.Local == local && a.Prefix != "xmlns" {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// DeclareNS adds an xmlns:prefix declaration to e unless one is present.
func (e *Element) DeclareNS(prefix, uri string) {
	for _, a := range e.Attrs {
		if a.Prefix == "xmlns" && a.Local == prefix {
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Prefix: "xmlns", Local: prefix, Value: uri})
}

// Elements returns the element children.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Child returns the first child element with the given name.
func (e *Element) Child(space, local string) *Element {
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok && el.Space == space && el.Local == local {
			return el
		}
	}
	return nil
}

// ChildrenNamed returns the child elements with the given name.
func (e *Element) ChildrenNamed(space, local string) []*Element {
	var out []*Element
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok && el.Space == space && el.Local == local {
			out = append(out, el)
		}
	}
	return out
}

// Find returns the first descendant with the given name in document order.
func (e *Element) Find(space, local string) *Element {
	for _, n := range e.Children {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if el.Space == space && el.Local == local {
			return el
		}
		if found := el.Find(space, local); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant with the given name in document order.
func (e *Element) FindAll(space, local string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el.Space == space && el.Local == local {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) walk(fn func(*Element)) {
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			fn(el)
			el.walk(fn)
		}
	}
}

// Append adds n as the last child.
func (e *Element) Append(n Node) {
	e.adopt(n)
	e.Children = append(e.Children, n)
}

// Insert places n at child index i, clamped to the valid range.
func (e *Element) Insert(i int, n Node) {
	e.adopt(n)
	if i < 0 {
		i = 0
	}
	if i > len(e.Children) {
		i = len(e.Children)
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = n
}

// InsertBefore places n before ref, or appends when ref is not a child.
func (e *Element) InsertBefore(n Node, ref *Element) {
	if idx := e.IndexOf(ref); idx >= 0 {
		e.Insert(idx, n)
		return
	}
	e.Append(n)
}

// InsertAfter places n after ref, or appends when ref is not a child.
func (e *Element) InsertAfter(n Node, ref *Element) {
	if idx := e.IndexOf(ref); idx >= 0 {
		e.Insert(idx+1, n)
		return
	}
	e.Append(n)
}

// IndexOf returns the child index of n, or -1.
func (e *Element) IndexOf(n Node) int {
	if n == nil {
		return -1
	}
	for i, c := range e.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Remove detaches child n and reports whether it was a child of e.
func (e *Element) Remove(n Node) bool {
	idx := e.IndexOf(n)
	if idx < 0 {
		return false
	}
	e.Children = append(e.Children[:idx], e.Children[idx+1:]...)
	if el, ok := n.(*Element); ok {
		el.parent = nil
	}
	return true
}

// RemoveChildren deletes all child elements with the given name.
func (e *Element) RemoveChildren(space, local string) int {
	removed := 0
	kept := e.Children[:0]
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok && el.Space == space && el.Local == local {
			el.parent = nil
			removed++
			continue
		}
		kept = append(kept, n)
	}
	e.Children = kept
	return removed
}

// Detach removes e from its parent.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.Remove(e)
	}
}

// Clone returns a deep, detached copy of e.
func (e *Element) Clone() *Element {
	cp := &Element{Prefix: e.Prefix, Space: e.Space, Local: e.Local}
	if len(e.Attrs) > 0 {
		cp.Attrs = append([]Attr(nil), e.Attrs...)
	}
	for _, n := range e.Children {
		switch v := n.(type) {
		case *Element:
			cp.Append(v.Clone())
		case *Text:
			cp.Append(&Text{Data: v.Data})
		case *Raw:
			cp.Append(&Raw{Data: v.Data})
		}
	}
	return cp
}

// Text returns the concatenated direct character data of e.
func (e *Element) Text() string {
	var s string
	for _, n := range e.Children {
		if t, ok := n.(*Text); ok {
			s += t.Data
		}
	}
	return s
}

// SetText replaces all children of e with a single text node.
func (e *Element) SetText(s string) {
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			el.parent = nil
		}
	}
	e.Children = []Node{&Text{Data: s}}
}

func (e *Element) adopt(n Node) {
	if el, ok := n.(*Element); ok {
		if el.parent != nil {
			el.parent.Remove(el)
		}
		el.parent = e
	}
}
