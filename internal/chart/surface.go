package chart

// Element is a node of the drawing surface. Geometry is kept as numbers so
// it can be inspected without parsing attribute strings.
type Element struct {
	Tag    string // "svg", "g", "rect", "text" or "line"
	ID     string
	Class  string
	X, Y   float64 // rect/text position, line start
	X2, Y2 float64 // line end
	Width  float64
	Height float64
	Text   string
	Attrs  []Attr

	Children []*Element
	parent   *Element
}

// Attr is an extra presentation or data attribute.
type Attr struct {
	Name, Value string
}

// Append adds child as the last child of e and returns it.
func (e *Element) Append(child *Element) *Element {
	child.parent = e
	e.Children = append(e.Children, child)
	return child
}

// Remove detaches e from its parent. It reports whether e was attached.
func (e *Element) Remove() bool {
	p := e.parent
	if p == nil {
		return false
	}
	for i, c := range p.Children {
		if c == e {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			e.parent = nil
			return true
		}
	}
	return false
}

// Attached reports whether e still hangs off a parent.
func (e *Element) Attached() bool { return e.parent != nil }

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits e and its descendants depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Surface is the drawing target: one SVG root plus the caption shown next to it.
type Surface struct {
	Width, Height float64
	Caption       string
	root          *Element
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Reset drops every element and starts a new root of the given size.
func (s *Surface) Reset(width, height float64) *Element {
	s.Width, s.Height = width, height
	s.Caption = ""
	s.root = &Element{Tag: "svg", Width: width, Height: height}
	return s.root
}

// Root returns the SVG root, nil before the first Reset.
func (s *Surface) Root() *Element { return s.root }

// ElementByID returns the first element with the given id.
func (s *Surface) ElementByID(id string) *Element {
	var found *Element
	if s.root == nil {
		return nil
	}
	s.root.Walk(func(e *Element) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}

// FindAll returns every element matching pred in document order.
func (s *Surface) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	if s.root == nil {
		return nil
	}
	s.root.Walk(func(e *Element) {
		if pred(e) {
			out = append(out, e)
		}
	})
	return out
}

// ByClass returns every element with the given class.
func (s *Surface) ByClass(class string) []*Element {
	return s.FindAll(func(e *Element) bool { return e.Class == class })
}
