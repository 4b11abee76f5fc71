package lang

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Node is one element of a template tree: a [*Tag], a [*Literal] or a
// [*Variable].
type Node interface {
	// Position returns where the node starts in the template source.
	Position() Position
	// String returns the canonical S-expression spelling of the node.
	String() string

	node()
}

// Tag is a form: a name, an optional attribute block and ordered children.
// Control forms (if, for, switch, case) are ordinary tags.
type Tag struct {
	Name       string
	Attributes *Attributes // nil when the form has no attribute block
	Children   []Node
	Pos        Position
}

// Literal is a bare atom or a quoted string. Its text may contain $name
// markers that are interpolated at render time.
type Literal struct {
	Text   string
	Quoted bool // spelled as a string literal in the source
	Pos    Position
}

// Variable is a standalone $name reference. Name excludes the '$' and may
// be a dotted path into nested maps and lists. The whole path must resolve:
// unlike a marker inside a literal, which drops trailing segments until a
// bound prefix is found, $price.00 does not fall back to $price.
type Variable struct {
	Name string
	Pos  Position
}

func (*Tag) node()      {}
func (*Literal) node()  {}
func (*Variable) node() {}

// Position implements [Node].
func (t *Tag) Position() Position { return t.Pos }

// Position implements [Node].
func (l *Literal) Position() Position { return l.Pos }

// Position implements [Node].
func (v *Variable) Position() Position { return v.Pos }

// String implements [Node].
func (t *Tag) String() string {
	var sb strings.Builder

	writeNode(&sb, t, -1, 0)

	return sb.String()
}

// String implements [Node].
func (l *Literal) String() string {
	if !l.Quoted && isBareAtom(l.Text) {
		return l.Text
	}

	return quote(l.Text)
}

// String implements [Node].
func (v *Variable) String() string { return "$" + v.Name }

// Attribute is one (key value) pair of an attribute block.
// Value is a [*Literal] or a [*Variable].
type Attribute struct {
	Key   string
	Value Node
	Pos   Position
}

// Attributes is the ordered attribute block of a tag. Keys are unique.
type Attributes struct {
	list []Attribute
}

// NewAttributes returns an attribute block holding attrs in order.
// A repeated key fails with [ErrInvalidAttributeBlock].
func NewAttributes(attrs ...Attribute) (*Attributes, error) {
	a := &Attributes{list: make([]Attribute, 0, len(attrs))}

	for _, attr := range attrs {
		if err := a.add(attr); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *Attributes) add(attr Attribute) error {
	if _, ok := a.Get(attr.Key); ok {
		return ErrInvalidAttributeBlock.WithPosition(attr.Pos).
			With(slog.String("key", attr.Key), slog.String("reason", "duplicate key"))
	}

	a.list = append(a.list, attr)

	return nil
}

// Len returns the number of attributes. A nil block has none.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}

	return len(a.list)
}

// Get returns the value bound to key.
func (a *Attributes) Get(key string) (Node, bool) {
	if a == nil {
		return nil, false
	}

	for _, attr := range a.list {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return nil, false
}

// All iterates the attributes in source order.
func (a *Attributes) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if a == nil {
			return
		}

		for _, attr := range a.list {
			if !yield(attr.Key, attr.Value) {
				return
			}
		}
	}
}

// Keys returns the attribute keys in source order.
func (a *Attributes) Keys() []string {
	keys := make([]string, 0, a.Len())
	for k := range a.All() {
		keys = append(keys, k)
	}

	return keys
}

// Template is a parsed template. It is immutable and safe for concurrent
// use by any number of renders.
type Template struct {
	root   *Tag
	source string
}

// Root returns the root form.
func (t *Template) Root() *Tag { return t.root }

// Source returns the text the template was parsed from.
func (t *Template) Source() string { return t.source }

// String returns the canonical single-line spelling of the template.
func (t *Template) String() string { return t.root.String() }

// Equal reports whether a and b are structurally equal, ignoring source
// positions.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Tag:
		y, ok := b.(*Tag)
		if !ok || x.Name != y.Name || x.Attributes.Len() != y.Attributes.Len() {
			return false
		}

		for i, attr := range x.Attributes.listOrNil() {
			other := y.Attributes.list[i]
			if attr.Key != other.Key || !Equal(attr.Value, other.Value) {
				return false
			}
		}

		return slices.EqualFunc(x.Children, y.Children, Equal)

	case *Literal:
		y, ok := b.(*Literal)

		return ok && x.Text == y.Text && x.Quoted == y.Quoted

	case *Variable:
		y, ok := b.(*Variable)

		return ok && x.Name == y.Name

	default:
		return a == nil && b == nil
	}
}

func (a *Attributes) listOrNil() []Attribute {
	if a == nil {
		return nil
	}

	return a.list
}

// Walk visits n and its descendants depth-first in document order,
// including attribute values. Returning false from fn skips the children
// of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}

	t, ok := n.(*Tag)
	if !ok {
		return
	}

	for _, v := range t.Attributes.All() {
		Walk(v, fn)
	}

	for _, child := range t.Children {
		Walk(child, fn)
	}
}
