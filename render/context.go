package render

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Context is a chain of scopes mapping variable names to values.
//
// Lookups walk from the innermost scope outward, so inner bindings shadow
// outer ones. [Context.Push] starts a child scope that writes never leak
// out of; [Context.Pop] returns the enclosing scope.
//
// A Context is not safe for concurrent mutation. Renders never mutate the
// Context they are given, so one root Context may be shared by concurrent
// renders once it is fully built.
type Context struct {
	parent *Context
	vars   map[string]Value
}

// NewContext returns a root scope holding entries.
func NewContext(entries ...Entry) *Context {
	c := &Context{vars: make(map[string]Value, len(entries))}

	for _, e := range entries {
		c.Bind(e.Key, e.Value)
	}

	return c
}

// Bind binds name to v in the innermost scope. A leading '$' on name is
// ignored.
func (c *Context) Bind(name string, v Value) {
	if c.vars == nil {
		c.vars = make(map[string]Value)
	}

	c.vars[strings.TrimPrefix(name, "$")] = v
}

// Insert binds name to v and returns c, for chained construction.
func (c *Context) Insert(name string, v Value) *Context {
	c.Bind(name, v)

	return c
}

// Push returns a new child scope of c.
func (c *Context) Push() *Context {
	return &Context{parent: c}
}

// Pop returns the scope enclosing c, or nil for a root scope.
func (c *Context) Pop() *Context {
	if c == nil {
		return nil
	}

	return c.parent
}

// With returns a child scope of c binding name to v.
func (c *Context) With(name string, v Value) *Context {
	child := c.Push()
	child.Bind(name, v)

	return child
}

// Lookup returns the value bound to name.
//
// A name bound verbatim wins. Otherwise a dotted name resolves its first
// segment through the scopes and then walks the rest: map keys on maps and
// decimal indexes on lists.
func (c *Context) Lookup(name string) (Value, bool) {
	name = strings.TrimPrefix(name, "$")

	if v, ok := c.lookup(name); ok {
		return v, true
	}

	head, rest, dotted := strings.Cut(name, ".")
	if !dotted {
		return Value{}, false
	}

	v, ok := c.lookup(head)
	if !ok {
		return Value{}, false
	}

	for seg := range strings.SplitSeq(rest, ".") {
		switch v.Kind() {
		case KindMap:
			v, ok = v.Get(seg)

		case KindList:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return Value{}, false
			}

			v, ok = v.Index(i)

		default:
			ok = false
		}

		if !ok {
			return Value{}, false
		}
	}

	return v, true
}

func (c *Context) lookup(name string) (Value, bool) {
	for s := c; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// IsSet reports whether name resolves to a value.
func (c *Context) IsSet(name string) bool {
	_, ok := c.Lookup(name)

	return ok
}

// Clone returns a structural copy of the whole chain. Bindings added to
// either copy afterwards are invisible to the other.
func (c *Context) Clone() *Context {
	if c == nil {
		return NewContext()
	}

	return &Context{
		parent: c.parent.cloneOrNil(),
		vars:   maps.Clone(c.vars),
	}
}

func (c *Context) cloneOrNil() *Context {
	if c == nil {
		return nil
	}

	return c.Clone()
}

// Depth returns the number of scopes in the chain.
func (c *Context) Depth() int {
	n := 0
	for s := c; s != nil; s = s.parent {
		n++
	}

	return n
}

// Names returns the visible variable names in sorted order.
func (c *Context) Names() []string {
	seen := make(map[string]struct{})

	for s := c; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
