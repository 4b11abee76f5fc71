package render

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/sxhtml/lang"
)

// Tag names served by a [Library].
const (
	TagInclude = "include"
	TagLayout  = "layout"
)

// Library is a read-only set of named templates that templates can render
// into each other with include and layout tags.
//
//	(include (@ (title "Home")) header)
//	(layout page (p "body text"))
//
// include renders the named template in a child scope holding the
// attribute bindings. layout does the same after binding the rendered
// children as the markup variable $content.
type Library struct {
	templates map[string]*lang.Template
}

// NewLibrary returns a library holding a copy of templates.
func NewLibrary(templates map[string]*lang.Template) *Library {
	return &Library{templates: maps.Clone(templates)}
}

// Get returns the template registered under name.
func (l *Library) Get(name string) (*lang.Template, bool) {
	t, ok := l.templates[name]

	return t, ok
}

// Names returns the template names in sorted order.
func (l *Library) Names() []string {
	return slices.Sorted(maps.Keys(l.templates))
}

// Options returns the renderer options registering include and layout.
func (l *Library) Options() []Option {
	return []Option{
		WithFunction(TagInclude, l.Include()),
		WithFunction(TagLayout, l.Layout()),
	}
}

// Include returns the handler for (include [attrs] name).
func (l *Library) Include() Handler {
	return HandlerFunc(func(
		attrs *lang.Attributes,
		children []lang.Node,
		ev *Evaluator,
		c *Context,
	) ([]string, error) {
		if len(children) != 1 {
			return nil, ErrMalformedControlForm.
				With(slog.String("reason", "want a template name"))
		}

		return l.render(attrs, children[0], ev, c)
	})
}

// Layout returns the handler for (layout [attrs] name children...).
func (l *Library) Layout() Handler {
	return HandlerFunc(func(
		attrs *lang.Attributes,
		children []lang.Node,
		ev *Evaluator,
		c *Context,
	) ([]string, error) {
		if len(children) == 0 {
			return nil, ErrMalformedControlForm.
				With(slog.String("reason", "want a template name"))
		}

		body, err := ev.EvaluateMultiple(children[1:], c)
		if err != nil {
			return nil, err
		}

		c.Bind("content", Markup(strings.Join(body, "")))

		return l.render(attrs, children[0], ev, c)
	})
}

// render binds attrs in c and renders the template named by n.
// Every binding is resolved against the caller's scope before any is made.
func (l *Library) render(
	attrs *lang.Attributes,
	n lang.Node,
	ev *Evaluator,
	c *Context,
) ([]string, error) {
	name, err := ev.Text(n, c)
	if err != nil {
		return nil, err
	}

	t, ok := l.Get(name)
	if !ok {
		return nil, ErrUnknownTemplate.With(slog.String("name", name))
	}

	bound := make([]Entry, 0, attrs.Len())

	for key, val := range attrs.All() {
		v, err := ev.Resolve(val, c)
		if err != nil {
			return nil, err
		}

		bound = append(bound, Entry{Key: key, Value: v})
	}

	for _, e := range bound {
		c.Bind(e.Key, e.Value)
	}

	out, err := ev.Render(t, c)
	if err != nil {
		return nil, err
	}

	return []string{out}, nil
}
