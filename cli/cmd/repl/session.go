package repl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/sxhtml/data"
	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
	"github.com/ardnew/sxhtml/render"
)

// elements are common HTML element names offered for completion alongside
// the renderer's handlers.
var elements = []string{
	"a", "article", "aside", "body", "br", "button", "code", "div", "em",
	"footer", "form", "h1", "h2", "h3", "head", "header", "hr", "html",
	"img", "input", "label", "li", "link", "main", "meta", "nav", "ol",
	"option", "p", "pre", "script", "section", "select", "span", "strong",
	"style", "table", "tbody", "td", "textarea", "th", "thead", "title",
	"tr", "ul",
}

// controlForms are the tag names the renderer handles itself.
var controlForms = []string{"case", "for", "if", "switch"}

// Session is the state an interactive loop renders against. Variables bound
// with [Session.Set] or [Session.Load] live in a scope above the initial
// context and are dropped by [Session.Reset].
type Session struct {
	renderer *render.Renderer
	library  *render.Library
	base     *render.Context
	scope    *render.Context
	cache    *lang.Cache
	logger   log.Logger
}

// NewSession returns a session rendering with r against c. lib may be nil.
func NewSession(
	r *render.Renderer,
	lib *render.Library,
	c *render.Context,
	logger log.Logger,
) *Session {
	if c == nil {
		c = render.NewContext()
	}

	return &Session{
		renderer: r,
		library:  lib,
		base:     c,
		scope:    c.Push(),
		cache:    lang.NewCache(lang.WithLogger(logger)),
		logger:   logger,
	}
}

// Render parses src as a template and renders it.
func (s *Session) Render(ctx context.Context, src string) (string, error) {
	tmpl, err := s.cache.Parse(ctx, src)
	if err != nil {
		return "", err
	}

	return s.renderer.RenderContext(ctx, tmpl, s.scope)
}

// Set evaluates a "name=expression" binding and binds the result.
func (s *Session) Set(_ context.Context, arg string) (render.Value, error) {
	b, err := data.ParseBinding(arg)
	if err != nil {
		return render.Value{}, err
	}

	v, err := b.Eval(s.scope)
	if err != nil {
		return render.Value{}, err
	}

	s.scope.Bind(b.Name, v)

	return v, nil
}

// Load binds every top-level key of the YAML or JSON document at path.
func (s *Session) Load(ctx context.Context, path string) error {
	if path == "" {
		return ErrUsage.With(slog.String("command", "load"))
	}

	return data.File(path).Load(ctx, s.scope)
}

// Reset drops every variable bound since the session started.
func (s *Session) Reset() {
	s.scope = s.base.Push()
	s.cache.Clear()
}

// Vars returns one "name = value" line per visible variable.
func (s *Session) Vars() string {
	var b strings.Builder

	for _, name := range s.scope.Names() {
		v, _ := s.scope.Lookup(name)
		fmt.Fprintf(&b, "  %s = %s\n", name, v)
	}

	return b.String()
}

// Variables returns the visible variable names.
func (s *Session) Variables() []string { return s.scope.Names() }

// Members returns the keys of the map bound at the dotted path name, or nil
// when name is unbound or not a map.
func (s *Session) Members(name string) []string {
	v, ok := s.scope.Lookup(name)
	if !ok || v.Kind() != render.KindMap {
		return nil
	}

	keys := make([]string, 0, v.Len())
	for _, e := range v.Entries() {
		keys = append(keys, e.Key)
	}

	return keys
}

// Tags returns the sorted, deduplicated tag names available to forms.
func (s *Session) Tags() []string {
	tags := slices.Concat(controlForms, s.renderer.Names(), elements)
	slices.Sort(tags)

	return slices.Compact(tags)
}

// Templates returns the names of the library templates.
func (s *Session) Templates() []string {
	if s.library == nil {
		return nil
	}

	return s.library.Names()
}
