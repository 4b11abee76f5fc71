package render

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
)

// DefaultMaxDepth is the default limit on nested handler invocations.
const DefaultMaxDepth = 64

// DefaultDoctype is written before a root html element.
const DefaultDoctype = "<!doctype html5>"

// Names of the control forms. They take priority over registered handlers.
const (
	tagIf     = "if"
	tagFor    = "for"
	tagSwitch = "switch"
	tagCase   = "case"
	tagHTML   = "html"
)

// Renderer evaluates templates against contexts.
//
// A Renderer is immutable after [New] returns and safe for concurrent use;
// each render owns its [Context] and [Evaluator] chain.
type Renderer struct {
	handlers map[string]Handler
	doctype  string
	logger   log.Logger
	maxDepth int
	escape   bool
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithFunction registers h for tag name, replacing any earlier handler
// including a built-in predicate. Control form names are never dispatched
// to handlers.
func WithFunction(name string, h Handler) Option {
	return func(r *Renderer) {
		r.handlers[name] = h
	}
}

// WithFunctions registers every handler in m.
func WithFunctions(m map[string]Handler) Option {
	return func(r *Renderer) {
		maps.Copy(r.handlers, m)
	}
}

// WithPredicate registers p for tag name. Predicates may be used as if
// conditions; elsewhere they render "true" or "false".
func WithPredicate(name string, p Predicate) Option {
	return func(r *Renderer) {
		if h, ok := p.(Handler); ok {
			r.handlers[name] = h
		} else {
			r.handlers[name] = predicateHandler{p}
		}
	}
}

// WithMaxDepth sets the limit on nested handler invocations.
// Values below 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		r.maxDepth = depth
	}
}

// WithEscape enables HTML escaping of text substituted from variables.
// Text written literally in the template is never escaped.
func WithEscape(enable bool) Option {
	return func(r *Renderer) {
		r.escape = enable
	}
}

// WithDoctype sets the marker written before a root html element.
func WithDoctype(doctype string) Option {
	return func(r *Renderer) {
		r.doctype = doctype
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New returns a Renderer with the built-in predicates registered and opts
// applied in order.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		handlers: builtins(),
		doctype:  DefaultDoctype,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Lookup returns the handler registered for name.
func (r *Renderer) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]

	return h, ok
}

// Names returns the registered tag names in sorted order.
func (r *Renderer) Names() []string {
	return slices.Sorted(maps.Keys(r.handlers))
}

// MaxDepth returns the limit on nested handler invocations.
func (r *Renderer) MaxDepth() int { return r.maxDepth }

// Render renders t against c.
func (r *Renderer) Render(t *lang.Template, c *Context) (string, error) {
	return r.RenderContext(context.Background(), t, c)
}

// RenderContext renders t against c. ctx is passed to the logger and to
// handlers through [Evaluator.Context]; rendering itself is not
// cancellable.
func (r *Renderer) RenderContext(
	ctx context.Context,
	t *lang.Template,
	c *Context,
) (string, error) {
	r.logger.TraceContext(ctx, "render start",
		slog.String("root", t.Root().Name),
		slog.Int("scope_depth", c.Depth()))

	out, err := r.evaluator(ctx).Render(t, c)
	if err != nil {
		r.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return "", err
	}

	r.logger.TraceContext(ctx, "render complete",
		slog.Int("output_bytes", len(out)))

	return out, nil
}

// EvaluateMultiple renders each node against c and returns one fragment
// per node.
func (r *Renderer) EvaluateMultiple(nodes []lang.Node, c *Context) ([]string, error) {
	return r.evaluator(context.Background()).EvaluateMultiple(nodes, c)
}

func (r *Renderer) evaluator(ctx context.Context) *Evaluator {
	return &Evaluator{r: r, ctx: ctx}
}

// writeRoot renders a template's root form, adding the doctype before a
// root html element.
func (r *Renderer) writeRoot(sb *strings.Builder, ev *Evaluator, root *lang.Tag, c *Context) error {
	if root.Name == tagHTML {
		if _, custom := r.handlers[tagHTML]; !custom {
			sb.WriteString(r.doctype)
		}
	}

	return ev.write(sb, root, c)
}
