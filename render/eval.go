package render

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/ardnew/sxhtml/lang"
)

// Evaluator is the handle through which one render walks a template tree.
//
// Handlers receive an Evaluator one level deeper than their caller and use
// it to render their own children or other templates. An Evaluator is
// only valid for the duration of the render that created it.
type Evaluator struct {
	r     *Renderer
	ctx   context.Context //nolint:containedctx // carried for logging only
	depth int
}

// Renderer returns the renderer driving this evaluation.
func (ev *Evaluator) Renderer() *Renderer { return ev.r }

// Depth returns the number of handler invocations enclosing ev.
func (ev *Evaluator) Depth() int { return ev.depth }

// Context returns the context.Context the render was started with.
func (ev *Evaluator) Context() context.Context { return ev.ctx }

// Evaluate renders n against c.
func (ev *Evaluator) Evaluate(n lang.Node, c *Context) (string, error) {
	var sb strings.Builder

	if err := ev.write(&sb, n, c); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// EvaluateMultiple renders each node against c and returns one fragment
// per node. It stops at the first error.
func (ev *Evaluator) EvaluateMultiple(nodes []lang.Node, c *Context) ([]string, error) {
	out := make([]string, 0, len(nodes))

	for _, n := range nodes {
		s, err := ev.Evaluate(n, c)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// Render renders the root of another template against c at the depth of
// ev. A root html element gets the doctype as usual.
func (ev *Evaluator) Render(t *lang.Template, c *Context) (string, error) {
	var sb strings.Builder

	if err := ev.r.writeRoot(&sb, ev, t.Root(), c); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Resolve returns the value n denotes. A variable yields its bound value of
// any kind; a literal yields its interpolated text and a tag its rendered
// output, both as scalars.
func (ev *Evaluator) Resolve(n lang.Node, c *Context) (Value, error) {
	if v, ok := n.(*lang.Variable); ok {
		val, found := c.Lookup(v.Name)
		if !found {
			return Value{}, undefined(v.Name, v.Pos)
		}

		return val, nil
	}

	s, err := ev.Text(n, c)
	if err != nil {
		return Value{}, err
	}

	return Scalar(s), nil
}

// Text returns the text n denotes without HTML escaping. Variables must be
// scalars.
func (ev *Evaluator) Text(n lang.Node, c *Context) (string, error) {
	switch n := n.(type) {
	case *lang.Literal:
		var sb strings.Builder

		if err := ev.interpolate(&sb, n.Text, c, n.Pos, false); err != nil {
			return "", err
		}

		return sb.String(), nil

	case *lang.Variable:
		v, err := ev.scalar(n.Name, c, n.Pos)

		return v.text, err

	default:
		return ev.Evaluate(n, c)
	}
}

// Test evaluates n as a condition. n must be a tag whose registered handler
// is a [Predicate].
func (ev *Evaluator) Test(n lang.Node, c *Context) (bool, error) {
	t, ok := n.(*lang.Tag)
	if !ok {
		return false, ErrInvalidCondition.WithPosition(n.Position()).
			With(slog.String("condition", n.String()))
	}

	p, ok := ev.r.handlers[t.Name].(Predicate)
	if !ok {
		return false, ErrInvalidCondition.WithPosition(t.Pos).
			With(slog.String("tag", t.Name))
	}

	inner, err := ev.enter(t)
	if err != nil {
		return false, err
	}

	result, err := p.Test(t.Attributes, t.Children, inner, c.Push())
	if err != nil {
		return false, handlerError(t, err)
	}

	return result, nil
}

// enter returns an evaluator one level deeper for invoking t.
func (ev *Evaluator) enter(t *lang.Tag) (*Evaluator, error) {
	if ev.depth >= ev.r.maxDepth {
		return nil, ErrRecursionLimitExceeded.WithPosition(t.Pos).
			With(slog.String("tag", t.Name), slog.Int("depth", ev.depth))
	}

	return &Evaluator{r: ev.r, ctx: ev.ctx, depth: ev.depth + 1}, nil
}

func (ev *Evaluator) write(sb *strings.Builder, n lang.Node, c *Context) error {
	switch n := n.(type) {
	case *lang.Literal:
		return ev.interpolate(sb, n.Text, c, n.Pos, ev.r.escape)

	case *lang.Variable:
		v, err := ev.scalar(n.Name, c, n.Pos)
		if err != nil {
			return err
		}

		ev.substitute(sb, v, ev.r.escape)

		return nil

	case *lang.Tag:
		return ev.writeTag(sb, n, c)

	default:
		return ErrRender.With(slog.String("node", n.String()))
	}
}

func (ev *Evaluator) writeTag(sb *strings.Builder, t *lang.Tag, c *Context) error {
	switch t.Name {
	case tagIf:
		return ev.writeIf(sb, t, c)
	case tagFor:
		return ev.writeFor(sb, t, c)
	case tagSwitch:
		return ev.writeSwitch(sb, t, c)
	case tagCase:
		return malformed(t, "case outside switch")
	}

	if h, ok := ev.r.handlers[t.Name]; ok {
		return ev.call(sb, t, h, c)
	}

	return ev.writeElement(sb, t, c)
}

// call invokes a registered handler in a fresh scope one level deeper.
func (ev *Evaluator) call(sb *strings.Builder, t *lang.Tag, h Handler, c *Context) error {
	inner, err := ev.enter(t)
	if err != nil {
		return err
	}

	ev.r.logger.TraceContext(ev.ctx, "call handler",
		slog.String("tag", t.Name),
		slog.Int("depth", inner.depth),
		slog.Int("children", len(t.Children)))

	frags, err := h.Handle(t.Attributes, t.Children, inner, c.Push())
	if err != nil {
		return handlerError(t, err)
	}

	for _, f := range frags {
		sb.WriteString(f)
	}

	return nil
}

func (ev *Evaluator) writeElement(sb *strings.Builder, t *lang.Tag, c *Context) error {
	sb.WriteByte('<')
	sb.WriteString(t.Name)

	for key, val := range t.Attributes.All() {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteString(`="`)

		if err := ev.write(sb, val, c); err != nil {
			return err
		}

		sb.WriteByte('"')
	}

	if len(t.Children) == 0 {
		sb.WriteString(" />")

		return nil
	}

	sb.WriteByte('>')

	for _, child := range t.Children {
		if err := ev.write(sb, child, c); err != nil {
			return err
		}
	}

	sb.WriteString("</")
	sb.WriteString(t.Name)
	sb.WriteByte('>')

	return nil
}

// interpolate writes text with each $name marker replaced by the scalar it
// names. A '$' not followed by a name is written as is.
func (ev *Evaluator) interpolate(
	sb *strings.Builder,
	text string,
	c *Context,
	pos lang.Position,
	escape bool,
) error {
	for {
		i := strings.IndexByte(text, '$')
		if i < 0 {
			sb.WriteString(text)

			return nil
		}

		sb.WriteString(text[:i])
		text = text[i+1:]

		n := lang.ScanIdentifier(text)
		if n == 0 {
			sb.WriteByte('$')

			continue
		}

		used, v, err := ev.marker(text[:n], c, pos)
		if err != nil {
			return err
		}

		ev.substitute(sb, v, escape)
		text = text[used:]
	}
}

// marker resolves an interpolation marker. When a dotted name is unbound,
// trailing segments are dropped until a bound prefix is found, so
// "$price.00" reads $price followed by ".00". It returns the length of the
// name actually used.
func (ev *Evaluator) marker(name string, c *Context, pos lang.Position) (int, Value, error) {
	for n := name; ; {
		if _, ok := c.Lookup(n); ok {
			v, err := ev.scalar(n, c, pos)

			return len(n), v, err
		}

		dot := strings.LastIndexByte(n, '.')
		if dot < 0 {
			return 0, Value{}, undefined(name, pos)
		}

		n = n[:dot]
	}
}

// scalar looks up name and requires a scalar.
func (ev *Evaluator) scalar(name string, c *Context, pos lang.Position) (Value, error) {
	v, ok := c.Lookup(name)
	if !ok {
		return Value{}, undefined(name, pos)
	}

	if v.Kind() != KindScalar {
		return Value{}, mismatch("scalar", v.Kind(), pos).
			With(slog.String("name", name))
	}

	return v, nil
}

func (ev *Evaluator) substitute(sb *strings.Builder, v Value, escape bool) {
	if escape && !v.markup {
		sb.WriteString(html.EscapeString(v.text))

		return
	}

	sb.WriteString(v.text)
}
