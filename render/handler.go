package render

import (
	"strconv"

	"github.com/ardnew/sxhtml/lang"
)

// Handler renders a registered custom tag.
//
// Handle receives the tag's attributes and children exactly as written,
// unevaluated. attrs is nil when the tag has no attribute block; its
// methods are nil-safe. c is a fresh child scope of the caller's context,
// so bindings made there stay local to this invocation. The returned
// fragments are written in order.
//
// Handlers evaluate children with [Evaluator.EvaluateMultiple] and may
// render other templates with [Evaluator.Render]. Errors other than render
// errors are reported as [ErrHandler].
type Handler interface {
	Handle(attrs *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) ([]string, error)
}

// HandlerFunc adapts a function to the [Handler] interface.
type HandlerFunc func(attrs *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) ([]string, error)

// Handle implements [Handler].
func (f HandlerFunc) Handle(
	attrs *lang.Attributes,
	children []lang.Node,
	ev *Evaluator,
	c *Context,
) ([]string, error) {
	return f(attrs, children, ev, c)
}

// Predicate is a handler usable as the condition of an if form.
type Predicate interface {
	Test(attrs *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) (bool, error)
}

// PredicateFunc adapts a function to both [Predicate] and [Handler]. Used
// as an ordinary tag it renders "true" or "false".
type PredicateFunc func(attrs *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) (bool, error)

// Test implements [Predicate].
func (f PredicateFunc) Test(
	attrs *lang.Attributes,
	children []lang.Node,
	ev *Evaluator,
	c *Context,
) (bool, error) {
	return f(attrs, children, ev, c)
}

// Handle implements [Handler].
func (f PredicateFunc) Handle(
	attrs *lang.Attributes,
	children []lang.Node,
	ev *Evaluator,
	c *Context,
) ([]string, error) {
	return predicateHandler{f}.Handle(attrs, children, ev, c)
}

// predicateHandler lets a bare Predicate sit in the registry.
type predicateHandler struct{ Predicate }

func (p predicateHandler) Handle(
	attrs *lang.Attributes,
	children []lang.Node,
	ev *Evaluator,
	c *Context,
) ([]string, error) {
	ok, err := p.Test(attrs, children, ev, c)
	if err != nil {
		return nil, err
	}

	return []string{strconv.FormatBool(ok)}, nil
}
