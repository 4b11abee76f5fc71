package render

import (
	"log/slog"

	"github.com/ardnew/sxhtml/lang"
)

// builtins returns a fresh registry holding the built-in predicates.
func builtins() map[string]Handler {
	return map[string]Handler{
		"is-set": PredicateFunc(isSet),
		"eq":     PredicateFunc(equal(true)),
		"ne":     PredicateFunc(equal(false)),
		"not":    PredicateFunc(not),
		"and":    PredicateFunc(junction(false)),
		"or":     PredicateFunc(junction(true)),
	}
}

// arity reports a predicate called with the wrong number of operands.
// Predicates see only their children, so the error names the expectation.
func arity(want string, got int) error {
	return ErrMalformedControlForm.
		With(slog.String("reason", "want "+want+" operands"), slog.Int("operands", got))
}

// isSet reports whether its single variable operand is bound.
func isSet(_ *lang.Attributes, children []lang.Node, _ *Evaluator, c *Context) (bool, error) {
	if len(children) != 1 {
		return false, arity("1", len(children))
	}

	switch n := children[0].(type) {
	case *lang.Variable:
		return c.IsSet(n.Name), nil
	default:
		return false, ErrInvalidCondition.WithPosition(n.Position()).
			With(slog.String("reason", "is-set wants a variable"), slog.String("operand", n.String()))
	}
}

// equal compares the text of two operands.
func equal(want bool) PredicateFunc {
	return func(_ *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) (bool, error) {
		if len(children) != 2 {
			return false, arity("2", len(children))
		}

		a, err := ev.Text(children[0], c)
		if err != nil {
			return false, err
		}

		b, err := ev.Text(children[1], c)
		if err != nil {
			return false, err
		}

		return (a == b) == want, nil
	}
}

func not(_ *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) (bool, error) {
	if len(children) != 1 {
		return false, arity("1", len(children))
	}

	ok, err := ev.Test(children[0], c)

	return !ok, err
}

// junction evaluates its operands as conditions left to right and stops at
// the first one equal to stop.
func junction(stop bool) PredicateFunc {
	return func(_ *lang.Attributes, children []lang.Node, ev *Evaluator, c *Context) (bool, error) {
		if len(children) == 0 {
			return false, arity("at least 1", 0)
		}

		for _, n := range children {
			ok, err := ev.Test(n, c)
			if err != nil {
				return false, err
			}

			if ok == stop {
				return stop, nil
			}
		}

		return !stop, nil
	}
}
