package render

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/ardnew/sxhtml/lang"
)

// Render errors (sentinel values). Every error returned by a render matches
// [ErrRender] and exactly one of the specific kinds under [errors.Is].
var (
	ErrRender                 = lang.NewError("render error")
	ErrUndefinedVariable      = ErrRender.Derive("undefined variable")
	ErrTypeMismatch           = ErrRender.Derive("type mismatch")
	ErrInvalidCondition       = ErrRender.Derive("invalid condition")
	ErrHandler                = ErrRender.Derive("handler failed")
	ErrMalformedControlForm   = ErrRender.Derive("malformed control form")
	ErrRecursionLimitExceeded = ErrRender.Derive("recursion limit exceeded")
)

// Library and conversion errors.
var (
	ErrUnknownTemplate  = lang.NewError("unknown template")
	ErrUnsupportedValue = lang.NewError("unsupported value type")
)

func undefined(name string, pos lang.Position) error {
	return ErrUndefinedVariable.WithPosition(pos).
		With(slog.String("name", name))
}

func mismatch(expected string, found Kind, pos lang.Position) *lang.Error {
	return ErrTypeMismatch.WithPosition(pos).
		With(slog.String("expected", expected), slog.String("found", found.String()))
}

func malformed(t *lang.Tag, reason string) error {
	return ErrMalformedControlForm.WithPosition(t.Pos).
		With(slog.String("tag", t.Name), slog.String("reason", reason))
}

// handlerError passes render errors through and wraps anything else as
// [ErrHandler]. A render error without a position gets the tag's.
func handlerError(t *lang.Tag, err error) error {
	if errors.Is(err, ErrRender) {
		if e, ok := err.(*lang.Error); ok { //nolint:errorlint // only the outermost error is annotated
			if _, placed := e.Position(); !placed {
				return e.WithPosition(t.Pos).With(slog.String("tag", t.Name))
			}
		}

		return err
	}

	return ErrHandler.WithPosition(t.Pos).
		With(slog.String("tag", t.Name)).
		Wrap(err)
}

func typeAttr(t reflect.Type) slog.Attr {
	return slog.String("type", t.String())
}
