package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Lexer and parser errors (sentinel values).
var (
	ErrLex                   = NewError("lex error")
	ErrUnterminatedString    = ErrLex.Derive("unterminated string")
	ErrParse                 = NewError("parse error")
	ErrUnexpectedToken       = ErrParse.Derive("unexpected token")
	ErrUnbalancedParens      = ErrParse.Derive("unbalanced parentheses")
	ErrEmptyForm             = ErrParse.Derive("empty form")
	ErrInvalidAttributeBlock = ErrParse.Derive("invalid attribute block")
	ErrReadInput             = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Every Error derived from a sentinel through [Error.With], [Error.Wrap] or
// [Error.Derive] matches that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	kind  *Error      // Sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Derive returns a new sentinel that refines e. Errors of the new kind also
// match e with [errors.Is].
func (e *Error) Derive(msg string) *Error {
	return &Error{msg: e.msg + ": " + msg, kind: e}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if loc := e.location(); loc != "" {
		part[len(part)-1] += " " + loc
	}

	for _, a := range e.attrs {
		switch a.Key {
		case "line", "column":
		default:
			part = append(part, a.Key+"="+strconv.Quote(a.Value.String()))
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) location() string {
	if e.msg == "" {
		return ""
	}

	line, lok := e.Attr("line")
	col, cok := e.Attr("column")

	if !lok || !cok {
		return ""
	}

	return "at line " + line.String() + ", column " + col.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, at any
// level of derivation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for k := e; k != nil; k = k.kind {
		if k == t {
			return true
		}
	}

	return false
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		kind:  e.sentinel(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		kind:  e.sentinel(),
	}
}

// WithPosition attaches the line and column of pos.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
}

// Position returns the source position attached with [Error.WithPosition].
func (e *Error) Position() (Position, bool) {
	line, lok := e.Attr("line")
	col, cok := e.Attr("column")

	if !lok || !cok {
		return Position{}, false
	}

	return Position{Line: int(line.Int64()), Column: int(col.Int64())}, true
}

// sentinel returns the error that derived instances should match.
// Sentinels are the errors without attributes or a cause.
func (e *Error) sentinel() *Error {
	if e.err == nil && len(e.attrs) == 0 {
		return e
	}

	return e.kind
}

// Snippet renders the source line containing pos with a caret under the
// offending column.
func Snippet(source string, pos Position) string {
	lines := strings.Split(source, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[pos.Line-1])
	src.WriteRune('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
