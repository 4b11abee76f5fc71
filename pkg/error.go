package pkg

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Error is a flattened chain of errors, innermost first. It matches every
// error in the chain with [errors.Is] and [errors.As].
type Error []error

// MakeError flattens errs, skipping nils, into an Error. The result is nil
// when every argument is nil.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf returns an Error holding one formatted error.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the messages of the outermost errors with "; ". An error
// wrapped by a later error in the chain is not repeated.
func (e Error) Error() string {
	msgs := make([]string, 0, len(e))

	for i, err := range e {
		if slices.ContainsFunc(e[i+1:], func(outer error) bool { return wraps(outer, err) }) {
			continue
		}

		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "; ")
}

// wraps reports whether outer directly wraps inner.
func wraps(outer, inner error) bool {
	switch o := outer.(type) {
	case interface{ Unwrap() error }:
		return same(o.Unwrap(), inner)
	case interface{ Unwrap() []error }:
		return slices.ContainsFunc(o.Unwrap(), func(err error) bool { return same(err, inner) })
	}

	return false
}

// same compares errors without panicking on uncomparable dynamic types.
func same(a, b error) bool {
	ta := reflect.TypeOf(a)

	return ta == reflect.TypeOf(b) && ta != nil && ta.Comparable() && a == b
}

// Wrap appends errs to the chain.
func (e Error) Wrap(errs ...error) Error {
	return append(e, errs...)
}

// Wrapf appends a formatted error to the chain.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the errors in the chain.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors returns err and every error it wraps, innermost first. An
// Error contributes its elements but not itself.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok { //nolint:errorlint
		var chain Error
		for _, wrapped := range e {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		return chain
	}

	var chain Error

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
