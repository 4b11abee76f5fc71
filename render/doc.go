// Package render evaluates parsed templates into HTML.
//
// A [Renderer] walks a [lang.Template] against a [Context] of bound
// [Value]s and writes markup in document order:
//
//   - literals are written with their $name markers replaced by scalar
//     text;
//   - a $variable writes its scalar text;
//   - if, for and switch are control forms;
//   - a tag registered with [WithFunction] calls its [Handler];
//   - any other tag becomes an element, self-closing when it has no
//     children.
//
// A root html element is preceded by [DefaultDoctype].
//
// # Handlers
//
// A [Handler] receives its tag's attributes and children unevaluated, an
// [Evaluator] one level deeper than the caller and a fresh child scope. It
// renders what it needs through the Evaluator and returns fragments that
// are written in order. A [Predicate] is a handler that can serve as an if
// condition; is-set, eq, ne, not, and and or are built in.
//
// Nested handler calls are limited by [WithMaxDepth], which also bounds
// cyclic template composition through [Library].
//
// # Errors
//
// Every render failure matches [ErrRender] and one of its kinds:
// [ErrUndefinedVariable], [ErrTypeMismatch], [ErrInvalidCondition],
// [ErrHandler], [ErrMalformedControlForm] or [ErrRecursionLimitExceeded].
// Rendering stops at the first error and returns no output.
package render
