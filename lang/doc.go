// Package lang parses the sxhtml template language: S-expressions that
// describe an HTML tree.
//
// # Grammar
//
// Informal EBNF:
//
//	form        → '(' atom attr-block? child* ')'
//	attr-block  → '(' '@' attr-pair* ')'
//	attr-pair   → '(' atom value ')'
//	child       → form | literal | variable
//	literal     → string | atom
//	variable    → '$' identifier
//	value       → atom | string | variable
//
// Atoms are runs of characters up to whitespace, a parenthesis or a double
// quote. Strings are double-quoted; \" and \\ are the only escapes. A
// variable name is one or more identifiers joined by '.', walking nested
// maps at render time.
//
// # Example
//
//	(html
//	  (head (title "posted by $author"))
//	  (body (@ (class $theme))
//	    (for post in $posts
//	      (article (h2 $post.title) (p $post.body)))))
//
// A template is exactly one form. [Parse] returns an immutable [*Template]
// that may be rendered any number of times, concurrently. [Cache] shares
// parsed templates between callers that parse the same text.
//
// # Errors
//
// Failures are [*Error] values matching [ErrLex] or [ErrParse] (and the
// specific kind such as [ErrUnbalancedParens]) under [errors.Is]. They carry
// the line and column of the offending token; [Snippet] renders the source
// line with a caret.
package lang
