// Package data loads template variables from YAML and JSON documents,
// expr-lang expressions and SQLite queries.
//
// Sources are applied in order by a [Loader]; each may refer to variables
// bound by the sources before it.
package data
