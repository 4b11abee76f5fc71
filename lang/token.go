package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

import "strconv"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF       TokenKind = iota // end of input
	TokenLParen                     // (
	TokenRParen                     // )
	TokenAtom                       // atom
	TokenString                     // string
	TokenVariable                   // variable
	TokenAttribute                  // @
)

// Position identifies a location in template source.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit of template source.
//
// Text holds the atom spelling, the unescaped string contents or the
// variable name without its leading '$'.
type Token struct {
	Text string
	Pos  Position
	Kind TokenKind
}

// String returns a human-readable description used in error messages.
func (t Token) String() string {
	switch t.Kind {
	case TokenAtom:
		return t.Text
	case TokenString:
		return strconv.Quote(t.Text)
	case TokenVariable:
		return "$" + t.Text
	default:
		return t.Kind.String()
	}
}
