package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize converts template source into its token sequence.
// The returned slice always ends with a [TokenEOF] token.
func Tokenize(src string) ([]Token, error) {
	lx := newLexer(src)

	toks := make([]Token, 0, len(src)/4+1)

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// lexer holds the scanning state for one source text.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
	prev  TokenKind // kind of the previously emitted token
}

func newLexer(src string) *lexer {
	return &lexer{
		input: []byte(src),
		line:  1,
		col:   1,
		prev:  TokenEOF,
	}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()

	pos := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	var tok Token

	switch l.peek() {
	case '(':
		l.advance()

		tok = Token{Kind: TokenLParen, Text: "(", Pos: pos}

	case ')':
		l.advance()

		tok = Token{Kind: TokenRParen, Text: ")", Pos: pos}

	case '"':
		text, err := l.scanString()
		if err != nil {
			return Token{}, err
		}

		tok = Token{Kind: TokenString, Text: text, Pos: pos}

	default:
		text := l.scanAtom()

		switch {
		case text == "@" && l.prev == TokenLParen:
			tok = Token{Kind: TokenAttribute, Text: text, Pos: pos}

		case isVariable(text):
			tok = Token{Kind: TokenVariable, Text: text[1:], Pos: pos}

		default:
			tok = Token{Kind: TokenAtom, Text: text, Pos: pos}
		}
	}

	l.prev = tok.Kind

	return tok, nil
}

// scanString consumes a double-quoted string and returns its contents.
// Only \" and \\ are escapes; any other backslash is kept as written.
func (l *lexer) scanString() (string, error) {
	start := l.position()

	l.advance() // opening quote

	var sb strings.Builder

	for !l.eof() {
		r := l.peek()

		switch r {
		case '"':
			l.advance()

			return sb.String(), nil

		case '\\':
			l.advance()

			if l.eof() {
				return "", ErrUnterminatedString.WithPosition(start)
			}

			if n := l.peek(); n == '"' || n == '\\' {
				sb.WriteRune(n)
				l.advance()

				continue
			}

			sb.WriteRune('\\')

		default:
			sb.WriteRune(r)
			l.advance()
		}
	}

	return "", ErrUnterminatedString.WithPosition(start)
}

// scanAtom consumes a run of characters up to the next delimiter.
func (l *lexer) scanAtom() string {
	start := l.pos

	for !l.eof() && !isDelimiter(l.peek()) {
		l.advance()
	}

	return string(l.input[start:l.pos])
}

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Character classification

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == '"' || unicode.IsSpace(r)
}

func isVariable(text string) bool {
	return len(text) > 1 && text[0] == '$' &&
		ScanIdentifier(text[1:]) == len(text)-1
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ScanIdentifier returns the byte length of the longest variable name at
// the start of s, or 0 if s does not begin with one.
//
// A name is one or more segments separated by '.'. The first segment starts
// with a letter or '_'; later segments may also start with a digit. A '-'
// is part of a segment only when another identifier character follows it,
// so "$name-" ends before the hyphen and "$name." ends before the dot.
func ScanIdentifier(s string) int {
	r, size := utf8.DecodeRuneInString(s)
	if !isIdentifierStart(r) {
		return 0
	}

	end := scanSegment(s, size)

	for end < len(s) && s[end] == '.' {
		r, size := utf8.DecodeRuneInString(s[end+1:])
		if !isIdentifierContinue(r) {
			break
		}

		end = scanSegment(s, end+1+size)
	}

	return end
}

// scanSegment extends a segment that already spans s[:i].
func scanSegment(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case isIdentifierContinue(r):
			i += size

		case r == '-':
			n, nsize := utf8.DecodeRuneInString(s[i+size:])
			if !isIdentifierContinue(n) {
				return i
			}

			i += size + nsize

		default:
			return i
		}
	}

	return i
}
