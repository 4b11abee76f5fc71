package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/sxhtml/log"
)

// Option configures parsing.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// ParseReader parses a template from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Template, error) {
	// Wrap reader with async read-ahead so file I/O overlaps with the copy.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses template source text into a [Template].
//
// The source must hold exactly one form. Failures are [ErrLex] or
// [ErrParse] errors carrying the line and column of the offending token.
func Parse(ctx context.Context, src string, opts ...Option) (*Template, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(src)))

	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(toks)),
		slog.String("root", root.Name))

	return &Template{root: root, source: src}, nil
}

// MustParse is like [Parse] but panics on error.
// It is intended for templates embedded in Go source.
func MustParse(src string) *Template {
	t, err := Parse(context.Background(), src)
	if err != nil {
		panic(err)
	}

	return t
}

// parser holds the parser state.
type parser struct {
	toks []Token
	pos  int
}

// parseRoot parses the single top-level form and requires end of input
// after it.
func (p *parser) parseRoot() (*Tag, error) {
	switch tok := p.peek(); tok.Kind {
	case TokenLParen:

	case TokenRParen:
		return nil, unbalanced(tok, "unexpected )")

	default:
		return nil, unexpected(tok, "expected (")
	}

	root, err := p.parseForm()
	if err != nil {
		return nil, err
	}

	switch tok := p.peek(); tok.Kind {
	case TokenEOF:
		return root, nil

	case TokenRParen:
		return nil, unbalanced(tok, "unexpected )")

	default:
		return nil, unexpected(tok, "expected end of input")
	}
}

// parseForm parses: '(' atom (attr-block)? child* ')'.
func (p *parser) parseForm() (*Tag, error) {
	open := p.next()

	head := p.next()

	switch head.Kind {
	case TokenAtom:

	case TokenRParen:
		return nil, ErrEmptyForm.WithPosition(open.Pos)

	case TokenEOF:
		return nil, unbalanced(open, "missing )")

	case TokenAttribute:
		return nil, invalidAttributes(head, "attribute block without tag name")

	default:
		return nil, unexpected(head, "expected tag name")
	}

	tag := &Tag{Name: head.Text, Pos: open.Pos}

	if p.peek().Kind == TokenLParen && p.peekAt(1).Kind == TokenAttribute {
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}

		tag.Attributes = attrs
	}

	for {
		tok := p.peek()

		switch tok.Kind {
		case TokenRParen:
			p.next()

			return tag, nil

		case TokenEOF:
			return nil, unbalanced(open, "missing )")

		case TokenLParen:
			if p.peekAt(1).Kind == TokenAttribute {
				return nil, invalidAttributes(p.peekAt(1),
					"attribute block must follow the tag name")
			}

			child, err := p.parseForm()
			if err != nil {
				return nil, err
			}

			tag.Children = append(tag.Children, child)

		default:
			tag.Children = append(tag.Children, leaf(p.next()))
		}
	}
}

// parseAttributes parses: '(' '@' ('(' atom value ')')* ')'.
func (p *parser) parseAttributes() (*Attributes, error) {
	open := p.next()
	p.next() // @

	attrs := &Attributes{}

	for {
		tok := p.next()

		switch tok.Kind {
		case TokenRParen:
			return attrs, nil

		case TokenEOF:
			return nil, unbalanced(open, "missing )")

		case TokenLParen:
			attr, err := p.parseAttribute(tok)
			if err != nil {
				return nil, err
			}

			if err := attrs.add(attr); err != nil {
				return nil, err
			}

		default:
			return nil, invalidAttributes(tok, "expected (key value)")
		}
	}
}

// parseAttribute parses the remainder of one pair after its '('.
func (p *parser) parseAttribute(open Token) (Attribute, error) {
	key := p.next()

	switch key.Kind {
	case TokenAtom:

	case TokenEOF:
		return Attribute{}, unbalanced(open, "missing )")

	default:
		return Attribute{}, invalidAttributes(key, "attribute key must be an atom")
	}

	val := p.next()

	switch val.Kind {
	case TokenAtom, TokenString, TokenVariable:

	case TokenEOF:
		return Attribute{}, unbalanced(open, "missing )")

	case TokenRParen:
		return Attribute{}, invalidAttributes(val, "missing attribute value").
			With(slog.String("key", key.Text))

	default:
		return Attribute{}, invalidAttributes(val,
			"attribute value must be an atom, string or variable").
			With(slog.String("key", key.Text))
	}

	switch end := p.next(); end.Kind {
	case TokenRParen:
		return Attribute{Key: key.Text, Value: leaf(val), Pos: open.Pos}, nil

	case TokenEOF:
		return Attribute{}, unbalanced(open, "missing )")

	default:
		return Attribute{}, invalidAttributes(end, "expected ) after attribute value").
			With(slog.String("key", key.Text))
	}
}

// leaf converts an atom, string or variable token to its node.
func leaf(tok Token) Node {
	switch tok.Kind {
	case TokenVariable:
		return &Variable{Name: tok.Text, Pos: tok.Pos}

	case TokenString:
		return &Literal{Text: tok.Text, Quoted: true, Pos: tok.Pos}

	default:
		return &Literal{Text: tok.Text, Pos: tok.Pos}
	}
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}

	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return tok
}

func unexpected(tok Token, reason string) *Error {
	return ErrUnexpectedToken.WithPosition(tok.Pos).
		With(slog.String("token", tok.String()), slog.String("reason", reason))
}

func unbalanced(tok Token, reason string) *Error {
	return ErrUnbalancedParens.WithPosition(tok.Pos).
		With(slog.String("reason", reason))
}

func invalidAttributes(tok Token, reason string) *Error {
	return ErrInvalidAttributeBlock.WithPosition(tok.Pos).
		With(slog.String("reason", reason))
}
