package lang

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Template {
	t.Helper()

	tmpl, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}

	return tmpl
}

// Parser Tests
// ============================================================================

func TestParse_Tree(t *testing.T) {
	tmpl := mustParse(t, `(a (@ (href "/x") (id $id)) "text $v" bare $var (b))`)

	root := tmpl.Root()
	if root.Name != "a" {
		t.Fatalf("root name = %q, want a", root.Name)
	}

	if got := root.Attributes.Keys(); strings.Join(got, ",") != "href,id" {
		t.Errorf("attribute keys = %v, want [href id]", got)
	}

	if v, _ := root.Attributes.Get("href"); !Equal(v, &Literal{Text: "/x", Quoted: true}) {
		t.Errorf("href = %v", v)
	}

	if v, _ := root.Attributes.Get("id"); !Equal(v, &Variable{Name: "id"}) {
		t.Errorf("id = %v", v)
	}

	want := []Node{
		&Literal{Text: "text $v", Quoted: true},
		&Literal{Text: "bare"},
		&Variable{Name: "var"},
		&Tag{Name: "b"},
	}

	if len(root.Children) != len(want) {
		t.Fatalf("children = %v, want %v", root.Children, want)
	}

	for i := range want {
		if !Equal(root.Children[i], want[i]) {
			t.Errorf("child %d = %v, want %v", i, root.Children[i], want[i])
		}
	}

	if tmpl.Source() == "" {
		t.Error("Source() is empty")
	}
}

func TestParse_ControlFormsAreTags(t *testing.T) {
	tmpl := mustParse(t, `(if (eq $a b) (for i in $l (p $i)) (switch $v (case x y)))`)

	var names []string

	Walk(tmpl.Root(), func(n Node) bool {
		if tag, ok := n.(*Tag); ok {
			names = append(names, tag.Name)
		}

		return true
	})

	if got := strings.Join(names, " "); got != "if eq for p switch case" {
		t.Errorf("tags = %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		line   int
		column int
	}{
		{"empty input", "", ErrUnexpectedToken, 1, 1},
		{"bare atom", "html", ErrUnexpectedToken, 1, 1},
		{"empty form", "()", ErrEmptyForm, 1, 1},
		{"nested empty form", "(p ())", ErrEmptyForm, 1, 4},
		{"missing close", "(html (body)", ErrUnbalancedParens, 1, 1},
		{"missing inner close", "(html\n  (body", ErrUnbalancedParens, 2, 3},
		{"stray close", "(p) )", ErrUnbalancedParens, 1, 5},
		{"leading close", ")", ErrUnbalancedParens, 1, 1},
		{"two roots", "(p) (q)", ErrUnexpectedToken, 1, 5},
		{"trailing atom", "(p) x", ErrUnexpectedToken, 1, 5},
		{"string name", `("p")`, ErrUnexpectedToken, 1, 2},
		{"variable name", `($p)`, ErrUnexpectedToken, 1, 2},
		{"form name", `((p))`, ErrUnexpectedToken, 1, 2},
		{"attributes without name", `((@ (a b)))`, ErrUnexpectedToken, 1, 2},
		{"attributes as head", `(@ (a b))`, ErrInvalidAttributeBlock, 1, 2},
		{"attributes after child", `(p x (@ (a b)))`, ErrInvalidAttributeBlock, 1, 7},
		{"second attribute block", `(p (@ (a b)) (@ (c d)))`, ErrInvalidAttributeBlock, 1, 15},
		{"bare pair", `(p (@ a b))`, ErrInvalidAttributeBlock, 1, 7},
		{"pair missing value", `(p (@ (a)))`, ErrInvalidAttributeBlock, 1, 9},
		{"pair extra value", `(p (@ (a b c)))`, ErrInvalidAttributeBlock, 1, 12},
		{"string key", `(p (@ ("a" b)))`, ErrInvalidAttributeBlock, 1, 8},
		{"form value", `(p (@ (a (b))))`, ErrInvalidAttributeBlock, 1, 10},
		{"duplicate key", `(p (@ (a b) (a c)))`, ErrInvalidAttributeBlock, 1, 13},
		{"unterminated attributes", `(p (@ (a b)`, ErrUnbalancedParens, 1, 4},
		{"unterminated string", `(p "abc)`, ErrUnterminatedString, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Parse(%q) error = %T, want *Error", tt.input, err)
			}

			pos, ok := e.Position()
			if !ok || pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("Parse(%q) position = %v (%v), want %d:%d", tt.input, pos, ok, tt.line, tt.column)
			}

			if !strings.Contains(err.Error(), "line") {
				t.Errorf("Error() = %q, want a location", err.Error())
			}
		})
	}
}

func TestParse_ErrorKindsAreDistinct(t *testing.T) {
	_, err := Parse(t.Context(), "()")

	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want %v", err, ErrParse)
	}

	for _, other := range []error{ErrUnexpectedToken, ErrUnbalancedParens, ErrInvalidAttributeBlock, ErrLex} {
		if errors.Is(err, other) {
			t.Errorf("error = %v also matches %v", err, other)
		}
	}
}

func TestParseReader(t *testing.T) {
	tmpl, err := ParseReader(t.Context(), strings.NewReader("(p (b x))"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	if got := tmpl.String(); got != "(p (b x))" {
		t.Errorf("String() = %q", got)
	}
}

func TestMustParse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse() did not panic on invalid input")
		}
	}()

	MustParse("(")
}

func TestSnippet(t *testing.T) {
	src := "(html\n  (body ())"

	got := Snippet(src, Position{Line: 2, Column: 9})
	want := "  2 |   (body ())\n" +
		strings.Repeat(" ", 6+8) + "^\n"

	if got != want {
		t.Errorf("Snippet() =\n%s\nwant\n%s", got, want)
	}

	if Snippet(src, Position{Line: 9}) != "" {
		t.Error("Snippet() out of range is not empty")
	}
}
