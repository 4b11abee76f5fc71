package lang

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that parsing never panics, fails only with lex or parse
// errors, and that every parsed template survives a format round trip.
func FuzzParse(f *testing.F) {
	f.Add(`(html (head (title "basic example")))`)
	f.Add(`(html (body (if (eq $asdf qwer) (for i in $array (div $i)))))`)
	f.Add(`(a (@ (href "/") (id $id)) x)`)
	f.Add(`(p "esc \" \\ \n" $a.b.0 $5 @)`)
	f.Add(`(p (@ (a b) (a c)))`)
	f.Add(`((`)
	f.Add(`)`)
	f.Add(`"`)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tmpl, err := Parse(t.Context(), input)
		if err != nil {
			if !errors.Is(err, ErrParse) && !errors.Is(err, ErrLex) {
				t.Fatalf("Parse(%q) error = %v, want a lex or parse error", input, err)
			}

			return
		}

		var buf bytes.Buffer
		if err := tmpl.Format(t.Context(), &buf, 2); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		again, err := Parse(t.Context(), buf.String())
		if err != nil {
			t.Fatalf("Parse(Format(%q)) error = %v\n%s", input, err, buf.String())
		}

		if !Equal(tmpl.Root(), again.Root()) {
			t.Fatalf("round trip of %q changed the tree:\n%s", input, buf.String())
		}
	})
}
