package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/sxhtml/render"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "yaml order",
			input: "title: home\nitems: [b, a]\nuser:\n  name: ann\n  age: 30\n",
			want:  `{title: home, items: [b a], user: {name: ann, age: 30}}`,
		},
		{
			name:  "json",
			input: `{"zeta": true, "alpha": [1, "two"]}`,
			want:  `{zeta: true, alpha: [1 two]}`,
		},
		{
			name:  "null",
			input: "empty: null\n",
			want:  `{empty: }`,
		},
		{
			name:  "empty document",
			input: "",
			want:  `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Decode(t.Context(), strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if got := render.Map(entries...).String(); got != tt.want {
				t.Errorf("Decode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "sequence root", input: "- a\n- b\n", want: ErrNotMapping},
		{name: "scalar root", input: "hello", want: ErrNotMapping},
		{name: "malformed", input: "a: [b\n", want: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(t.Context(), strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, ErrData) {
				t.Errorf("Decode() error = %v, want kind %v", err, ErrData)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	if err := os.WriteFile(path, []byte("name: sx\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	entries, err := DecodeFile(t.Context(), path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}

	if len(entries) != 1 || entries[0].Key != "name" {
		t.Fatalf("DecodeFile() = %v, want one entry named name", entries)
	}

	_, err = DecodeFile(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("DecodeFile(missing) error = %v, want %v", err, ErrReadSource)
	}
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		input   string
		want    Binding
		wantErr bool
	}{
		{input: `x=1 + 2`, want: Binding{Name: "x", Source: "1 + 2"}},
		{input: ` greeting ="hi"`, want: Binding{Name: "greeting", Source: `"hi"`}},
		{input: `eq=a == b`, want: Binding{Name: "eq", Source: "a == b"}},
		{input: `noequals`, wantErr: true},
		{input: `=1`, wantErr: true},
		{input: `a.b=1`, wantErr: true},
		{input: `1a=1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBinding(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrBinding) {
					t.Fatalf("ParseBinding() error = %v, want %v", err, ErrBinding)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseBinding() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("ParseBinding() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBinding_Eval(t *testing.T) {
	t.Setenv("SXHTML_TEST_VAR", "from-env")

	c := render.NewContext().
		Insert("name", render.Scalar("bob")).
		Insert("items", render.Strings("a", "b")).
		Insert("user", render.Map(render.Entry{Key: "role", Value: render.Scalar("admin")}))

	tests := []struct {
		source string
		want   string
	}{
		{source: `"hi " + name`, want: "hi bob"},
		{source: `len(items)`, want: "2"},
		{source: `user.role == "admin"`, want: "true"},
		{source: `map(items, upper(#))`, want: "[A B]"},
		{source: `env.SXHTML_TEST_VAR`, want: "from-env"},
		{source: `{"b": 1, "a": 2}`, want: "{a: 2, b: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := Binding{Name: "out", Source: tt.source}.Eval(c)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("Eval() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBinding_Eval_Errors(t *testing.T) {
	for _, source := range []string{`1 +`, `undefined_name`, `1 / nil`} {
		t.Run(source, func(t *testing.T) {
			_, err := Binding{Name: "out", Source: source}.Eval(render.NewContext())
			if !errors.Is(err, ErrExpression) {
				t.Fatalf("Eval() error = %v, want %v", err, ErrExpression)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	db, err := OpenDB(t.Context(), ":memory:")
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE posts (id INTEGER, title TEXT, body BLOB, note TEXT)`,
		`INSERT INTO posts VALUES (1, 'first', x'6869', NULL)`,
		`INSERT INTO posts VALUES (2, 'second', x'', 'n')`,
	} {
		if _, err := db.ExecContext(t.Context(), stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	got, err := Query(t.Context(), db, `SELECT id, title, body, note FROM posts ORDER BY id`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := `[{id: 1, title: first, body: hi, note: } {id: 2, title: second, body: , note: n}]`
	if got.String() != want {
		t.Errorf("Query() = %s, want %s", got, want)
	}

	_, err = Query(t.Context(), db, `SELECT * FROM missing`)
	if !errors.Is(err, ErrQuery) {
		t.Errorf("Query(missing) error = %v, want %v", err, ErrQuery)
	}
}

type failSource struct{ err error }

func (f failSource) String() string { return "fail" }

func (f failSource) Load(context.Context, *render.Context) error { return f.err }

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("title: blog\nposts: [a, b, c]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := NewLoader().Load(t.Context(),
		File(path),
		Reader{Name: "inline", R: strings.NewReader(`{"title": "override"}`)},
		Expr{Name: "count", Source: `len(posts)`},
		Expr{Name: "heading", Source: `title + " (" + string(count) + ")"`},
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	v, ok := c.Lookup("heading")
	if !ok {
		t.Fatal("heading is not bound")
	}

	if s, _ := v.Text(); s != "override (3)" {
		t.Errorf("heading = %q, want %q", s, "override (3)")
	}
}

func TestLoader_Load_Errors(t *testing.T) {
	first := ErrBinding.Wrap(errors.New("first"))
	second := ErrQuery.Wrap(errors.New("second"))

	t.Run("stop", func(t *testing.T) {
		_, err := NewLoader().Load(t.Context(), failSource{first}, failSource{second})
		if !errors.Is(err, ErrBinding) || errors.Is(err, ErrQuery) {
			t.Fatalf("Load() error = %v, want only the first failure", err)
		}
	})

	t.Run("continue", func(t *testing.T) {
		_, err := NewLoader(WithContinue(true)).
			Load(t.Context(), failSource{first}, failSource{second})
		if !errors.Is(err, ErrBinding) || !errors.Is(err, ErrQuery) {
			t.Fatalf("Load() error = %v, want both failures", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := NewLoader().Load(ctx, Expr{Name: "x", Source: "1"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Load() error = %v, want %v", err, context.Canceled)
		}
	})
}
