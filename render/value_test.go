package render

import (
	"errors"
	"testing"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Scalar("")},
		{"string", "x", Scalar("x")},
		{"bool", true, Scalar("true")},
		{"int", 42, Scalar("42")},
		{"int8", int8(-3), Scalar("-3")},
		{"uint16", uint16(7), Scalar("7")},
		{"float", 1.5, Scalar("1.5")},
		{"float32", float32(0.25), Scalar("0.25")},
		{"stringer", label("a"), Scalar("label:a")},
		{"strings", []string{"a", "b"}, Strings("a", "b")},
		{"mixed list", []any{"a", 1, []int{2}}, List(Scalar("a"), Scalar("1"), Strings("2"))},
		{
			"map sorted by key",
			map[string]any{"b": 2, "a": []string{"x"}},
			Map(Entry{Key: "a", Value: Strings("x")}, Entry{Key: "b", Value: Scalar("2")}),
		},
		{"value", Strings("q"), Strings("q")},
		{"pointer", new(int), Scalar("0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if err != nil {
				t.Fatalf("FromAny() error = %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("FromAny() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	for _, in := range []any{map[int]string{1: "a"}, func() {}, make(chan int)} {
		if _, err := FromAny(in); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("FromAny(%T) error = %v, want %v", in, err, ErrUnsupportedValue)
		}
	}
}

func TestValue(t *testing.T) {
	m := Map(
		Entry{Key: "b", Value: Scalar("1")},
		Entry{Key: "a", Value: Scalar("2")},
		Entry{Key: "b", Value: Scalar("3")},
	)

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	if e := m.Entries(); e[0].Key != "b" || e[1].Key != "a" {
		t.Errorf("Entries() order = %v, want b then a", e)
	}

	if v, _ := m.Get("b"); !Equal(v, Scalar("3")) {
		t.Errorf("Get(b) = %v, want 3", v)
	}

	if got := m.String(); got != "{b: 3, a: 2}" {
		t.Errorf("String() = %q", got)
	}

	l := List(Scalar("x"), m)
	if got := l.String(); got != "[x {b: 3, a: 2}]" {
		t.Errorf("String() = %q", got)
	}

	if _, ok := l.Index(2); ok {
		t.Error("Index(2) out of range succeeded")
	}

	if _, ok := l.Text(); ok {
		t.Error("Text() on a list succeeded")
	}

	items := l.Items()
	items[0] = Scalar("changed")

	if v, _ := l.Index(0); !Equal(v, Scalar("x")) {
		t.Error("Items() exposed the backing slice")
	}

	var zero Value
	if s, ok := zero.Text(); !ok || s != "" {
		t.Errorf("zero Text() = %q, %v; want empty scalar", s, ok)
	}

	if Equal(Scalar("1"), Strings("1")) {
		t.Error("Equal() matched different kinds")
	}
}

func TestContext(t *testing.T) {
	root := NewContext(Entry{Key: "$a", Value: Scalar("1")}).
		Insert("m", Map(Entry{Key: "k", Value: Map(Entry{Key: "j", Value: Scalar("deep")})}))

	child := root.Push()
	child.Bind("a", Scalar("2"))
	child.Bind("b", Scalar("3"))

	t.Run("shadowing", func(t *testing.T) {
		if v, _ := child.Lookup("a"); !Equal(v, Scalar("2")) {
			t.Errorf("child Lookup(a) = %v, want 2", v)
		}

		if v, _ := root.Lookup("$a"); !Equal(v, Scalar("1")) {
			t.Errorf("root Lookup(a) = %v, want 1", v)
		}

		if root.IsSet("b") {
			t.Error("child binding visible in parent")
		}
	})

	t.Run("pop", func(t *testing.T) {
		if child.Pop() != root {
			t.Error("Pop() did not return the parent")
		}

		if root.Pop() != nil {
			t.Error("Pop() on the root returned a scope")
		}
	})

	t.Run("dotted", func(t *testing.T) {
		if v, _ := child.Lookup("m.k.j"); !Equal(v, Scalar("deep")) {
			t.Errorf("Lookup(m.k.j) = %v, want deep", v)
		}

		if child.IsSet("m.k.x") || child.IsSet("a.b") {
			t.Error("IsSet() found a missing path")
		}

		verbatim := child.With("m.k.j", Scalar("flat"))
		if v, _ := verbatim.Lookup("m.k.j"); !Equal(v, Scalar("flat")) {
			t.Errorf("Lookup(m.k.j) = %v, want the verbatim binding", v)
		}
	})

	t.Run("clone", func(t *testing.T) {
		clone := child.Clone()
		clone.Bind("c", Scalar("4"))
		clone.Pop().Bind("a", Scalar("9"))

		if child.IsSet("c") {
			t.Error("clone binding visible in source")
		}

		if v, _ := root.Lookup("a"); !Equal(v, Scalar("1")) {
			t.Errorf("source root changed to %v", v)
		}

		if clone.Depth() != child.Depth() {
			t.Errorf("clone Depth() = %d, want %d", clone.Depth(), child.Depth())
		}
	})

	t.Run("names", func(t *testing.T) {
		want := []string{"a", "b", "m"}

		got := child.Names()
		if len(got) != len(want) {
			t.Fatalf("Names() = %v, want %v", got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Names() = %v, want %v", got, want)
			}
		}
	})
}
