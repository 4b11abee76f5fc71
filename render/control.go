package render

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/sxhtml/lang"
)

// writeIf renders (if condition then [else]).
func (ev *Evaluator) writeIf(sb *strings.Builder, t *lang.Tag, c *Context) error {
	if n := len(t.Children); n < 2 || n > 3 {
		return malformed(t, "want a condition, a branch and an optional else branch")
	}

	ok, err := ev.Test(t.Children[0], c)
	if err != nil {
		return err
	}

	switch {
	case ok:
		return ev.write(sb, t.Children[1], c)
	case len(t.Children) == 3:
		return ev.write(sb, t.Children[2], c)
	default:
		return nil
	}
}

// loop describes one for form after its shape has been recognized.
type loop struct {
	body  []lang.Node
	item  string // list element or map value
	key   string // map key
	index string // list position
	coll  lang.Node
	// range bounds, used when coll is nil
	min, max, step int
	pairs          bool // the shape names a key and a value
	named          bool // a bare atom in coll names a variable
}

// writeFor renders any of the for shapes:
//
//	(for item in $list body...)
//	(for key val in $map body...)
//	(for (@ (var item) (index i) (iterate $list)) body...)
//	(for (@ (key k) (value v) (iterate $map)) body...)
//	(for (@ (var i) (min 0) (max 10) (step 2)) body...)
func (ev *Evaluator) writeFor(sb *strings.Builder, t *lang.Tag, c *Context) error {
	var (
		l   loop
		err error
	)

	if t.Attributes.Len() > 0 {
		l, err = ev.attributeLoop(t, c)
	} else {
		l, err = positionalLoop(t)
	}

	if err != nil {
		return err
	}

	if l.coll == nil {
		for i := l.min; i < l.max; i += l.step {
			if err := ev.iterate(sb, l.body, c.With(l.item, Scalar(strconv.Itoa(i)))); err != nil {
				return err
			}

			// max-i as unsigned is exact for i < max, so i+step never wraps.
			if uint(l.step) >= uint(l.max)-uint(i) {
				break
			}
		}

		return nil
	}

	coll, err := ev.collection(l.coll, l.named, c)
	if err != nil {
		return err
	}

	switch {
	case coll.Kind() == KindList && !l.pairs:
		for i, item := range coll.items {
			scope := c.With(l.item, item)
			if l.index != "" {
				scope.Bind(l.index, Scalar(strconv.Itoa(i)))
			}

			if err := ev.iterate(sb, l.body, scope); err != nil {
				return err
			}
		}

	case coll.Kind() == KindMap && l.pairs:
		for _, e := range coll.entries {
			scope := c.Push()
			if l.key != "" {
				scope.Bind(l.key, Scalar(e.Key))
			}

			if l.item != "" {
				scope.Bind(l.item, e.Value)
			}

			if err := ev.iterate(sb, l.body, scope); err != nil {
				return err
			}
		}

	case l.pairs:
		return mismatch("map", coll.Kind(), l.coll.Position())

	default:
		return mismatch("list", coll.Kind(), l.coll.Position())
	}

	return nil
}

func (ev *Evaluator) iterate(sb *strings.Builder, body []lang.Node, scope *Context) error {
	for _, n := range body {
		if err := ev.write(sb, n, scope); err != nil {
			return err
		}
	}

	return nil
}

// collection resolves the iterated node. When named is set a bare atom
// names a variable.
func (ev *Evaluator) collection(n lang.Node, named bool, c *Context) (Value, error) {
	if l, ok := n.(*lang.Literal); ok && named && !l.Quoted && isName(l.Text) {
		v, found := c.Lookup(l.Text)
		if !found {
			return Value{}, undefined(l.Text, l.Pos)
		}

		return v, nil
	}

	return ev.Resolve(n, c)
}

func positionalLoop(t *lang.Tag) (loop, error) {
	var l loop

	in := -1

	for i := 1; i <= 2 && i < len(t.Children); i++ {
		if isKeyword(t.Children[i], "in") {
			in = i

			break
		}
	}

	if in < 0 {
		return l, malformed(t, "missing in")
	}

	if in+1 >= len(t.Children) {
		return l, malformed(t, "missing collection after in")
	}

	names := make([]string, in)

	for i := range names {
		name, ok := loopName(t.Children[i])
		if !ok {
			return l, malformed(t, "loop variable is not a name")
		}

		names[i] = name
	}

	l.coll = t.Children[in+1]
	l.body = t.Children[in+2:]

	if in == 2 {
		l.pairs = true
		l.key, l.item = names[0], names[1]
	} else {
		l.item = names[0]
	}

	return l, nil
}

func (ev *Evaluator) attributeLoop(t *lang.Tag, c *Context) (loop, error) {
	l := loop{body: t.Children}
	attrs := t.Attributes

	names := map[string]*string{"var": &l.item, "index": &l.index, "key": &l.key}
	for attr, dst := range names {
		if n, ok := attrs.Get(attr); ok {
			name, ok := loopName(n)
			if !ok {
				return l, malformed(t, attr+" is not a name")
			}

			*dst = name
		}
	}

	if n, ok := attrs.Get("value"); ok {
		name, ok := loopName(n)
		if !ok {
			return l, malformed(t, "value is not a name")
		}

		l.pairs = true
		l.item = name
	}

	if l.key != "" {
		l.pairs = true
	}

	if n, ok := attrs.Get("iterate"); ok {
		if l.pairs && l.index != "" {
			return l, malformed(t, "index applies to lists only")
		}

		if !l.pairs && l.item == "" {
			return l, malformed(t, "missing var")
		}

		l.coll = n
		l.named = true

		return l, nil
	}

	if l.item == "" {
		return l, malformed(t, "missing var")
	}

	var err error

	bounds := []struct {
		attr string
		dst  *int
		def  string
	}{
		{"min", &l.min, ""},
		{"max", &l.max, ""},
		{"step", &l.step, "1"},
	}

	for _, b := range bounds {
		if *b.dst, err = ev.bound(t, b.attr, b.def, c); err != nil {
			return l, err
		}
	}

	if l.step <= 0 {
		return l, malformed(t, "step must be positive")
	}

	return l, nil
}

// bound reads an integer attribute of a range loop.
func (ev *Evaluator) bound(t *lang.Tag, attr, def string, c *Context) (int, error) {
	text := def

	if n, ok := t.Attributes.Get(attr); ok {
		s, err := ev.Text(n, c)
		if err != nil {
			return 0, err
		}

		text = s
	}

	if text == "" {
		return 0, malformed(t, "missing iterate or "+attr)
	}

	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrMalformedControlForm.WithPosition(t.Pos).
			With(slog.String("tag", t.Name), slog.String("reason", attr+" is not an integer")).
			Wrap(err)
	}

	return i, nil
}

// writeSwitch renders (switch scrutinee (case label body...)...).
func (ev *Evaluator) writeSwitch(sb *strings.Builder, t *lang.Tag, c *Context) error {
	if len(t.Children) == 0 {
		return malformed(t, "missing scrutinee")
	}

	cases := make([]*lang.Tag, 0, len(t.Children)-1)

	for _, n := range t.Children[1:] {
		cs, ok := n.(*lang.Tag)
		if !ok || cs.Name != tagCase {
			return malformed(t, "child is not a case")
		}

		if len(cs.Children) == 0 {
			return malformed(cs, "missing label")
		}

		cases = append(cases, cs)
	}

	want, err := ev.Text(t.Children[0], c)
	if err != nil {
		return err
	}

	for _, cs := range cases {
		label, err := ev.Text(cs.Children[0], c)
		if err != nil {
			return err
		}

		if label == want {
			return ev.iterate(sb, cs.Children[1:], c)
		}
	}

	return nil
}

func isKeyword(n lang.Node, word string) bool {
	l, ok := n.(*lang.Literal)

	return ok && !l.Quoted && l.Text == word
}

func loopName(n lang.Node) (string, bool) {
	l, ok := n.(*lang.Literal)
	if !ok || l.Quoted || !isName(l.Text) {
		return "", false
	}

	return l.Text, true
}

func isName(s string) bool {
	return s != "" && lang.ScanIdentifier(s) == len(s)
}
