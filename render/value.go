package render

//go:generate go tool stringer --linecomment --type Kind --output value_string.go

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindScalar Kind = iota // scalar
	KindList               // list
	KindMap                // map
)

// Value is runtime data bound in a [Context]: a scalar string, an ordered
// list of values, or an ordered map with unique string keys.
//
// The zero Value is the empty scalar. Values are immutable; accessors
// return copies of any backing slices.
type Value struct {
	text    string
	items   []Value
	entries []Entry
	kind    Kind
	markup  bool
}

// Entry is one key/value pair of a map [Value].
type Entry struct {
	Key   string
	Value Value
}

// Scalar returns a scalar value.
func Scalar(s string) Value {
	return Value{kind: KindScalar, text: s}
}

// Markup returns a scalar holding rendered HTML. Its text is never escaped
// when substituted.
func Markup(s string) Value {
	return Value{kind: KindScalar, text: s, markup: true}
}

// IsMarkup reports whether v was created by [Markup].
func (v Value) IsMarkup() bool { return v.markup }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	return Value{kind: KindList, items: slices.Clone(items)}
}

// Strings returns a list of scalars.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = Scalar(s)
	}

	return Value{kind: KindList, items: items}
}

// Map returns a map value holding entries in order. When a key repeats,
// the later value replaces the earlier one at the earlier position.
func Map(entries ...Entry) Value {
	m := Value{kind: KindMap, entries: make([]Entry, 0, len(entries))}

	for _, e := range entries {
		if i := m.index(e.Key); i >= 0 {
			m.entries[i].Value = e.Value

			continue
		}

		m.entries = append(m.entries, e)
	}

	return m
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string of a scalar.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindScalar
}

// Len returns the number of list items or map entries; 0 for a scalar.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	default:
		return 0
	}
}

// Items returns the elements of a list.
func (v Value) Items() []Value {
	return slices.Clone(v.items)
}

// Entries returns the entries of a map in stored order.
func (v Value) Entries() []Entry {
	return slices.Clone(v.entries)
}

// Get returns the value stored under key in a map.
func (v Value) Get(key string) (Value, bool) {
	if i := v.index(key); i >= 0 {
		return v.entries[i].Value, true
	}

	return Value{}, false
}

// Index returns the i-th element of a list.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.items) {
		return Value{}, false
	}

	return v.items[i], true
}

func (v Value) index(key string) int {
	if v.kind != KindMap {
		return -1
	}

	return slices.IndexFunc(v.entries, func(e Entry) bool { return e.Key == key })
}

// String returns a debug representation: scalars as their text, lists as
// [a b] and maps as {k: v}.
func (v Value) String() string {
	var sb strings.Builder

	v.writeTo(&sb)

	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case KindList:
		sb.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(' ')
			}

			item.writeTo(sb)
		}

		sb.WriteByte(']')

	case KindMap:
		sb.WriteByte('{')

		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(e.Key)
			sb.WriteString(": ")
			e.Value.writeTo(sb)
		}

		sb.WriteByte('}')

	default:
		sb.WriteString(v.text)
	}
}

// Equal reports whether a and b hold the same data. Map entries must match
// in order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindList:
		return slices.EqualFunc(a.items, b.items, Equal)

	case KindMap:
		return slices.EqualFunc(a.entries, b.entries, func(x, y Entry) bool {
			return x.Key == y.Key && Equal(x.Value, y.Value)
		})

	default:
		return a.text == b.text
	}
}

// FromAny converts Go data to a Value.
//
// Strings, booleans and numbers become scalars (nil becomes the empty
// scalar), slices and arrays become lists, and maps with string keys become
// maps sorted by key. Values and []Entry pass through.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Scalar(""), nil
	case Value:
		return x, nil
	case []Entry:
		return Map(x...), nil
	case string:
		return Scalar(x), nil
	case bool:
		return Scalar(strconv.FormatBool(x)), nil
	case int:
		return Scalar(strconv.Itoa(x)), nil
	case int64:
		return Scalar(strconv.FormatInt(x, 10)), nil
	case uint64:
		return Scalar(strconv.FormatUint(x, 10)), nil
	case float64:
		return Scalar(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case []byte:
		return Scalar(string(x)), nil
	case fmt.Stringer:
		return Scalar(x.String()), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Scalar(""), nil
		}

		return FromAny(rv.Elem().Interface())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar(strconv.FormatInt(rv.Int(), 10)), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Scalar(strconv.FormatUint(rv.Uint(), 10)), nil

	case reflect.Float32, reflect.Float64:
		return Scalar(strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())), nil

	case reflect.String:
		return Scalar(rv.String()), nil

	case reflect.Bool:
		return Scalar(strconv.FormatBool(rv.Bool())), nil

	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())

		for i := range items {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}

			items[i] = item
		}

		return Value{kind: KindList, items: items}, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, ErrUnsupportedValue.
				With(typeAttr(rv.Type()))
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		entries := make([]Entry, len(keys))

		for i, k := range keys {
			item, err := FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return Value{}, err
			}

			entries[i] = Entry{Key: k, Value: item}
		}

		return Value{kind: KindMap, entries: entries}, nil

	default:
		return Value{}, ErrUnsupportedValue.With(typeAttr(rv.Type()))
	}
}
