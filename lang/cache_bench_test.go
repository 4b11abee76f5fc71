package lang

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func benchSource(items int) string {
	var sb strings.Builder

	sb.WriteString(`(html (head (title "bench")) (body (ul`)

	for i := range items {
		fmt.Fprintf(&sb, ` (li (@ (id "item-%d") (class $cls)) "item $n" (b %d))`, i, i)
	}

	sb.WriteString(`)))`)

	return sb.String()
}

// BenchmarkParse measures parsing without caching.
func BenchmarkParse(b *testing.B) {
	for _, items := range []int{10, 100, 1000} {
		src := benchSource(items)

		b.Run(fmt.Sprintf("items=%d", items), func(b *testing.B) {
			b.SetBytes(int64(len(src)))

			for b.Loop() {
				if _, err := Parse(context.Background(), src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCache_Parse measures repeated parses of one source through the
// cache.
func BenchmarkCache_Parse(b *testing.B) {
	src := benchSource(100)
	c := NewCache()

	if _, err := c.Parse(context.Background(), src); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for b.Loop() {
		if _, err := c.Parse(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFormat measures canonical formatting.
func BenchmarkFormat(b *testing.B) {
	tmpl := MustParse(benchSource(100))

	var sb strings.Builder

	for b.Loop() {
		sb.Reset()

		if err := tmpl.Format(context.Background(), &sb, 2); err != nil {
			b.Fatal(err)
		}
	}
}
