package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed templates by source content.
// Templates are immutable, so a cached *Template is shared by every caller
// that parses the same text. A Cache is safe for concurrent use.
type Cache struct {
	entries sync.Map // uint64 -> *entry
	opts    []Option
}

// entry tracks the single parse of one source text.
type entry struct {
	once sync.Once
	tmpl *Template
	err  error
}

// NewCache returns an empty cache that parses with opts.
func NewCache(opts ...Option) *Cache {
	return &Cache{opts: opts}
}

// Parse returns the template for src, parsing it at most once.
// Parse errors are cached as well.
func (c *Cache) Parse(ctx context.Context, src string) (*Template, error) {
	logger := makeOptions(c.opts...).logger

	// Generate source key (hash) for caching - using xxhash3 for performance
	hash := xxh3.HashString(src)

	value, hit := c.entries.LoadOrStore(hash, new(entry))

	e, _ := value.(*entry)

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.tmpl, e.err = Parse(ctx, src, c.opts...)
	})

	if e.err != nil {
		return nil, e.err
	}

	// A hash collision must not hand back another source's tree.
	if e.tmpl.source != src {
		logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)))

		return Parse(ctx, src, c.opts...)
	}

	return e.tmpl, nil
}

// ParseReader reads all of r and returns the cached template for its
// content.
func (c *Cache) ParseReader(ctx context.Context, r io.Reader) (*Template, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return c.Parse(ctx, string(data))
}

// Len returns the number of distinct sources seen.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}

// Clear removes all cached templates.
func (c *Cache) Clear() {
	c.entries.Clear()
}
