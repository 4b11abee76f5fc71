package data

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
	"github.com/ardnew/sxhtml/pkg"
	"github.com/ardnew/sxhtml/render"
)

// Source binds variables into a render context.
type Source interface {
	Load(ctx context.Context, c *render.Context) error
	String() string
}

// File is a YAML or JSON document on disk. Every top-level key becomes a
// variable.
type File string

func (f File) String() string { return "file:" + string(f) }

// Load implements [Source].
func (f File) Load(ctx context.Context, c *render.Context) error {
	entries, err := DecodeFile(ctx, string(f))
	if err != nil {
		return err
	}

	bindAll(c, entries)

	return nil
}

// Reader is a YAML or JSON document read from R.
type Reader struct {
	Name string
	R    io.Reader
}

func (r Reader) String() string { return "reader:" + r.Name }

// Load implements [Source].
func (r Reader) Load(ctx context.Context, c *render.Context) error {
	entries, err := Decode(ctx, r.R)
	if err != nil {
		return lang.WrapError(err).With(slog.String("source", r.Name))
	}

	bindAll(c, entries)

	return nil
}

// Expr binds the result of an expression evaluated against the variables
// loaded before it.
type Expr Binding

func (e Expr) String() string { return "expr:" + e.Name }

// Load implements [Source].
func (e Expr) Load(_ context.Context, c *render.Context) error {
	v, err := Binding(e).Eval(c)
	if err != nil {
		return err
	}

	c.Bind(e.Name, v)

	return nil
}

// Table binds the rows returned by a database query as a list of maps.
type Table struct {
	Name  string
	DB    *sql.DB
	Query string
}

func (t Table) String() string { return "query:" + t.Name }

// Load implements [Source].
func (t Table) Load(ctx context.Context, c *render.Context) error {
	v, err := Query(ctx, t.DB, t.Query)
	if err != nil {
		return lang.WrapError(err).With(slog.String("name", t.Name))
	}

	c.Bind(t.Name, v)

	return nil
}

func bindAll(c *render.Context, entries []render.Entry) {
	for _, e := range entries {
		c.Bind(e.Key, e.Value)
	}
}

// Option configures a [Loader].
type Option func(*Loader)

// WithLogger sets the logger used to trace each source.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithContinue makes the loader keep going after a source fails, so that
// every failure is reported together.
func WithContinue(enable bool) Option {
	return func(l *Loader) { l.keepGoing = enable }
}

// Loader builds a render context from an ordered list of sources. Later
// sources see and may replace the variables bound by earlier ones.
type Loader struct {
	logger    log.Logger
	keepGoing bool
}

// NewLoader returns a Loader configured by opts.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load binds every source into a new context, in order.
func (l *Loader) Load(ctx context.Context, sources ...Source) (*render.Context, error) {
	c := render.NewContext()

	var errs []error

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, ErrReadSource.Wrap(err)
		}

		l.logger.TraceContext(ctx, "load source", slog.String("source", src.String()))

		if err := src.Load(ctx, c); err != nil {
			l.logger.DebugContext(ctx, "load source failed",
				slog.String("source", src.String()), slog.Any("error", err))

			if !l.keepGoing {
				return nil, err
			}

			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, pkg.MakeError(errs...)
	}

	l.logger.DebugContext(ctx, "loaded data",
		slog.Int("sources", len(sources)),
		slog.Any("names", c.Names()))

	return c, nil
}
