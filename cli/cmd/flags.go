package cmd

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/sxhtml/data"
	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
	"github.com/ardnew/sxhtml/render"
)

// Data is the flag group that binds template variables. Sources apply in
// the order documents, queries, expressions, so an expression can refer to
// anything loaded before it.
type Data struct {
	Data      []string `help:"YAML or JSON document whose top-level keys become variables ('-' for stdin)." placeholder:"FILE"      short:"d"`
	Query     []string `help:"Bind NAME to the rows of a SQL query against --db."                           placeholder:"NAME=SQL"  short:"q"`
	DB        string   `help:"SQLite database for --query."                                                 placeholder:"PATH"                type:"path"`
	Set       []string `help:"Bind NAME to the value of an expr-lang expression."                          placeholder:"NAME=EXPR" short:"s"`
	KeepGoing bool     `help:"Report every failing data source instead of stopping at the first."`
}

// Sources returns the data sources selected by the flags, opening the
// database when queries are given. The returned close function releases
// it and is never nil.
func (d *Data) Sources(ctx context.Context) ([]data.Source, func() error, error) {
	noop := func() error { return nil }

	files, stdin := uniquePaths(d.Data)

	sources := make([]data.Source, 0, len(files)+len(d.Query)+len(d.Set)+1)

	for _, f := range files {
		sources = append(sources, data.File(f))
	}

	if stdin {
		sources = append(sources, data.Reader{Name: "stdin", R: os.Stdin})
	}

	bindings := make([]data.Binding, 0, len(d.Set))

	for _, s := range d.Set {
		b, err := data.ParseBinding(s)
		if err != nil {
			return nil, noop, err
		}

		bindings = append(bindings, b)
	}

	closeDB := noop

	if len(d.Query) > 0 {
		if d.DB == "" {
			return nil, noop, ErrMissingDB
		}

		db, err := data.OpenDB(ctx, d.DB)
		if err != nil {
			return nil, noop, err
		}

		closeDB = db.Close

		tables, err := queries(db, d.Query)
		if err != nil {
			_ = db.Close()

			return nil, noop, err
		}

		sources = append(sources, tables...)
	}

	for _, b := range bindings {
		sources = append(sources, data.Expr(b))
	}

	return sources, closeDB, nil
}

func queries(db *sql.DB, flags []string) ([]data.Source, error) {
	tables := make([]data.Source, 0, len(flags))

	for _, q := range flags {
		name, query, ok := strings.Cut(q, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" || strings.TrimSpace(query) == "" {
			return nil, ErrQueryFlag.With(slog.String("query", q))
		}

		tables = append(tables, data.Table{Name: name, DB: db, Query: query})
	}

	return tables, nil
}

// Context loads every data source into a new render context.
func (d *Data) Context(ctx context.Context, logger log.Logger) (*render.Context, error) {
	sources, closeDB, err := d.Sources(ctx)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	return data.NewLoader(
		data.WithLogger(logger),
		data.WithContinue(d.KeepGoing),
	).Load(ctx, sources...)
}

// Library is the flag group that configures the renderer.
type Library struct {
	Library  []string `help:"Directory of *.sx templates available to include and layout."      placeholder:"DIR" short:"L" type:"existingdir"`
	Escape   bool     `help:"HTML-escape interpolated variable text."                           negatable:""`
	Doctype  string   `default:"${doctype}" help:"Doctype emitted before a root html element."`
	MaxDepth int      `default:"64"         help:"Maximum nesting of handler calls."`
}

// Renderer loads the library directories through cache and returns a
// renderer configured by the flags.
func (l *Library) Renderer(
	ctx context.Context,
	cache *lang.Cache,
	logger log.Logger,
	opts ...render.Option,
) (*render.Renderer, *render.Library, error) {
	templates := make(map[string]*lang.Template)

	for _, dir := range l.Library {
		if err := loadLibrary(ctx, cache, dir, templates); err != nil {
			return nil, nil, err
		}
	}

	lib := render.NewLibrary(templates)

	logger.DebugContext(ctx, "loaded template library",
		slog.Int("templates", len(templates)),
		slog.Any("names", slices.Sorted(maps.Keys(templates))))

	opts = append(slices.Clone(opts),
		render.WithEscape(l.Escape),
		render.WithDoctype(l.Doctype),
		render.WithMaxDepth(l.MaxDepth),
		render.WithLogger(logger))

	return render.New(append(opts, lib.Options()...)...), lib, nil
}

// loadLibrary adds every template under dir to templates, named by its
// slash-separated path relative to dir without the extension. Directories
// listed later replace templates of the same name.
func loadLibrary(ctx context.Context, cache *lang.Cache, dir string, templates map[string]*lang.Template) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ErrLoadLibrary.Wrap(err).With(slog.String("path", path))
		}

		if d.IsDir() || filepath.Ext(path) != TemplateExt {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return ErrLoadLibrary.Wrap(err).With(slog.String("path", path))
		}

		f, err := os.Open(path)
		if err != nil {
			return ErrLoadLibrary.Wrap(err).With(slog.String("path", path))
		}
		defer f.Close()

		tmpl, err := cache.ParseReader(ctx, f)
		if err != nil {
			return lang.WrapError(err).With(slog.String("path", path))
		}

		templates[filepath.ToSlash(strings.TrimSuffix(rel, TemplateExt))] = tmpl

		return nil
	})
}
