package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/sxhtml/lang"
)

// Fmt prints a template in canonical form or as a JSON or YAML tree.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical S-expressions (default)."`
	JSON   JSON   `cmd:""                    help:"Dump the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Dump the syntax tree as YAML."`
}

// source is the argument and indent flag shared by the fmt subcommands.
type source struct {
	Indent int `default:"2" help:"Indent width." short:"i"`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"template"`
}

type formatter func(t *lang.Template, ctx context.Context, w io.Writer, indent int) error

func (s *source) format(ctx context.Context, w io.Writer, name string, f formatter) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rc, path, err := openSource(s.Template)
	if err != nil {
		return err
	}
	defer rc.Close()

	tmpl, err := lang.ParseReader(ctx, rc)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", name), slog.String("template", path))
	}

	return f(tmpl, ctx, w, s.Indent)
}

// Native formats a template as canonical S-expressions.
type Native struct{ source }

// Run executes the fmt native command.
func (n *Native) Run(ctx context.Context) error {
	return n.format(ctx, os.Stdout, "native", (*lang.Template).Format)
}

// JSON dumps a template's syntax tree as JSON.
type JSON struct{ source }

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return j.format(ctx, os.Stdout, "json", (*lang.Template).FormatJSON)
}

// YAML dumps a template's syntax tree as YAML.
type YAML struct{ source }

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return y.format(ctx, os.Stdout, "yaml", (*lang.Template).FormatYAML)
}
