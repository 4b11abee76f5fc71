package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
)

// Render renders a template to HTML.
type Render struct {
	Data    `embed:""`
	Library `embed:""`

	Output string `help:"Write HTML to this file atomically instead of stdout." placeholder:"FILE" short:"o" type:"path"`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.With(slog.String("command", "render"))

	if r.Template == stdinSource && slices.Contains(r.Data.Data, stdinSource) {
		return ErrReadTemplate.With(slog.String("reason", "template and --data both read stdin"))
	}

	cache := lang.NewCache(lang.WithLogger(logger))

	tmpl, err := r.parse(ctx, cache)
	if err != nil {
		return err
	}

	c, err := r.Data.Context(ctx, logger)
	if err != nil {
		return err
	}

	renderer, _, err := r.Library.Renderer(ctx, cache, logger)
	if err != nil {
		return err
	}

	out, err := renderer.RenderContext(ctx, tmpl, c)
	if err != nil {
		return lang.WrapError(err).With(slog.String("template", r.Template))
	}

	return r.write(ctx, logger, out)
}

func (r *Render) parse(ctx context.Context, cache *lang.Cache) (*lang.Template, error) {
	rc, name, err := openSource(r.Template)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tmpl, err := cache.ParseReader(ctx, rc)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("template", name))
	}

	return tmpl, nil
}

func (r *Render) write(ctx context.Context, logger log.Logger, out string) error {
	if r.Output == "" {
		if _, err := io.WriteString(os.Stdout, out+"\n"); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("path", "stdout"))
		}

		return nil
	}

	if err := atomic.WriteFile(r.Output, strings.NewReader(out+"\n")); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", r.Output))
	}

	logger.DebugContext(ctx, "wrote output",
		slog.String("path", r.Output),
		slog.Int("bytes", len(out)+1))

	return nil
}
