package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/sxhtml/cli/cmd/repl"
	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/log"
)

// Repl renders forms interactively against the loaded data.
type Repl struct {
	Data    `embed:""`
	Library `embed:""`

	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	logger := log.With(slog.String("command", "repl"))

	c, err := r.Data.Context(ctx, logger)
	if err != nil {
		return err
	}

	renderer, lib, err := r.Library.Renderer(ctx, lang.NewCache(lang.WithLogger(logger)), logger)
	if err != nil {
		return err
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.NewSession(renderer, lib, c, logger), cacheDir, logger)
}
