package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/ardnew/sxhtml/log"
)

const configIndent = 2

// Init writes the configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// skipFlags lists flags that never belong in the configuration file, by
// name or name prefix.
var skipFlags = []string{"help", "version", "force", "pprof-"}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("reason", "no command context"))
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return ErrWriteConfig.With(slog.String("reason", "no configuration path"))
	}

	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrFileExists.With(slog.String("path", path))
	}

	doc, err := yaml.MarshalWithOptions(configValues(ktx), yaml.Indent(configIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(doc)); err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "wrote configuration file", slog.String("path", path))

	return nil
}

// configValues collects every configurable flag of the application with its
// current value. Flags of commands other than the one running contribute
// their defaults.
func configValues(ktx *kong.Context) yaml.MapSlice {
	var (
		out  yaml.MapSlice
		seen = make(map[string]bool)
	)

	onPath := make(map[*kong.Flag]bool)
	for _, f := range ktx.Flags() {
		onPath[f] = true
	}

	var visit func(n *kong.Node)

	visit = func(n *kong.Node) {
		for _, f := range n.Flags {
			if seen[f.Name] || f.Hidden || skipFlag(f.Name) {
				continue
			}

			seen[f.Name] = true

			var v any
			if onPath[f] {
				v = plainValue(ktx.FlagValue(f))
			} else {
				v = defaultValue(f)
			}

			if v != nil {
				out = append(out, yaml.MapItem{Key: f.Name, Value: v})
			}
		}

		for _, child := range n.Children {
			visit(child)
		}
	}

	visit(ktx.Model.Node)

	return out
}

func skipFlag(name string) bool {
	return slices.ContainsFunc(skipFlags, func(s string) bool {
		return name == s || (strings.HasSuffix(s, "-") && strings.HasPrefix(name, s))
	})
}

// plainValue converts a flag value to YAML-friendly data, or nil when it
// is empty.
func plainValue(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]any, rv.Len())
		for i := range items {
			items[i] = plainValue(rv.Index(i).Interface())
		}

		return items
	default:
		return nil
	}
}

func defaultValue(f *kong.Flag) any {
	if f.IsBool() {
		b, err := strconv.ParseBool(f.Default)

		return err == nil && b
	}

	if f.Default == "" {
		return nil
	}

	if n, err := strconv.ParseInt(f.Default, 10, 64); err == nil {
		return n
	}

	return f.Default
}
