package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/sxhtml/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys are flag names. A nested mapping contributes its keys joined to the
// parent key with '-', so these are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Flag names may also be written with '_' in place of '-'. Command-line
// flags override configuration values. A file that cannot be parsed is
// logged and ignored.
func resolve(r io.Reader) (kong.Resolver, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		log.Warn("could not read configuration", log.Err(err))

		return config{}, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		log.Warn("could not parse configuration", log.Err(err))

		return config{}, nil
	}

	cfg := make(config, len(doc))
	flatten(cfg, "", doc)

	log.Trace("loaded configuration", slog.Int("keys", len(cfg)))

	return cfg, nil
}

// config implements [kong.Resolver] over flattened YAML.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}

func flatten(out config, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		if sub, ok := v.(map[string]any); ok {
			flatten(out, key, sub)

			continue
		}

		out[key] = flagValue(v)
	}
}

// flagValue converts decoded YAML to a value kong's mappers accept. Kong
// parses numbers from their text, so every scalar except bool and nil
// becomes a string.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v

	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = flagValue(item)
		}

		return items

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return fmt.Sprint(v)
	}
}
