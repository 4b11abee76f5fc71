package data

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/render"
)

// Decode reads one YAML or JSON document whose root is a mapping and returns
// its top-level entries in document order.
//
// Nested mappings become map values with their key order preserved,
// sequences become lists and everything else becomes a scalar.
func Decode(ctx context.Context, r io.Reader) ([]render.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrReadSource.Wrap(err)
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadSource.Wrap(err)
	}

	var doc any

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	switch doc := doc.(type) {
	case nil:
		return nil, nil

	case yaml.MapSlice:
		v, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}

		return v.Entries(), nil

	default:
		return nil, ErrNotMapping.With(slog.String("type", fmt.Sprintf("%T", doc)))
	}
}

// DecodeFile decodes the document stored at path.
func DecodeFile(ctx context.Context, path string) ([]render.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	entries, err := Decode(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return entries, nil
}

// fromDocument converts decoded YAML to a Value.
func fromDocument(x any) (render.Value, error) {
	switch x := x.(type) {
	case yaml.MapSlice:
		entries := make([]render.Entry, 0, len(x))

		for _, item := range x {
			v, err := fromDocument(item.Value)
			if err != nil {
				return render.Value{}, err
			}

			entries = append(entries, render.Entry{Key: fmt.Sprint(item.Key), Value: v})
		}

		return render.Map(entries...), nil

	case []any:
		items := make([]render.Value, 0, len(x))

		for _, item := range x {
			v, err := fromDocument(item)
			if err != nil {
				return render.Value{}, err
			}

			items = append(items, v)
		}

		return render.List(items...), nil

	default:
		v, err := render.FromAny(x)
		if err != nil {
			return render.Value{}, ErrConvertData.Wrap(err)
		}

		return v, nil
	}
}
