package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/ardnew/sxhtml/render"
)

// OpenDB opens the SQLite database at dataSource and checks that it is
// reachable.
func OpenDB(ctx context.Context, dataSource string) (*sql.DB, error) {
	db, err := openDB(dataSource)
	if err != nil {
		return nil, ErrOpenDB.Wrap(err).With(slog.String("source", dataSource))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, ErrOpenDB.Wrap(err).With(slog.String("source", dataSource))
	}

	return db, nil
}

// Query runs query against db and returns the result set as a list of maps,
// one per row, with keys in column order. Byte slices become strings and
// NULL becomes the empty scalar.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (render.Value, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return render.Value{}, ErrQuery.Wrap(err).With(slog.String("query", query))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return render.Value{}, ErrQuery.Wrap(err).With(slog.String("query", query))
	}

	var result []render.Value

	cells := make([]any, len(cols))
	ptrs := make([]any, len(cols))

	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return render.Value{}, ErrQuery.Wrap(err).With(slog.String("query", query))
		}

		entries := make([]render.Entry, len(cols))

		for i, col := range cols {
			v, err := render.FromAny(cells[i])
			if err != nil {
				return render.Value{}, ErrConvertData.Wrap(err).
					With(slog.String("query", query), slog.String("column", col))
			}

			entries[i] = render.Entry{Key: col, Value: v}
		}

		result = append(result, render.Map(entries...))
	}

	if err := rows.Err(); err != nil {
		return render.Value{}, ErrQuery.Wrap(err).With(slog.String("query", query))
	}

	return render.List(result...), nil
}
