//go:build !cgo_sqlite

package data

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used by [OpenDB].
const DriverName = "sqlite"

func openDB(dataSource string) (*sql.DB, error) {
	return sql.Open(DriverName, dataSource)
}
