// Package introspect pulls a schema document from a live database so a
// scenario can be written against it without hand-describing tables.
package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// Pull introspects the connected database into a schema document.
func Pull(ctx context.Context, db *sql.DB, provider string) (*schema.Document, error) {
	switch provider {
	case "postgresql", "postgres":
		return pullPostgres(ctx, db)
	case "mysql":
		return pullMySQL(ctx, db)
	case "sqlite", "sqlite3":
		return pullSQLite(ctx, db)
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// OpenDB opens a database/sql handle for the provider and verifies the
// connection.
func OpenDB(provider, url string) (*sql.DB, error) {
	var driverName string
	switch provider {
	case "postgresql", "postgres":
		driverName = "pgx"
	case "mysql":
		driverName = "mysql"
	case "sqlite", "sqlite3":
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}

	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
