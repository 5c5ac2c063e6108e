package render

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/datagen"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// Loader inserts a generated dataset into a live database with
// parameterized statements, batched per table.
type Loader struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	batch   int
}

// NewLoader builds a loader for the given provider. PostgreSQL needs
// dollar placeholders; mysql and sqlite use question marks.
func NewLoader(db *sql.DB, provider string) *Loader {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if provider == "postgresql" || provider == "postgres" {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &Loader{db: db, builder: builder, batch: defaultBatchSize}
}

// Load inserts every table's rows in plan order inside a single
// transaction; any failure rolls the whole load back.
func (l *Loader) Load(ctx context.Context, doc *schema.Document, plan *datagen.Plan, data datagen.Dataset) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, table := range plan.Order {
		rows := data[table]
		if len(rows) == 0 {
			continue
		}
		cols := insertColumns(doc.Tables[table], rows[0])
		for start := 0; start < len(rows); start += l.batch {
			end := start + l.batch
			if end > len(rows) {
				end = len(rows)
			}
			if err := l.insertBatch(ctx, tx, table, cols, rows[start:end]); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to load table %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	return nil
}

func (l *Loader) insertBatch(ctx context.Context, tx *sql.Tx, table string, cols []string, rows []datagen.Row) error {
	ins := l.builder.Insert(table).Columns(cols...)
	for _, row := range rows {
		values := make([]any, len(cols))
		for i, col := range cols {
			values[i] = driverValue(row[col])
		}
		ins = ins.Values(values...)
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// driverValue converts structured values to JSON text; drivers accept
// the scalar kinds as-is.
func driverValue(v any) any {
	switch v.(type) {
	case nil, bool, int, int16, int32, int64, float32, float64, string:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
