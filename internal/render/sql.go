package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/datagen"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// defaultBatchSize caps rows per INSERT statement.
const defaultBatchSize = 100

// Script renders the generated dataset as a SQL script of multi-row
// INSERT statements, tables in plan order so foreign keys always point
// at rows inserted earlier in the script.
func Script(doc *schema.Document, plan *datagen.Plan, data datagen.Dataset) string {
	var b strings.Builder
	b.WriteString("-- generated by tdf")
	fmt.Fprintf(&b, " (seed %d)\n\n", plan.Seed)

	for _, table := range plan.Order {
		rows := data[table]
		if len(rows) == 0 {
			continue
		}
		cols := insertColumns(doc.Tables[table], rows[0])
		for start := 0; start < len(rows); start += defaultBatchSize {
			end := start + defaultBatchSize
			if end > len(rows) {
				end = len(rows)
			}
			b.WriteString(insertStatement(table, cols, rows[start:end]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// insertColumns lists the row's columns in schema declaration order so
// statements are stable across runs.
func insertColumns(tbl *schema.Table, row datagen.Row) []string {
	if tbl == nil {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		return cols
	}
	cols := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		if _, ok := row[col.Name]; ok {
			cols = append(cols, col.Name)
		}
	}
	return cols
}

func insertStatement(table string, cols []string, rows []datagen.Row) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		literals := make([]string, len(cols))
		for j, col := range cols {
			literals[j] = Literal(row[col])
		}
		values[i] = "(" + strings.Join(literals, ", ") + ")"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES\n  %s;",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(values, ",\n  "))
}

// Literal formats a generated value as a SQL literal. Structured
// values (JSON objects, arrays) serialize to quoted JSON text.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%v", val)
	case string:
		return pq.QuoteLiteral(val)
	case time.Time:
		return pq.QuoteLiteral(val.Format("2006-01-02 15:04:05"))
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return pq.QuoteLiteral(fmt.Sprintf("%v", val))
		}
		return pq.QuoteLiteral(string(data))
	}
}
