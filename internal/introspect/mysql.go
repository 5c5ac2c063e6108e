package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

func pullMySQL(ctx context.Context, db *sql.DB) (*schema.Document, error) {
	doc := &schema.Document{Tables: make(map[string]*schema.Table)}

	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		doc.Tables[name] = &schema.Table{Name: name}
		doc.TableOrder = append(doc.TableOrder, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := mysqlColumns(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := mysqlForeignKeys(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := mysqlUniques(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := mysqlChecks(ctx, db, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func mysqlColumns(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name, column_name, column_type, data_type, is_nullable,
		       column_default IS NOT NULL, column_key, extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		ORDER BY table_name, ordinal_position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table, name, columnType, dataType, nullable, key, extra string
		var hasDefault bool
		if err := rows.Scan(&table, &name, &columnType, &dataType, &nullable, &hasDefault, &key, &extra); err != nil {
			return err
		}
		tbl, ok := doc.Tables[table]
		if !ok {
			continue
		}
		col := schema.Column{
			Name:        name,
			Type:        strings.ToLower(dataType),
			Nullable:    nullable == "YES",
			HasDefault:  hasDefault || strings.Contains(extra, "auto_increment"),
			IsGenerated: strings.Contains(extra, "GENERATED"),
			IsPrimary:   key == "PRI",
			EnumValues:  parseMySQLEnum(columnType),
		}
		tbl.Columns = append(tbl.Columns, col)
		if col.IsPrimary {
			tbl.PrimaryKey = append(tbl.PrimaryKey, name)
		}
	}
	return rows.Err()
}

// parseMySQLEnum extracts values from a column_type like
// enum('a','b','c').
func parseMySQLEnum(columnType string) []string {
	lower := strings.ToLower(columnType)
	if !strings.HasPrefix(lower, "enum(") {
		return nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(lower, "enum("), ")")
	var values []string
	for _, part := range strings.Split(inner, ",") {
		values = append(values, strings.Trim(strings.TrimSpace(part), "'"))
	}
	return values
}

func mysqlForeignKeys(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name, constraint_name, column_name,
		       referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND referenced_table_name IS NOT NULL
		ORDER BY table_name, constraint_name, ordinal_position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type fkKey struct{ table, constraint string }
	fks := make(map[fkKey]*schema.ForeignKey)
	var order []fkKey
	for rows.Next() {
		var table, constraint, column, refTable, refColumn string
		if err := rows.Scan(&table, &constraint, &column, &refTable, &refColumn); err != nil {
			return err
		}
		key := fkKey{table, constraint}
		fk, ok := fks[key]
		if !ok {
			fk = &schema.ForeignKey{Name: constraint, RefTable: refTable}
			fks[key] = fk
			order = append(order, key)
		}
		fk.Columns = append(fk.Columns, column)
		fk.RefColumns = append(fk.RefColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, key := range order {
		if tbl, ok := doc.Tables[key.table]; ok {
			tbl.ForeignKeys = append(tbl.ForeignKeys, *fks[key])
		}
	}
	return nil
}

func mysqlUniques(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name, index_name, column_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND non_unique = 0 AND index_name != 'PRIMARY'
		ORDER BY table_name, index_name, seq_in_index
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type uKey struct{ table, index string }
	uniques := make(map[uKey][]string)
	var order []uKey
	for rows.Next() {
		var table, index, column string
		if err := rows.Scan(&table, &index, &column); err != nil {
			return err
		}
		key := uKey{table, index}
		if _, ok := uniques[key]; !ok {
			order = append(order, key)
		}
		uniques[key] = append(uniques[key], column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, key := range order {
		if tbl, ok := doc.Tables[key.table]; ok {
			tbl.Uniques = append(tbl.Uniques, schema.UniqueConstraint{Name: key.index, Columns: uniques[key]})
		}
	}
	return nil
}

func mysqlChecks(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, cc.constraint_name, cc.check_clause
		FROM information_schema.check_constraints cc
		JOIN information_schema.table_constraints tc
		  ON tc.constraint_name = cc.constraint_name
		 AND tc.constraint_schema = cc.constraint_schema
		WHERE tc.table_schema = DATABASE()
		ORDER BY tc.table_name, cc.constraint_name
	`)
	if err != nil {
		// Older MySQL versions have no check_constraints view.
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var table, name, clause string
		if err := rows.Scan(&table, &name, &clause); err != nil {
			return err
		}
		if tbl, ok := doc.Tables[table]; ok {
			tbl.Checks = append(tbl.Checks, schema.CheckConstraint{Name: name, Expression: stripCheckWrapper(clause)})
		}
	}
	return rows.Err()
}
