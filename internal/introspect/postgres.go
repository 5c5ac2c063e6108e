package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

func pullPostgres(ctx context.Context, db *sql.DB) (*schema.Document, error) {
	doc := &schema.Document{Tables: make(map[string]*schema.Table)}

	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
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

	enums, err := postgresEnums(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := postgresColumns(ctx, db, doc, enums); err != nil {
		return nil, err
	}
	if err := postgresKeyConstraints(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := postgresForeignKeys(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := postgresChecks(ctx, db, doc); err != nil {
		return nil, err
	}
	if err := postgresIndexes(ctx, db, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func postgresEnums(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = 'public'
		ORDER BY t.typname, e.enumsortorder
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enums := make(map[string][]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		enums[name] = append(enums[name], value)
	}
	return enums, rows.Err()
}

func postgresColumns(ctx context.Context, db *sql.DB, doc *schema.Document, enums map[string][]string) error {
	rows, err := db.QueryContext(ctx, `
		SELECT c.table_name, c.column_name, c.udt_name, c.is_nullable,
		       c.column_default IS NOT NULL,
		       c.is_generated = 'ALWAYS' OR c.is_identity = 'YES'
		FROM information_schema.columns c
		WHERE c.table_schema = 'public'
		ORDER BY c.table_name, c.ordinal_position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table, name, udt, nullable string
		var hasDefault, generated bool
		if err := rows.Scan(&table, &name, &udt, &nullable, &hasDefault, &generated); err != nil {
			return err
		}
		tbl, ok := doc.Tables[table]
		if !ok {
			continue
		}
		tbl.Columns = append(tbl.Columns, schema.Column{
			Name:        name,
			Type:        strings.ToLower(udt),
			Nullable:    nullable == "YES",
			HasDefault:  hasDefault,
			IsGenerated: generated,
			EnumValues:  enums[strings.ToLower(udt)],
		})
	}
	return rows.Err()
}

// postgresKeyConstraints fills primary keys and unique constraints,
// preserving key-column order.
func postgresKeyConstraints(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, tc.constraint_name, tc.constraint_type, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		WHERE tc.table_schema = 'public'
		  AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	uniques := make(map[string]map[string][]string)
	for rows.Next() {
		var table, constraint, kind, column string
		if err := rows.Scan(&table, &constraint, &kind, &column); err != nil {
			return err
		}
		tbl, ok := doc.Tables[table]
		if !ok {
			continue
		}
		if kind == "PRIMARY KEY" {
			tbl.PrimaryKey = append(tbl.PrimaryKey, column)
			if col := tbl.Column(column); col != nil {
				col.IsPrimary = true
			}
			continue
		}
		if uniques[table] == nil {
			uniques[table] = make(map[string][]string)
		}
		uniques[table][constraint] = append(uniques[table][constraint], column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, table := range doc.TableOrder {
		for name, cols := range uniques[table] {
			doc.Tables[table].Uniques = append(doc.Tables[table].Uniques, schema.UniqueConstraint{Name: name, Columns: cols})
		}
	}
	return nil
}

func postgresForeignKeys(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, tc.constraint_name, kcu.column_name,
		       ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.table_schema = 'public' AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
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

func postgresChecks(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT rel.relname, con.conname, pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = rel.relnamespace
		WHERE n.nspname = 'public' AND con.contype = 'c'
		ORDER BY rel.relname, con.conname
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table, name, def string
		if err := rows.Scan(&table, &name, &def); err != nil {
			return err
		}
		tbl, ok := doc.Tables[table]
		if !ok {
			continue
		}
		tbl.Checks = append(tbl.Checks, schema.CheckConstraint{
			Name:       name,
			Expression: stripCheckWrapper(def),
		})
	}
	return rows.Err()
}

// stripCheckWrapper turns "CHECK ((expr))" into "expr". Only fully
// balanced outer parentheses are removed, so "(a > 1) AND (b < 2)"
// stays intact.
func stripCheckWrapper(def string) string {
	expr := strings.TrimSpace(def)
	if strings.HasPrefix(strings.ToUpper(expr), "CHECK") {
		expr = strings.TrimSpace(expr[len("CHECK"):])
	}
	for len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' {
		depth := 0
		wraps := true
		for i := 0; i < len(expr)-1; i++ {
			switch expr[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				wraps = false
				break
			}
		}
		if !wraps {
			break
		}
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	return expr
}

func postgresIndexes(ctx context.Context, db *sql.DB, doc *schema.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT t.relname, i.relname, ix.indisunique,
		       COALESCE(pg_get_expr(ix.indpred, ix.indrelid), ''),
		       a.attname
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = 'public' AND NOT ix.indisprimary
		ORDER BY t.relname, i.relname, a.attnum
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type ixKey struct{ table, index string }
	indexes := make(map[ixKey]*schema.Index)
	var order []ixKey
	for rows.Next() {
		var table, index, where, column string
		var unique bool
		if err := rows.Scan(&table, &index, &unique, &where, &column); err != nil {
			return err
		}
		key := ixKey{table, index}
		ix, ok := indexes[key]
		if !ok {
			ix = &schema.Index{Name: index, Unique: unique, Where: where}
			indexes[key] = ix
			order = append(order, key)
		}
		ix.Columns = append(ix.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, key := range order {
		if tbl, ok := doc.Tables[key.table]; ok {
			tbl.Indexes = append(tbl.Indexes, *indexes[key])
		}
	}
	return nil
}
