package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

func pullSQLite(ctx context.Context, db *sql.DB) (*schema.Document, error) {
	doc := &schema.Document{Tables: make(map[string]*schema.Table)}

	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
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

	for _, name := range doc.TableOrder {
		tbl := doc.Tables[name]
		if err := sqliteColumns(ctx, db, tbl); err != nil {
			return nil, err
		}
		if err := sqliteForeignKeys(ctx, db, tbl); err != nil {
			return nil, err
		}
		if err := sqliteIndexes(ctx, db, tbl); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, tbl *schema.Table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tbl.Name))
	if err != nil {
		return err
	}
	defer rows.Close()

	// pk ordinal -> column name, so composite keys keep declared order
	pks := make(map[int]string)
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return err
		}
		tbl.Columns = append(tbl.Columns, schema.Column{
			Name:       name,
			Type:       strings.ToLower(colType),
			Nullable:   notNull == 0 && pk == 0,
			HasDefault: dflt.Valid,
			IsPrimary:  pk > 0,
		})
		if pk > 0 {
			pks[pk] = name
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := 1; i <= len(pks); i++ {
		if name, ok := pks[i]; ok {
			tbl.PrimaryKey = append(tbl.PrimaryKey, name)
		}
	}
	return nil
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, tbl *schema.Table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", tbl.Name))
	if err != nil {
		return err
	}
	defer rows.Close()

	fks := make(map[int]*schema.ForeignKey)
	var order []int
	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return err
		}
		fk, ok := fks[id]
		if !ok {
			fk = &schema.ForeignKey{
				Name:     fmt.Sprintf("%s_fk_%d", tbl.Name, id),
				RefTable: refTable,
			}
			fks[id] = fk
			order = append(order, id)
		}
		fk.Columns = append(fk.Columns, from)
		refColumn := "id"
		if to.Valid {
			refColumn = to.String
		}
		fk.RefColumns = append(fk.RefColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range order {
		tbl.ForeignKeys = append(tbl.ForeignKeys, *fks[id])
	}
	return nil
}

func sqliteIndexes(ctx context.Context, db *sql.DB, tbl *schema.Table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", tbl.Name))
	if err != nil {
		return err
	}
	defer rows.Close()

	type indexMeta struct {
		name   string
		unique bool
	}
	var metas []indexMeta
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return err
		}
		if origin == "pk" {
			continue
		}
		metas = append(metas, indexMeta{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, meta := range metas {
		cols, err := sqliteIndexColumns(ctx, db, meta.name)
		if err != nil {
			return err
		}
		if meta.unique {
			tbl.Uniques = append(tbl.Uniques, schema.UniqueConstraint{Name: meta.name, Columns: cols})
		}
		tbl.Indexes = append(tbl.Indexes, schema.Index{Name: meta.name, Columns: cols, Unique: meta.unique})
	}
	return nil
}

func sqliteIndexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", index))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	return cols, rows.Err()
}
