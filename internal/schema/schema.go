package schema

import "strings"

// Document is the root of a schema file: the tables available for
// generation, keyed by name, plus the order they were declared in.
type Document struct {
	Tables     map[string]*Table
	TableOrder []string
}

type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	Uniques     []UniqueConstraint
	Indexes     []Index
	Checks      []CheckConstraint
}

type Column struct {
	Name        string
	Type        string
	Nullable    bool
	HasDefault  bool
	IsGenerated bool
	IsPrimary   bool
	EnumValues  []string
}

// ForeignKey pairs local columns positionally with referenced columns.
// Both lists always have equal length.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
}

type UniqueConstraint struct {
	Name    string
	Columns []string
}

type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Where   string
}

type CheckConstraint struct {
	Name       string
	Expression string
}

// Column returns the column descriptor by name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether name is part of the table's primary key.
func (t *Table) IsPrimaryKey(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// ForeignKeysTo returns the foreign keys on t referencing refTable.
func (t *Table) ForeignKeysTo(refTable string) []ForeignKey {
	var fks []ForeignKey
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == refTable {
			fks = append(fks, fk)
		}
	}
	return fks
}

// IsIntegerType reports whether the db type tag belongs to the integer
// family (width variants and their auto-increment forms included).
func IsIntegerType(dbType string) bool {
	switch NormalizeType(dbType) {
	case "smallint", "int2", "smallserial", "serial2",
		"integer", "int", "int4", "serial", "serial4", "mediumint",
		"bigint", "int8", "bigserial", "serial8":
		return true
	}
	return false
}

// NormalizeType lower-cases a type tag and strips any length suffix,
// e.g. VARCHAR(255) -> varchar.
func NormalizeType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if idx := strings.Index(t, "("); idx > 0 {
		t = t[:idx]
	}
	return t
}
