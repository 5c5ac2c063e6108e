package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type tableYAML struct {
	Columns     []columnYAML     `yaml:"columns"`
	PrimaryKey  []string         `yaml:"primaryKey"`
	ForeignKeys []foreignKeyYAML `yaml:"foreignKeys"`
	Uniques     []uniqueYAML     `yaml:"uniques"`
	Indexes     []indexYAML      `yaml:"indexes"`
	Checks      []checkYAML      `yaml:"checks"`
}

type columnYAML struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Nullable    bool     `yaml:"nullable"`
	HasDefault  bool     `yaml:"hasDefault"`
	IsGenerated bool     `yaml:"generated"`
	PrimaryKey  bool     `yaml:"primaryKey"`
	EnumValues  []string `yaml:"enumValues"`
}

type foreignKeyYAML struct {
	Name       string   `yaml:"name"`
	Columns    []string `yaml:"columns"`
	RefTable   string   `yaml:"refTable"`
	RefColumns []string `yaml:"refColumns"`
}

type uniqueYAML struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

type indexYAML struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
	Where   string   `yaml:"where"`
}

type checkYAML struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// UnmarshalYAML decodes the document from a `tables:` mapping. Mapping
// order is preserved into TableOrder; the orderer's tie-break depends
// on it.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var root struct {
		Tables yaml.Node `yaml:"tables"`
	}
	if err := node.Decode(&root); err != nil {
		return err
	}
	if root.Tables.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: expected 'tables' to be a mapping")
	}

	d.Tables = make(map[string]*Table, len(root.Tables.Content)/2)
	for i := 0; i+1 < len(root.Tables.Content); i += 2 {
		name := root.Tables.Content[i].Value
		var ty tableYAML
		if err := root.Tables.Content[i+1].Decode(&ty); err != nil {
			return fmt.Errorf("schema: table %s: %w", name, err)
		}
		tbl, err := buildTable(name, ty)
		if err != nil {
			return err
		}
		d.Tables[name] = tbl
		d.TableOrder = append(d.TableOrder, name)
	}
	return nil
}

func buildTable(name string, ty tableYAML) (*Table, error) {
	tbl := &Table{Name: name, PrimaryKey: ty.PrimaryKey}

	for _, cy := range ty.Columns {
		tbl.Columns = append(tbl.Columns, Column{
			Name:        cy.Name,
			Type:        cy.Type,
			Nullable:    cy.Nullable,
			HasDefault:  cy.HasDefault,
			IsGenerated: cy.IsGenerated,
			IsPrimary:   cy.PrimaryKey,
			EnumValues:  cy.EnumValues,
		})
		if cy.PrimaryKey && !contains(tbl.PrimaryKey, cy.Name) {
			tbl.PrimaryKey = append(tbl.PrimaryKey, cy.Name)
		}
	}
	for _, pk := range tbl.PrimaryKey {
		if col := tbl.Column(pk); col != nil {
			col.IsPrimary = true
		}
	}

	for _, fy := range ty.ForeignKeys {
		if len(fy.Columns) != len(fy.RefColumns) {
			return nil, fmt.Errorf("schema: table %s: foreign key %s has %d local columns but %d referenced columns",
				name, fy.Name, len(fy.Columns), len(fy.RefColumns))
		}
		tbl.ForeignKeys = append(tbl.ForeignKeys, ForeignKey(fy))
	}
	for _, uy := range ty.Uniques {
		tbl.Uniques = append(tbl.Uniques, UniqueConstraint(uy))
	}
	for _, iy := range ty.Indexes {
		tbl.Indexes = append(tbl.Indexes, Index(iy))
	}
	for _, ch := range ty.Checks {
		tbl.Checks = append(tbl.Checks, CheckConstraint(ch))
	}
	return tbl, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load reads and decodes a schema document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a schema document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return &doc, nil
}
