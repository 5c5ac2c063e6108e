package schema

import (
	"gopkg.in/yaml.v3"
)

// Dump encodes the document back to the YAML shape Load accepts,
// preserving table and column order.
func Dump(doc *Document) ([]byte, error) {
	tables := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range doc.TableOrder {
		tbl := doc.Tables[name]
		if tbl == nil {
			continue
		}
		node, err := tableNode(tbl)
		if err != nil {
			return nil, err
		}
		tables.Content = append(tables.Content,
			scalarNode(name),
			node,
		)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalarNode("tables"), tables)
	return yaml.Marshal(root)
}

func tableNode(tbl *Table) (*yaml.Node, error) {
	ty := tableYAML{PrimaryKey: tbl.PrimaryKey}
	for _, col := range tbl.Columns {
		ty.Columns = append(ty.Columns, columnYAML{
			Name:        col.Name,
			Type:        col.Type,
			Nullable:    col.Nullable,
			HasDefault:  col.HasDefault,
			IsGenerated: col.IsGenerated,
			PrimaryKey:  col.IsPrimary,
			EnumValues:  col.EnumValues,
		})
	}
	for _, fk := range tbl.ForeignKeys {
		ty.ForeignKeys = append(ty.ForeignKeys, foreignKeyYAML(fk))
	}
	for _, u := range tbl.Uniques {
		ty.Uniques = append(ty.Uniques, uniqueYAML(u))
	}
	for _, idx := range tbl.Indexes {
		ty.Indexes = append(ty.Indexes, indexYAML(idx))
	}
	for _, ch := range tbl.Checks {
		ty.Checks = append(ty.Checks, checkYAML(ch))
	}

	var node yaml.Node
	if err := node.Encode(ty); err != nil {
		return nil, err
	}
	return &node, nil
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
