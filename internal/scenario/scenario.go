package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GenerateValue is the reserved assignment value in a rule: instead of
// assigning a literal, synthesize a fresh non-null value for the column.
const GenerateValue = "$generate"

// Document is the root of a scenario file. TableOrder preserves the
// declaration order of the tables mapping; the generation order
// tie-break and the RNG draw sequence both depend on it.
type Document struct {
	Seed       *int64
	Tables     map[string]*TableConfig
	TableOrder []string
}

// UnmarshalYAML decodes the document, keeping table declaration order.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var root struct {
		Seed   *int64    `yaml:"seed"`
		Tables yaml.Node `yaml:"tables"`
	}
	if err := node.Decode(&root); err != nil {
		return err
	}
	d.Seed = root.Seed
	if root.Tables.Kind == 0 {
		return fmt.Errorf("scenario: missing 'tables' mapping")
	}
	if root.Tables.Kind != yaml.MappingNode {
		return fmt.Errorf("scenario: expected 'tables' to be a mapping")
	}
	d.Tables = make(map[string]*TableConfig, len(root.Tables.Content)/2)
	for i := 0; i+1 < len(root.Tables.Content); i += 2 {
		name := root.Tables.Content[i].Value
		var tc TableConfig
		if err := root.Tables.Content[i+1].Decode(&tc); err != nil {
			return fmt.Errorf("scenario: table %s: %w", name, err)
		}
		d.Tables[name] = &tc
		d.TableOrder = append(d.TableOrder, name)
	}
	return nil
}

// TableConfig selects exactly one count mode for a table and optionally
// shapes its column values.
type TableConfig struct {
	Count     *int             `yaml:"count"`
	PerParent *PerParentConfig `yaml:"perParent"`
	M2M       *M2MConfig       `yaml:"m2m"`

	Distributions map[string]Distribution `yaml:"distributions"`
	Overrides     map[string]*Override    `yaml:"overrides"`
	NullRates     map[string]float64      `yaml:"nullRates"`
	Rules         []Rule                  `yaml:"rules"`
}

// PerParentConfig declares a one-to-many mode: each parent row gets an
// inclusive [Min,Max] random number of child rows.
type PerParentConfig struct {
	Parent    string   `yaml:"parent"`
	FkColumns []string `yaml:"fkColumns"`
	Min       int      `yaml:"min"`
	Max       int      `yaml:"max"`
}

// M2MConfig declares a bridge-table mode: for each left-side row, an
// inclusive [Min,Max] random number of distinct right-side rows.
type M2MConfig struct {
	Left         string   `yaml:"left"`
	LeftColumns  []string `yaml:"leftColumns"`
	Right        string   `yaml:"right"`
	RightColumns []string `yaml:"rightColumns"`
	Min          int      `yaml:"min"`
	Max          int      `yaml:"max"`
}

// Override pins a column to a fixed literal, a uniform choice from a
// list, or a uniform numeric range. At most one field is set.
type Override struct {
	Value any           `yaml:"value"`
	OneOf []any         `yaml:"oneOf"`
	Range *NumericRange `yaml:"range"`
}

type NumericRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Rule rewrites columns on rows whose values match the condition.
type Rule struct {
	When map[string]any `yaml:"when"`
	Set  map[string]any `yaml:"set"`
}

// Distribution is a value -> weight map preserving declaration order;
// weighted picks iterate it in that order.
type Distribution struct {
	Values  []string
	Weights []float64
}

// UnmarshalYAML keeps the mapping's declaration order, which the
// weighted-pick tie-break depends on.
func (d *Distribution) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("scenario: distribution must be a mapping of value to weight")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var w float64
		if err := node.Content[i+1].Decode(&w); err != nil {
			return fmt.Errorf("scenario: distribution weight for %q: %w", node.Content[i].Value, err)
		}
		if w < 0 {
			return fmt.Errorf("scenario: distribution weight for %q is negative", node.Content[i].Value)
		}
		d.Values = append(d.Values, node.Content[i].Value)
		d.Weights = append(d.Weights, w)
	}
	return nil
}

// TotalWeight sums the distribution's weights.
func (d Distribution) TotalWeight() float64 {
	var total float64
	for _, w := range d.Weights {
		total += w
	}
	return total
}

// Modes returns the names of the count modes set on the config. A valid
// config has exactly one.
func (tc *TableConfig) Modes() []string {
	var modes []string
	if tc.Count != nil {
		modes = append(modes, "count")
	}
	if tc.PerParent != nil {
		modes = append(modes, "perParent")
	}
	if tc.M2M != nil {
		modes = append(modes, "m2m")
	}
	return modes
}

// Load reads and decodes a scenario document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return &doc, nil
}
