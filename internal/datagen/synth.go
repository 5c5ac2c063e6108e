package datagen

import (
	"fmt"
	"strings"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// Row maps column name to a generated value.
type Row map[string]any

// Dataset maps table name to its ordered generated rows.
type Dataset map[string][]Row

// ambientNullRate is the background null noise applied to nullable,
// non-key, non-overridden columns when the scenario author configured
// no explicit rate.
const ambientNullRate = 0.05

type synthesizer struct {
	doc   *schema.Document
	scn   *scenario.Document
	plan  *Plan
	rng   *RNG
	faker *Faker

	// keys accumulates each table's primary-key values (scalar, or
	// []any tuple for composite keys) in generation order; later
	// tables read earlier tables' keys from it.
	keys     map[string][]any
	warnings []string
}

// Synthesize materializes every table in plan order. The returned
// warnings record non-fatal conditions such as an m2m right-side pool
// smaller than the requested sample.
func Synthesize(doc *schema.Document, scn *scenario.Document, plan *Plan, rng *RNG, faker *Faker) (Dataset, []string, error) {
	s := &synthesizer{
		doc:   doc,
		scn:   scn,
		plan:  plan,
		rng:   rng,
		faker: faker,
		keys:  make(map[string][]any),
	}

	data := make(Dataset, len(plan.Order))
	for _, name := range plan.Order {
		rows, err := s.synthesizeTable(name)
		if err != nil {
			return nil, s.warnings, err
		}
		data[name] = rows
	}
	return data, s.warnings, nil
}

func (s *synthesizer) synthesizeTable(name string) ([]Row, error) {
	tbl := s.doc.Tables[name]
	tc := s.scn.Tables[name]
	tp := s.plan.Tables[name]
	cons := ParseChecks(tbl.Checks)

	rows := make([]Row, 0, tp.RowCount)

	emit := func(build func(Row)) error {
		row, err := s.generateRow(tbl, tc, cons, len(rows))
		if err != nil {
			return err
		}
		if build != nil {
			build(row)
		}
		if err := s.applyRules(tbl, tc, cons, row, len(rows)); err != nil {
			return err
		}
		cons.RepairRelational(row)
		rows = append(rows, row)
		s.keys[name] = append(s.keys[name], extractPrimaryKey(tbl, row))
		return nil
	}

	switch tp.Mode {
	case ModeFixed:
		for i := 0; i < tp.RowCount; i++ {
			if err := emit(nil); err != nil {
				return nil, err
			}
		}

	case ModePerParent:
		parentKeys := s.keys[tp.Parent]
		for pi, parentKey := range parentKeys {
			for n := 0; n < tp.PerParentCounts[pi]; n++ {
				key := parentKey
				if err := emit(func(row Row) {
					assignForeignKey(row, tp.ParentFK, key)
				}); err != nil {
					return nil, err
				}
			}
		}

	case ModeM2M:
		leftKeys := s.keys[tp.Left]
		rightPool := s.keys[tp.Right]
		for li, leftKey := range leftKeys {
			want := tp.PerLeftCounts[li]
			if want > len(rightPool) {
				s.warnings = append(s.warnings, fmt.Sprintf(
					"table %s: %s has only %d rows, requested %d per %s row; using the full pool",
					name, tp.Right, len(rightPool), want, tp.Left))
			}
			sampled := s.rng.Sample(rightPool, want)
			for _, rightKey := range sampled {
				lk, rk := leftKey, rightKey
				if err := emit(func(row Row) {
					assignForeignKey(row, tp.LeftFK, lk)
					assignForeignKey(row, tp.RightFK, rk)
				}); err != nil {
					return nil, err
				}
			}
		}
	}

	return rows, nil
}

// generateRow resolves every column independently, in declared order.
func (s *synthesizer) generateRow(tbl *schema.Table, tc *scenario.TableConfig, cons *TableConstraints, rowIndex int) (Row, error) {
	row := make(Row, len(tbl.Columns))
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if col.IsGenerated {
			continue
		}

		value, err := s.resolveValue(tbl, tc, cons, col, rowIndex)
		if err != nil {
			return nil, err
		}

		var override *scenario.Override
		if tc != nil {
			override = tc.Overrides[col.Name]
		}
		rate, rateSet := float64(0), false
		if tc != nil {
			rate, rateSet = tc.NullRates[col.Name]
		}

		switch {
		case rateSet:
			if col.Nullable && s.rng.Bernoulli(rate) {
				value = nil
			}
		case col.Nullable && !tbl.IsPrimaryKey(col.Name) && override == nil:
			if s.rng.Bernoulli(ambientNullRate) {
				value = nil
			}
		}

		row[col.Name] = value
	}
	return row, nil
}

// resolveValue applies the fixed priority chain: fixed override, one-of
// override, range override, distribution, enum values, type default.
func (s *synthesizer) resolveValue(tbl *schema.Table, tc *scenario.TableConfig, cons *TableConstraints, col *schema.Column, rowIndex int) (any, error) {
	if tc != nil {
		if ov := tc.Overrides[col.Name]; ov != nil {
			switch {
			case ov.Value != nil:
				return ov.Value, nil
			case len(ov.OneOf) > 0:
				return s.rng.Pick(ov.OneOf, fmt.Sprintf("oneOf override for %s.%s", tbl.Name, col.Name))
			case ov.Range != nil:
				if schema.IsIntegerType(col.Type) {
					return s.rng.IntBetween(int(ov.Range.Min), int(ov.Range.Max)), nil
				}
				return s.rng.FloatBetween(ov.Range.Min, ov.Range.Max), nil
			}
		}

		if dist, ok := tc.Distributions[col.Name]; ok {
			value, ok := s.rng.WeightedPick(dist)
			if !ok {
				return nil, &EmptyWeightMapError{Table: tbl.Name, Column: col.Name}
			}
			return value, nil
		}
	}

	if len(col.EnumValues) > 0 {
		return s.rng.PickString(col.EnumValues, fmt.Sprintf("enum values for %s.%s", tbl.Name, col.Name))
	}

	return s.faker.Default(col, rowIndex, tbl.IsPrimaryKey(col.Name), cons), nil
}

// applyRules runs the scenario's coherence rules in declaration order.
// Dotted condition keys are recognized but never match; cross-table
// coherence is not supported at this layer.
func (s *synthesizer) applyRules(tbl *schema.Table, tc *scenario.TableConfig, cons *TableConstraints, row Row, rowIndex int) error {
	if tc == nil {
		return nil
	}
	for _, rule := range tc.Rules {
		if !ruleMatches(rule, row) {
			continue
		}
		for colName, v := range rule.Set {
			if v == scenario.GenerateValue {
				col := tbl.Column(colName)
				if col == nil {
					continue
				}
				// Forced synthesis ignores primary-key status and
				// never yields null.
				row[colName] = s.faker.Default(col, rowIndex, false, cons)
				continue
			}
			row[colName] = v
		}
	}
	return nil
}

func ruleMatches(rule scenario.Rule, row Row) bool {
	if len(rule.When) == 0 {
		return false
	}
	for key, expected := range rule.When {
		if strings.Contains(key, ".") {
			return false
		}
		actual, ok := row[key]
		if !ok || !looselyEqual(actual, expected) {
			return false
		}
	}
	return true
}

// looselyEqual compares a generated value against a YAML literal,
// tolerating the int/int64/float64 drift between the two sides.
func looselyEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return false
}

// extractPrimaryKey returns a scalar for single-column keys and an
// ordered tuple for composite keys.
func extractPrimaryKey(tbl *schema.Table, row Row) any {
	if len(tbl.PrimaryKey) == 1 {
		return row[tbl.PrimaryKey[0]]
	}
	tuple := make([]any, len(tbl.PrimaryKey))
	for i, col := range tbl.PrimaryKey {
		tuple[i] = row[col]
	}
	return tuple
}

// assignForeignKey overwrites the row's FK columns with the referenced
// key: scalars map onto single-column FKs, tuples unpack positionally.
func assignForeignKey(row Row, fkCols []string, key any) {
	tuple, isTuple := key.([]any)
	if len(fkCols) == 1 {
		if isTuple && len(tuple) == 1 {
			row[fkCols[0]] = tuple[0]
			return
		}
		row[fkCols[0]] = key
		return
	}
	if !isTuple {
		return
	}
	for i, col := range fkCols {
		if i < len(tuple) {
			row[col] = tuple[i]
		}
	}
}
