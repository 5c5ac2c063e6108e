package datagen

import (
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

type CountMode string

const (
	ModeFixed     CountMode = "fixed"
	ModePerParent CountMode = "perParent"
	ModeM2M       CountMode = "m2m"
)

// TablePlan records a table's resolved mode and row count, plus enough
// linkage data for the synthesizer to reconstruct row-to-parent
// assignment without re-deriving it.
type TablePlan struct {
	Table    string
	Mode     CountMode
	RowCount int

	// perParent: counts align by index with the parent's generated
	// primary-key list.
	Parent          string
	ParentFK        []string
	PerParentCounts []int

	// m2m: counts align by index with the left table's primary keys.
	Left          string
	LeftFK        []string
	Right         string
	RightFK       []string
	PerLeftCounts []int
}

// Plan is the resolved row-count plan for a whole run.
type Plan struct {
	Seed   int64
	Order  []string
	Tables map[string]*TablePlan
}

// BuildPlan walks tables in insertion order and resolves each one's
// count mode into a concrete row count, drawing per-parent and per-left
// counts from the stream. A running count map feeds later tables that
// depend on earlier ones.
func BuildPlan(doc *schema.Document, scn *scenario.Document, order []string, rng *RNG) (*Plan, error) {
	plan := &Plan{
		Seed:   rng.Seed(),
		Order:  order,
		Tables: make(map[string]*TablePlan, len(order)),
	}
	counts := make(map[string]int, len(order))

	for _, name := range order {
		tc := scn.Tables[name]
		modes := tc.Modes()
		if len(modes) != 1 {
			return nil, &CountModeError{Table: name, Modes: modes}
		}

		tp := &TablePlan{Table: name}
		switch modes[0] {
		case "count":
			tp.Mode = ModeFixed
			tp.RowCount = *tc.Count

		case "perParent":
			cfg := tc.PerParent
			if err := validateFkColumns(doc, name, cfg.Parent, cfg.FkColumns); err != nil {
				return nil, err
			}
			tp.Mode = ModePerParent
			tp.Parent = cfg.Parent
			tp.ParentFK = cfg.FkColumns
			// Zero when the parent is outside the scenario; that
			// configuration error is left to the caller to spot.
			parentRows := counts[cfg.Parent]
			tp.PerParentCounts = make([]int, parentRows)
			for i := 0; i < parentRows; i++ {
				n := rng.IntBetween(cfg.Min, cfg.Max)
				tp.PerParentCounts[i] = n
				tp.RowCount += n
			}

		case "m2m":
			cfg := tc.M2M
			if err := validateFkColumns(doc, name, cfg.Left, cfg.LeftColumns); err != nil {
				return nil, err
			}
			if err := validateFkColumns(doc, name, cfg.Right, cfg.RightColumns); err != nil {
				return nil, err
			}
			tp.Mode = ModeM2M
			tp.Left = cfg.Left
			tp.LeftFK = cfg.LeftColumns
			tp.Right = cfg.Right
			tp.RightFK = cfg.RightColumns
			leftRows := counts[cfg.Left]
			tp.PerLeftCounts = make([]int, leftRows)
			for i := 0; i < leftRows; i++ {
				n := rng.IntBetween(cfg.Min, cfg.Max)
				tp.PerLeftCounts[i] = n
				tp.RowCount += n
			}
		}

		counts[name] = tp.RowCount
		plan.Tables[name] = tp
	}
	return plan, nil
}

// validateFkColumns requires the requested column list to match, by
// referenced table and positional column order, a foreign key actually
// declared on the table.
func validateFkColumns(doc *schema.Document, table, refTable string, cols []string) error {
	tbl, ok := doc.Tables[table]
	if !ok {
		return &FkMismatchError{Table: table, RefTable: refTable, Requested: cols}
	}
	available := tbl.ForeignKeysTo(refTable)
	for _, fk := range available {
		if equalStrings(fk.Columns, cols) {
			return nil
		}
	}
	err := &FkMismatchError{Table: table, RefTable: refTable, Requested: cols}
	for _, fk := range available {
		err.Available = append(err.Available, fk.Columns)
	}
	return err
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
