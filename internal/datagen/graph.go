package datagen

import (
	"sort"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// DependencyGraph orders the tables selected by a scenario so that
// every table referencing another comes after the table it references.
type DependencyGraph struct {
	tables []string
	index  map[string]int
	edges  map[string]map[string]bool // from -> set of referenced tables
}

// NewDependencyGraph builds the graph for the given table list,
// restricting foreign-key edges to tables inside the list.
// Self-references are dropped. The list's order is the tie-break for
// the resulting insertion order, so callers must supply a stable one.
func NewDependencyGraph(doc *schema.Document, tables []string) *DependencyGraph {
	g := &DependencyGraph{
		index: make(map[string]int, len(tables)),
		edges: make(map[string]map[string]bool),
	}
	for _, name := range tables {
		if _, seen := g.index[name]; seen {
			continue
		}
		g.index[name] = len(g.tables)
		g.tables = append(g.tables, name)
	}
	for _, name := range g.tables {
		tbl, ok := doc.Tables[name]
		if !ok {
			continue
		}
		for _, fk := range tbl.ForeignKeys {
			if fk.RefTable == name {
				continue
			}
			if _, inSet := g.index[fk.RefTable]; !inSet {
				continue
			}
			if g.edges[name] == nil {
				g.edges[name] = make(map[string]bool)
			}
			g.edges[name][fk.RefTable] = true
		}
	}
	return g
}

// InsertionOrder runs Kahn's algorithm with a FIFO queue: tables with
// no unresolved dependency are emitted first, ties breaking by the
// order tables were first seen in the input list. Returns a
// CyclicDependencyError naming the unplaceable tables when edges remain
// after the queue drains.
func (g *DependencyGraph) InsertionOrder() ([]string, error) {
	// out-degree here counts unresolved references of each table
	pending := make(map[string]int, len(g.tables))
	dependents := make(map[string][]string)
	for _, name := range g.tables {
		pending[name] = len(g.edges[name])
		for ref := range g.edges[name] {
			dependents[ref] = append(dependents[ref], name)
		}
	}

	var queue []string
	for _, name := range g.tables {
		if pending[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(g.tables))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		deps := dependents[name]
		// Resolve dependents in input order so the queue stays stable.
		sort.SliceStable(deps, func(i, j int) bool {
			return g.index[deps[i]] < g.index[deps[j]]
		})
		for _, dep := range deps {
			pending[dep]--
			if pending[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(g.tables) {
		var cyclic []string
		for _, name := range g.tables {
			if pending[name] > 0 {
				cyclic = append(cyclic, name)
			}
		}
		return nil, &CyclicDependencyError{Tables: cyclic}
	}
	return order, nil
}
