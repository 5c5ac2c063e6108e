package datagen

import (
	"time"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// Options tune a generation run. Seed overrides the scenario's seed;
// when both are absent the run is seeded from the wall clock. Anchor
// fixes the reference instant for date/timestamp lookback windows and
// defaults to time.Now().
type Options struct {
	Seed   *int64
	Anchor time.Time
}

// Result is a completed run: the resolved plan (also useful for dry
// runs), the generated rows per table, and any non-fatal warnings.
type Result struct {
	Plan     *Plan
	Data     Dataset
	Warnings []string
}

// Run executes a full generation: order the scenario's tables by the
// foreign-key graph, resolve the row-count plan, then synthesize rows.
// The run is a pure function of (schema, scenario, seed, anchor); any
// failure aborts the whole run and no partial output is returned.
func Run(doc *schema.Document, scn *scenario.Document, opts Options) (*Result, error) {
	rng := newRunRNG(scn, opts)

	plan, err := ResolvePlan(doc, scn, rng)
	if err != nil {
		return nil, err
	}

	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	faker := NewFaker(rng, anchor)

	data, warnings, err := Synthesize(doc, scn, plan, rng, faker)
	if err != nil {
		return nil, err
	}
	return &Result{Plan: plan, Data: data, Warnings: warnings}, nil
}

// ResolvePlan orders the scenario's tables and builds the row-count
// plan without synthesizing any rows. Callers wanting a full run must
// pass the same RNG on to Synthesize so the draw sequence stays
// contiguous.
func ResolvePlan(doc *schema.Document, scn *scenario.Document, rng *RNG) (*Plan, error) {
	graph := NewDependencyGraph(doc, scn.TableOrder)
	order, err := graph.InsertionOrder()
	if err != nil {
		return nil, err
	}
	return BuildPlan(doc, scn, order, rng)
}

// DryRun resolves the plan with the same seed precedence as Run but
// synthesizes nothing. Used for plan previews.
func DryRun(doc *schema.Document, scn *scenario.Document, opts Options) (*Plan, error) {
	return ResolvePlan(doc, scn, newRunRNG(scn, opts))
}

func newRunRNG(scn *scenario.Document, opts Options) *RNG {
	switch {
	case opts.Seed != nil:
		return NewRNG(*opts.Seed)
	case scn.Seed != nil:
		return NewRNG(*scn.Seed)
	default:
		return NewTimeSeededRNG()
	}
}
