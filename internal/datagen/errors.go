package datagen

import (
	"fmt"
	"strings"
)

// CyclicDependencyError is returned when the foreign-key graph over the
// scenario's tables has no valid topological order. Tables lists every
// table that could not be placed.
type CyclicDependencyError struct {
	Tables []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic foreign-key dependency involving tables: %s", strings.Join(e.Tables, ", "))
}

// CountModeError is returned when a table's scenario configuration sets
// zero or more than one of count / perParent / m2m.
type CountModeError struct {
	Table string
	Modes []string
}

func (e *CountModeError) Error() string {
	if len(e.Modes) == 0 {
		return fmt.Sprintf("table %s: no count mode configured (set one of count, perParent, m2m)", e.Table)
	}
	return fmt.Sprintf("table %s: multiple count modes configured (%s), exactly one allowed", e.Table, strings.Join(e.Modes, ", "))
}

// FkMismatchError is returned when a perParent/m2m column list does not
// match any declared foreign-key constraint on the table.
type FkMismatchError struct {
	Table     string
	RefTable  string
	Requested []string
	Available [][]string
}

func (e *FkMismatchError) Error() string {
	var avail []string
	for _, cols := range e.Available {
		avail = append(avail, "("+strings.Join(cols, ", ")+")")
	}
	if len(avail) == 0 {
		return fmt.Sprintf("table %s: no foreign key on columns (%s) referencing %s; the table declares no constraint to %s",
			e.Table, strings.Join(e.Requested, ", "), e.RefTable, e.RefTable)
	}
	return fmt.Sprintf("table %s: no foreign key on columns (%s) referencing %s; declared constraints to %s: %s",
		e.Table, strings.Join(e.Requested, ", "), e.RefTable, e.RefTable, strings.Join(avail, ", "))
}

// EmptyWeightMapError is returned when a distribution carries no
// positive weight.
type EmptyWeightMapError struct {
	Table  string
	Column string
}

func (e *EmptyWeightMapError) Error() string {
	return fmt.Sprintf("table %s, column %s: distribution has no positive-weight entry", e.Table, e.Column)
}

// EmptyPickSourceError is returned when a uniform pick is attempted
// over zero candidates. This indicates a logic error, not bad input.
type EmptyPickSourceError struct {
	Context string
}

func (e *EmptyPickSourceError) Error() string {
	return fmt.Sprintf("uniform pick over empty candidate set: %s", e.Context)
}
