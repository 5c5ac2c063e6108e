package datagen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

// Bound is one side of a per-column range accumulated from check
// clauses.
type Bound struct {
	Value     float64
	Exclusive bool
}

// ColumnBounds accumulates range clauses for a single column.
type ColumnBounds struct {
	Min *Bound
	Max *Bound
}

// RelationalConstraint is a cross-column comparison recorded verbatim
// from a check clause, e.g. reserved <= on_hand.
type RelationalConstraint struct {
	Left  string
	Op    string
	Right string
}

func (rc RelationalConstraint) String() string {
	return rc.Left + " " + rc.Op + " " + rc.Right
}

// TableConstraints holds everything the engine extracted from a
// table's check constraints.
type TableConstraints struct {
	Bounds     map[string]*ColumnBounds
	Relational []RelationalConstraint
}

var (
	rangeClauseRe      = regexp.MustCompile(`^\s*"?(\w+)"?\s*(<=|>=|<|>|=)\s*(-?\d+(?:\.\d+)?)\s*$`)
	relationalClauseRe = regexp.MustCompile(`^\s*"?(\w+)"?\s*(<=|>=|<|>|=|!=|<>)\s*"?([a-zA-Z_]\w*)"?\s*$`)
)

// ParseChecks extracts range bounds and relational comparisons from a
// table's check constraints. Each expression is split on top-level AND;
// clauses containing OR or any other unrecognized shape are skipped, a
// documented limitation.
func ParseChecks(checks []schema.CheckConstraint) *TableConstraints {
	tc := &TableConstraints{Bounds: make(map[string]*ColumnBounds)}
	for _, check := range checks {
		for _, clause := range splitTopLevelAnd(stripOuterParens(check.Expression)) {
			tc.parseClause(clause)
		}
	}
	return tc
}

func (tc *TableConstraints) parseClause(clause string) {
	clause = stripOuterParens(clause)
	if containsWord(clause, "or") {
		return
	}

	if m := rangeClauseRe.FindStringSubmatch(clause); m != nil {
		val, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return
		}
		tc.addBound(m[1], m[2], val)
		return
	}

	if m := relationalClauseRe.FindStringSubmatch(clause); m != nil {
		op := m[2]
		if op == "<>" {
			op = "!="
		}
		tc.Relational = append(tc.Relational, RelationalConstraint{Left: m[1], Op: op, Right: m[3]})
	}
}

func (tc *TableConstraints) addBound(col, op string, val float64) {
	b := tc.Bounds[col]
	if b == nil {
		b = &ColumnBounds{}
		tc.Bounds[col] = b
	}
	switch op {
	case ">=":
		b.tightenMin(val, false)
	case ">":
		b.tightenMin(val, true)
	case "<=":
		b.tightenMax(val, false)
	case "<":
		b.tightenMax(val, true)
	case "=":
		b.tightenMin(val, false)
		b.tightenMax(val, false)
	}
}

func (b *ColumnBounds) tightenMin(val float64, exclusive bool) {
	if b.Min == nil || val > b.Min.Value || (val == b.Min.Value && exclusive) {
		b.Min = &Bound{Value: val, Exclusive: exclusive}
	}
}

func (b *ColumnBounds) tightenMax(val float64, exclusive bool) {
	if b.Max == nil || val < b.Max.Value || (val == b.Max.Value && exclusive) {
		b.Max = &Bound{Value: val, Exclusive: exclusive}
	}
}

// ApplyRangeBounds narrows a default inclusive [min,max] by the bounds
// extracted for col. Exclusive bounds convert to inclusive by one
// step, which assumes an integer domain.
func (tc *TableConstraints) ApplyRangeBounds(col string, defMin, defMax int) (int, int) {
	b, ok := tc.Bounds[col]
	if !ok {
		return defMin, defMax
	}
	min, max := defMin, defMax
	if b.Min != nil {
		v := int(b.Min.Value)
		if b.Min.Exclusive {
			v++
		}
		if v > min {
			min = v
		}
	}
	if b.Max != nil {
		v := int(b.Max.Value)
		if b.Max.Exclusive {
			v--
		}
		if v < max {
			max = v
		}
	}
	if max < min {
		max = min
	}
	return min, max
}

// ValidateRelational returns the relational constraints a row violates.
// Constraints with non-numeric or absent operands are skipped.
func (tc *TableConstraints) ValidateRelational(row map[string]any) []RelationalConstraint {
	var violated []RelationalConstraint
	for _, rc := range tc.Relational {
		left, lok := toFloat(row[rc.Left])
		right, rok := toFloat(row[rc.Right])
		if !lok || !rok {
			continue
		}
		if !compareOp(left, rc.Op, right) {
			violated = append(violated, rc)
		}
	}
	return violated
}

// RepairRelational fixes violations in place with a minimal adjustment
// to the left operand only. = and != have no repair rule and are left
// untouched, a documented gap.
func (tc *TableConstraints) RepairRelational(row map[string]any) {
	for _, rc := range tc.ValidateRelational(row) {
		right, ok := toFloat(row[rc.Right])
		if !ok {
			continue
		}
		isInt := isIntegerValue(row[rc.Left])
		var fixed float64
		switch rc.Op {
		case "<=":
			fixed = right
		case "<":
			fixed = right - 1
			if fixed < 0 {
				fixed = 0
			}
		case ">=":
			fixed = right
		case ">":
			fixed = right + 1
		default:
			continue
		}
		if isInt {
			row[rc.Left] = int(fixed)
		} else {
			row[rc.Left] = fixed
		}
	}
}

func compareOp(left float64, op string, right float64) bool {
	switch op {
	case "<=":
		return left <= right
	case ">=":
		return left >= right
	case "<":
		return left < right
	case ">":
		return left > right
	case "=":
		return left == right
	case "!=":
		return left != right
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isIntegerValue(v any) bool {
	switch v.(type) {
	case int, int16, int32, int64:
		return true
	}
	return false
}

// splitTopLevelAnd splits an expression on AND conjunctions outside any
// parentheses.
func splitTopLevelAnd(expr string) []string {
	var parts []string
	depth := 0
	last := 0
	upper := strings.ToUpper(expr)
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 && i+3 <= len(expr) && upper[i:i+3] == "AND" &&
				boundaryAt(expr, i-1) && boundaryAt(expr, i+3) {
				parts = append(parts, expr[last:i])
				i += 2
				last = i + 1
			}
		}
	}
	parts = append(parts, expr[last:])
	return parts
}

func boundaryAt(expr string, i int) bool {
	if i < 0 || i >= len(expr) {
		return true
	}
	c := expr[i]
	return !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
}

func containsWord(expr, word string) bool {
	lower := strings.ToLower(expr)
	for i := 0; ; {
		j := strings.Index(lower[i:], word)
		if j < 0 {
			return false
		}
		j += i
		if boundaryAt(expr, j-1) && boundaryAt(expr, j+len(word)) {
			return true
		}
		i = j + len(word)
	}
}

// stripOuterParens removes balanced surrounding parentheses.
func stripOuterParens(expr string) string {
	s := strings.TrimSpace(expr)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		depth := 0
		balanced := true
		for i := 0; i < len(s)-1; i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				balanced = false
				break
			}
		}
		if !balanced {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
