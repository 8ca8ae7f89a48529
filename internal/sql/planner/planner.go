// Package planner implements the SQL query planner.
//
// EDUCATIONAL NOTES:
// ------------------
// A query planner turns a parsed SELECT into a description of the work to
// do before any data is touched. For a column store the key questions are:
// - Which columns must be read from storage? Reading fewer columns is the
//   whole point of a columnar layout.
// - Is this an aggregate query (one output row) or a projection?
// - Which output columns are produced, under what names?
//
// Storage addresses columns by name, so the read set is sorted and
// deduplicated: SELECT id, MAX(id) reads "id" once.
//
// WHERE, GROUP BY and ORDER BY are accepted by the parser but never
// evaluated. The plan records them so EXPLAIN can say so.

package planner

import (
	"fmt"
	"sort"
	"strings"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/sql/parser"
	"github.com/cabewaldrop/lightoladb/internal/table"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// Mode is how a SELECT produces its result.
type Mode int

const (
	// Projection returns the stored rows restricted to the selected columns.
	Projection Mode = iota
	// Aggregate folds every row into a single output row.
	Aggregate
)

func (m Mode) String() string {
	switch m {
	case Projection:
		return "PROJECTION"
	case Aggregate:
		return "AGGREGATE"
	default:
		return "UNKNOWN"
	}
}

// Output is one column of the result.
type Output struct {
	Name      string
	Column    string // source column, or "*" for COUNT(*)
	Aggregate parser.AggregateFunc
	Type      types.DataType // type of Column; nil for "*"
}

// QueryPlan represents the execution plan for a query.
type QueryPlan struct {
	Table       string
	Mode        Mode
	ReadColumns []string
	Outputs     []Output
	Limit       uint64

	// Dropped lists plain columns that were selected next to aggregates and
	// are left out of the single aggregate row.
	Dropped []string

	// Ignored lists clauses that were parsed but are not evaluated.
	Ignored []string
}

// ColumnNames returns the output names in order.
func (p *QueryPlan) ColumnNames() []string {
	names := make([]string, len(p.Outputs))
	for i, o := range p.Outputs {
		names[i] = o.Name
	}
	return names
}

// String returns a human-readable representation of the query plan.
func (p *QueryPlan) String() string {
	var parts []string
	for _, prop := range p.Properties() {
		parts = append(parts, prop[0]+"="+prop[1])
	}
	return strings.Join(parts, " ")
}

// Properties lists the plan as (property, value) pairs for EXPLAIN.
func (p *QueryPlan) Properties() [][2]string {
	outputs := make([]string, len(p.Outputs))
	for i, o := range p.Outputs {
		expr := o.Column
		if o.Aggregate != parser.AggNone {
			expr = fmt.Sprintf("%s(%s)", o.Aggregate, o.Column)
		}
		if expr != o.Name {
			expr += " AS " + o.Name
		}
		outputs[i] = expr
	}

	limit := "none"
	if p.Limit > 0 {
		limit = fmt.Sprint(p.Limit)
	}

	props := [][2]string{
		{"table", p.Table},
		{"access", "FULL_SCAN"},
		{"mode", p.Mode.String()},
		{"read_columns", strings.Join(p.ReadColumns, ", ")},
		{"outputs", strings.Join(outputs, ", ")},
		{"limit", limit},
	}
	if len(p.Dropped) > 0 {
		props = append(props, [2]string{"dropped", strings.Join(p.Dropped, ", ")})
	}
	if len(p.Ignored) > 0 {
		props = append(props, [2]string{"not_evaluated", strings.Join(p.Ignored, ", ")})
	}
	return props
}

// Planner analyzes queries and generates execution plans.
type Planner struct{}

// New creates a new Planner.
func New() *Planner {
	return &Planner{}
}

// PlanSelect resolves a SELECT against the table schema. Unknown columns
// fail with ErrColumnNotFound.
func (p *Planner) PlanSelect(stmt *parser.SelectStatement, schema *table.Schema) (*QueryPlan, error) {
	plan := &QueryPlan{
		Table: stmt.Table,
		Mode:  Projection,
		Limit: stmt.Limit,
	}
	if stmt.HasAggregates() {
		plan.Mode = Aggregate
	}

	var read []string

	if stmt.SelectAll {
		for _, c := range schema.Columns {
			plan.Outputs = append(plan.Outputs, Output{Name: c.Name, Column: c.Name, Type: c.Type})
			read = append(read, c.Name)
		}
	}

	for _, expr := range stmt.Columns {
		out := Output{Name: expr.OutputName(), Column: expr.Column, Aggregate: expr.Aggregate}

		if expr.Column != parser.StarColumn {
			col, err := schema.GetColumn(expr.Column)
			if err != nil {
				return nil, err
			}
			out.Type = col.Type
			read = append(read, expr.Column)
		} else if expr.Aggregate != parser.AggCount {
			return nil, fmt.Errorf("%w: %s(*)", dberr.ErrUnsupportedAggregate, expr.Aggregate)
		}

		if plan.Mode == Aggregate && !expr.IsAggregate() {
			plan.Dropped = append(plan.Dropped, expr.Column)
			continue
		}
		plan.Outputs = append(plan.Outputs, out)
	}

	// COUNT(*) alone still needs one column to learn the row counts.
	if len(read) == 0 && schema.ColumnCount() > 0 {
		read = append(read, schema.Columns[0].Name)
	}
	plan.ReadColumns = uniqueSorted(read)

	if stmt.Where != "" {
		plan.Ignored = append(plan.Ignored, "WHERE")
	}
	if len(stmt.GroupBy) > 0 {
		plan.Ignored = append(plan.Ignored, "GROUP BY")
	}
	if len(stmt.OrderBy) > 0 {
		plan.Ignored = append(plan.Ignored, "ORDER BY")
	}
	if plan.Mode == Aggregate && plan.Limit > 0 {
		plan.Ignored = append(plan.Ignored, "LIMIT")
	}

	return plan, nil
}

// uniqueSorted sorts names and removes duplicates.
func uniqueSorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	n := 0
	for i, name := range out {
		if i == 0 || name != out[n-1] {
			out[n] = name
			n++
		}
	}
	return out[:n]
}
