// Package executor implements the SQL query executor.
//
// EDUCATIONAL NOTES:
// ------------------
// The executor is the component that actually runs SQL statements.
// It takes an AST (Abstract Syntax Tree) from the parser and:
// 1. Validates the statement (table exists, columns exist, types resolve)
// 2. Asks the planner which columns to read and what to output
// 3. Moves Blocks between storage and the caller
//
// A column store executes "a column at a time": a SELECT reads whole
// column vectors from storage and either hands them back as they are
// (projection) or folds each one into a single value (aggregation). No
// row is materialized until the result is formatted.
//
// Errors never escape Execute. Every failure becomes a QueryResult with
// Success=false, so a caller can always print what came back.

package executor

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cabewaldrop/lightoladb/internal/catalog"
	"github.com/cabewaldrop/lightoladb/internal/columnar"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/sql/parser"
	"github.com/cabewaldrop/lightoladb/internal/sql/planner"
	"github.com/cabewaldrop/lightoladb/internal/storage"
	"github.com/cabewaldrop/lightoladb/internal/table"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// Executor executes SQL statements against an in-memory table registry.
// It is not safe for concurrent DDL; see database.Database for a guarded
// entry point.
type Executor struct {
	catalog *catalog.Catalog
	planner *planner.Planner
	log     logrus.FieldLogger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Executor) { e.log = log }
}

// New creates an Executor with an empty table registry.
func New(opts ...Option) *Executor {
	e := &Executor{
		catalog: catalog.NewCatalog(),
		planner: planner.New(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the table registry.
func (e *Executor) Catalog() *catalog.Catalog { return e.catalog }

// GetTables returns the names of all tables, sorted.
func (e *Executor) GetTables() []string { return e.catalog.ListTables() }

// Execute runs a statement. It never returns an error: failures are
// reported through the result.
func (e *Executor) Execute(stmt parser.Statement) *QueryResult {
	var (
		result *QueryResult
		err    error
	)

	switch s := stmt.(type) {
	case *parser.CreateTableStatement:
		result, err = e.executeCreateTable(s)
	case *parser.InsertStatement:
		result, err = e.executeInsert(s)
	case *parser.SelectStatement:
		result, err = e.executeSelect(s)
	case *parser.DropTableStatement:
		result, err = e.executeDropTable(s)
	case *parser.ShowTablesStatement:
		result, err = e.executeShowTables()
	case *parser.DescribeStatement:
		result, err = e.executeDescribe(s)
	case *parser.ExplainStatement:
		result, err = e.executeExplain(s)
	default:
		err = fmt.Errorf("unsupported statement type: %T", stmt)
	}

	if err != nil {
		return Failure(err)
	}
	return result
}

func (e *Executor) executeCreateTable(stmt *parser.CreateTableStatement) (*QueryResult, error) {
	if e.catalog.HasTable(stmt.Table) {
		return nil, fmt.Errorf("%w: Table '%s' already exists", dberr.ErrTableAlreadyExists, stmt.Table)
	}

	schema := table.NewSchema(stmt.Table)
	for _, col := range stmt.Columns {
		dt, err := types.Resolve(col.TypeName)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", col.Name, err)
		}
		if err := schema.AddColumn(col.Name, dt); err != nil {
			return nil, err
		}
	}

	engine := stmt.Engine
	if engine == "" {
		engine = parser.DefaultEngine
	}
	st, err := storage.New(engine, schema)
	if err != nil {
		return nil, err
	}

	if err := e.catalog.AddTable(stmt.Table, st); err != nil {
		return nil, err
	}
	return success(fmt.Sprintf("Table '%s' created successfully", stmt.Table)), nil
}

func (e *Executor) executeDropTable(stmt *parser.DropTableStatement) (*QueryResult, error) {
	if !e.catalog.HasTable(stmt.Table) {
		if stmt.IfExists {
			return success(fmt.Sprintf("Table '%s' does not exist", stmt.Table)), nil
		}
		return nil, fmt.Errorf("%w: Table '%s' does not exist", dberr.ErrTableNotFound, stmt.Table)
	}

	if err := e.catalog.RemoveTable(stmt.Table); err != nil {
		return nil, err
	}
	return success(fmt.Sprintf("Table '%s' dropped successfully", stmt.Table)), nil
}

// executeInsert converts every literal into a fresh block, one column per
// targeted field in the order the statement lists them, and hands it to
// storage in one call. Storage rejects a block whose layout differs from the
// table's, so a column list must name every column in declared order.
func (e *Executor) executeInsert(stmt *parser.InsertStatement) (*QueryResult, error) {
	st, err := e.lookup(stmt.Table)
	if err != nil {
		return nil, err
	}

	targets, err := insertTargets(stmt, st.Schema())
	if err != nil {
		return nil, err
	}
	if len(stmt.Rows) == 0 {
		return nil, fmt.Errorf("%w: table '%s'", dberr.ErrNoValuesToInsert, stmt.Table)
	}
	for i, row := range stmt.Rows {
		if len(row) != len(targets) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d",
				dberr.ErrColumnCountMismatch, i+1, len(row), len(targets))
		}
	}

	block := columnar.NewBlock()
	for _, target := range targets {
		col, err := columnar.New(target.Type)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", target.Name, err)
		}
		block.AddColumn(target.Name, col)
	}

	for _, row := range stmt.Rows {
		for j, nc := range block.Columns() {
			if err := nc.Column.AppendLiteral(row[j]); err != nil {
				return nil, fmt.Errorf("column '%s': %w", nc.Name, err)
			}
		}
	}

	if err := st.Insert(block); err != nil {
		return nil, err
	}
	return success(fmt.Sprintf("%d rows inserted", len(stmt.Rows))), nil
}

// insertTargets resolves the statement's column list against the schema.
// Without a list every schema column is targeted in declared order.
func insertTargets(stmt *parser.InsertStatement, schema *table.Schema) ([]table.Column, error) {
	if len(stmt.Columns) == 0 {
		return schema.Columns, nil
	}

	seen := make(map[string]bool, len(stmt.Columns))
	targets := make([]table.Column, 0, len(stmt.Columns))
	for _, name := range stmt.Columns {
		col, err := schema.GetColumn(name)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s' in table '%s'", dberr.ErrColumnNotFound, name, stmt.Table)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: '%s' listed twice", dberr.ErrDuplicateColumn, name)
		}
		seen[name] = true
		targets = append(targets, col)
	}
	return targets, nil
}

func (e *Executor) executeSelect(stmt *parser.SelectStatement) (*QueryResult, error) {
	st, err := e.lookup(stmt.Table)
	if err != nil {
		return nil, err
	}

	plan, err := e.planner.PlanSelect(stmt, st.Schema())
	if err != nil {
		return nil, err
	}
	if len(plan.Ignored) > 0 || len(plan.Dropped) > 0 {
		e.log.WithFields(logrus.Fields{
			"table":   plan.Table,
			"ignored": plan.Ignored,
			"dropped": plan.Dropped,
		}).Debug("select clauses not evaluated")
	}

	blocks, err := st.Read(plan.ReadColumns)
	if err != nil {
		return nil, err
	}

	if plan.Mode == planner.Aggregate {
		block, err := aggregate(plan, blocks)
		if err != nil {
			return nil, err
		}
		return rowsResult(plan.ColumnNames(), block), nil
	}

	projected, err := project(plan, blocks)
	if err != nil {
		return nil, err
	}
	return rowsResult(plan.ColumnNames(), applyLimit(projected, plan.Limit)...), nil
}

// project rebuilds each block in output order under output names. Columns
// are shared with storage, not copied.
func project(plan *planner.QueryPlan, blocks []*columnar.Block) ([]*columnar.Block, error) {
	out := make([]*columnar.Block, 0, len(blocks))
	for _, b := range blocks {
		nb := columnar.NewBlock()
		for _, o := range plan.Outputs {
			col, err := b.ColumnByName(o.Column)
			if err != nil {
				return nil, err
			}
			nb.AddColumn(o.Name, col)
		}
		out = append(out, nb)
	}
	return out, nil
}

// applyLimit keeps the first limit rows. Only the block that straddles the
// limit is copied; earlier blocks pass through untouched.
func applyLimit(blocks []*columnar.Block, limit uint64) []*columnar.Block {
	if limit == 0 || limit > math.MaxInt {
		return blocks
	}

	remaining := int(limit)
	out := make([]*columnar.Block, 0, len(blocks))
	for _, b := range blocks {
		if remaining == 0 {
			break
		}
		rows := b.RowCount()
		if rows <= remaining {
			out = append(out, b)
			remaining -= rows
			continue
		}
		clipped := b.Clone()
		clipped.Truncate(remaining)
		out = append(out, clipped)
		remaining = 0
	}
	return out
}

func (e *Executor) executeShowTables() (*QueryResult, error) {
	names := columnar.NewVector[string](types.String)
	for _, name := range e.catalog.ListTables() {
		names.Append(name)
	}

	block := columnar.NewBlock()
	block.AddColumn("table_name", names)
	return rowsResult([]string{"table_name"}, block), nil
}

func (e *Executor) executeDescribe(stmt *parser.DescribeStatement) (*QueryResult, error) {
	st, err := e.lookup(stmt.Table)
	if err != nil {
		return nil, err
	}

	names := columnar.NewVector[string](types.String)
	typeNames := columnar.NewVector[string](types.String)
	for _, col := range st.Schema().Columns {
		names.Append(col.Name)
		typeNames.Append(col.Type.Name())
	}

	block := columnar.NewBlock()
	block.AddColumn("column_name", names)
	block.AddColumn("type", typeNames)
	return rowsResult([]string{"column_name", "type"}, block), nil
}

func (e *Executor) executeExplain(stmt *parser.ExplainStatement) (*QueryResult, error) {
	if stmt.Statement == nil {
		return nil, errors.New("EXPLAIN requires a SELECT statement")
	}
	st, err := e.lookup(stmt.Statement.Table)
	if err != nil {
		return nil, err
	}
	plan, err := e.planner.PlanSelect(stmt.Statement, st.Schema())
	if err != nil {
		return nil, err
	}

	props := append(plan.Properties(),
		[2]string{"engine", st.Name()},
		[2]string{"estimated_rows", fmt.Sprint(st.RowCount())},
	)

	keys := columnar.NewVector[string](types.String)
	values := columnar.NewVector[string](types.String)
	for _, p := range props {
		keys.Append(p[0])
		values.Append(p[1])
	}

	block := columnar.NewBlock()
	block.AddColumn("property", keys)
	block.AddColumn("value", values)
	return rowsResult([]string{"property", "value"}, block), nil
}

func (e *Executor) lookup(name string) (storage.Storage, error) {
	st, err := e.catalog.GetTable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: Table '%s' does not exist", dberr.ErrTableNotFound, name)
	}
	return st, nil
}
