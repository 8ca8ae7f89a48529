// Package parser implements a SQL parser that builds an Abstract Syntax Tree (AST).
//
// EDUCATIONAL NOTES:
// ------------------
// An Abstract Syntax Tree (AST) is a tree representation of the structure
// of source code. Each node in the tree represents a construct in the code.
//
// For example, the SQL:
//   SELECT city, AVG(score) AS s FROM users LIMIT 10
//
// Becomes an AST like:
//   SelectStatement
//   ├── Columns: [city, AVG(score) AS s]
//   ├── Table: users
//   └── Limit: 10
//
// This engine's AST is deliberately flat. Literals stay as text (the
// executor converts them once it knows the target column type), and the
// WHERE clause is kept as the raw source text because it is never
// evaluated.

package parser

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	node()
	String() string
}

// Statement represents a SQL statement.
type Statement interface {
	Node
	statement()
}

// Kind names a statement type for logs and metrics.
func Kind(stmt Statement) string {
	switch stmt.(type) {
	case *CreateTableStatement:
		return "create_table"
	case *InsertStatement:
		return "insert"
	case *SelectStatement:
		return "select"
	case *DropTableStatement:
		return "drop_table"
	case *ShowTablesStatement:
		return "show_tables"
	case *DescribeStatement:
		return "describe"
	case *ExplainStatement:
		return "explain"
	default:
		return "unknown"
	}
}

// ============================================================================
// Statements
// ============================================================================

// DefaultEngine is used when CREATE TABLE has no ENGINE clause.
const DefaultEngine = "Memory"

// CreateTableStatement represents a CREATE TABLE statement.
//
// Example: CREATE TABLE users (id UInt32, name String) ENGINE = Memory
type CreateTableStatement struct {
	Table   string
	Columns []ColumnDefinition
	Engine  string
}

func (s *CreateTableStatement) node()      {}
func (s *CreateTableStatement) statement() {}
func (s *CreateTableStatement) String() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.Name + " " + c.TypeName
	}
	return fmt.Sprintf("CREATE TABLE %s (%s) ENGINE = %s", s.Table, strings.Join(cols, ", "), s.Engine)
}

// ColumnDefinition is one column of a CREATE TABLE. TypeName is the type
// exactly as written, e.g. "Nullable(Int32)".
type ColumnDefinition struct {
	Name     string
	TypeName string
}

// InsertStatement represents an INSERT statement. An empty Columns list
// means every column in declared order.
//
// Example: INSERT INTO users (id, name) VALUES (1, 'a'), (2, 'b')
type InsertStatement struct {
	Table   string
	Columns []string
	Rows    [][]string
}

func (s *InsertStatement) node()      {}
func (s *InsertStatement) statement() {}
func (s *InsertStatement) String() string {
	cols := ""
	if len(s.Columns) > 0 {
		cols = " (" + strings.Join(s.Columns, ", ") + ")"
	}
	return fmt.Sprintf("INSERT INTO %s%s VALUES <%d rows>", s.Table, cols, len(s.Rows))
}

// AggregateFunc identifies an aggregate function.
type AggregateFunc int

const (
	AggNone AggregateFunc = iota
	AggCount
	AggSum
	AggAvg
	AggMin
	AggMax
)

var aggregateNames = map[AggregateFunc]string{
	AggCount: "COUNT",
	AggSum:   "SUM",
	AggAvg:   "AVG",
	AggMin:   "MIN",
	AggMax:   "MAX",
}

func (a AggregateFunc) String() string {
	return aggregateNames[a]
}

// LookupAggregate maps a function name (any case) to an aggregate.
func LookupAggregate(name string) (AggregateFunc, bool) {
	upper := strings.ToUpper(name)
	for fn, n := range aggregateNames {
		if n == upper {
			return fn, true
		}
	}
	return AggNone, false
}

// StarColumn is the operand of COUNT(*).
const StarColumn = "*"

// ColumnExpression is one item of a SELECT list: a column, or an aggregate
// over a column, with an optional alias.
type ColumnExpression struct {
	Column    string
	Aggregate AggregateFunc
	Alias     string
}

// IsAggregate reports whether the expression is an aggregate call.
func (e ColumnExpression) IsAggregate() bool { return e.Aggregate != AggNone }

// Expr renders the expression without its alias, e.g. "SUM(score)".
func (e ColumnExpression) Expr() string {
	if e.IsAggregate() {
		return fmt.Sprintf("%s(%s)", e.Aggregate, e.Column)
	}
	return e.Column
}

// OutputName is the alias if set, otherwise the expression text.
func (e ColumnExpression) OutputName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Expr()
}

func (e ColumnExpression) String() string {
	if e.Alias != "" {
		return e.Expr() + " AS " + e.Alias
	}
	return e.Expr()
}

// OrderByClause represents a single ORDER BY item.
type OrderByClause struct {
	Column     string
	Descending bool
}

// SelectStatement represents a SELECT query.
//
// Example: SELECT name, COUNT(*) FROM users WHERE age > 18 ORDER BY name LIMIT 10
type SelectStatement struct {
	SelectAll bool
	Columns   []ColumnExpression
	Table     string
	Where     string // raw text, not evaluated
	GroupBy   []string
	OrderBy   []OrderByClause
	Limit     uint64 // 0 means no limit
}

func (s *SelectStatement) node()      {}
func (s *SelectStatement) statement() {}
func (s *SelectStatement) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if s.SelectAll {
		sb.WriteString("*")
	} else {
		items := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			items[i] = c.String()
		}
		sb.WriteString(strings.Join(items, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.Table)
	if s.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where)
	}
	if len(s.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(s.GroupBy, ", "))
	}
	if len(s.OrderBy) > 0 {
		items := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			items[i] = o.Column
			if o.Descending {
				items[i] += " DESC"
			}
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(items, ", "))
	}
	if s.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", s.Limit)
	}
	return sb.String()
}

// HasAggregates reports whether any select item is an aggregate.
func (s *SelectStatement) HasAggregates() bool {
	for _, c := range s.Columns {
		if c.IsAggregate() {
			return true
		}
	}
	return false
}

// DropTableStatement represents a DROP TABLE statement.
//
// Example: DROP TABLE IF EXISTS users
type DropTableStatement struct {
	Table    string
	IfExists bool
}

func (s *DropTableStatement) node()      {}
func (s *DropTableStatement) statement() {}
func (s *DropTableStatement) String() string {
	if s.IfExists {
		return "DROP TABLE IF EXISTS " + s.Table
	}
	return "DROP TABLE " + s.Table
}

// ShowTablesStatement represents SHOW TABLES.
type ShowTablesStatement struct{}

func (s *ShowTablesStatement) node()          {}
func (s *ShowTablesStatement) statement()     {}
func (s *ShowTablesStatement) String() string { return "SHOW TABLES" }

// DescribeStatement represents DESCRIBE table (or DESC table).
type DescribeStatement struct {
	Table string
}

func (s *DescribeStatement) node()          {}
func (s *DescribeStatement) statement()     {}
func (s *DescribeStatement) String() string { return "DESCRIBE " + s.Table }

// ExplainStatement wraps a SELECT whose plan should be shown instead of run.
type ExplainStatement struct {
	Statement *SelectStatement
}

func (s *ExplainStatement) node()          {}
func (s *ExplainStatement) statement()     {}
func (s *ExplainStatement) String() string { return "EXPLAIN " + s.Statement.String() }
