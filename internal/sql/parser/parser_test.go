package parser

import (
	"errors"
	"reflect"
	"testing"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/sql/lexer"
)

func mustParse(t *testing.T, input string) Statement {
	t.Helper()
	stmt, err := New(lexer.New(input)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", input, err)
	}
	return stmt
}

func TestParseSelect(t *testing.T) {
	tests := []struct {
		input      string
		selectAll  bool
		expectCols int
		expectFrom string
	}{
		{"SELECT * FROM users", true, 0, "users"},
		{"SELECT name FROM users", false, 1, "users"},
		{"SELECT name, age FROM users", false, 2, "users"},
		{"select id, name, age from people;", false, 3, "people"},
	}

	for _, tt := range tests {
		sel, ok := mustParse(t, tt.input).(*SelectStatement)
		if !ok {
			t.Errorf("Parse(%q) expected SelectStatement", tt.input)
			continue
		}

		if sel.SelectAll != tt.selectAll {
			t.Errorf("Parse(%q) SelectAll = %v", tt.input, sel.SelectAll)
		}
		if len(sel.Columns) != tt.expectCols {
			t.Errorf("Parse(%q) expected %d columns, got %d", tt.input, tt.expectCols, len(sel.Columns))
		}
		if sel.Table != tt.expectFrom {
			t.Errorf("Parse(%q) expected FROM %q, got %q", tt.input, tt.expectFrom, sel.Table)
		}
	}
}

func TestParseSelectAggregates(t *testing.T) {
	sel := mustParse(t, "SELECT COUNT(*), sum(score) AS total, Avg(age), MIN(id), MAX(id) AS top, city FROM users").(*SelectStatement)

	expected := []ColumnExpression{
		{Column: "*", Aggregate: AggCount},
		{Column: "score", Aggregate: AggSum, Alias: "total"},
		{Column: "age", Aggregate: AggAvg},
		{Column: "id", Aggregate: AggMin},
		{Column: "id", Aggregate: AggMax, Alias: "top"},
		{Column: "city"},
	}
	if !reflect.DeepEqual(sel.Columns, expected) {
		t.Fatalf("columns:\n got %+v\nwant %+v", sel.Columns, expected)
	}
	if !sel.HasAggregates() {
		t.Error("HasAggregates() = false")
	}

	names := []string{"COUNT(*)", "total", "AVG(age)", "MIN(id)", "top", "city"}
	for i, c := range sel.Columns {
		if c.OutputName() != names[i] {
			t.Errorf("column %d: OutputName %q, want %q", i, c.OutputName(), names[i])
		}
	}
}

func TestParseSelectClauses(t *testing.T) {
	input := "SELECT id FROM t WHERE id = 1 AND name <> 'x' GROUP BY city, age ORDER BY id DESC, name LIMIT 10"
	sel := mustParse(t, input).(*SelectStatement)

	if sel.Where != "id = 1 AND name <> 'x'" {
		t.Errorf("Where = %q", sel.Where)
	}
	if !reflect.DeepEqual(sel.GroupBy, []string{"city", "age"}) {
		t.Errorf("GroupBy = %v", sel.GroupBy)
	}
	expectedOrder := []OrderByClause{{Column: "id", Descending: true}, {Column: "name"}}
	if !reflect.DeepEqual(sel.OrderBy, expectedOrder) {
		t.Errorf("OrderBy = %+v", sel.OrderBy)
	}
	if sel.Limit != 10 {
		t.Errorf("Limit = %d", sel.Limit)
	}
}

func TestParseSelectWhereOnly(t *testing.T) {
	sel := mustParse(t, "SELECT id FROM t WHERE (id >= 1) ;").(*SelectStatement)
	if sel.Where != "(id >= 1)" {
		t.Errorf("Where = %q", sel.Where)
	}
	if sel.Limit != 0 {
		t.Errorf("Limit = %d, want 0", sel.Limit)
	}
}

func TestParseCreateTable(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE users (id UInt32, name String, score Nullable(Float64), d Decimal(10, 2))")
	create, ok := stmt.(*CreateTableStatement)
	if !ok {
		t.Fatalf("expected CreateTableStatement, got %T", stmt)
	}

	if create.Table != "users" {
		t.Errorf("Table = %q", create.Table)
	}
	if create.Engine != "Memory" {
		t.Errorf("Engine = %q, want default Memory", create.Engine)
	}

	expected := []ColumnDefinition{
		{Name: "id", TypeName: "UInt32"},
		{Name: "name", TypeName: "String"},
		{Name: "score", TypeName: "Nullable(Float64)"},
		{Name: "d", TypeName: "Decimal(10, 2)"},
	}
	if !reflect.DeepEqual(create.Columns, expected) {
		t.Errorf("columns:\n got %+v\nwant %+v", create.Columns, expected)
	}
}

func TestParseCreateTableEngine(t *testing.T) {
	for _, input := range []string{
		"CREATE TABLE t (x Int8) ENGINE = Memory",
		"CREATE TABLE t (x Int8) engine Memory",
	} {
		create := mustParse(t, input).(*CreateTableStatement)
		if create.Engine != "Memory" {
			t.Errorf("%q: Engine = %q", input, create.Engine)
		}
	}

	create := mustParse(t, "CREATE TABLE t (x Nullable(Nullable(Int8))) ENGINE = Log").(*CreateTableStatement)
	if create.Engine != "Log" || create.Columns[0].TypeName != "Nullable(Nullable(Int8))" {
		t.Errorf("unexpected %+v", create)
	}
}

func TestParseInsert(t *testing.T) {
	stmt := mustParse(t, `INSERT INTO users (id, name) VALUES (1, 'a'), (-2, "b c"), (3.5, NULL)`)
	ins, ok := stmt.(*InsertStatement)
	if !ok {
		t.Fatalf("expected InsertStatement, got %T", stmt)
	}

	if ins.Table != "users" {
		t.Errorf("Table = %q", ins.Table)
	}
	if !reflect.DeepEqual(ins.Columns, []string{"id", "name"}) {
		t.Errorf("Columns = %v", ins.Columns)
	}
	expected := [][]string{{"1", "a"}, {"-2", "b c"}, {"3.5", "NULL"}}
	if !reflect.DeepEqual(ins.Rows, expected) {
		t.Errorf("Rows = %v", ins.Rows)
	}
}

func TestParseInsertWithoutColumns(t *testing.T) {
	ins := mustParse(t, "insert into t values (1, 'it''s', true, abc)").(*InsertStatement)
	if len(ins.Columns) != 0 {
		t.Errorf("Columns = %v, want empty", ins.Columns)
	}
	if !reflect.DeepEqual(ins.Rows, [][]string{{"1", "it's", "true", "abc"}}) {
		t.Errorf("Rows = %v", ins.Rows)
	}
}

func TestParseDrop(t *testing.T) {
	drop := mustParse(t, "DROP TABLE users").(*DropTableStatement)
	if drop.Table != "users" || drop.IfExists {
		t.Errorf("unexpected %+v", drop)
	}

	drop = mustParse(t, "DROP TABLE IF EXISTS users").(*DropTableStatement)
	if drop.Table != "users" || !drop.IfExists {
		t.Errorf("unexpected %+v", drop)
	}
}

func TestParseShowAndDescribe(t *testing.T) {
	if _, ok := mustParse(t, "SHOW TABLES").(*ShowTablesStatement); !ok {
		t.Error("expected ShowTablesStatement")
	}

	for _, input := range []string{"DESCRIBE users", "desc users;"} {
		desc, ok := mustParse(t, input).(*DescribeStatement)
		if !ok || desc.Table != "users" {
			t.Errorf("%q: unexpected %#v", input, desc)
		}
	}
}

func TestParseExplain(t *testing.T) {
	explain, ok := mustParse(t, "EXPLAIN SELECT COUNT(*) FROM t").(*ExplainStatement)
	if !ok {
		t.Fatal("expected ExplainStatement")
	}
	if explain.Statement.Table != "t" || !explain.Statement.HasAggregates() {
		t.Errorf("unexpected inner statement %+v", explain.Statement)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"UPDATE t SET x = 1",
		"SELECT FROM t",
		"SELECT SUM(*) FROM t",
		"SELECT MEDIAN(x) FROM t",
		"SELECT x FROM",
		"SELECT x FROM t WHERE",
		"SELECT x FROM t LIMIT -1",
		"SELECT x FROM t LIMIT abc",
		"CREATE TABLE t ()",
		"CREATE TABLE t (id)",
		"CREATE TABLE t (id Nullable(Int8)",
		"INSERT INTO t VALUES ()",
		"INSERT INTO t VALUES (1,)",
		"INSERT INTO t (a, b VALUES (1, 2)",
		"INSERT INTO t VALUES ('unterminated)",
		"DROP TABLE IF users",
		"SHOW t",
		"SELECT x FROM t garbage",
	}

	for _, input := range tests {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) expected error", input)
			continue
		}
		if !errors.Is(err, dberr.ErrParse) {
			t.Errorf("Parse(%q) error %v does not wrap ErrParse", input, err)
		}
	}
}

func TestStatementStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"select a as x, count(*) from t where a > 1 order by a desc limit 3",
			"SELECT a AS x, COUNT(*) FROM t WHERE a > 1 ORDER BY a DESC LIMIT 3"},
		{"create table t (a Int8)", "CREATE TABLE t (a Int8) ENGINE = Memory"},
		{"drop table if exists t", "DROP TABLE IF EXISTS t"},
		{"desc t", "DESCRIBE t"},
	}

	for _, tt := range tests {
		if got := mustParse(t, tt.input).String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestKind(t *testing.T) {
	if k := Kind(mustParse(t, "SHOW TABLES")); k != "show_tables" {
		t.Errorf("Kind = %q", k)
	}
	if k := Kind(mustParse(t, "SELECT * FROM t")); k != "select" {
		t.Errorf("Kind = %q", k)
	}
}
