package table

import (
	"errors"
	"testing"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

func newUsersSchema(t *testing.T) *Schema {
	t.Helper()
	schema := NewSchema("users")
	for _, c := range []struct{ name, typ string }{
		{"id", "UInt32"},
		{"name", "String"},
		{"score", "Nullable(Float64)"},
	} {
		if err := schema.AddColumn(c.name, types.MustResolve(c.typ)); err != nil {
			t.Fatalf("AddColumn(%s): %v", c.name, err)
		}
	}
	return schema
}

func TestNewSchema(t *testing.T) {
	schema := newUsersSchema(t)

	if schema.ColumnCount() != 3 {
		t.Errorf("expected 3 columns, got %d", schema.ColumnCount())
	}

	// Test column lookup
	idx, ok := schema.GetColumnIndex("name")
	if !ok || idx != 1 {
		t.Errorf("expected name at index 1, got %d, ok=%v", idx, ok)
	}

	if _, ok := schema.GetColumnIndex("missing"); ok {
		t.Error("expected missing column lookup to fail")
	}

	names := schema.ColumnNames()
	if len(names) != 3 || names[0] != "id" || names[2] != "score" {
		t.Errorf("unexpected column names %v", names)
	}
}

func TestDuplicateColumn(t *testing.T) {
	schema := newUsersSchema(t)
	err := schema.AddColumn("id", types.Int64)
	if !errors.Is(err, dberr.ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
	if schema.ColumnCount() != 3 {
		t.Errorf("duplicate column must not be added")
	}
}

func TestGetColumn(t *testing.T) {
	schema := newUsersSchema(t)

	col, err := schema.GetColumn("score")
	if err != nil {
		t.Fatalf("GetColumn: %v", err)
	}
	if col.Type.Name() != "Nullable(Float64)" {
		t.Errorf("expected Nullable(Float64), got %s", col.Type.Name())
	}

	if _, err := schema.GetColumn("nope"); !errors.Is(err, dberr.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
	if schema.HasColumn("nope") {
		t.Error("HasColumn(nope) = true")
	}
}

func TestSchemaNewBlock(t *testing.T) {
	schema := newUsersSchema(t)

	block, err := schema.NewBlock()
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	if block.ColumnCount() != 3 || block.RowCount() != 0 {
		t.Fatalf("expected empty 3-column block, got %d columns %d rows", block.ColumnCount(), block.RowCount())
	}
	for i, c := range block.Columns() {
		if !types.Equal(c.Column.Type(), schema.Columns[i].Type) {
			t.Errorf("column %d: type %s, want %s", i, c.Column.Type().Name(), schema.Columns[i].Type.Name())
		}
	}
}

func TestSchemaNewBlockUnsupported(t *testing.T) {
	schema := NewSchema("t")
	if err := schema.AddColumn("x", types.MustResolve("Nullable(Nullable(Int8))")); err != nil {
		t.Fatal(err)
	}
	if _, err := schema.NewBlock(); !errors.Is(err, dberr.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}
