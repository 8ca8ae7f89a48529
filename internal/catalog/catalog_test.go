package catalog

import (
	"errors"
	"testing"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/storage"
	"github.com/cabewaldrop/lightoladb/internal/table"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

func newStorage(t *testing.T, name string) storage.Storage {
	t.Helper()
	schema := table.NewSchema(name)
	if err := schema.AddColumn("id", types.Int64); err != nil {
		t.Fatal(err)
	}
	return storage.NewMemory(schema)
}

func TestCatalogNewDatabase(t *testing.T) {
	cat := NewCatalog()

	// New database should have no tables
	tables := cat.ListTables()
	if len(tables) != 0 {
		t.Errorf("New database should have no tables, got %d", len(tables))
	}
}

func TestCatalogAddTable(t *testing.T) {
	cat := NewCatalog()

	if err := cat.AddTable("users", newStorage(t, "users")); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if err := cat.AddTable("events", newStorage(t, "events")); err != nil {
		t.Fatalf("AddTable: %v", err)
	}

	tables := cat.ListTables()
	if len(tables) != 2 || tables[0] != "events" || tables[1] != "users" {
		t.Errorf("expected sorted [events users], got %v", tables)
	}

	s, err := cat.GetTable("users")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if s.Schema().Name != "users" {
		t.Errorf("expected users storage, got %s", s.Schema().Name)
	}
}

func TestCatalogDuplicateTable(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddTable("users", newStorage(t, "users")); err != nil {
		t.Fatal(err)
	}

	err := cat.AddTable("users", newStorage(t, "users"))
	if !errors.Is(err, dberr.ErrTableAlreadyExists) {
		t.Errorf("expected ErrTableAlreadyExists, got %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("expected 1 table, got %d", cat.Len())
	}
}

func TestCatalogRemoveTable(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddTable("users", newStorage(t, "users")); err != nil {
		t.Fatal(err)
	}

	if err := cat.RemoveTable("users"); err != nil {
		t.Fatalf("RemoveTable: %v", err)
	}
	if cat.HasTable("users") {
		t.Error("table should be gone")
	}

	if err := cat.RemoveTable("users"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
	if _, err := cat.GetTable("users"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}
