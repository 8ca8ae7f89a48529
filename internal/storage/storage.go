// Package storage defines the table storage engine abstraction and its
// in-memory implementation.
//
// EDUCATIONAL NOTES:
// ------------------
// Each table owns exactly one Storage. The executor never touches column
// data directly; it hands Blocks to Insert and gets Blocks back from Read.
// That seam is where a disk-backed engine would plug in.
//
// Only the Memory engine exists. It keeps an append-only list of Blocks:
// there is no UPDATE or DELETE, so a stored Block is never modified again.

package storage

import (
	"fmt"
	"sort"

	"github.com/cabewaldrop/lightoladb/internal/columnar"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/table"
)

// EngineMemory is the name of the in-memory engine.
const EngineMemory = "Memory"

// Storage holds the data of one table.
type Storage interface {
	// Name returns the engine name, e.g. "Memory".
	Name() string

	Schema() *table.Schema

	// Insert appends a block whose columns match the schema exactly, in
	// order. The engine keeps the block; callers must not modify it after.
	Insert(block *columnar.Block) error

	// ReadAll returns every stored block with all columns.
	ReadAll() ([]*columnar.Block, error)

	// Read returns every stored block restricted to the named columns, in
	// the order given. Returned columns are shared with storage.
	Read(columnNames []string) ([]*columnar.Block, error)

	// RowCount returns the number of stored rows.
	RowCount() int
}

// Factory builds an engine for a schema.
type Factory func(schema *table.Schema) Storage

var engines = map[string]Factory{
	EngineMemory: func(schema *table.Schema) Storage { return NewMemory(schema) },
}

// New creates a storage engine by name.
func New(engine string, schema *table.Schema) (Storage, error) {
	factory, ok := engines[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dberr.ErrUnknownEngine, engine)
	}
	return factory(schema), nil
}

// Engines lists the registered engine names.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
