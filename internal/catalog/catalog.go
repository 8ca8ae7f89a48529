// Package catalog manages the database catalog (the registry of tables).
//
// EDUCATIONAL NOTES:
// ------------------
// Every database has a "catalog" that answers "which tables exist and
// where is their data?". In PostgreSQL this lives in system tables such as
// pg_class; SQLite keeps it in sqlite_master.
//
// Our catalog is a plain map from table name to the Storage engine that
// holds the table's blocks. It is owned by a single Executor and is not
// synchronized: concurrent CREATE/DROP against one catalog must be
// serialized by the caller.

package catalog

import (
	"fmt"
	"sort"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/storage"
)

// Catalog maps table names to their storage.
type Catalog struct {
	tables map[string]storage.Storage
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]storage.Storage)}
}

// AddTable registers a new table in the catalog.
func (c *Catalog) AddTable(name string, s storage.Storage) error {
	if _, exists := c.tables[name]; exists {
		return fmt.Errorf("%w: '%s'", dberr.ErrTableAlreadyExists, name)
	}
	c.tables[name] = s
	return nil
}

// RemoveTable removes a table from the catalog.
func (c *Catalog) RemoveTable(name string) error {
	if _, exists := c.tables[name]; !exists {
		return fmt.Errorf("%w: '%s'", dberr.ErrTableNotFound, name)
	}
	delete(c.tables, name)
	return nil
}

// GetTable returns the storage of a table.
func (c *Catalog) GetTable(name string) (storage.Storage, error) {
	s, exists := c.tables[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", dberr.ErrTableNotFound, name)
	}
	return s, nil
}

// HasTable reports whether a table is registered.
func (c *Catalog) HasTable(name string) bool {
	_, exists := c.tables[name]
	return exists
}

// ListTables returns all table names, sorted.
func (c *Catalog) ListTables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (c *Catalog) Len() int { return len(c.tables) }
