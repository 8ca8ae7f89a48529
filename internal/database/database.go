// Package database is the embeddable entry point: it parses SQL text, runs
// it on an executor and records logs and metrics for every statement.
//
// EDUCATIONAL NOTES:
// ------------------
// The executor owns a plain map of tables and takes no locks. Database
// puts a readers/writer lock in front of it: CREATE and DROP change the
// table map and run alone, everything else only reads the map and may run
// in parallel. Concurrent INSERTs into one table are serialized by that
// table's storage engine.
//
// Parsing is cheap but not free, and dashboards send the same SELECT over
// and over. Parsed statements are immutable, so they are kept in an LRU
// cache keyed by the SQL text.

package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/cabewaldrop/lightoladb/internal/config"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/metrics"
	"github.com/cabewaldrop/lightoladb/internal/sql/executor"
	"github.com/cabewaldrop/lightoladb/internal/sql/parser"
)

// Result is the outcome of one Query call.
type Result struct {
	*executor.QueryResult

	QueryID string
	Kind    string
	Elapsed time.Duration
}

// Database is safe for concurrent use.
type Database struct {
	mu    sync.RWMutex
	exec  *executor.Executor
	cache *lru.Cache[string, parser.Statement]

	log       logrus.FieldLogger
	cacheSize int
	slowQuery time.Duration
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger for the database and its executor.
func WithLogger(log logrus.FieldLogger) Option {
	return func(db *Database) { db.log = log }
}

// WithStatementCacheSize sets how many parsed statements are kept. Zero
// disables the cache.
func WithStatementCacheSize(n int) Option {
	return func(db *Database) { db.cacheSize = n }
}

// WithSlowQueryThreshold logs statements slower than d at info level. Zero
// disables slow query logging.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(db *Database) { db.slowQuery = d }
}

// New creates an empty database.
func New(opts ...Option) (*Database, error) {
	db := &Database{
		log:       logrus.StandardLogger(),
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt(db)
	}

	if db.cacheSize < 0 {
		return nil, fmt.Errorf("statement cache size must not be negative, got %d", db.cacheSize)
	}
	if db.cacheSize > 0 {
		cache, err := lru.New[string, parser.Statement](db.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create statement cache: %w", err)
		}
		db.cache = cache
	}

	db.exec = executor.New(executor.WithLogger(db.log))
	return db, nil
}

// Open creates a database from configuration.
func Open(cfg config.DatabaseConfig, log logrus.FieldLogger) (*Database, error) {
	return New(
		WithLogger(log),
		WithStatementCacheSize(cfg.StatementCacheSize),
		WithSlowQueryThreshold(cfg.SlowQuery),
	)
}

// Query parses and executes one statement. It never returns nil.
func (db *Database) Query(sql string) *Result {
	start := time.Now()
	res := &Result{QueryID: uuid.NewString(), Kind: "unknown"}

	stmt, err := db.parse(sql)
	if err != nil {
		res.QueryResult = executor.Failure(err)
	} else {
		res.Kind = parser.Kind(stmt)
		res.QueryResult = db.Exec(stmt)
	}
	res.Elapsed = time.Since(start)

	db.record(stmt, res)
	return res
}

// Exec runs an already parsed statement under the appropriate lock.
func (db *Database) Exec(stmt parser.Statement) (result *executor.QueryResult) {
	if isDDL(stmt) {
		db.mu.Lock()
		defer db.mu.Unlock()
		defer func() { metrics.Tables.Set(float64(db.exec.Catalog().Len())) }()
	} else {
		db.mu.RLock()
		defer db.mu.RUnlock()
	}

	defer func() {
		if r := recover(); r != nil {
			db.log.WithField("panic", r).Error("statement panicked")
			result = executor.Failure(fmt.Errorf("internal error: %v", r))
		}
	}()

	return db.exec.Execute(stmt)
}

// Tables returns the table names, sorted.
func (db *Database) Tables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.exec.GetTables()
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name string `json:"name" codec:"name"`
	Type string `json:"type" codec:"type"`
}

// TableInfo describes a table and its current size.
type TableInfo struct {
	Name    string       `json:"name" codec:"name"`
	Engine  string       `json:"engine" codec:"engine"`
	Rows    int          `json:"rows" codec:"rows"`
	Columns []ColumnInfo `json:"columns" codec:"columns"`
}

// Table describes the named table.
func (db *Database) Table(name string) (*TableInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	st, err := db.exec.Catalog().GetTable(name)
	if err != nil {
		return nil, err
	}
	info := &TableInfo{Name: name, Engine: st.Name(), Rows: st.RowCount()}
	for _, col := range st.Schema().Columns {
		info.Columns = append(info.Columns, ColumnInfo{Name: col.Name, Type: col.Type.Name()})
	}
	return info, nil
}

func (db *Database) parse(sql string) (parser.Statement, error) {
	if db.cache != nil {
		if stmt, ok := db.cache.Get(sql); ok {
			metrics.StatementCache.WithLabelValues("hit").Inc()
			return stmt, nil
		}
		metrics.StatementCache.WithLabelValues("miss").Inc()
	}

	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	if db.cache != nil {
		db.cache.Add(sql, stmt)
	}
	return stmt, nil
}

func (db *Database) record(stmt parser.Statement, res *Result) {
	status := "ok"
	if !res.Success {
		status = "error"
		metrics.StatementErrors.WithLabelValues(dberr.Classify(res.Err).String()).Inc()
	}
	metrics.StatementsTotal.WithLabelValues(res.Kind, status).Inc()
	metrics.StatementDuration.WithLabelValues(res.Kind).Observe(res.Elapsed.Seconds())

	if res.Success {
		switch s := stmt.(type) {
		case *parser.InsertStatement:
			metrics.RowsInserted.Add(float64(len(s.Rows)))
		case *parser.SelectStatement:
			metrics.RowsReturned.Add(float64(res.RowCount()))
		}
	}

	entry := db.log.WithFields(logrus.Fields{
		"query_id": res.QueryID,
		"kind":     res.Kind,
		"elapsed":  res.Elapsed,
		"rows":     res.RowCount(),
	})
	switch {
	case !res.Success:
		entry.WithField("category", dberr.Classify(res.Err).String()).Warn(res.ErrorMessage)
	case db.slowQuery > 0 && res.Elapsed >= db.slowQuery:
		entry.Info("slow query")
	default:
		entry.Debug("statement executed")
	}
}

func isDDL(stmt parser.Statement) bool {
	switch stmt.(type) {
	case *parser.CreateTableStatement, *parser.DropTableStatement:
		return true
	}
	return false
}
