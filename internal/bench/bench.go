// Package bench drives a synthetic analytics workload through a Database:
// batched inserts into a users table followed by a suite of aggregate and
// projection queries, all fanned out over a goroutine pool.
package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/cabewaldrop/lightoladb/internal/config"
	"github.com/cabewaldrop/lightoladb/internal/database"
)

// Table is the name of the table the workload writes.
const Table = "bench_users"

var cities = []string{"Berlin", "Lisbon", "Nairobi", "Osaka", "Quito", "Toronto", "Warsaw"}

// Queries is the read suite run after loading.
var Queries = []string{
	"SELECT COUNT(*) FROM " + Table,
	"SELECT SUM(age), AVG(score) FROM " + Table,
	"SELECT MIN(score), MAX(score) FROM " + Table,
	"SELECT MIN(id), MAX(id), COUNT(city) FROM " + Table,
	"SELECT id, name, city FROM " + Table + " LIMIT 100",
}

// QueryStats is the timing of one query of the suite.
type QueryStats struct {
	SQL   string
	Runs  int
	Rows  int
	Total time.Duration
}

// Mean is the average latency of one run.
func (q QueryStats) Mean() time.Duration {
	if q.Runs == 0 {
		return 0
	}
	return q.Total / time.Duration(q.Runs)
}

// Report summarizes a benchmark run.
type Report struct {
	Rows       int
	Batches    int
	Workers    int
	InsertTime time.Duration
	HeapGrowth uint64
	Queries    []QueryStats
}

// RowsPerSecond is the insert throughput.
func (r *Report) RowsPerSecond() float64 {
	if r.InsertTime <= 0 {
		return 0
	}
	return float64(r.Rows) / r.InsertTime.Seconds()
}

// Write prints the report.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Inserted %s rows in %s batches with %d workers in %s (%s rows/s, heap +%s)\n",
		humanize.Comma(int64(r.Rows)), humanize.Comma(int64(r.Batches)), r.Workers,
		r.InsertTime.Round(time.Millisecond), humanize.Commaf(float64(int64(r.RowsPerSecond()))),
		humanize.Bytes(r.HeapGrowth))
	for _, q := range r.Queries {
		fmt.Fprintf(w, "  %-12s x%-4d %8s rows  %s\n",
			q.Mean().Round(time.Microsecond), q.Runs, humanize.Comma(int64(q.Rows)), q.SQL)
	}
}

// Runner executes the workload.
type Runner struct {
	db  *database.Database
	cfg config.BenchConfig
	log logrus.FieldLogger
}

// NewRunner creates a runner for db.
func NewRunner(db *database.Database, cfg config.BenchConfig, log logrus.FieldLogger) *Runner {
	return &Runner{db: db, cfg: cfg, log: log}
}

// Run recreates the table, loads it and runs the query suite.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.cfg.BatchSize <= 0 || r.cfg.Workers <= 0 {
		return nil, fmt.Errorf("bench: batch size and workers must be positive")
	}

	for _, sql := range []string{
		"DROP TABLE IF EXISTS " + Table,
		"CREATE TABLE " + Table + " (id UInt32, name String, age UInt8, score Float64, city String, active UInt8)",
	} {
		if res := r.db.Query(sql); !res.Success {
			return nil, fmt.Errorf("bench setup: %w", res.Err)
		}
	}

	pool, err := ants.NewPool(r.cfg.Workers, ants.WithPanicHandler(func(v any) {
		r.log.WithField("panic", v).Error("bench worker panic")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	report := &Report{Workers: r.cfg.Workers}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	batches, err := r.load(ctx, pool)
	report.InsertTime = time.Since(start)
	if err != nil {
		return nil, err
	}
	runtime.ReadMemStats(&after)
	if after.HeapAlloc > before.HeapAlloc {
		report.HeapGrowth = after.HeapAlloc - before.HeapAlloc
	}
	report.Rows = r.cfg.Rows
	report.Batches = batches

	r.log.WithFields(logrus.Fields{
		"rows":    report.Rows,
		"batches": batches,
		"elapsed": report.InsertTime,
	}).Info("bench load finished")

	for _, sql := range Queries {
		stats, err := r.query(ctx, pool, sql)
		if err != nil {
			return nil, err
		}
		report.Queries = append(report.Queries, stats)
	}
	return report, nil
}

// load inserts cfg.Rows rows in batches and returns the number of batches.
func (r *Runner) load(ctx context.Context, pool *ants.Pool) (int, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		batches  int
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for offset := 0; offset < r.cfg.Rows; offset += r.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			setErr(err)
			break
		}
		n := min(r.cfg.BatchSize, r.cfg.Rows-offset)
		sql := InsertStatement(offset, n)
		batches++

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if res := r.db.Query(sql); !res.Success {
				setErr(fmt.Errorf("insert batch at row %d: %w", offset, res.Err))
			}
		})
		if err != nil {
			wg.Done()
			setErr(fmt.Errorf("failed to submit batch: %w", err))
			break
		}
	}
	wg.Wait()
	return batches, firstErr
}

// query runs sql cfg.Queries times across the pool. It always waits for
// submitted runs before returning stats.
func (r *Runner) query(ctx context.Context, pool *ants.Pool, sql string) (QueryStats, error) {
	runs := max(r.cfg.Queries, 1)
	stats := QueryStats{SQL: sql, Runs: runs}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			setErr(err)
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			res := r.db.Query(sql)
			if !res.Success {
				setErr(fmt.Errorf("query %q: %w", sql, res.Err))
				return
			}

			mu.Lock()
			defer mu.Unlock()
			stats.Total += res.Elapsed
			stats.Rows = res.RowCount()
		})
		if err != nil {
			wg.Done()
			setErr(fmt.Errorf("failed to submit query: %w", err))
			break
		}
	}
	wg.Wait()
	return stats, firstErr
}

// InsertStatement builds one INSERT for rows [offset, offset+n). Rows are a
// pure function of their id, so reruns load identical data.
func InsertStatement(offset, n int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO " + Table + " VALUES ")
	for i := 0; i < n; i++ {
		id := offset + i
		rng := rand.New(rand.NewSource(int64(id)))
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%d, 'user_%d', %d, %.3f, '%s', %d)",
			id, id, 18+rng.Intn(60), rng.Float64()*100, cities[rng.Intn(len(cities))], rng.Intn(2))
	}
	return sb.String()
}
