package main

import (
	"github.com/spf13/cobra"

	"github.com/cabewaldrop/lightoladb/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var rows, batchSize, workers, queries int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load synthetic rows and time a query suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Bench
			flags := cmd.Flags()
			if flags.Changed("rows") {
				cfg.Rows = rows
			}
			if flags.Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("queries") {
				cfg.Queries = queries
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			report, err := bench.NewRunner(db, cfg, a.log).Run(cmd.Context())
			if err != nil {
				return err
			}
			report.Write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 100000, "rows to insert (overrides bench.rows)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1000, "rows per INSERT (overrides bench.batch_size)")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent workers (overrides bench.workers)")
	cmd.Flags().IntVar(&queries, "queries", 20, "runs per query (overrides bench.queries)")
	return cmd
}
