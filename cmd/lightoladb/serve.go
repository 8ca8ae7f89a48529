package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cabewaldrop/lightoladb/internal/database"
	"github.com/cabewaldrop/lightoladb/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr       string
		initSQL    []string
		statsEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the database over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			for _, sql := range initSQL {
				if res := db.Query(sql); !res.Success {
					return fmt.Errorf("init statement %q: %w", sql, res.Err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			srv := web.NewServer(a.cfg.Server, db, a.log)
			g.Go(func() error {
				return srv.Run(ctx)
			})
			if statsEvery > 0 {
				g.Go(func() error {
					ticker := time.NewTicker(statsEvery)
					defer ticker.Stop()
					for {
						select {
						case <-ctx.Done():
							return nil
						case <-ticker.C:
							logStats(a.log, db)
						}
					}
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides server.addr)")
	cmd.Flags().StringArrayVar(&initSQL, "init", nil, "statement to run before serving (repeatable)")
	cmd.Flags().DurationVar(&statsEvery, "stats-interval", time.Minute, "how often to log database stats, 0 disables")
	return cmd
}

// logStats logs the table count and the total number of stored rows.
func logStats(log logrus.FieldLogger, db *database.Database) {
	tables := db.Tables()
	rows := 0
	for _, name := range tables {
		// A table dropped since Tables() returned is skipped.
		if info, err := db.Table(name); err == nil {
			rows += info.Rows
		}
	}
	log.WithFields(logrus.Fields{"tables": len(tables), "rows": rows}).Info("database stats")
}
