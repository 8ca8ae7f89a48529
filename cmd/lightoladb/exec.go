package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute one SQL statement and print the result",
		Example: `  lightoladb exec "SHOW TABLES"
  lightoladb exec SELECT COUNT\(\*\) FROM t`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}

			res := db.Query(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			if !res.Success {
				return errors.New("statement failed")
			}
			return nil
		},
	}
}
