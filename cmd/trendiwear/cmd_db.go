package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PascalSeth/trendiwear/database/seeders"
	"github.com/PascalSeth/trendiwear/pkg/app"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.BootDB(); err != nil {
			return err
		}
		applied, err := migration.New(database.DB, nil).Run(cmd.Context())
		for _, name := range applied {
			fmt.Println("migrated:", name)
		}
		if err == nil && len(applied) == 0 {
			fmt.Println("nothing to migrate")
		}
		return err
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.BootDB(); err != nil {
			return err
		}
		reverted, err := migration.New(database.DB, nil).Rollback(cmd.Context())
		for _, name := range reverted {
			fmt.Println("rolled back:", name)
		}
		if err == nil && len(reverted) == 0 {
			fmt.Println("nothing to roll back")
		}
		return err
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show which migrations have run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.BootDB(); err != nil {
			return err
		}
		rows, err := migration.New(database.DB, nil).Status(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range rows {
			batch := "-"
			if s.Ran {
				batch = fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%v\t%s\n", s.Name, s.Ran, batch)
		}
		return w.Flush()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.BootDB(); err != nil {
			return err
		}
		if err := seeders.RunAll(cmd.Context(), database.DB); err != nil {
			return err
		}
		fmt.Println("seeding complete")
		return nil
	},
}
