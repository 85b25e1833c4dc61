package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Create and seed the SourceFlow schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, c := range []struct {
		command string
		short   string
	}{
		{database.MigrateUp, "Create the tables if they are absent"},
		{database.MigrateDown, "Roll back the most recent migration"},
		{database.MigrateStatus, "Print the status of every migration"},
		{database.MigrateVersion, "Print the current schema version"},
	} {
		command := c.command
		root.AddCommand(&cobra.Command{
			Use:   command,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.Config, db *sql.DB) error {
					if err := database.RunMigrations(db, cfg.Database.Driver, command); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "migrate %s completed\n", command)
					return nil
				})
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert the default statuses and demo customer into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.NewDatabase(&cfg.Database, zap.NewNop())
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := database.Seed(context.Background(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed completed")
			return nil
		},
	})

	return root
}

// withDB opens the configured database through database/sql for goose
func withDB(fn func(cfg *config.Config, db *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	driverName, err := database.SQLDriverName(cfg.Database.Driver)
	if err != nil {
		return err
	}

	db, err := sql.Open(driverName, database.DataSourceName(&cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return fn(cfg, db)
}
