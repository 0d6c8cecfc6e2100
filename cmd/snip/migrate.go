package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snip/internal/config"
	"snip/internal/store"
)

func newMigrateCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	var inspect bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cfg.ResolveDBPath(opts.dbPath)
			if err != nil {
				return err
			}

			if !inspect {
				st, err := store.Open(path, opts.logger)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := st.Close(); err != nil {
					return err
				}
			}

			conn, err := store.OpenConn(path)
			if err != nil {
				return err
			}
			defer conn.Close()

			plan, err := store.MigrationPlan(conn)
			if err != nil {
				return fmt.Errorf("inspect migrations: %w", err)
			}
			if opts.jsonOutput {
				return writeJSON(plan)
			}
			if !inspect {
				return writePlain("Migrations applied; schema version %d.\n", plan.CurrentVersion)
			}
			return writeMigrationPlan(plan)
		},
	}

	cmd.Flags().BoolVar(&inspect, "inspect", false, "show migration status without applying")
	return cmd
}

func writeMigrationPlan(plan *store.MigrationStatus) error {
	if err := writePlain("Current version: %d\nAvailable version: %d\n", plan.CurrentVersion, plan.AvailableVersion); err != nil {
		return err
	}
	if len(plan.Pending) == 0 {
		return writePlain("No pending migrations.\n")
	}
	if err := writePlain("Pending migrations: %d\n", len(plan.Pending)); err != nil {
		return err
	}
	for _, m := range plan.Pending {
		if err := writePlain("  %d: %s\n", m.Version, m.Description); err != nil {
			return err
		}
	}
	return nil
}
