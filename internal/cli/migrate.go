package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/adapters/turso"
	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
	"github.com/emiliopalmerini/billheat/internal/logging"
	"github.com/emiliopalmerini/billheat/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  billheat migrate      # Run all pending migrations
  billheat migrate 1    # Migrate to version 1
  billheat migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := turso.NewDB(*dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	m, err := migrate.New(db.DB, logging.New(os.Stderr, "info"))
	if err != nil {
		return err
	}

	current, dirty, err := m.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %d\n", current)

	if len(args) == 0 {
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(out, "No pending migrations")
		}
		return nil
	}

	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}
	if target == current {
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
	return m.To(ctx, target)
}
